package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newClientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Inspect and remove registered clients",
	}
	cmd.AddCommand(newClientsListCmd(), newClientsDeleteCmd())
	return cmd
}

func newClientsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered clients, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openOperatorEnv(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			svc := &service.ClientAdminService{Clients: env.db.Clients()}
			clients, err := svc.ListClients(cmd.Context())
			if err != nil {
				return err
			}
			if len(clients) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No clients registered")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"CLIENT ID", "NAME", "AUTH METHOD", "SCOPES", "CREATED", ""})
			for _, c := range clients {
				var flag string
				if c.Protected {
					flag = "protected"
				}
				t.AppendRow(table.Row{
					c.ClientID,
					c.ClientName,
					c.TokenEndpointAuthMethod,
					strings.Join(c.Scopes, " "),
					c.CreatedAt.UTC().Format(time.RFC3339),
					flag,
				})
			}
			t.Render()
			return nil
		},
	}
}

func newClientsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete CLIENT_ID",
		Short: "Delete a registered client",
		Long: `Deletes a client so its credentials and registration access token stop
working. Tokens already issued stay valid until they expire. The bootstrap
client cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openOperatorEnv(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			svc := &service.ClientAdminService{Clients: env.db.Clients()}
			switch err := svc.DeleteClient(cmd.Context(), args[0]); {
			case errors.Is(err, service.ErrClientNotFound):
				return fmt.Errorf("no client with id %q", args[0])
			case errors.Is(err, service.ErrClientProtected):
				return fmt.Errorf("client %q is the bootstrap client and cannot be deleted", args[0])
			case err != nil:
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted client %s\n", args[0])
			return nil
		},
	}
}
