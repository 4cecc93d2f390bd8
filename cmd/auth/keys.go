package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Inspect and retire persisted signing keys",
		Long: `Operates on the signing keys stored in persistent key mode. Ephemeral keys
never reach the store and are not listed.`,
	}
	cmd.AddCommand(newKeysListCmd(), newKeysRetireCmd())
	return cmd
}

func newKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List unexpired signing keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openOperatorEnv(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			svc := &service.KeyAdminService{Keys: env.db.SigningKeys()}
			keys, err := svc.ListSigningKeys(cmd.Context())
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No signing keys stored")
				return nil
			}

			now := time.Now()
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"KID", "ALG", "STATE", "CREATED", "EXPIRES"})
			for _, k := range keys {
				state := "active"
				if !k.IsActive(now) {
					state = "retired"
				}
				t.AppendRow(table.Row{
					k.Kid,
					k.Algorithm,
					state,
					k.CreatedAt.UTC().Format(time.RFC3339),
					k.ExpiresAt.UTC().Format(time.RFC3339),
				})
			}
			t.Render()
			return nil
		},
	}
}

func newKeysRetireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retire KID",
		Short: "Stop signing with a key",
		Long: `Retires a signing key. Tokens it signed keep verifying until the key
expires. A running server keeps its loaded keys; the next start replaces the
retired key with a fresh one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openOperatorEnv(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			svc := &service.KeyAdminService{Keys: env.db.SigningKeys()}
			switch err := svc.RetireKey(cmd.Context(), args[0]); {
			case errors.Is(err, service.ErrKeyNotFound):
				return fmt.Errorf("no signing key with kid %q", args[0])
			case errors.Is(err, service.ErrKeyAlreadyRetired):
				return fmt.Errorf("signing key %q is already retired", args[0])
			case err != nil:
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Retired signing key %s\n", args[0])
			return nil
		},
	}
}
