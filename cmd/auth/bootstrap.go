package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/aussiebroadwan/registrar/internal/auth/app"
	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/spf13/cobra"
)

func newBootstrapCmd() *cobra.Command {
	var (
		name   string
		scopes []string
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the initial client directly in the store",
		Long: `Creates the first client without going through POST /v1/bootstrap, so no
bootstrap token needs to be configured. The client receives the registration
scope unless --scope is given. Its secret is printed once.

The server must run with the same master key and pepper as this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := authsdk.BootstrapRequest{ClientName: name, Scopes: scopes}
			if errs := req.Validate(); len(errs) > 0 {
				fields := slices.Sorted(maps.Keys(errs))
				return fmt.Errorf("invalid %s: %s", fields[0], errs[fields[0]])
			}

			env, err := openOperatorEnv(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			secrets, err := app.LoadSecrets(env.cfg, env.logger)
			if err != nil {
				return err
			}

			svc := app.NewBootstrapService(env.cfg, env.db, secrets)
			res, err := svc.CreateInitialClient(cmd.Context(), domain.BootstrapData{
				ClientName: req.ClientName,
				Scopes:     req.Scopes,
			})
			if errors.Is(err, service.ErrBootstrapAlready) {
				return fmt.Errorf("store already holds clients, refusing to bootstrap")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "client_id:     %s\n", res.ClientID)
			fmt.Fprintf(out, "client_secret: %s\n", res.ClientSecret)
			fmt.Fprintf(out, "scopes:        %v\n", res.Scopes)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "admin", "name of the initial client")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "scopes granted to the client (repeatable)")
	return cmd
}
