package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aussiebroadwan/registrar/internal/auth/app"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "registrar",
		Short: "OpenID Connect dynamic client registration server",
		Long: `registrar issues client credentials to applications that register
themselves at the registration endpoint, and serves the token, introspection
and JWKS endpoints those clients use afterwards.

Configuration comes from environment variables, optionally layered over the
YAML file named by AUTH_CONFIG_FILE.`,
		Version: app.BuildVersion,
		// Errors are already reported by the failing command.
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.SetVersionTemplate(`{{printf "registrar version %s\n" .Version}}`)

	root.AddCommand(
		newServeCmd(),
		newBootstrapCmd(),
		newClientsCmd(),
		newKeysCmd(),
		newVersionCmd(),
	)
	return root
}

// operatorEnv is what offline commands need: validated configuration, a
// logger on stderr so command output stays clean, and the open store.
type operatorEnv struct {
	cfg    app.Config
	logger *slog.Logger
	db     store.Store
}

func openOperatorEnv(ctx context.Context, stderr io.Writer) (*operatorEnv, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ClientStore == app.StoreMemory {
		return nil, fmt.Errorf("the memory store only exists inside a running server")
	}

	logger := slogx.New(slogx.Config{
		Service: "registrar",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   "warn",
		Format:  "text",
		Output:  stderr,
	})

	db, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &operatorEnv{cfg: cfg, logger: logger, db: db}, nil
}

func (e *operatorEnv) Close() {
	if err := e.db.Close(); err != nil {
		e.logger.Error("error closing client store", "error", err)
	}
}
