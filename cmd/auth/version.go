package main

import (
	"fmt"

	"github.com/aussiebroadwan/registrar/internal/auth/app"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of registrar",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "registrar version %s\n", app.BuildVersion)
		},
	}
}
