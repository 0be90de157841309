package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func bunkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bunker <descriptor>",
		Short: "Log in with a stored bunker:// descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := wire.Auth.LoginWithBunker(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("bunker login: %w", err)
			}
			return printLoggedIn(rec)
		},
	}
}
