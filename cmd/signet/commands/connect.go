package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// connect: negotiate a remote delegated-signer session and persist the
// resulting credential.
func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <remote-pubkey>",
		Short: "Negotiate a remote delegated-signer session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if wire.Config.Relay == "" {
				return fmt.Errorf("no relay configured. use --relay")
			}
			res, err := wire.Connect.Establish(cmd.Context(), args[0], wire.Config.Relay)
			if err != nil {
				return fmt.Errorf("connecting to remote signer: %w", err)
			}
			defer res.Signer.Close()

			fmt.Printf("Session established.\nBunker: %s\n", res.Bunker.String())
			return printLoggedIn(res.Record)
		},
	}
}
