package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"signet/internal/crypto"
	"signet/internal/domain"
)

func loginCmd() *cobra.Command {
	var extension bool
	cmd := &cobra.Command{
		Use:   "login [secret-key]",
		Short: "Log in with a secret key, or the host signer with --extension",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if extension {
				rec, err := wire.Auth.LoginWithExtension(ctx)
				if err != nil {
					return err
				}
				return printLoggedIn(rec)
			}

			if len(args) != 1 {
				return fmt.Errorf("secret key required (hex or nsec)")
			}
			rec, err := wire.Auth.LoginWithSecretKey(ctx, args[0])
			if errors.Is(err, domain.ErrInvalidSecret) {
				return fmt.Errorf("invalid secret key")
			}
			if err != nil {
				return err
			}
			return printLoggedIn(rec)
		},
	}
	cmd.Flags().BoolVar(&extension, "extension", false, "use the host-provided signer capability")
	return cmd
}

func printLoggedIn(rec domain.LoginRecord) error {
	npub, err := crypto.EncodeNpub(rec.PubKey)
	if err != nil {
		npub = rec.PubKey
	}
	fmt.Printf("Logged in as %s (%s)\n", npub, rec.Method)
	return nil
}
