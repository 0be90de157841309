package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"signet/internal/crypto"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show stored credentials and the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := wire.Logins.List()
			if len(records) == 0 {
				fmt.Println("Not logged in.")
				return nil
			}
			active, _ := wire.Logins.Active()
			for _, rec := range records {
				npub, err := crypto.EncodeNpub(rec.PubKey)
				if err != nil {
					npub = rec.PubKey
				}
				marker := " "
				if rec.ID == active.ID {
					marker = "*"
				}
				fmt.Printf("%s %-12s %s\n", marker, rec.Method, npub)
			}
			return nil
		},
	}
}
