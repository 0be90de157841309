package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the active credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := wire.Logins.Active(); !ok {
				fmt.Println("Not logged in.")
				return nil
			}
			if err := wire.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
