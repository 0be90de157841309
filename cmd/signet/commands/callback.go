package commands

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"signet/internal/domain"
	"signet/internal/services/bridge"
)

// callback: the resume entry point for external signer round trips. Bridge
// failures render a retry hint instead of propagating as fatal.
func callbackCmd() *cobra.Command {
	var event string
	cmd := &cobra.Command{
		Use:   "callback",
		Short: "Resume an external signer round trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if event != "" {
				params.Set(bridge.ResponseParam, event)
			}
			redirect, err := wire.Bridge.HandleCallback(cmd.Context(), params)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrMissingResponse):
					fmt.Println("No response received from the signer app. Please try again.")
				case errors.Is(err, domain.ErrNoPendingRequest):
					fmt.Println("Nothing is waiting for a signer response. Please start over.")
				default:
					fmt.Println("Could not process the signer response. Please try again.")
				}
				fmt.Println("Returning home.")
				return nil
			}
			time.Sleep(bridge.RedirectDelay)
			fmt.Printf("Done. Continue at %s\n", redirect)
			return nil
		},
	}
	cmd.Flags().StringVar(&event, "event", "", "response payload returned by the signer app")
	return cmd
}
