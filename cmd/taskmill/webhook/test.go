package webhook

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskmill/taskmill/pkg/backend"
)

func testCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test ID",
		Short: "Send a test payload to a webhook",
		Long:  "Send a test payload to a webhook, enabled or not. Test deliveries are not recorded in the delivery log.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			res, err := be.TestWebhook(ctx, id)
			if err != nil {
				return err
			}

			if ojson {
				if err := writeJSON(c.OutOrStdout(), res); err != nil {
					return err
				}
			} else if res.Status != nil {
				fmt.Fprintf(c.OutOrStdout(), "Status: %d\n", *res.Status)
				if res.Response != nil && *res.Response != "" {
					fmt.Fprintf(c.OutOrStdout(), "Response: %s\n", *res.Response)
				}
			}

			if !res.Success {
				msg := "no response"
				if res.Error != nil {
					msg = *res.Error
				}
				return errors.New(msg)
			}
			return nil
		},
	}
}
