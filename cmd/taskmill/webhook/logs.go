package webhook

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/taskmill/taskmill/pkg/backend"
)

func logsCommand() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "logs ID",
		Short: "Show the latest deliveries of a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			logs, err := be.LatestWebhookLogs(ctx, id, limit)
			if err != nil {
				return err
			}

			if ojson {
				return writeJSON(c.OutOrStdout(), logs)
			}

			t := newTable("ID", "Delivery", "Action", "Status", "Duration", "Created")
			for _, l := range logs {
				status := "failed"
				if l.StatusCode != nil {
					status = strconv.Itoa(*l.StatusCode)
				}
				t.Row(
					strconv.FormatInt(l.ID, 10),
					l.DeliveryID,
					l.Action,
					status,
					(time.Duration(l.DurationMs) * time.Millisecond).String(),
					humanize.Time(l.CreatedAt),
				)
			}
			fmt.Fprintln(c.OutOrStdout(), t.Render())
			return nil
		},
	}
	c.Flags().IntVarP(&limit, "limit", "n", backend.DefaultWebhookLogsLimit, "number of entries to show")
	return c
}
