// Package webhook holds the webhook management commands. They work on the
// local database directly.
package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/taskmill/taskmill/cmd"
	"github.com/taskmill/taskmill/pkg/backend"
	"github.com/taskmill/taskmill/pkg/webhook"
)

var ojson bool

// Command is the webhook command.
var Command = &cobra.Command{
	Use:                "webhook",
	Aliases:            []string{"webhooks"},
	Short:              "Manage webhooks",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	Command.PersistentFlags().BoolVar(&ojson, "json", false, "output as JSON")
	Command.AddCommand(
		listCommand(),
		createCommand(),
		updateCommand(),
		deleteCommand(),
		toggleCommand(),
		testCommand(),
		logsCommand(),
	)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid webhook id %q", s)
	}
	return id, nil
}

// parseHeaders parses "Key: Value" pairs.
func parseHeaders(hs []string) ([]webhook.Header, error) {
	headers := make([]webhook.Header, 0, len(hs))
	for _, h := range hs {
		k, v, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q, expected KEY: VALUE", h)
		}
		headers = append(headers, webhook.Header{Key: strings.TrimSpace(k), Value: strings.TrimSpace(v)})
	}
	return headers, nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Faint(true)).
		Headers(headers...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHook(w io.Writer, h webhook.Hook) error {
	if ojson {
		return writeJSON(w, h)
	}

	state := "disabled"
	if h.Enabled {
		state = "enabled"
	}
	fmt.Fprintf(w, "ID: %d\n", h.ID)
	fmt.Fprintf(w, "Action: %s\n", h.Action)
	fmt.Fprintf(w, "URL: %s\n", h.URL)
	fmt.Fprintf(w, "State: %s\n", state)
	fmt.Fprintf(w, "Signed: %t\n", h.Secret != "")
	for _, hd := range h.Headers {
		fmt.Fprintf(w, "Header: %s: %s\n", hd.Key, hd.Value)
	}
	fmt.Fprintf(w, "Updated: %s\n", humanize.Time(h.UpdatedAt))
	return nil
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			hooks, err := be.ListWebhooks(ctx)
			if err != nil {
				return err
			}

			if ojson {
				return writeJSON(c.OutOrStdout(), hooks)
			}

			t := newTable("ID", "Action", "URL", "Enabled", "Created")
			for _, h := range hooks {
				t.Row(
					strconv.FormatInt(h.ID, 10),
					h.Action.String(),
					h.URL,
					strconv.FormatBool(h.Enabled),
					humanize.Time(h.CreatedAt),
				)
			}
			fmt.Fprintln(c.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func definitionFlags(c *cobra.Command, def *webhook.Definition, headers *[]string) {
	c.Flags().StringVarP(&def.Action, "action", "a", "", "the action to subscribe to, e.g. task.create")
	c.Flags().StringVarP(&def.URL, "url", "u", "", "the URL to deliver to")
	c.Flags().StringVarP(&def.Secret, "secret", "s", "", "the secret used to sign deliveries")
	c.Flags().StringArrayVarP(headers, "header", "H", nil, "a static header to send, as KEY: VALUE (repeatable)")
}

func createCommand() *cobra.Command {
	var def webhook.Definition
	var headers []string
	c := &cobra.Command{
		Use:   "create",
		Short: "Create a webhook",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)

			var err error
			def.Headers, err = parseHeaders(headers)
			if err != nil {
				return err
			}

			h, err := be.CreateWebhook(ctx, def)
			if err != nil {
				return err
			}
			return printHook(c.OutOrStdout(), h)
		},
	}
	definitionFlags(c, &def, &headers)
	return c
}

func updateCommand() *cobra.Command {
	var def webhook.Definition
	var headers []string
	c := &cobra.Command{
		Use:   "update ID",
		Short: "Replace the definition of a webhook",
		Long:  "Replace the action, URL, headers, and secret of a webhook. Omitted values are cleared; the enabled state is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			def.Headers, err = parseHeaders(headers)
			if err != nil {
				return err
			}

			h, err := be.UpdateWebhook(ctx, id, def)
			if err != nil {
				return err
			}
			return printHook(c.OutOrStdout(), h)
		},
	}
	definitionFlags(c, &def, &headers)
	return c
}

func deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a webhook and its delivery log",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return be.DeleteWebhook(ctx, id)
		},
	}
}

func toggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Enable or disable a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			enabled, err := be.ToggleWebhook(ctx, id)
			if err != nil {
				return err
			}

			if ojson {
				return writeJSON(c.OutOrStdout(), map[string]bool{"enabled": enabled})
			}
			if enabled {
				fmt.Fprintf(c.OutOrStdout(), "Webhook %d enabled\n", id)
			} else {
				fmt.Fprintf(c.OutOrStdout(), "Webhook %d disabled\n", id)
			}
			return nil
		},
	}
}
