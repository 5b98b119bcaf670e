package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/client"
)

func newNotificationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "List notifications and mark them read",
	}
	cmd.AddCommand(newNotificationsListCmd(app))
	cmd.AddCommand(newNotificationsReadCmd(app))
	return cmd
}

func newNotificationsListCmd(app *App) *cobra.Command {
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first (needs GET /api/notifications on the server)",
		Long: strings.TrimSpace(`
Lists notifications from GET /api/notifications, a JSON endpoint this client
expects next to the /notifications page. A stock backend that only serves the
HTML page answers 404 here; marking read (POST /notifications/<id>/read) works
either way. See ` + "`smarttodo docs notifications`" + `.
`),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withBinder(cmd, func(ctx context.Context, _ *binder.Binder, c *client.Client) error {
				items, err := c.Notifications(ctx)
				if err != nil {
					return err
				}
				now := app.Clock.Now()
				out := make(notificationTable, 0, len(items))
				for _, n := range items {
					if unreadOnly && n.Read {
						continue
					}
					v := notificationView{Notification: n}
					if ago, err := app.fmt.RelativeString(n.CreatedAt, now); err == nil {
						v.Ago = ago
					}
					if when, err := app.fmt.FormatDateString(n.CreatedAt); err == nil {
						v.When = when
					}
					out = append(out, v)
				}
				return writeOut(cmd, app, out, "smarttodo notifications read <id>")
			})
		},
	}
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "Only unread notifications")
	return cmd
}

func newNotificationsReadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || id <= 0 {
				return writeErr(cmd, usageError{msg: "invalid notification id: " + args[0]})
			}
			return app.withBinder(cmd, func(ctx context.Context, b *binder.Binder, _ *client.Client) error {
				res := b.NotificationClicked(ctx, id)
				if res.Err != nil {
					var ne *client.NetworkError
					if errors.As(res.Err, &ne) && ne.StatusCode == 404 {
						return errNotFound("notification", args[0])
					}
					return res.Err
				}
				return writeOut(cmd, app, map[string]any{"id": res.ID, "read": true})
			})
		},
	}
}
