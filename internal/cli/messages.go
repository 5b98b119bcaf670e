package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/client"
)

func newMessagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Send direct messages",
	}
	cmd.AddCommand(newMessagesSendCmd(app))
	return cmd
}

func newMessagesSendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "send <receiver-id|@username> [text...]",
		Short: "Send a message; with no text (or \"-\") the body is read from stdin",
		Example: strings.TrimSpace(`
smarttodo messages send 4 "今晚一起跑步？"
smarttodo messages send @lily "今晚一起跑步？"
printf 'line one\nline two\n' | smarttodo messages send 4 -
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			receiver, err := strconv.Atoi(target)
			if !strings.HasPrefix(target, "@") && (err != nil || receiver <= 0) {
				return writeErr(cmd, usageError{msg: "invalid receiver: " + args[0] + " (use an id or @username)"})
			}
			content := strings.Join(args[1:], " ")
			if len(args) == 1 || content == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return writeErr(cmd, err)
				}
				content = strings.TrimRight(string(b), "\n")
			}
			return app.withBinder(cmd, func(ctx context.Context, b *binder.Binder, c *client.Client) error {
				if strings.HasPrefix(target, "@") {
					id, err := resolveReceiver(ctx, c, strings.TrimPrefix(target, "@"))
					if err != nil {
						return err
					}
					receiver = id
				}
				res := b.MessageSubmitted(ctx, receiver, content)
				if res.Err != nil {
					return res.Err
				}
				return writeOut(cmd, app, map[string]any{"receiverId": receiver, "sent": true})
			})
		},
	}
}

// resolveReceiver maps a username to a user id. An exact username match wins;
// otherwise the search has to be unambiguous.
func resolveReceiver(ctx context.Context, c *client.Client, name string) (int, error) {
	users, err := c.SearchUsers(ctx, name)
	if err != nil {
		return 0, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, name) {
			return u.ID, nil
		}
	}
	switch len(users) {
	case 0:
		return 0, errNotFound("user", name)
	case 1:
		return users[0].ID, nil
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, fmt.Sprintf("%s (%d)", u.Username, u.ID))
	}
	return 0, usageError{msg: fmt.Sprintf("%q matches several users: %s", name, strings.Join(names, ", "))}
}
