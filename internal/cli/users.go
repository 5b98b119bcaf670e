package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/client"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Find other users (e.g. the receiver id for `messages send`)",
	}
	cmd.AddCommand(newUsersSearchCmd(app))
	return cmd
}

func newUsersSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Search users by username or nickname",
		Example: strings.TrimSpace(`
smarttodo users search lily
smarttodo --format table users search 莉莉
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.TrimPrefix(strings.TrimSpace(strings.Join(args, " ")), "@")
			return app.withBinder(cmd, func(ctx context.Context, _ *binder.Binder, c *client.Client) error {
				users, err := c.SearchUsers(ctx, q)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, userTable(users), "smarttodo messages send <id> <text>")
			})
		},
	}
}
