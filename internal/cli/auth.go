package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/client"
)

func newLoginCmd(app *App) *cobra.Command {
	var user, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the backend and keep the session",
		Long: strings.TrimSpace(`
Logs in with a username or email address. The password is taken from
--password, then SMARTTODO_PASSWORD, then the first line of stdin.
`),
		Example: strings.TrimSpace(`
smarttodo login --user alice
echo "$PW" | smarttodo login --user alice@example.com
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user = strings.TrimSpace(user)
			if user == "" {
				return writeErr(cmd, usageError{msg: "missing --user"})
			}
			if password == "" {
				password = envOr("SMARTTODO_PASSWORD", "")
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return writeErr(cmd, usageError{msg: "missing password (use --password, SMARTTODO_PASSWORD or stdin)"})
				}
				password = strings.TrimRight(line, "\r\n")
			}

			return app.withBinder(cmd, func(ctx context.Context, _ *binder.Binder, c *client.Client) error {
				if err := c.Login(ctx, user, password); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"server": c.BaseURL(), "user": user, "loggedIn": true},
					"smarttodo calendar "+app.today(), "smarttodo notifications list")
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Username or email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prefer SMARTTODO_PASSWORD or stdin)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the backend session and forget the stored cookies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			c, err := app.newClient(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.Logout(ctx); err != nil {
				// The local session is dropped either way.
				app.log.Warn("backend logout failed", "err", err)
			}
			if err := app.store.ClearSession(ctx, c.BaseURL()); err != nil {
				return writeErr(cmd, fmt.Errorf("clear session: %w", err))
			}
			return writeOut(cmd, app, map[string]any{"server": c.BaseURL(), "loggedIn": false})
		},
	}
}
