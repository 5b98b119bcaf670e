package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/client"
	"smarttodo-cli/internal/format"
	"smarttodo-cli/internal/i18n"
	"smarttodo-cli/internal/store"
	"smarttodo-cli/internal/timefmt"
	"smarttodo-cli/internal/tui"
)

type App struct {
	ConfigDir  string
	Server     string
	Locale     string
	Timezone   string
	Format     string
	PrettyJSON bool
	LogFile    string
	Debug      bool

	// Clock is overridden in tests.
	Clock timefmt.Clock

	store   store.Store
	cfg     store.Config // effective, with flag/env overrides
	fileCfg store.Config // as stored in config.yaml
	catalog *i18n.Catalog
	fmt     timefmt.Formatter
	log     *slog.Logger
	logOut  io.Closer
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "smarttodo",
		Short:         "Smart To-Do terminal client (calendar, tasks, notifications, messages)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  smarttodo

  # Log in once; the session is kept in ~/.smarttodo
  smarttodo login --user alice

  # Tasks on a day (shortcut for: smarttodo calendar 2026-10-17)
  smarttodo 2026-10-17

  # Relative time the way the web app shows it
  smarttodo ago 2026-10-17T09:30:00
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.close()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("SMARTTODO_CONFIG_DIR", ""), "Directory holding config.yaml, the offline cache and the session (default ~/.smarttodo)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("SMARTTODO_SERVER", ""), "Backend base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Locale, "locale", envOr("SMARTTODO_LOCALE", ""), "Display locale: zh-CN|en (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Timezone, "tz", envOr("SMARTTODO_TZ", ""), "IANA time zone for naive backend timestamps (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SMARTTODO_FORMAT", ""), "Output format (json|table)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("SMARTTODO_LOG", ""), "Append debug logs to this file")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level (with --log-file)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newCalendarCmd(app))
	cmd.AddCommand(newNotificationsCmd(app))
	cmd.AddCommand(newMessagesCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newAgoCmd(app))
	cmd.AddCommand(newDateCmd(app))
	cmd.AddCommand(newClockCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves configuration: flags > env > config.yaml > defaults.
func (app *App) setup(cmd *cobra.Command) error {
	s, err := store.Open(app.ConfigDir)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.store = s

	cfg, err := s.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.fileCfg = cfg
	overrides := map[string]string{
		"server":   app.Server,
		"locale":   app.Locale,
		"timezone": app.Timezone,
		"format":   app.Format,
	}
	for _, k := range store.ConfigKeys() {
		if v := strings.TrimSpace(overrides[k]); v != "" {
			if err := cfg.Set(k, v); err != nil {
				return writeErr(cmd, usageError{msg: err.Error()})
			}
		}
	}
	app.cfg = cfg
	app.Format = cfg.Format

	cat, err := i18n.Resolve(cfg.Locale)
	if err != nil {
		return writeErr(cmd, usageError{msg: err.Error()})
	}
	loc, err := cfg.Location()
	if err != nil {
		return writeErr(cmd, usageError{msg: err.Error()})
	}
	app.catalog = cat
	app.fmt = timefmt.New(cat, loc)
	if app.Clock == nil {
		app.Clock = timefmt.SystemClock{}
	}

	if err := app.setupLogger(); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func (app *App) setupLogger() error {
	if strings.TrimSpace(app.LogFile) == "" {
		// The TUI owns the terminal; logs only go to an explicit file.
		app.log = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}
	f, err := os.OpenFile(app.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	level := slog.LevelInfo
	if app.Debug {
		level = slog.LevelDebug
	}
	app.logOut = f
	app.log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})).With("pid", os.Getpid())
	return nil
}

func (app *App) close() {
	if app.logOut != nil {
		_ = app.logOut.Close()
		app.logOut = nil
	}
}

// newClient builds a backend client seeded with the persisted session.
func (app *App) newClient(ctx context.Context) (*client.Client, error) {
	c, err := client.New(client.Options{
		BaseURL:       app.cfg.Server,
		Timeout:       app.cfg.Timeout(),
		RatePerSecond: app.cfg.RatePerSecond,
		Burst:         app.cfg.RateBurst,
		Retries:       app.cfg.Retries,
		Logger:        app.log,
	})
	if err != nil {
		return nil, usageError{msg: err.Error()}
	}
	cookies, err := app.store.LoadSession(ctx, c.BaseURL(), app.Clock.Now())
	if err != nil {
		app.log.Warn("load session failed", "err", err)
	} else {
		c.SetCookies(cookies)
	}
	return c, nil
}

// saveSession persists the client's cookies so the next invocation stays logged in.
func (app *App) saveSession(ctx context.Context, c *client.Client) {
	if err := app.store.SaveSession(ctx, c.BaseURL(), c.Cookies()); err != nil {
		app.log.Warn("save session failed", "err", err)
	}
}

func (app *App) newBinder(c *client.Client) *binder.Binder {
	b := binder.New(c, app.store, c.BaseURL(), app.fmt, app.Clock)
	b.Logger = app.log
	return b
}

// withBinder runs fn against a live backend and keeps the session current.
func (app *App) withBinder(cmd *cobra.Command, fn func(ctx context.Context, b *binder.Binder, c *client.Client) error) error {
	ctx := cmdContext(cmd)
	c, err := app.newClient(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	err = fn(ctx, app.newBinder(c), c)
	app.saveSession(ctx, c)
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	return runTUIOn(cmd, app, "")
}

func runTUIOn(cmd *cobra.Command, app *App, date string) error {
	return app.withBinder(cmd, func(ctx context.Context, b *binder.Binder, c *client.Client) error {
		if _, err := app.store.PruneDays(ctx, app.Clock.Now().Add(-cacheRetention)); err != nil {
			app.log.Warn("prune day cache failed", "err", err)
		}
		return tui.Run(ctx, tui.Options{
			Binder:        b,
			Notifications: c,
			Users:         c,
			State:         app.store,
			Date:          date,
			Clock:         app.Clock,
		})
	})
}

// cacheRetention bounds how long offline copies of calendar days are kept.
const cacheRetention = 30 * 24 * time.Hour

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envelope is the JSON shape of every command's output.
type envelope struct {
	Data  any      `json:"data"`
	Meta  any      `json:"meta,omitempty"`
	Hints []string `json:"_hints,omitempty"`
}

func writeOut(cmd *cobra.Command, app *App, data any, hints ...string) error {
	if app.Format == "table" {
		if t, ok := data.(format.Tabular); ok {
			return format.Write(cmd.OutOrStdout(), t, app.Format, app.PrettyJSON)
		}
	}
	return format.Write(cmd.OutOrStdout(), envelope{Data: data, Hints: hints}, "json", app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "error: "+err.Error())
	if h := hintFor(err); h != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "hint: "+h)
	}
	return err
}

func (app *App) today() string {
	return app.Clock.Now().In(app.fmt.Location).Format(timefmt.LayoutDate)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
