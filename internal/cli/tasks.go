package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/client"
	"smarttodo-cli/internal/timefmt"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and complete tasks",
	}
	cmd.AddCommand(newTasksOnCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	return cmd
}

func newTasksOnCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "on [date]",
		Aliases: []string{"list"},
		Short:   "List the tasks scheduled on a day (default: today)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := app.today()
			if len(args) == 1 {
				d, err := timefmt.ParseDate(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				date = d
			}
			return app.withBinder(cmd, func(ctx context.Context, _ *binder.Binder, c *client.Client) error {
				tasks, err := c.TasksOnDate(ctx, date)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, taskTable{Date: date, Tasks: tasks, cat: app.catalog, fmt: app.fmt},
					"smarttodo tasks toggle <id> --done")
			})
		},
	}
}

func newTasksToggleCmd(app *App) *cobra.Command {
	var done, undone bool

	cmd := &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Mark a task completed (--done) or not completed (--undone)",
		Example: strings.TrimSpace(`
smarttodo tasks toggle 42 --done
smarttodo tasks toggle 42 --undone
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || id <= 0 {
				return writeErr(cmd, usageError{msg: "invalid task id: " + args[0]})
			}
			if done == undone {
				return writeErr(cmd, usageError{msg: "pass exactly one of --done or --undone"})
			}
			return app.withBinder(cmd, func(ctx context.Context, b *binder.Binder, _ *client.Client) error {
				res := b.TaskToggled(ctx, id, done)
				if res.Err != nil {
					return res.Err
				}
				if res.Effect != binder.EffectReload {
					return errors.New("unexpected toggle result: " + res.Effect.String())
				}
				return writeOut(cmd, app, map[string]any{"id": id, "completed": done},
					"smarttodo tasks on "+app.today())
			})
		},
	}
	cmd.Flags().BoolVar(&done, "done", false, "Mark completed")
	cmd.Flags().BoolVar(&undone, "undone", false, "Mark not completed")
	return cmd
}

func newCalendarCmd(app *App) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "calendar [date]",
		Short: "Show one calendar day the way the day modal does (default: today)",
		Long: strings.TrimSpace(`
Shows the tasks of one day as day entries. When the backend is unreachable the
last cached copy of the day is shown and marked stale.

With --interactive the TUI opens on that day instead.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := app.today()
			if len(args) == 1 {
				date = strings.TrimSpace(args[0])
			}
			if interactive {
				d, err := timefmt.ParseDate(date)
				if err != nil {
					return writeErr(cmd, err)
				}
				return runTUIOn(cmd, app, d)
			}
			return app.withBinder(cmd, func(ctx context.Context, b *binder.Binder, _ *client.Client) error {
				res := b.CalendarDayClicked(ctx, date)
				if res.Day == nil {
					return res.Err
				}
				if res.Err != nil {
					// Stale data is still output; the notice explains why.
					app.log.Warn("showing cached day", "date", date, "err", res.Err)
					cmd.PrintErrln(res.Notice.Text)
				}
				return writeOut(cmd, app, dayTable{DayView: *res.Day})
			})
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Open the TUI on this day")
	return cmd
}
