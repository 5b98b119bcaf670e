package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"smarttodo-cli/internal/timefmt"
)

func newAgoCmd(app *App) *cobra.Command {
	var nowFlag string

	cmd := &cobra.Command{
		Use:   "ago <timestamp>",
		Short: "Render a timestamp relative to now (刚刚, 5分钟前, ...)",
		Long: strings.TrimSpace(`
Accepts RFC3339, naive ISO (read in the configured time zone) or a date.
Buckets: under a minute, minutes, hours, days, 30-day months, 12-month years.
Timestamps later than now are rejected.
`),
		Example: strings.TrimSpace(`
smarttodo ago 2026-10-17T09:30:00
smarttodo ago 2026-10-17T09:30:00 --now 2026-10-17T14:00:00 --locale en
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := app.nowOr(nowFlag)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := timefmt.Parse(args[0], app.fmt.Location)
			if err != nil {
				return writeErr(cmd, err)
			}
			bucket, n, err := timefmt.Between(t, now)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("%w: %s", err, args[0]))
			}
			text, err := app.fmt.Relative(t, now)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"input":  args[0],
				"text":   text,
				"bucket": bucket.String(),
				"count":  n,
			})
		},
	}
	cmd.Flags().StringVar(&nowFlag, "now", "", "Reference time instead of the current time")
	return cmd
}

func newDateCmd(app *App) *cobra.Command {
	var timeOnly, numeric bool

	cmd := &cobra.Command{
		Use:   "date <timestamp>",
		Short: "Render a timestamp as an absolute date (2026年10月17日 14:05)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if timeOnly && numeric {
				return writeErr(cmd, usageError{msg: "--time-only and --numeric are exclusive"})
			}
			t, err := timefmt.Parse(args[0], app.fmt.Location)
			if err != nil {
				return writeErr(cmd, err)
			}
			var text string
			switch {
			case timeOnly:
				text = app.fmt.FormatTimeOfDay(t)
			case numeric:
				text = app.fmt.FormatDateTime(t)
			default:
				text = app.fmt.FormatDate(t)
			}
			return writeOut(cmd, app, map[string]any{"input": args[0], "text": text})
		},
	}
	cmd.Flags().BoolVar(&timeOnly, "time-only", false, "Only HH:MM")
	cmd.Flags().BoolVar(&numeric, "numeric", false, "YYYY-MM-DD HH:MM")
	return cmd
}

func newClockCmd(app *App) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Print the clock line every second (当前时间: ...)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if once {
				fmt.Fprintln(cmd.OutOrStdout(), app.fmt.ClockLine(app.Clock.Now()))
				return nil
			}
			ctx := cmdContext(cmd)
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			fmt.Fprintln(cmd.OutOrStdout(), app.fmt.ClockLine(app.Clock.Now()))
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					fmt.Fprintln(cmd.OutOrStdout(), app.fmt.ClockLine(app.Clock.Now()))
				}
			}
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Print one line and exit")
	return cmd
}

func (app *App) nowOr(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return app.Clock.Now(), nil
	}
	return timefmt.Parse(s, app.fmt.Location)
}
