package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change config.yaml",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (after flags and env)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, configTable{Config: app.cfg})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one key in config.yaml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.fileCfg
			if err := cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, usageError{msg: err.Error()})
			}
			if err := app.store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.fileCfg = cfg
			return writeOut(cmd, app, configTable{Config: cfg})
		},
	})
	return cmd
}
