package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/aoc/internal/config"
)

// ConfigOptions holds flags for the config command.
type ConfigOptions struct {
	*RootOptions
	Write bool
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration after defaults, the config file and the
environment are applied. The session cookie is masked.

With --write the effective configuration is saved to the config file,
creating it if needed. A session cookie taken from the environment is not
written to the file.

Example:
  aoc config
  aoc config --year 2021 --write`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Write, "write", false, "save the effective configuration")
	return cmd
}

func runConfig(cmd *cobra.Command, opts *ConfigOptions) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	if opts.Write {
		path := opts.ConfigPath
		if path == "" {
			path = config.DefaultFile
		}
		if err := config.Save(path, cfg.ForFile()); err != nil {
			return WrapExitError(ExitCommandError, "failed to save config", err)
		}
		log := opts.logger(cmd)
		log.Info().Str("path", path).Msg("config saved")
	}

	shown := cfg.Redacted()
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Encode(shown, func(w io.Writer) error {
		t := newTable(w)
		t.AppendHeader(table.Row{"Key", "Value"})
		t.AppendRows([]table.Row{
			{"year", shown.Year},
			{"base_url", shown.BaseURL},
			{"session", orDash(shown.Session)},
			{"inputs_dir", shown.InputsDir},
			{"solutions_dir", shown.SolutionsDir},
			{"database", shown.Database},
			{"module", shown.Module},
			{"user_agent", shown.UserAgent},
			{"timeout", fmt.Sprintf("%ds", shown.Timeout)},
		})
		t.Render()
		return nil
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
