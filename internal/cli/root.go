// Package cli implements placementctl, an offline companion to the API that
// runs the dataset, prediction and resume packages against local files.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/hirelytics/internal/pkg/logger"
)

const app = "placementctl"

// Actual version can be specified in build command.
var version = "unknown"

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	var debug, jsonLogs bool

	root := &cobra.Command{
		Use:           app,
		Short:         app + " works with Hirelytics placement datasets and resumes offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if debug {
				level = "debug"
			}
			format := "console"
			if jsonLogs {
				format = "json"
			}
			cfg := logger.ConfigFromSettings(level, format)
			cfg.Output = cmd.ErrOrStderr()
			logger.Configure(cfg)
		},
	}

	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")

	root.AddCommand(
		newTemplateCommand(),
		newValidateCommand(),
		newConvertCommand(),
		newPredictCommand(),
		newAnalyzeCommand(),
		newHashPasswordCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
