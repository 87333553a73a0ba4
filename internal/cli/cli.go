package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"screenbreak/internal/logging"
)

const appName = "screenbreak"

var (
	cfgPath   string
	logFile   string
	verbosity int
)

// NewRootCmd creates the root CLI command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Break reminders for eye rest, micro-pauses and scheduled breaks",
		Long:          "screenbreak tracks work time against eye-rest, micro-pause and scheduled break policies and shows a break when one is due.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "settings file (.yaml or .toml); defaults to the user config dir")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v, -vv, ... up to 4)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logging.SetVerbosity(verbosity)
		if logFile == "" {
			return nil
		}
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logging.SetOutput(file)
		return nil
	}

	cmd.AddCommand(
		newRunCmd(),
		newConsoleCmd(),
		newScheduleCmd(),
		newStatsCmd(),
		newAutostartCmd(),
	)

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}
