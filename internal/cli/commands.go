package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screenbreak/internal/console"
	"screenbreak/internal/logging"
)

func newConsoleCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run the scheduler in the terminal with an interactive prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(true)
			if err != nil {
				return err
			}
			defer env.Close()

			keeper := env.newKeeper()
			presenter := console.NewPresenter(cmd.OutOrStdout())
			keeper.SetPresenters(presenter, presenter)
			go presenter.WatchEvents(keeper.Subscribe(16))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			watchSleep(ctx, keeper)

			keeper.Start()
			defer keeper.Stop()
			logging.Infof("console started")

			return console.NewShell(keeper, env.store, cmd.OutOrStdout()).Run(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", console.Prompt, "prompt string")
	return cmd
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Print today's work window, intervals and scheduled breaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(false)
			if err != nil {
				return err
			}
			console.PrintSchedule(cmd.OutOrStdout(), env.config, false)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print break statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return errors.New("--days must be at least 1")
			}
			env, err := loadEnvironment(true)
			if err != nil {
				return err
			}
			defer env.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			summary, err := env.store.Summary(ctx, time.Now(), days)
			if err != nil {
				return fmt.Errorf("load statistics: %w", err)
			}
			console.PrintStats(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "days of history to show")
	return cmd
}

func newAutostartCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "autostart on|off|status",
		Short:     "Start screenbreak at login",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch strings.ToLower(args[0]) {
			case "on":
				if err := setAutostart(env.service, true); err != nil {
					return err
				}
				fmt.Fprintln(out, "autostart enabled")
			case "off":
				if err := setAutostart(env.service, false); err != nil {
					return err
				}
				fmt.Fprintln(out, "autostart disabled")
			default:
				enabled, err := env.service.AutostartEnabled(appName)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "autostart: %s\n", onOff(enabled))
			}
			return nil
		},
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
