package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/pflag"

	"screenbreak/internal/core/model"
	"screenbreak/internal/core/schedule"
	"screenbreak/internal/core/timekeeper"
	"screenbreak/internal/logging"
	"screenbreak/internal/storage/sqlite"
)

// Prompt is the default REPL prompt.
const Prompt = "screenbreak> "

const historyDays = 7

// errExit ends the REPL loop.
var errExit = errors.New("exit")

// Controller is the part of the time keeper the console drives.
type Controller interface {
	Status() timekeeper.Status
	Pause() bool
	Resume() bool
	PauseFor(d time.Duration)
	SetLowEnergy(on bool)
	DismissWarning() bool
	ResolveActive(outcome schedule.Outcome) error
	ForceBreak(kind schedule.BreakKind) error
	Config() model.Config
}

// StatsSource provides the statistics summary.
type StatsSource interface {
	Summary(ctx context.Context, now time.Time, days int) (sqlite.Summary, error)
}

// Shell executes console commands against a controller.
type Shell struct {
	controller Controller
	stats      StatsSource
	out        io.Writer
	now        func() time.Time
}

// NewShell creates a shell writing to out. stats may be nil.
func NewShell(controller Controller, stats StatsSource, out io.Writer) *Shell {
	return &Shell{controller: controller, stats: stats, out: out, now: time.Now}
}

// Run reads commands with line editing until exit or EOF.
func (shell *Shell) Run(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "screenbreak-console.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          shell.out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(shell.out, "screenbreak console. 'help' lists commands, 'exit' quits.")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(shell.out)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(shell.out)
			return nil
		}
		if err != nil {
			return err
		}
		if err := shell.Execute(line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintf(shell.out, "%v\n", err)
		}
	}
}

// Execute runs one command line.
func (shell *Shell) Execute(line string) error {
	tokens, err := shlex.Split(strings.TrimSpace(line))
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}
	command, args := strings.ToLower(tokens[0]), tokens[1:]

	switch command {
	case "exit", "quit":
		fmt.Fprintln(shell.out, "Bye!")
		return errExit
	case "help":
		printHelp(shell.out)
	case "status":
		PrintStatus(shell.out, shell.controller.Status())
	case "pause":
		if !shell.controller.Pause() {
			fmt.Fprintln(shell.out, "already paused")
		}
	case "resume":
		if !shell.controller.Resume() {
			fmt.Fprintln(shell.out, "not paused")
		}
	case "pause-for":
		return shell.pauseFor(args)
	case "low-energy":
		return shell.lowEnergy(args)
	case "go":
		if !shell.controller.DismissWarning() {
			fmt.Fprintln(shell.out, "no break is counting down")
		}
	case "done":
		return shell.resolve(schedule.OutcomeTaken)
	case "snooze":
		return shell.resolve(schedule.OutcomeSnoozed)
	case "skip":
		if shell.controller.Status().State == timekeeper.StateBreak && shell.controller.Config().StrictMode {
			return errors.New("strict mode: skipping is disabled")
		}
		return shell.resolve(schedule.OutcomeSkipped)
	case "force":
		return shell.force(args)
	case "schedule":
		status := shell.controller.Status()
		PrintSchedule(shell.out, shell.controller.Config(), status.LowEnergy)
		if status.HasNextScheduled {
			fmt.Fprintf(shell.out, "Next: %s at %s\n", status.NextScheduled.Title, format12(status.NextScheduled.Time))
		}
	case "stats":
		return shell.printStats()
	case "log":
		return handleLog(shell.out, args)
	default:
		return fmt.Errorf("unknown command %q, try help", command)
	}
	return nil
}

func (shell *Shell) pauseFor(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: pause-for <minutes>")
	}
	value, err := strconv.Atoi(args[0])
	if err != nil || value <= 0 {
		return fmt.Errorf("pause-for: invalid minutes %q", args[0])
	}
	shell.controller.PauseFor(time.Duration(value) * time.Minute)
	fmt.Fprintf(shell.out, "paused for %d min\n", value)
	return nil
}

func (shell *Shell) lowEnergy(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: low-energy on|off")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		shell.controller.SetLowEnergy(true)
	case "off":
		shell.controller.SetLowEnergy(false)
	default:
		return errors.New("usage: low-energy on|off")
	}
	return nil
}

func (shell *Shell) resolve(outcome schedule.Outcome) error {
	if err := shell.controller.ResolveActive(outcome); err != nil {
		if errors.Is(err, timekeeper.ErrNoOverlay) {
			return errors.New("no break is on screen")
		}
		return err
	}
	return nil
}

func (shell *Shell) force(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: force eye|micro")
	}
	var kind schedule.BreakKind
	switch strings.ToLower(args[0]) {
	case "eye":
		kind = schedule.KindEyeRest
	case "micro":
		kind = schedule.KindMicroPause
	default:
		return errors.New("usage: force eye|micro")
	}
	if err := shell.controller.ForceBreak(kind); err != nil {
		return fmt.Errorf("force %s: %w", args[0], err)
	}
	return nil
}

func (shell *Shell) printStats() error {
	if shell.stats == nil {
		return errors.New("statistics are unavailable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	summary, err := shell.stats.Summary(ctx, shell.now(), historyDays)
	if err != nil {
		return fmt.Errorf("load statistics: %w", err)
	}
	PrintStats(shell.out, summary)
	return nil
}

func handleLog(out io.Writer, args []string) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "Set level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "Show the current level")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	switch {
	case level != "":
		parsed, count, err := logging.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("log: %w", err)
		}
		logging.SetLevel(parsed, count)
	case vcount > 0:
		logging.SetVerbosity(vcount)
	default:
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}
	fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  status                 # clocks, flags and the next scheduled break
  pause | resume         # freeze or unfreeze every break clock
  pause-for <minutes>    # pause and resume automatically
  low-energy on|off      # stretch the interval breaks
  go                     # start the counting-down break now
  done | snooze | skip   # end the break on screen
  force eye|micro        # start a break after a short countdown
  schedule               # today's schedule
  stats                  # break statistics
  log -v | --level L     # change log verbosity
  log --show             # show the log level
  exit / quit            # leave the console`)
}
