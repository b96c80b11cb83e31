package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"comida/internal/cli"
	"comida/internal/config"
	"comida/internal/log"
	"comida/internal/render"
	"comida/internal/tracker"
)

const usage = `comida: meal, gym and weight tracker

Usage:
  comida [flags] <command> [args]

Commands:
  serve                   run the JSON HTTP API until interrupted
  weeks                   list the 52 weeks, marking current and selected
  show [--week N]         show a week (default: the selected week)
  meal W D M TEXT         set the text of meal M on day D of week W
  toggle-meal W D M       flip the out-of-place flag of a meal
  gym W D                 flip the gym flag of a day
  weight W TEXT           set the weight of week W
  select W                remember W as the selected week

Indices are 0-based: weeks 0-51, days 0-6 (Monday first),
meals 0-4 (desayuno, almuerzo, merienda, cena, postre).

Flags:
`

// errUsage marks invocation mistakes; main prints the usage after them.
var errUsage = errors.New("usage")

type options struct {
	port     string
	backend  string
	logLevel string
	week     int
}

func main() {
	cli.LoadEnvFile()

	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("comida", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.port, "port", "p", "", "HTTP port, overrides PORT")
	flagSet.StringVarP(&opts.backend, "backend", "b", "", "storage backend (memory|file|sqlite), overrides DATA_BACKEND")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	flagSet.IntVarP(&opts.week, "week", "w", -1, "week index for show")
	flagSet.Usage = func() {
		fmt.Fprint(stderr, usage)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		flagSet.Usage()
		return fmt.Errorf("%w: missing command", errUsage)
	}
	name, cmdArgs := rest[0], rest[1:]

	cfg, err := cli.LoadAndValidateConfig(func(c *config.Config) {
		if opts.port != "" {
			c.Port = opts.port
		}
		if opts.backend != "" {
			c.DataBackend = opts.backend
		}
		if opts.logLevel != "" {
			c.LogLevel = opts.logLevel
		}
	})
	if err != nil {
		return err
	}

	if name == "serve" {
		logger := cli.SetupLogger(cfg.LogLevel, stdout)
		return serve(ctx, cfg, logger)
	}

	// One-shot commands keep stdout for their output and only log problems.
	level := "warn"
	if cfg.LogLevel == "debug" {
		level = "debug"
	}
	logger := cli.SetupLogger(level, stderr).WithComponent(log.ComponentCLI)

	cmd, ok := commands[name]
	if !ok {
		flagSet.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
	if len(cmdArgs) < cmd.minArgs {
		return fmt.Errorf("%w: %s needs %d arguments: %s", errUsage, name, cmd.minArgs, cmd.argNames)
	}

	res, cleanup, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	session := tracker.Open(ctx, tracker.NewStore(res.Store, logger), time.Now(), logger)
	return cmd.run(ctx, session, cmdArgs, opts, stdout)
}

type command struct {
	minArgs  int
	argNames string
	run      func(ctx context.Context, s *tracker.Session, args []string, opts options, out io.Writer) error
}

var commands = map[string]command{
	"weeks": {run: func(_ context.Context, s *tracker.Session, _ []string, _ options, out io.Writer) error {
		_, err := fmt.Fprint(out, render.WeekList(s.Weeks(), s.SelectedWeek()))
		return err
	}},
	"show": {run: func(_ context.Context, s *tracker.Session, _ []string, opts options, out io.Writer) error {
		week := opts.week
		if week < 0 {
			week = s.SelectedWeek()
		}
		return printWeek(s, week, out)
	}},
	"meal": {minArgs: 4, argNames: "W D M TEXT", run: func(ctx context.Context, s *tracker.Session, args []string, _ options, out io.Writer) error {
		idx, err := parseIndices(args[:3], "week", "day", "meal")
		if err != nil {
			return err
		}
		if _, err := s.UpdateMealText(ctx, idx[0], idx[1], idx[2], strings.Join(args[3:], " ")); err != nil {
			return err
		}
		return printWeek(s, idx[0], out)
	}},
	"toggle-meal": {minArgs: 3, argNames: "W D M", run: func(ctx context.Context, s *tracker.Session, args []string, _ options, out io.Writer) error {
		idx, err := parseIndices(args[:3], "week", "day", "meal")
		if err != nil {
			return err
		}
		if _, err := s.ToggleMealOutOfPlace(ctx, idx[0], idx[1], idx[2]); err != nil {
			return err
		}
		return printWeek(s, idx[0], out)
	}},
	"gym": {minArgs: 2, argNames: "W D", run: func(ctx context.Context, s *tracker.Session, args []string, _ options, out io.Writer) error {
		idx, err := parseIndices(args[:2], "week", "day")
		if err != nil {
			return err
		}
		if _, err := s.ToggleGym(ctx, idx[0], idx[1]); err != nil {
			return err
		}
		return printWeek(s, idx[0], out)
	}},
	"weight": {minArgs: 2, argNames: "W TEXT", run: func(ctx context.Context, s *tracker.Session, args []string, _ options, out io.Writer) error {
		idx, err := parseIndices(args[:1], "week")
		if err != nil {
			return err
		}
		if _, err := s.UpdateWeight(ctx, idx[0], strings.Join(args[1:], " ")); err != nil {
			return err
		}
		return printWeek(s, idx[0], out)
	}},
	"select": {minArgs: 1, argNames: "W", run: func(ctx context.Context, s *tracker.Session, args []string, _ options, out io.Writer) error {
		idx, err := parseIndices(args[:1], "week")
		if err != nil {
			return err
		}
		if err := s.SelectWeek(ctx, idx[0]); err != nil {
			return err
		}
		desc, _, _ := s.Week(idx[0])
		_, err = fmt.Fprintf(out, "Seleccionada: %s\n", desc.Label())
		return err
	}},
}

func printWeek(s *tracker.Session, week int, out io.Writer) error {
	desc, rec, err := s.Week(week)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, render.Week(desc, rec, week == s.SelectedWeek()))
	return err
}

// parseIndices converts positional arguments to integers; range checks are
// left to the session.
func parseIndices(args []string, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(strings.TrimSpace(args[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q is not an integer", errUsage, name, args[i])
		}
		out[i] = v
	}
	return out, nil
}
