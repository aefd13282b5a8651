// Command tape runs tape programs. With no flags it runs a built-in
// program that prints 16.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"nickandperla.net/tape/internal/config"
	"nickandperla.net/tape/pkg/tape"
)

const defaultProgram = "++++[->++++<]>."

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tape", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		evalStr    = fs.String("e", "", "Run tape source string")
		configPath = fs.String("config", "", "YAML configuration file")
		dbPath     = fs.String("db", "", "SQLite database path (overrides config)")
		steps      = fs.Int("steps", 0, "Step limit per run, 0 = unbounded (overrides config)")
		timeout    = fs.Duration("timeout", 0, "Wall time limit per run (overrides config)")
		save       = fs.String("save", "", "Save the -e source under this name")
		runName    = fs.String("run", "", "Run a stored or bundled program by name")
		check      = fs.Bool("check", false, "Parse only, report bracket errors")
		list       = fs.Bool("list", false, "List stored and bundled programs")
		history    = fs.String("history", "", "Show saved versions of a program")
		runs       = fs.String("runs", "", "Show recorded runs of a program")
		verbose    = fs.Bool("v", false, "Debug logging and run summary on stderr")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.Database = *dbPath
		case "steps":
			cfg.StepLimit = *steps
		case "timeout":
			cfg.Timeout = *timeout
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	opts := []tape.Option{
		tape.WithOutput(stdout),
		tape.WithStepLimit(cfg.StepLimit),
		tape.WithLogger(logger),
		tape.WithRecordRuns(cfg.RecordRuns),
	}
	if cfg.Database != "" {
		opts = append(opts, tape.WithSQLiteStore(cfg.Database))
	} else {
		opts = append(opts, tape.WithMemoryStore())
	}

	runtime, err := tape.New(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer runtime.Close()

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	switch {
	case *list:
		names, err := runtime.Programs()
		if err != nil {
			return fail(stderr, err)
		}
		for _, n := range names {
			fmt.Fprintln(stdout, n)
		}
		return 0

	case *history != "":
		versions, err := runtime.History(*history, 0)
		if err != nil {
			return fail(stderr, err)
		}
		for _, v := range versions {
			fmt.Fprintf(stdout, "v%d\t%s\t%s\n", v.Version, when(v.Ts), v.Source)
		}
		return 0

	case *runs != "":
		records, err := runtime.Runs(*runs, 0)
		if err != nil {
			return fail(stderr, err)
		}
		for _, r := range records {
			status := "ok"
			if r.Err != "" {
				status = r.Err
			}
			fmt.Fprintf(stdout, "%s\t%s\t%s steps\t%v\t%s\n",
				r.ID, when(r.Ts), humanize.Comma(int64(r.Steps)), r.Output, status)
		}
		return 0

	case *save != "":
		if *evalStr == "" {
			fmt.Fprintln(stderr, "Error: -save requires -e")
			return 2
		}
		if err := runtime.Save(*save, *evalStr); err != nil {
			return fail(stderr, err)
		}
		return 0

	case *check:
		source := *evalStr
		if *runName != "" {
			if source, err = runtime.Lookup(*runName); err != nil {
				return fail(stderr, err)
			}
		}
		if err := runtime.Check(source); err != nil {
			return fail(stderr, err)
		}
		return 0
	}

	var res *tape.Result
	switch {
	case *runName != "":
		res, err = runtime.RunNamed(ctx, *runName)
	case *evalStr != "":
		res, err = runtime.Run(ctx, *evalStr)
	default:
		res, err = runtime.Run(ctx, defaultProgram)
	}

	if *verbose && res != nil {
		fmt.Fprintf(stderr, "%s steps, %s cells, %d printed\n",
			humanize.Comma(int64(res.Steps)), humanize.Comma(int64(res.TapeLen)), len(res.Values))
	}
	if err != nil {
		return fail(stderr, err)
	}
	return 0
}

func fail(stderr io.Writer, err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("timed out: %w", err)
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// when renders a stored RFC 3339 timestamp relative to now.
func when(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}
