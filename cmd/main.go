package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"ippcode/internal/config"
	"ippcode/internal/logger"
	"ippcode/internal/runner"
	"ippcode/pkg/fatal"
)

type options struct {
	Help       bool   // Show help message
	Verbose    bool   // Trace every executed instruction
	NoColor    bool   // Disable colored output
	Insts      bool   // Count executed instructions
	Vars       bool   // Count peak of initialized variables
	SourceFile string // XML program
	InputFile  string // Input for READ
	StatsFile  string // Statistics output
	ConfigFile string // ippcode.toml
	MaxSteps   int    // Step limit
}

// Main entry point for the IPPcode19 interpreter.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("ippcode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.Help, "help", false, "Show help")
	fs.BoolVar(&opts.Verbose, "v", false, "Verbose mode")
	fs.BoolVar(&opts.NoColor, "n", false, "No color")
	fs.BoolVar(&opts.Insts, config.CounterInsts, false, "Write the number of executed instructions to the stats file")
	fs.BoolVar(&opts.Vars, config.CounterVars, false, "Write the peak number of initialized variables to the stats file")
	fs.StringVar(&opts.SourceFile, "source", "", "XML program (stdin when omitted)")
	fs.StringVar(&opts.InputFile, "input", "", "Input for READ (stdin when omitted)")
	fs.StringVar(&opts.StatsFile, "stats", "", "Statistics file")
	fs.StringVar(&opts.ConfigFile, "config", "", "Config file (default: nearest "+config.FileName+")")
	fs.IntVar(&opts.MaxSteps, "max-steps", 0, "Maximum executed instructions (0 = unlimited)")
	return fs
}

func run(args []string, stdout io.Writer) int {
	opts := options{}
	fs := newFlagSet(&opts)

	err := fs.Parse(args)
	logger.Init(os.Stderr, opts.Verbose, opts.NoColor)
	if err != nil {
		log.Error("Invalid arguments", "error", err, "help", "--help")
		return int(fatal.CodeBadArgs)
	}

	if opts.Help {
		if len(args) > 1 {
			log.Error("--help cannot be combined with other arguments")
			return int(fatal.CodeBadArgs)
		}
		usage(fs, stdout)
		return int(fatal.CodeOK)
	}

	if fs.NArg() > 0 {
		log.Error("Unexpected arguments", "args", fs.Args())
		return int(fatal.CodeBadArgs)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	counters, err := counterOrder(fs, args)
	if err != nil {
		log.Error("Invalid arguments", "error", err)
		return int(fatal.CodeBadArgs)
	}

	r, err := configure(opts, set, counters)
	if err != nil {
		log.Error("Invalid arguments", "error", err)
		return int(fatal.CodeBadArgs)
	}

	return r.Run()
}

// configure merges the flags with the config file and validates the result
func configure(opts options, set map[string]bool, counters []string) (*runner.Runner, error) {
	var cfg *config.Config
	var err error
	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}

	if opts.StatsFile != "" && len(counters) == 0 {
		return nil, fmt.Errorf("--stats requires --insts or --vars")
	}
	if opts.StatsFile == "" && len(counters) > 0 {
		return nil, fmt.Errorf("--insts and --vars require --stats")
	}

	r := &runner.Runner{
		SourceFile: opts.SourceFile,
		InputFile:  opts.InputFile,
		StatsFile:  opts.StatsFile,
		Counters:   counters,
		MaxSteps:   opts.MaxSteps,
	}

	if cfg != nil {
		log.Debug("Using config", "file", cfg.Path)

		if r.InputFile == "" {
			r.InputFile = cfg.Run.Input
		}
		if !set["max-steps"] {
			r.MaxSteps = cfg.Run.MaxSteps
		}
		if r.StatsFile == "" {
			r.StatsFile = cfg.Stats.File
			r.Counters = cfg.Stats.Counters
		}
		if cfg.Log.Verbose || cfg.Log.NoColor {
			logger.Init(os.Stderr, opts.Verbose || cfg.Log.Verbose, opts.NoColor || cfg.Log.NoColor)
		}
	}

	if r.SourceFile == "" && r.InputFile == "" {
		return nil, fmt.Errorf("at least one of --source and --input is required")
	}
	if r.MaxSteps < 0 {
		return nil, fmt.Errorf("--max-steps must not be negative")
	}

	return r, nil
}

// counterOrder returns the stats counters in the order they appear in args.
// Every flag may be given at most once.
func counterOrder(fs *flag.FlagSet, args []string) ([]string, error) {
	seen := map[string]bool{}

	var counters []string
	for n := 0; n < len(args); n++ {
		arg := args[n]
		if arg == "--" || len(arg) < 2 || arg[0] != '-' {
			break
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		f := fs.Lookup(name)
		if f == nil {
			return nil, fmt.Errorf("flag provided but not defined: %s", arg)
		}
		if seen[name] {
			return nil, fmt.Errorf("--%s given more than once", name)
		}
		seen[name] = true

		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			if enabled, err := strconv.ParseBool(value); hasValue && (err != nil || !enabled) {
				continue
			}
			if name == config.CounterInsts || name == config.CounterVars {
				counters = append(counters, name)
			}
			continue
		}

		// the value is the next argument
		if !hasValue {
			n++
		}
	}
	return counters, nil
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [options]\n", os.Args[0])
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
