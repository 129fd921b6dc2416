package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"ippcode/internal/config"
	"ippcode/pkg/fatal"
	"ippcode/pkg/interpreter"
	"ippcode/pkg/program"
)

type Runner struct {
	SourceFile string   // XML program, stdin when empty
	InputFile  string   // input for READ, stdin when empty
	StatsFile  string   // statistics output, none when empty
	Counters   []string // counters written to StatsFile, in order
	MaxSteps   int      // step limit, 0 for none

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer // DPRINT and BREAK
}

// Run decodes the program, executes it and writes the statistics file.
// It returns the process exit code.
func (r *Runner) Run() int {
	code, err := r.run()
	if err != nil {
		var fe *fatal.Error
		if errors.As(err, &fe) {
			log.Error("Execution failed", "code", int(fe.Code), "order", fe.Order, "error", fe.Msg)
		} else {
			log.Error("Execution failed", "code", code, "error", err)
		}
	}
	return code
}

func (r *Runner) run() (int, error) {
	r.defaults()

	source, closeSource, err := r.open(r.SourceFile)
	if err != nil {
		return int(fatal.CodeOf(err)), err
	}
	defer closeSource()

	input, closeInput, err := r.open(r.InputFile)
	if err != nil {
		return int(fatal.CodeOf(err)), err
	}
	defer closeInput()

	log.Debug("Decoding program", "file", r.SourceFile)
	pb, err := program.Decode(source)
	if err != nil {
		return int(fatal.CodeOf(err)), err
	}

	out := bufio.NewWriter(r.Stdout)
	defer out.Flush()

	it, err := interpreter.NewInterpreter(pb,
		interpreter.WithInput(input),
		interpreter.WithWriter(out),
		interpreter.WithDiagnostics(r.Stderr),
		interpreter.WithMaxSteps(r.MaxSteps),
	)
	if err != nil {
		return int(fatal.CodeOf(err)), err
	}

	runErr := it.Run()
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return int(fatal.CodeOf(runErr)), runErr
	}

	log.Debug("Program finished", "executed", it.Executed(), "exit", it.ExitCode())

	if err := r.writeStats(it); err != nil {
		return int(fatal.CodeOf(err)), err
	}
	return it.ExitCode(), nil
}

func (r *Runner) defaults() {
	if r.Stdin == nil {
		r.Stdin = os.Stdin
	}
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
}

// open returns the named file, or stdin when name is empty
func (r *Runner) open(name string) (io.Reader, func(), error) {
	if name == "" {
		return r.Stdin, func() {}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fatal.Errorf(fatal.CodeInputFile, "cannot open %s: %v", name, err)
	}
	return f, func() { f.Close() }, nil
}

// writeStats writes one counter value per line in the requested order
func (r *Runner) writeStats(it *interpreter.Interpreter) error {
	if r.StatsFile == "" {
		return nil
	}

	var sb strings.Builder
	for _, c := range r.Counters {
		switch c {
		case config.CounterInsts:
			fmt.Fprintln(&sb, it.Executed())
		case config.CounterVars:
			fmt.Fprintln(&sb, it.MaxInitializedVars())
		default:
			return fatal.Errorf(fatal.CodeBadArgs, "unknown stats counter %q", c)
		}
	}

	if err := os.WriteFile(r.StatsFile, []byte(sb.String()), 0o644); err != nil {
		return fatal.Errorf(fatal.CodeOutputFile, "cannot write %s: %v", r.StatsFile, err)
	}
	return nil
}
