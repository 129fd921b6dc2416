package interpreter

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"ippcode/pkg/fatal"
	"ippcode/pkg/program"
)

// readLine returns the next input line without its line terminator; ok is
// false at end of input
func (i *Interpreter) readLine() (string, bool, error) {
	line, err := i.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, fatal.Errorf(fatal.CodeInputFile, "READ: %v", err)
		}
		if line == "" {
			return "", false, nil
		}
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

// read converts one input line to the requested type, falling back to the
// type's default value on malformed or missing input
func read(i *Interpreter, args []program.Operand) error {
	if err := i.checkTarget(args[0]); err != nil {
		return err
	}

	typ := args[1].Text
	switch typ {
	case "int", "bool", "string":
	case "nil":
		return fatal.Errorf(fatal.CodeStructure, "READ: cannot read type nil")
	default:
		return fatal.Errorf(fatal.CodeOperandType, "READ: unknown type %q", typ)
	}

	line, ok, err := i.readLine()
	if err != nil {
		return err
	}

	var v Value
	switch typ {
	case "int":
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if !ok || err != nil {
			n = 0
		}
		v = Int(n)
	case "bool":
		v = Bool(ok && strings.ToLower(line) == "true")
	case "string":
		v = String(line)
	}

	return i.store(args[0], v)
}

func write(i *Interpreter, args []program.Operand) error {
	v, err := i.resolve(args[0])
	if err != nil {
		return err
	}

	_, err = io.WriteString(i.out, v.String())
	return err
}

func dprint(i *Interpreter, args []program.Operand) error {
	v, err := i.resolve(args[0])
	if err != nil {
		return err
	}

	_, err = io.WriteString(i.diag, v.String())
	return err
}

func exit(i *Interpreter, args []program.Operand) error {
	v, err := i.resolve(args[0])
	if err != nil {
		return err
	}

	if v.Kind != KindInt {
		return typeError("EXIT", v)
	}
	if v.I64 < 0 || v.I64 > 49 {
		return fatal.Errorf(fatal.CodeBadValue, "EXIT: code %d out of range [0,49]", v.I64)
	}

	i.exitCode = int(v.I64)
	i.halted = true
	return nil
}

// Snapshot is the interpreter state written by BREAK
type Snapshot struct {
	Order        int               `yaml:"order"`
	Executed     int               `yaml:"executed"`
	Global       map[string]string `yaml:"global"`
	LocalFrames  int               `yaml:"local_frames"`
	TopLocal     map[string]string `yaml:"top_local,omitempty"`
	HasTemporary bool              `yaml:"has_temporary"`
	Temporary    map[string]string `yaml:"temporary,omitempty"`
	DataStack    []string          `yaml:"data_stack"`
	CallStack    []int             `yaml:"call_stack"`
}

func describeFrame(f *Frame) map[string]string {
	if f == nil {
		return nil
	}

	out := make(map[string]string, f.Len())
	for _, name := range f.Names() {
		b, _ := f.Lookup(name)
		if b.Set {
			out[name] = b.Value.Describe()
		} else {
			out[name] = "<unset>"
		}
	}
	return out
}

// Snapshot captures the current frames and stacks
func (i *Interpreter) Snapshot() Snapshot {
	s := Snapshot{
		Order:        i.counter,
		Executed:     i.steps,
		Global:       describeFrame(i.frames.Global()),
		LocalFrames:  i.frames.Depth(),
		TopLocal:     describeFrame(i.frames.Local()),
		HasTemporary: i.frames.Temporary() != nil,
		Temporary:    describeFrame(i.frames.Temporary()),
		DataStack:    make([]string, 0, i.data.Size()),
		CallStack:    append([]int{}, i.calls.Array()...),
	}

	for _, v := range i.data.Array() {
		s.DataStack = append(s.DataStack, v.Describe())
	}
	return s
}

func breakpoint(i *Interpreter, _ []program.Operand) error {
	out, err := yaml.Marshal(i.Snapshot())
	if err != nil {
		return fmt.Errorf("BREAK: %w", err)
	}

	_, err = fmt.Fprintf(i.diag, "---\n%s", out)
	return err
}
