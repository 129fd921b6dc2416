package interpreter

import (
	"bufio"
	"errors"
	"io"
	"os"
	"slices"

	"ippcode/pkg/fatal"
	"ippcode/pkg/program"
	"ippcode/pkg/stack"
)

// Interpreter executes a decoded IPPcode program. The program counter is an
// instruction order, not a slice index.
type Interpreter struct {
	pb        []program.Instruction // program block
	positions map[int]int           // order -> index into pb
	orders    []int                 // all orders, ascending
	labels    LabelTable

	frames *FrameStore
	data   *stack.Stack[Value] // data stack (PUSHS/POPS and *S opcodes)
	calls  *stack.Stack[int]   // return orders

	counter int // order of the instruction to execute
	next    int // order to continue with after the current instruction

	in   *bufio.Reader // input for READ
	out  io.Writer     // output for WRITE
	diag io.Writer     // DPRINT and BREAK

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // instructions executed
	maxVars  int // peak of initialized variables

	halted   bool
	exitCode int
}

type Option func(*Interpreter)

// WithWriter sets the output writer for WRITE
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithInput sets the line-oriented source consumed by READ
func WithInput(r io.Reader) Option {
	return func(i *Interpreter) { i.in = bufio.NewReader(r) }
}

// WithDiagnostics sets the writer receiving DPRINT and BREAK output
func WithDiagnostics(w io.Writer) Option {
	return func(i *Interpreter) { i.diag = w }
}

// WithMaxSteps sets a maximum number of interpreter steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// NewInterpreter creates a new Interpreter instance. Labels and the order
// table are resolved before anything executes, so duplicate labels or
// duplicate orders fail here.
func NewInterpreter(pb []program.Instruction, opts ...Option) (*Interpreter, error) {
	it := &Interpreter{}

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}
	if it.diag == nil {
		it.diag = os.Stderr
	}
	if it.in == nil {
		it.in = bufio.NewReader(os.Stdin)
	}

	if err := it.Load(pb); err != nil {
		return nil, err
	}

	return it, nil
}

// Load replaces the current program block with a new one, resetting state
func (i *Interpreter) Load(pb []program.Instruction) error {
	positions, orders, err := indexProgram(pb)
	if err != nil {
		return err
	}

	labels, err := ResolveLabels(pb)
	if err != nil {
		return err
	}

	i.pb = slices.Clone(pb)
	i.positions = positions
	i.orders = orders
	i.labels = labels
	i.Reset()

	return nil
}

// Reset clears runtime state (frames, stacks, counter, statistics)
func (i *Interpreter) Reset() {
	i.frames = NewFrameStore()
	i.data = stack.NewStack[Value]()
	i.calls = stack.NewStack[int]()
	i.counter = 1
	i.next = 1
	i.steps = 0
	i.maxVars = 0
	i.halted = false
	i.exitCode = 0
}

// Frames returns the frame store
func (i *Interpreter) Frames() *FrameStore {
	return i.frames
}

// DataStack returns the data stack contents, bottom first
func (i *Interpreter) DataStack() []Value {
	return slices.Clone(i.data.Array())
}

// PC returns the order of the next instruction to execute
func (i *Interpreter) PC() int {
	return i.counter
}

// Executed returns the number of instructions executed so far
func (i *Interpreter) Executed() int {
	return i.steps
}

// MaxInitializedVars returns the peak number of variables holding a value,
// sampled after every instruction
func (i *Interpreter) MaxInitializedVars() int {
	return i.maxVars
}

// ExitCode returns the code requested by EXIT, or 0
func (i *Interpreter) ExitCode() int {
	return i.exitCode
}

// Halted reports whether the program finished or executed EXIT
func (i *Interpreter) Halted() bool {
	return i.halted
}

// fetch returns the instruction at the counter; ok is false past the last
// order. An order missing below the last one is a structural error.
func (i *Interpreter) fetch() (ins program.Instruction, ok bool, err error) {
	if pos, found := i.positions[i.counter]; found {
		return i.pb[pos], true, nil
	}

	if len(i.orders) == 0 || i.counter > i.orders[len(i.orders)-1] {
		return program.Instruction{}, false, nil
	}
	return program.Instruction{}, false, fatal.Errorf(fatal.CodeStructure, "no instruction with order %d", i.counter)
}

// Step executes a single instruction, returning (halted, error)
func (i *Interpreter) Step() (bool, error) {
	if i.halted {
		return true, nil
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	ins, ok, err := i.fetch()
	if err != nil {
		return false, err
	}
	if !ok {
		i.halted = true
		return true, nil
	}

	i.counter = ins.Order
	i.next = ins.Order + 1

	if err := i.exec(ins); err != nil {
		return false, fatal.At(err, ins.Order)
	}

	i.steps++
	if n := i.frames.Initialized(); n > i.maxVars {
		i.maxVars = n
	}
	i.counter = i.next

	return i.halted, nil
}

// Run executes until halt or error
func (i *Interpreter) Run() error {
	for {
		halted, err := i.Step()
		if err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}

// jump continues execution at the named label
func (i *Interpreter) jump(label string) error {
	order, err := i.labels.Lookup(label)
	if err != nil {
		return err
	}

	i.next = order
	return nil
}

var (
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
)
