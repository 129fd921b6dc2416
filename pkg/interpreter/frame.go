package interpreter

import (
	"maps"
	"slices"

	"ippcode/pkg/fatal"
	"ippcode/pkg/program"
	"ippcode/pkg/stack"
)

// Binding is the content of a declared variable. Set is false between DEFVAR
// and the first assignment, which is distinct from holding nil.
type Binding struct {
	Value Value
	Set   bool
}

// Frame represents a variable scope (name -> binding).
type Frame struct {
	vars map[string]Binding
}

func newFrame() *Frame {
	return &Frame{vars: make(map[string]Binding)}
}

// Lookup returns the binding of name and whether it is declared.
func (f *Frame) Lookup(name string) (Binding, bool) {
	b, ok := f.vars[name]
	return b, ok
}

// Names returns the declared names in sorted order.
func (f *Frame) Names() []string {
	return slices.Sorted(maps.Keys(f.vars))
}

// Len returns the number of declared variables.
func (f *Frame) Len() int {
	return len(f.vars)
}

func (f *Frame) initialized() int {
	n := 0
	for _, b := range f.vars {
		if b.Set {
			n++
		}
	}
	return n
}

func (f *Frame) clone() *Frame {
	return &Frame{vars: maps.Clone(f.vars)}
}

// FrameStore holds the global frame, the local frame stack and the temporary
// frame slot.
type FrameStore struct {
	global    *Frame
	locals    *stack.Stack[*Frame]
	temporary *Frame // nil while absent
}

// NewFrameStore creates a store with an empty global frame, no local frames
// and no temporary frame.
func NewFrameStore() *FrameStore {
	return &FrameStore{
		global: newFrame(),
		locals: stack.NewStack[*Frame](),
	}
}

// Global returns the global frame.
func (s *FrameStore) Global() *Frame {
	return s.global
}

// Local returns the top local frame, or nil when the stack is empty.
func (s *FrameStore) Local() *Frame {
	f, _ := s.locals.Peek()
	return f
}

// Temporary returns the temporary frame, or nil when it does not exist.
func (s *FrameStore) Temporary() *Frame {
	return s.temporary
}

// Depth returns the number of local frames.
func (s *FrameStore) Depth() int {
	return s.locals.Size()
}

// frame selects the frame addressed by a frame selector
func (s *FrameStore) frame(sel string) (*Frame, error) {
	switch sel {
	case program.FrameGlobal:
		return s.global, nil
	case program.FrameLocal:
		f, ok := s.locals.Peek()
		if !ok {
			return nil, fatal.Errorf(fatal.CodeMissingFrame, "local frame does not exist")
		}
		return f, nil
	case program.FrameTemporary:
		if s.temporary == nil {
			return nil, fatal.Errorf(fatal.CodeMissingFrame, "temporary frame does not exist")
		}
		return s.temporary, nil
	default:
		return nil, fatal.Errorf(fatal.CodeStructure, "invalid frame %q", sel)
	}
}

// Declare binds name in the selected frame to no value, discarding any
// previous binding.
func (s *FrameStore) Declare(sel, name string) error {
	f, err := s.frame(sel)
	if err != nil {
		return err
	}

	f.vars[name] = Binding{}
	return nil
}

// Lookup returns the binding of a declared variable without requiring a value.
func (s *FrameStore) Lookup(sel, name string) (Binding, error) {
	f, err := s.frame(sel)
	if err != nil {
		return Binding{}, err
	}

	b, ok := f.vars[name]
	if !ok {
		return Binding{}, fatal.Errorf(fatal.CodeUndefinedVar, "variable %s@%s is not declared", sel, name)
	}
	return b, nil
}

// Read returns the value of an assigned variable.
func (s *FrameStore) Read(sel, name string) (Value, error) {
	b, err := s.Lookup(sel, name)
	if err != nil {
		return Value{}, err
	}

	if !b.Set {
		return Value{}, fatal.Errorf(fatal.CodeMissingValue, "variable %s@%s has no value", sel, name)
	}
	return b.Value, nil
}

// Write assigns v to a declared variable.
func (s *FrameStore) Write(sel, name string, v Value) error {
	if _, err := s.Lookup(sel, name); err != nil {
		return err
	}

	f, _ := s.frame(sel)
	f.vars[name] = Binding{Value: v, Set: true}
	return nil
}

// CreateTemp replaces the temporary frame with a fresh empty one.
func (s *FrameStore) CreateTemp() {
	s.temporary = newFrame()
}

// PushTemp moves the temporary frame onto the local frame stack.
func (s *FrameStore) PushTemp() error {
	if s.temporary == nil {
		return fatal.Errorf(fatal.CodeMissingFrame, "no temporary frame to push")
	}

	s.locals.Push(s.temporary)
	s.temporary = nil
	return nil
}

// PopLocal removes the top local frame and stores a copy of it as the
// temporary frame.
func (s *FrameStore) PopLocal() error {
	f, ok := s.locals.Pop()
	if !ok {
		return fatal.Errorf(fatal.CodeMissingFrame, "no local frame to pop")
	}

	s.temporary = f.clone()
	return nil
}

// Initialized counts variables holding a value across all frames.
func (s *FrameStore) Initialized() int {
	n := s.global.initialized()
	for _, f := range s.locals.Array() {
		n += f.initialized()
	}
	if s.temporary != nil {
		n += s.temporary.initialized()
	}
	return n
}
