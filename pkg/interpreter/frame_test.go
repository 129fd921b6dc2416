package interpreter

import (
	"testing"

	"ippcode/pkg/fatal"
	"ippcode/pkg/program"
)

func TestFrameStore(t *testing.T) {
	s := NewFrameStore()

	if err := s.Declare("GF", "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Write("GF", "a", Int(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// redeclaring drops the value
	if err := s.Declare("GF", "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Read("GF", "a"); !fatal.Is(err, fatal.CodeMissingValue) {
		t.Errorf("expected unset read to fail with %d, got %v", fatal.CodeMissingValue, err)
	}
	if err := s.Write("GF", "b", Int(1)); !fatal.Is(err, fatal.CodeUndefinedVar) {
		t.Errorf("expected write to undeclared variable to fail with %d, got %v", fatal.CodeUndefinedVar, err)
	}

	s.CreateTemp()
	if err := s.Declare("TF", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Write("TF", "x", String("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.PushTemp(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Temporary() != nil {
		t.Errorf("expected temporary frame to be consumed by push")
	}
	if s.Depth() != 1 {
		t.Errorf("expected one local frame, got %d", s.Depth())
	}

	if err := s.PopLocal(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the temporary frame is a copy of the popped one
	if err := s.Write("TF", "x", String("changed")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, err := s.Read("TF", "x"); err != nil || v.Str != "changed" {
		t.Errorf("expected changed, got %v %v", v, err)
	}

	if s.Initialized() != 1 {
		t.Errorf("expected 1 initialized variable, got %d", s.Initialized())
	}
}

func TestResolveLabels(t *testing.T) {
	pb := []program.Instruction{
		{Order: 3, Opcode: program.OpLabel, Args: []program.Operand{program.Const(program.KindLabel, "end")}},
		{Order: 1, Opcode: program.OpLabel, Args: []program.Operand{program.Const(program.KindLabel, "start")}},
	}

	labels, err := ResolveLabels(pb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order, err := labels.Lookup("end"); err != nil || order != 3 {
		t.Errorf("expected end at 3, got %d %v", order, err)
	}
	if _, err := labels.Lookup("missing"); !fatal.Is(err, fatal.CodeSemantic) {
		t.Errorf("expected undefined label to fail with %d, got %v", fatal.CodeSemantic, err)
	}
}
