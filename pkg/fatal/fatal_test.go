package fatal_test

import (
	"errors"
	"fmt"
	"testing"

	"ippcode/pkg/fatal"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err      error
		expected fatal.Code
		name     string
	}{
		{nil, fatal.CodeOK, "nil error"},
		{fatal.Errorf(fatal.CodeOperandType, "bad"), fatal.CodeOperandType, "coded error"},
		{fmt.Errorf("wrapped: %w", fatal.Errorf(fatal.CodeString, "x")), fatal.CodeString, "wrapped coded error"},
		{errors.New("plain"), fatal.CodeInternal, "plain error"},
	}

	for _, test := range tests {
		if got := fatal.CodeOf(test.err); got != test.expected {
			t.Errorf("%s: expected %d, got %d", test.name, test.expected, got)
		}
	}
}

func TestAtKeepsFirstOrder(t *testing.T) {
	err := fatal.At(fatal.Errorf(fatal.CodeMissingFrame, "no frame"), 7)
	err = fatal.At(err, 9)

	var fe *fatal.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fatal.Error, got %T", err)
	}
	if fe.Order != 7 {
		t.Errorf("expected order 7, got %d", fe.Order)
	}
	if fe.Code != fatal.CodeMissingFrame {
		t.Errorf("expected code 55, got %d", fe.Code)
	}
}

func TestAtIgnoresForeignErrors(t *testing.T) {
	plain := errors.New("plain")
	if got := fatal.At(plain, 3); got != plain {
		t.Errorf("expected plain error to pass through, got %v", got)
	}
}
