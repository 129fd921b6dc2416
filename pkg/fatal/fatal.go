package fatal

import (
	"errors"
	"fmt"
)

// Code is a process exit code. Every failure of the interpreter maps to
// exactly one of these.
type Code int

const (
	CodeOK Code = 0

	CodeBadArgs    Code = 10 // invalid command-line parameters
	CodeInputFile  Code = 11 // cannot open an input file
	CodeOutputFile Code = 12 // cannot open an output file

	CodeMalformedXML Code = 31 // program cannot be parsed as XML
	CodeStructure    Code = 32 // unknown opcode, bad arity, bad literal, duplicate order
	CodeSemantic     Code = 52 // duplicate/undefined label, invalid variable name
	CodeOperandType  Code = 53 // operand types do not fit the opcode
	CodeUndefinedVar Code = 54 // frame exists but the name is not declared
	CodeMissingFrame Code = 55 // LF/TF accessed while absent
	CodeMissingValue Code = 56 // unassigned variable, empty data or call stack
	CodeBadValue     Code = 57 // division by zero, EXIT code out of range
	CodeString       Code = 58 // index or code point out of range

	CodeInternal Code = 99
)

var codeNames = map[Code]string{
	CodeBadArgs:      "bad arguments",
	CodeInputFile:    "input file",
	CodeOutputFile:   "output file",
	CodeMalformedXML: "malformed XML",
	CodeStructure:    "structure",
	CodeSemantic:     "semantic",
	CodeOperandType:  "operand type",
	CodeUndefinedVar: "undefined variable",
	CodeMissingFrame: "missing frame",
	CodeMissingValue: "missing value",
	CodeBadValue:     "bad operand value",
	CodeString:       "string operation",
	CodeInternal:     "internal",
}

// String returns a short human-readable name of the error class.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code %d", int(c))
}

// Error is a fatal interpreter error. Order is the order tag of the
// instruction that failed, or 0 when the failure happened outside execution.
type Error struct {
	Code  Code
	Order int
	Msg   string
}

func (e *Error) Error() string {
	if e.Order > 0 {
		return fmt.Sprintf("%s error at instruction %d: %s", e.Code, e.Order, e.Msg)
	}
	return fmt.Sprintf("%s error: %s", e.Code, e.Msg)
}

// Errorf creates a fatal error with the given code.
func Errorf(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// At attaches an instruction order to err if it is a fatal error without one.
func At(err error, order int) error {
	var fe *Error
	if errors.As(err, &fe) && fe.Order == 0 {
		return &Error{Code: fe.Code, Order: order, Msg: fe.Msg}
	}
	return err
}

// CodeOf returns the exit code carried by err. Errors that are not fatal
// errors map to CodeInternal, nil maps to CodeOK.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
