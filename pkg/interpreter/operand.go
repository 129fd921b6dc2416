package interpreter

import (
	"strconv"

	"ippcode/pkg/fatal"
	"ippcode/pkg/program"
)

// constValue converts a constant operand to a Value according to its
// declared type.
func constValue(op program.Operand) (Value, error) {
	switch op.Kind {
	case program.KindInt:
		n, err := strconv.ParseInt(op.Text, 10, 64)
		if err != nil {
			return Value{}, fatal.Errorf(fatal.CodeStructure, "invalid int literal %q", op.Text)
		}
		return Int(n), nil

	case program.KindBool:
		switch op.Text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		default:
			return Value{}, fatal.Errorf(fatal.CodeStructure, "invalid bool literal %q", op.Text)
		}

	case program.KindString:
		return String(unescape(op.Text)), nil

	case program.KindNil:
		return Nil(), nil

	case program.KindType:
		return Value{Kind: KindType, Str: op.Text}, nil

	case program.KindLabel:
		return Value{Kind: KindLabel, Str: op.Text}, nil

	default:
		return Value{}, fatal.Errorf(fatal.CodeStructure, "unknown operand type %q", op.Kind)
	}
}

// resolve turns an operand into a Value; variables must hold a value
func (i *Interpreter) resolve(op program.Operand) (Value, error) {
	if op.IsVar() {
		return i.frames.Read(op.Frame(), op.Name())
	}
	return constValue(op)
}

// resolveLoose is resolve without the missing-value check. set is false
// when op is a declared variable that has not been assigned yet.
func (i *Interpreter) resolveLoose(op program.Operand) (v Value, set bool, err error) {
	if !op.IsVar() {
		v, err = constValue(op)
		return v, err == nil, err
	}

	b, err := i.frames.Lookup(op.Frame(), op.Name())
	if err != nil {
		return Value{}, false, err
	}
	return b.Value, b.Set, nil
}

// checkTarget verifies that the destination variable of an instruction exists
func (i *Interpreter) checkTarget(op program.Operand) error {
	_, err := i.frames.Lookup(op.Frame(), op.Name())
	return err
}

// store assigns v to the destination variable
func (i *Interpreter) store(op program.Operand, v Value) error {
	return i.frames.Write(op.Frame(), op.Name(), v)
}
