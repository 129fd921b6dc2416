package interpreter

import (
	"unicode/utf8"

	"ippcode/pkg/fatal"
)

type binaryFn func(a, b Value) (Value, error)
type unaryFn func(a Value) (Value, error)

// arith lifts an int64 operation to Values; both operands must be ints
func arith(name string, fn func(a, b int64) (int64, error)) binaryFn {
	return func(a, b Value) (Value, error) {
		if a.Kind != KindInt || b.Kind != KindInt {
			return Value{}, typeError(name, a, b)
		}

		r, err := fn(a.I64, b.I64)
		if err != nil {
			return Value{}, err
		}
		return Int(r), nil
	}
}

var (
	addValues = arith("ADD", func(a, b int64) (int64, error) { return a + b, nil })
	subValues = arith("SUB", func(a, b int64) (int64, error) { return a - b, nil })
	mulValues = arith("MUL", func(a, b int64) (int64, error) { return a * b, nil })

	// Go integer division truncates toward zero.
	idivValues = arith("IDIV", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, fatal.Errorf(fatal.CodeBadValue, "IDIV: division by zero")
		}
		return a / b, nil
	})
)

func ltValues(a, b Value) (Value, error) {
	r, err := less("LT", a, b)
	return Bool(r), err
}

func gtValues(a, b Value) (Value, error) {
	r, err := less("GT", b, a)
	return Bool(r), err
}

func eqValues(a, b Value) (Value, error) {
	r, err := equal("EQ", a, b)
	return Bool(r), err
}

func logic(name string, fn func(a, b bool) bool) binaryFn {
	return func(a, b Value) (Value, error) {
		if a.Kind != KindBool || b.Kind != KindBool {
			return Value{}, typeError(name, a, b)
		}
		return Bool(fn(a.Bool, b.Bool)), nil
	}
}

var (
	andValues = logic("AND", func(a, b bool) bool { return a && b })
	orValues  = logic("OR", func(a, b bool) bool { return a || b })
)

func notValue(a Value) (Value, error) {
	if a.Kind != KindBool {
		return Value{}, typeError("NOT", a)
	}
	return Bool(!a.Bool), nil
}

func int2char(a Value) (Value, error) {
	if a.Kind != KindInt {
		return Value{}, typeError("INT2CHAR", a)
	}

	if a.I64 < 0 || a.I64 > utf8.MaxRune || !utf8.ValidRune(rune(a.I64)) {
		return Value{}, fatal.Errorf(fatal.CodeString, "INT2CHAR: %d is not a valid code point", a.I64)
	}
	return String(string(rune(a.I64))), nil
}

// charAt returns the code point at index idx of s
func charAt(name string, s, idx Value) (rune, error) {
	if s.Kind != KindString || idx.Kind != KindInt {
		return 0, typeError(name, s, idx)
	}

	runes := []rune(s.Str)
	if idx.I64 < 0 || idx.I64 >= int64(len(runes)) {
		return 0, fatal.Errorf(fatal.CodeString, "%s: index %d out of range [0,%d)", name, idx.I64, len(runes))
	}
	return runes[idx.I64], nil
}

func stri2int(s, idx Value) (Value, error) {
	r, err := charAt("STRI2INT", s, idx)
	if err != nil {
		return Value{}, err
	}
	return Int(int64(r)), nil
}

func getChar(s, idx Value) (Value, error) {
	r, err := charAt("GETCHAR", s, idx)
	if err != nil {
		return Value{}, err
	}
	return String(string(r)), nil
}

func concat(a, b Value) (Value, error) {
	if a.Kind != KindString || b.Kind != KindString {
		return Value{}, typeError("CONCAT", a, b)
	}
	return String(a.Str + b.Str), nil
}

func strLen(a Value) (Value, error) {
	if a.Kind != KindString {
		return Value{}, typeError("STRLEN", a)
	}
	return Int(int64(utf8.RuneCountInString(a.Str))), nil
}

// setChar replaces the character at idx of s with the first character of c
func setChar(s, idx, c Value) (Value, error) {
	if s.Kind != KindString || idx.Kind != KindInt || c.Kind != KindString {
		return Value{}, typeError("SETCHAR", s, idx, c)
	}

	runes := []rune(s.Str)
	if idx.I64 < 0 || idx.I64 >= int64(len(runes)) {
		return Value{}, fatal.Errorf(fatal.CodeString, "SETCHAR: index %d out of range [0,%d)", idx.I64, len(runes))
	}

	r, size := utf8.DecodeRuneInString(c.Str)
	if size == 0 {
		return Value{}, fatal.Errorf(fatal.CodeString, "SETCHAR: empty replacement string")
	}

	runes[idx.I64] = r
	return String(string(runes)), nil
}

// typeOf returns the TYPE result for a resolved operand
func typeOf(v Value, set bool) Value {
	if !set {
		return String("")
	}

	switch v.Kind {
	case KindInt, KindBool, KindString, KindNil:
		return String(v.Kind.String())
	default:
		return String("")
	}
}
