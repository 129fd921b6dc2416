package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"ippcode/pkg/fatal"
)

type ValueKind int

const (
	KindUnknown ValueKind = iota
	KindInt
	KindBool
	KindString
	KindNil
	KindType
	KindLabel
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindInt:     "int",
	KindBool:    "bool",
	KindString:  "string",
	KindNil:     "nil",
	KindType:    "type",
	KindLabel:   "label",
}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Value represents a dynamically-typed runtime value. Str holds the text of
// strings, type names and label names.
type Value struct {
	Kind ValueKind
	I64  int64
	Bool bool
	Str  string
}

// String renders the value the way WRITE prints it.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString, KindType, KindLabel:
		return v.Str
	default:
		return ""
	}
}

// Describe renders the value together with its type, e.g. "int@5".
func (v Value) Describe() string {
	if v.Kind == KindNil {
		return "nil@nil"
	}
	return v.Kind.String() + "@" + v.String()
}

// Int builds an int value.
func Int(i int64) Value {
	return Value{Kind: KindInt, I64: i}
}

// Bool builds a bool value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// String builds a string value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Nil returns the nil value.
func Nil() Value {
	return Value{Kind: KindNil}
}

var escapeRegex = regexp.MustCompile(`\\(\d{3})`)

// unescape expands \DDD decimal escape sequences into the characters they encode.
func unescape(s string) string {
	return escapeRegex.ReplaceAllStringFunc(s, func(m string) string {
		code, _ := strconv.Atoi(m[1:])
		return string(rune(code))
	})
}

func typeError(op string, vals ...Value) error {
	kinds := make([]string, len(vals))
	for n, v := range vals {
		kinds[n] = v.Kind.String()
	}
	return fatal.Errorf(fatal.CodeOperandType, "%s: invalid operand types (%s)", op, strings.Join(kinds, ", "))
}

// equal compares two values. Nil is equal only to nil and may be compared
// against any kind; other kinds must match.
func equal(op string, a, b Value) (bool, error) {
	if a.Kind == KindNil || b.Kind == KindNil {
		return a.Kind == b.Kind, nil
	}

	if a.Kind != b.Kind {
		return false, typeError(op, a, b)
	}

	switch a.Kind {
	case KindInt:
		return a.I64 == b.I64, nil
	case KindBool:
		return a.Bool == b.Bool, nil
	case KindString:
		return a.Str == b.Str, nil
	default:
		return false, typeError(op, a, b)
	}
}

// less orders two values of the same kind; false sorts before true and
// strings compare by code point.
func less(op string, a, b Value) (bool, error) {
	if a.Kind != b.Kind || a.Kind == KindNil {
		return false, typeError(op, a, b)
	}

	switch a.Kind {
	case KindInt:
		return a.I64 < b.I64, nil
	case KindBool:
		return !a.Bool && b.Bool, nil
	case KindString:
		return a.Str < b.Str, nil
	default:
		return false, typeError(op, a, b)
	}
}
