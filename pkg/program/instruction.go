package program

import (
	"fmt"
	"strings"
)

type Opcode string

// List of IPPcode opcodes
const (
	OpCreateFrame Opcode = "CREATEFRAME"
	OpPushFrame   Opcode = "PUSHFRAME"
	OpPopFrame    Opcode = "POPFRAME"
	OpDefVar      Opcode = "DEFVAR"
	OpMove        Opcode = "MOVE"
	OpPushS       Opcode = "PUSHS"
	OpPopS        Opcode = "POPS"

	OpAdd  Opcode = "ADD"
	OpSub  Opcode = "SUB"
	OpMul  Opcode = "MUL"
	OpIDiv Opcode = "IDIV"
	OpLt   Opcode = "LT"
	OpGt   Opcode = "GT"
	OpEq   Opcode = "EQ"
	OpAnd  Opcode = "AND"
	OpOr   Opcode = "OR"
	OpNot  Opcode = "NOT"

	OpInt2Char Opcode = "INT2CHAR"
	OpStri2Int Opcode = "STRI2INT"
	OpConcat   Opcode = "CONCAT"
	OpStrLen   Opcode = "STRLEN"
	OpGetChar  Opcode = "GETCHAR"
	OpSetChar  Opcode = "SETCHAR"
	OpType     Opcode = "TYPE"

	OpLabel     Opcode = "LABEL"
	OpJump      Opcode = "JUMP"
	OpJumpIfEq  Opcode = "JUMPIFEQ"
	OpJumpIfNeq Opcode = "JUMPIFNEQ"
	OpCall      Opcode = "CALL"
	OpReturn    Opcode = "RETURN"

	OpClearS     Opcode = "CLEARS"
	OpAddS       Opcode = "ADDS"
	OpSubS       Opcode = "SUBS"
	OpMulS       Opcode = "MULS"
	OpIDivS      Opcode = "IDIVS"
	OpLtS        Opcode = "LTS"
	OpGtS        Opcode = "GTS"
	OpEqS        Opcode = "EQS"
	OpAndS       Opcode = "ANDS"
	OpOrS        Opcode = "ORS"
	OpNotS       Opcode = "NOTS"
	OpInt2CharS  Opcode = "INT2CHARS"
	OpStri2IntS  Opcode = "STRI2INTS"
	OpJumpIfEqS  Opcode = "JUMPIFEQS"
	OpJumpIfNeqS Opcode = "JUMPIFNEQS"

	OpRead   Opcode = "READ"
	OpWrite  Opcode = "WRITE"
	OpDPrint Opcode = "DPRINT"
	OpBreak  Opcode = "BREAK"
	OpExit   Opcode = "EXIT"
)

// OperandKind is the declared type tag of an operand
type OperandKind string

const (
	KindVar    OperandKind = "var"
	KindInt    OperandKind = "int"
	KindBool   OperandKind = "bool"
	KindString OperandKind = "string"
	KindNil    OperandKind = "nil"
	KindLabel  OperandKind = "label"
	KindType   OperandKind = "type"
)

// Frame selectors of a variable operand
const (
	FrameGlobal    = "GF"
	FrameLocal     = "LF"
	FrameTemporary = "TF"
)

// Operand is a decoded instruction argument. Text holds the raw literal, or
// "FRAME@name" for variables.
type Operand struct {
	Kind OperandKind
	Text string
}

// Var builds a variable operand
func Var(frame, name string) Operand {
	return Operand{Kind: KindVar, Text: frame + "@" + name}
}

// Const builds a constant operand of the given kind
func Const(kind OperandKind, text string) Operand {
	return Operand{Kind: kind, Text: text}
}

// IsVar reports whether the operand references a variable
func (o Operand) IsVar() bool {
	return o.Kind == KindVar
}

// Frame returns the frame selector of a variable operand
func (o Operand) Frame() string {
	frame, _, _ := strings.Cut(o.Text, "@")
	return frame
}

// Name returns the variable name of a variable operand
func (o Operand) Name() string {
	_, name, _ := strings.Cut(o.Text, "@")
	return name
}

// String returns the operand in its textual form, e.g. "int@5"
func (o Operand) String() string {
	if o.Kind == KindVar {
		return o.Text
	}
	return string(o.Kind) + "@" + o.Text
}

type Instruction struct {
	Order  int
	Opcode Opcode
	Args   []Operand
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d: %s", i.Order, i.Opcode)
	for _, a := range i.Args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}

	return b.String()
}
