package program

import (
	"ippcode/pkg/fatal"
)

// ArgClass is the operand class accepted by one slot of an opcode
type ArgClass int

const (
	ArgVar   ArgClass = iota // variable reference
	ArgSymb                  // variable or int/bool/string/nil constant
	ArgLabel                 // label name
	ArgType                  // type name
)

func (c ArgClass) String() string {
	switch c {
	case ArgVar:
		return "var"
	case ArgSymb:
		return "symb"
	case ArgLabel:
		return "label"
	case ArgType:
		return "type"
	default:
		return "?"
	}
}

// Accepts reports whether an operand of kind k fits the class
func (c ArgClass) Accepts(k OperandKind) bool {
	switch c {
	case ArgVar:
		return k == KindVar
	case ArgSymb:
		switch k {
		case KindVar, KindInt, KindBool, KindString, KindNil:
			return true
		}
		return false
	case ArgLabel:
		return k == KindLabel
	case ArgType:
		return k == KindType
	default:
		return false
	}
}

var (
	none       = []ArgClass{}
	onlyVar    = []ArgClass{ArgVar}
	onlySymb   = []ArgClass{ArgSymb}
	onlyLabel  = []ArgClass{ArgLabel}
	varSymb    = []ArgClass{ArgVar, ArgSymb}
	varType    = []ArgClass{ArgVar, ArgType}
	varSymb2   = []ArgClass{ArgVar, ArgSymb, ArgSymb}
	labelSymb2 = []ArgClass{ArgLabel, ArgSymb, ArgSymb}
)

// Signatures is the operand signature of every known opcode
var Signatures = map[Opcode][]ArgClass{
	OpCreateFrame: none,
	OpPushFrame:   none,
	OpPopFrame:    none,
	OpReturn:      none,
	OpBreak:       none,
	OpClearS:      none,
	OpAddS:        none,
	OpSubS:        none,
	OpMulS:        none,
	OpIDivS:       none,
	OpLtS:         none,
	OpGtS:         none,
	OpEqS:         none,
	OpAndS:        none,
	OpOrS:         none,
	OpNotS:        none,
	OpInt2CharS:   none,
	OpStri2IntS:   none,

	OpDefVar:     onlyVar,
	OpPopS:       onlyVar,
	OpCall:       onlyLabel,
	OpLabel:      onlyLabel,
	OpJump:       onlyLabel,
	OpJumpIfEqS:  onlyLabel,
	OpJumpIfNeqS: onlyLabel,
	OpPushS:      onlySymb,
	OpWrite:      onlySymb,
	OpExit:       onlySymb,
	OpDPrint:     onlySymb,

	OpMove:     varSymb,
	OpInt2Char: varSymb,
	OpStrLen:   varSymb,
	OpType:     varSymb,
	OpNot:      varSymb,
	OpRead:     varType,

	OpAdd:       varSymb2,
	OpSub:       varSymb2,
	OpMul:       varSymb2,
	OpIDiv:      varSymb2,
	OpLt:        varSymb2,
	OpGt:        varSymb2,
	OpEq:        varSymb2,
	OpAnd:       varSymb2,
	OpOr:        varSymb2,
	OpStri2Int:  varSymb2,
	OpConcat:    varSymb2,
	OpGetChar:   varSymb2,
	OpSetChar:   varSymb2,
	OpJumpIfEq:  labelSymb2,
	OpJumpIfNeq: labelSymb2,
}

// Arity returns the number of operands the opcode takes
func Arity(op Opcode) (int, bool) {
	sig, ok := Signatures[op]
	return len(sig), ok
}

// CheckSignature validates the opcode, operand count and operand classes of
// an instruction. Any mismatch is a structural error.
func CheckSignature(ins Instruction) error {
	sig, ok := Signatures[ins.Opcode]
	if !ok {
		return fatal.Errorf(fatal.CodeStructure, "unknown opcode %q", ins.Opcode)
	}

	if len(ins.Args) != len(sig) {
		return fatal.Errorf(fatal.CodeStructure, "%s expects %d operands, got %d", ins.Opcode, len(sig), len(ins.Args))
	}

	for n, class := range sig {
		if !class.Accepts(ins.Args[n].Kind) {
			return fatal.Errorf(fatal.CodeStructure, "%s operand %d: expected %s, got %s", ins.Opcode, n+1, class, ins.Args[n].Kind)
		}
	}

	return nil
}
