package interpreter

import (
	"github.com/charmbracelet/log"

	"ippcode/pkg/fatal"
	"ippcode/pkg/program"
)

// opHandler executes one opcode; args already match the opcode's signature
type opHandler func(i *Interpreter, args []program.Operand) error

var handlers = map[program.Opcode]opHandler{
	program.OpCreateFrame: func(i *Interpreter, _ []program.Operand) error {
		i.frames.CreateTemp()
		return nil
	},
	program.OpPushFrame: func(i *Interpreter, _ []program.Operand) error {
		return i.frames.PushTemp()
	},
	program.OpPopFrame: func(i *Interpreter, _ []program.Operand) error {
		return i.frames.PopLocal()
	},
	program.OpDefVar: func(i *Interpreter, args []program.Operand) error {
		return i.frames.Declare(args[0].Frame(), args[0].Name())
	},
	program.OpMove:  unary(func(a Value) (Value, error) { return a, nil }),
	program.OpPushS: pushS,
	program.OpPopS:  popS,

	program.OpAdd:  binary(addValues),
	program.OpSub:  binary(subValues),
	program.OpMul:  binary(mulValues),
	program.OpIDiv: binary(idivValues),
	program.OpLt:   binary(ltValues),
	program.OpGt:   binary(gtValues),
	program.OpEq:   binary(eqValues),
	program.OpAnd:  binary(andValues),
	program.OpOr:   binary(orValues),
	program.OpNot:  unary(notValue),

	program.OpInt2Char: unary(int2char),
	program.OpStri2Int: binary(stri2int),
	program.OpConcat:   binary(concat),
	program.OpStrLen:   unary(strLen),
	program.OpGetChar:  binary(getChar),
	program.OpSetChar:  setCharOp,
	program.OpType:     typeOp,

	program.OpLabel:     label,
	program.OpJump:      jump,
	program.OpJumpIfEq:  jumpIf(true),
	program.OpJumpIfNeq: jumpIf(false),
	program.OpCall:      call,
	program.OpReturn:    ret,

	program.OpClearS: func(i *Interpreter, _ []program.Operand) error {
		i.data.Clear()
		return nil
	},
	program.OpAddS:       binaryStack(addValues),
	program.OpSubS:       binaryStack(subValues),
	program.OpMulS:       binaryStack(mulValues),
	program.OpIDivS:      binaryStack(idivValues),
	program.OpLtS:        binaryStack(ltValues),
	program.OpGtS:        binaryStack(gtValues),
	program.OpEqS:        binaryStack(eqValues),
	program.OpAndS:       binaryStack(andValues),
	program.OpOrS:        binaryStack(orValues),
	program.OpNotS:       unaryStack(notValue),
	program.OpInt2CharS:  unaryStack(int2char),
	program.OpStri2IntS:  binaryStack(stri2int),
	program.OpJumpIfEqS:  jumpIfStack(true),
	program.OpJumpIfNeqS: jumpIfStack(false),

	program.OpRead:   read,
	program.OpWrite:  write,
	program.OpDPrint: dprint,
	program.OpBreak:  breakpoint,
	program.OpExit:   exit,
}

// exec validates the instruction against its signature and runs its handler
func (i *Interpreter) exec(ins program.Instruction) error {
	if err := program.CheckSignature(ins); err != nil {
		return err
	}

	handler, ok := handlers[ins.Opcode]
	if !ok {
		return fatal.Errorf(fatal.CodeStructure, "opcode %s has no handler", ins.Opcode)
	}

	log.Debug("exec", "order", ins.Order, "op", ins.Opcode, "args", ins.Args)
	return handler(i, ins.Args)
}

// unary handles <var> <symb> instructions
func unary(fn unaryFn) opHandler {
	return func(i *Interpreter, args []program.Operand) error {
		a, err := i.resolve(args[1])
		if err != nil {
			return err
		}

		if err := i.checkTarget(args[0]); err != nil {
			return err
		}

		res, err := fn(a)
		if err != nil {
			return err
		}
		return i.store(args[0], res)
	}
}

// binary handles <var> <symb> <symb> instructions
func binary(fn binaryFn) opHandler {
	return func(i *Interpreter, args []program.Operand) error {
		a, err := i.resolve(args[1])
		if err != nil {
			return err
		}
		b, err := i.resolve(args[2])
		if err != nil {
			return err
		}

		if err := i.checkTarget(args[0]); err != nil {
			return err
		}

		res, err := fn(a, b)
		if err != nil {
			return err
		}
		return i.store(args[0], res)
	}
}

// pop removes n values from the data stack, bottom-most first
func (i *Interpreter) pop(n int) ([]Value, error) {
	vals, ok := i.data.PopN(n)
	if !ok {
		return nil, fatal.Errorf(fatal.CodeMissingValue, "data stack holds %d values, %d needed", i.data.Size(), n)
	}
	return vals, nil
}

// unaryStack is the data-stack form of unary
func unaryStack(fn unaryFn) opHandler {
	return func(i *Interpreter, _ []program.Operand) error {
		vals, err := i.pop(1)
		if err != nil {
			return err
		}

		res, err := fn(vals[0])
		if err != nil {
			return err
		}
		i.data.Push(res)
		return nil
	}
}

// binaryStack is the data-stack form of binary; the top of the stack is
// the second operand
func binaryStack(fn binaryFn) opHandler {
	return func(i *Interpreter, _ []program.Operand) error {
		vals, err := i.pop(2)
		if err != nil {
			return err
		}

		res, err := fn(vals[0], vals[1])
		if err != nil {
			return err
		}
		i.data.Push(res)
		return nil
	}
}

func pushS(i *Interpreter, args []program.Operand) error {
	v, err := i.resolve(args[0])
	if err != nil {
		return err
	}

	i.data.Push(v)
	return nil
}

func popS(i *Interpreter, args []program.Operand) error {
	v, ok := i.data.Pop()
	if !ok {
		return fatal.Errorf(fatal.CodeMissingValue, "POPS: data stack is empty")
	}
	return i.store(args[0], v)
}

// setCharOp reads the target string, splices one character and rebinds it
func setCharOp(i *Interpreter, args []program.Operand) error {
	s, err := i.resolve(args[0])
	if err != nil {
		return err
	}
	idx, err := i.resolve(args[1])
	if err != nil {
		return err
	}
	c, err := i.resolve(args[2])
	if err != nil {
		return err
	}

	res, err := setChar(s, idx, c)
	if err != nil {
		return err
	}
	return i.store(args[0], res)
}

// typeOp reads its operand without the missing-value check; an unassigned
// variable yields the empty string
func typeOp(i *Interpreter, args []program.Operand) error {
	if err := i.checkTarget(args[0]); err != nil {
		return err
	}

	v, set, err := i.resolveLoose(args[1])
	if err != nil {
		return err
	}
	return i.store(args[0], typeOf(v, set))
}

// label is a no-op; labels are resolved before execution
func label(*Interpreter, []program.Operand) error {
	return nil
}

func jump(i *Interpreter, args []program.Operand) error {
	return i.jump(args[0].Text)
}

func jumpIf(want bool) opHandler {
	return func(i *Interpreter, args []program.Operand) error {
		order, err := i.labels.Lookup(args[0].Text)
		if err != nil {
			return err
		}

		a, err := i.resolve(args[1])
		if err != nil {
			return err
		}
		b, err := i.resolve(args[2])
		if err != nil {
			return err
		}

		eq, err := equal("JUMPIFEQ/JUMPIFNEQ", a, b)
		if err != nil {
			return err
		}
		if eq == want {
			i.next = order
		}
		return nil
	}
}

func jumpIfStack(want bool) opHandler {
	return func(i *Interpreter, args []program.Operand) error {
		order, err := i.labels.Lookup(args[0].Text)
		if err != nil {
			return err
		}

		vals, err := i.pop(2)
		if err != nil {
			return err
		}

		eq, err := equal("JUMPIFEQS/JUMPIFNEQS", vals[0], vals[1])
		if err != nil {
			return err
		}
		if eq == want {
			i.next = order
		}
		return nil
	}
}

func call(i *Interpreter, args []program.Operand) error {
	order, err := i.labels.Lookup(args[0].Text)
	if err != nil {
		return err
	}

	i.calls.Push(i.counter + 1)
	i.next = order
	return nil
}

func ret(i *Interpreter, _ []program.Operand) error {
	order, ok := i.calls.Pop()
	if !ok {
		return fatal.Errorf(fatal.CodeMissingValue, "RETURN: call stack is empty")
	}

	i.next = order
	return nil
}
