package interpreter

import (
	"slices"

	"ippcode/pkg/fatal"
	"ippcode/pkg/program"
)

// LabelTable maps label names to the order of their LABEL instruction.
type LabelTable map[string]int

// ResolveLabels scans every LABEL instruction once. Duplicate names are a
// semantic error.
func ResolveLabels(pb []program.Instruction) (LabelTable, error) {
	labels := make(LabelTable)

	for _, ins := range pb {
		if ins.Opcode != program.OpLabel {
			continue
		}

		if err := program.CheckSignature(ins); err != nil {
			return nil, fatal.At(err, ins.Order)
		}

		name := ins.Args[0].Text
		if _, ok := labels[name]; ok {
			return nil, fatal.At(fatal.Errorf(fatal.CodeSemantic, "label %q redefined", name), ins.Order)
		}
		labels[name] = ins.Order
	}

	return labels, nil
}

// Lookup returns the order of the named label.
func (t LabelTable) Lookup(name string) (int, error) {
	order, ok := t[name]
	if !ok {
		return 0, fatal.Errorf(fatal.CodeSemantic, "undefined label %q", name)
	}
	return order, nil
}

// indexProgram builds the order -> position table and the sorted order list
func indexProgram(pb []program.Instruction) (map[int]int, []int, error) {
	positions := make(map[int]int, len(pb))
	orders := make([]int, 0, len(pb))

	for idx, ins := range pb {
		if ins.Order < 1 {
			return nil, nil, fatal.Errorf(fatal.CodeStructure, "invalid instruction order %d", ins.Order)
		}
		if _, ok := positions[ins.Order]; ok {
			return nil, nil, fatal.Errorf(fatal.CodeStructure, "duplicate instruction order %d", ins.Order)
		}
		positions[ins.Order] = idx
		orders = append(orders, ins.Order)
	}

	slices.Sort(orders)
	return positions, orders, nil
}
