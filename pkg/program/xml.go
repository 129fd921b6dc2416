package program

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"ippcode/pkg/fatal"
)

// Language is the value required in the language attribute of the root element
const Language = "IPPcode19"

type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

func (n xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Decode reads the XML representation of a program and returns its
// instructions in document order. Operands pass the lexical check; arity is
// validated later, when the instruction is dispatched.
func Decode(r io.Reader) ([]Instruction, error) {
	d := xml.NewDecoder(r)

	var root xmlNode
	if err := d.Decode(&root); err != nil {
		return nil, fatal.Errorf(fatal.CodeMalformedXML, "cannot parse program: %v", err)
	}
	if err := checkTrailer(d); err != nil {
		return nil, err
	}

	if root.XMLName.Local != "program" {
		return nil, fatal.Errorf(fatal.CodeMalformedXML, "root element is <%s>, expected <program>", root.XMLName.Local)
	}

	lang, ok := root.attr("language")
	if !ok {
		return nil, fatal.Errorf(fatal.CodeMalformedXML, "missing language attribute")
	}
	if lang != Language {
		return nil, fatal.Errorf(fatal.CodeStructure, "unsupported language %q", lang)
	}

	instructions := make([]Instruction, 0, len(root.Children))
	for _, node := range root.Children {
		ins, err := decodeInstruction(node)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, ins)
	}

	return instructions, nil
}

// checkTrailer rejects anything but whitespace, comments and processing
// instructions after the root element
func checkTrailer(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fatal.Errorf(fatal.CodeMalformedXML, "cannot parse program: %v", err)
		}

		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fatal.Errorf(fatal.CodeMalformedXML, "text after the root element")
			}
		default:
			return fatal.Errorf(fatal.CodeMalformedXML, "content after the root element")
		}
	}
}

func decodeInstruction(node xmlNode) (Instruction, error) {
	if node.XMLName.Local != "instruction" {
		return Instruction{}, fatal.Errorf(fatal.CodeStructure, "unexpected element <%s>", node.XMLName.Local)
	}

	rawOrder, ok := node.attr("order")
	if !ok {
		return Instruction{}, fatal.Errorf(fatal.CodeStructure, "instruction without order")
	}
	order, err := strconv.Atoi(strings.TrimSpace(rawOrder))
	if err != nil || order < 1 {
		return Instruction{}, fatal.Errorf(fatal.CodeStructure, "invalid order %q", rawOrder)
	}

	opcode, ok := node.attr("opcode")
	if !ok || strings.TrimSpace(opcode) == "" {
		return Instruction{}, fatal.Errorf(fatal.CodeStructure, "instruction %d without opcode", order)
	}

	var slots [3]*Operand
	for _, child := range node.Children {
		n, ok := argIndex(child.XMLName.Local)
		if !ok {
			return Instruction{}, fatal.Errorf(fatal.CodeStructure, "instruction %d: unexpected element <%s>", order, child.XMLName.Local)
		}
		if slots[n] != nil {
			return Instruction{}, fatal.Errorf(fatal.CodeStructure, "instruction %d: duplicate <%s>", order, child.XMLName.Local)
		}

		op, err := decodeOperand(child)
		if err != nil {
			return Instruction{}, err
		}
		slots[n] = &op
	}

	args := make([]Operand, 0, 3)
	for n, slot := range slots {
		if slot == nil {
			for _, rest := range slots[n:] {
				if rest != nil {
					return Instruction{}, fatal.Errorf(fatal.CodeStructure, "instruction %d: missing <arg%d>", order, n+1)
				}
			}
			break
		}
		args = append(args, *slot)
	}

	return Instruction{
		Order:  order,
		Opcode: Opcode(strings.ToUpper(strings.TrimSpace(opcode))),
		Args:   args,
	}, nil
}

func argIndex(name string) (int, bool) {
	switch name {
	case "arg1":
		return 0, true
	case "arg2":
		return 1, true
	case "arg3":
		return 2, true
	default:
		return 0, false
	}
}

func decodeOperand(node xmlNode) (Operand, error) {
	kind, ok := node.attr("type")
	if !ok {
		return Operand{}, fatal.Errorf(fatal.CodeStructure, "<%s> without type", node.XMLName.Local)
	}
	if len(node.Children) > 0 {
		return Operand{}, fatal.Errorf(fatal.CodeStructure, "<%s> has nested elements", node.XMLName.Local)
	}

	op := Operand{Kind: OperandKind(kind), Text: node.Text}
	if op.Kind != KindString {
		op.Text = strings.TrimSpace(op.Text)
	}

	if err := CheckLexical(op); err != nil {
		return Operand{}, err
	}

	return op, nil
}
