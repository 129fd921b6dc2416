package program

import (
	"regexp"

	"ippcode/pkg/fatal"
)

type literalRegex struct {
	Pattern *regexp.Regexp
	Code    fatal.Code // reported when the literal does not match
}

const nameRaw = `[\p{L}_\-$&%*!?][\p{L}\p{Nd}_\-$&%*!?]*`

// Literal regex patterns, one per operand kind
var literalRegexes = map[OperandKind]literalRegex{
	KindVar:    {regexp.MustCompile(`^(GF|LF|TF)@` + nameRaw + `$`), fatal.CodeSemantic},
	KindLabel:  {regexp.MustCompile(`^` + nameRaw + `$`), fatal.CodeStructure},
	KindInt:    {regexp.MustCompile(`^[+-]?\d+$`), fatal.CodeStructure},
	KindBool:   {regexp.MustCompile(`^(true|false)$`), fatal.CodeStructure},
	KindNil:    {regexp.MustCompile(`^nil$`), fatal.CodeStructure},
	KindType:   {regexp.MustCompile(`^(int|bool|string|nil)$`), fatal.CodeStructure},
	KindString: {regexp.MustCompile(`^[^#]*$`), fatal.CodeStructure},
}

// CheckLexical performs the one-time lexical check of a decoded operand.
// Invalid variable references are semantic errors, every other malformed
// literal is a structural error.
func CheckLexical(o Operand) error {
	regex, ok := literalRegexes[o.Kind]
	if !ok {
		return fatal.Errorf(fatal.CodeStructure, "unknown operand type %q", o.Kind)
	}

	if !regex.Pattern.MatchString(o.Text) {
		return fatal.Errorf(regex.Code, "invalid %s literal %q", o.Kind, o.Text)
	}

	return nil
}
