package symbol

import (
	"fmt"
	"unicode"
)

// ImplicitRules stores implicit typing rules for a scope
type ImplicitRules struct {
	IsNone      bool       // IMPLICIT NONE specified?
	LetterTypes [26]string // Type for each letter A-Z (empty = no rule)
}

// DefaultImplicitRules returns the default FORTRAN 77 implicit typing rules:
// I-N are INTEGER, A-H and O-Z are REAL.
func DefaultImplicitRules() *ImplicitRules {
	rules := &ImplicitRules{}
	for i := range rules.LetterTypes {
		rules.LetterTypes[i] = "REAL"
	}
	for ch := 'I'; ch <= 'N'; ch++ {
		rules.LetterTypes[ch-'A'] = "INTEGER"
	}
	return rules
}

// Copy creates a deep copy of ImplicitRules
func (ir *ImplicitRules) Copy() *ImplicitRules {
	if ir == nil {
		return nil
	}
	cp := *ir
	return &cp
}

// SetNone applies IMPLICIT NONE: no letter has an implicit type.
func (ir *ImplicitRules) SetNone() {
	ir.IsNone = true
	clear(ir.LetterTypes[:])
}

// SetRange applies IMPLICIT typ (from-to). Letters are case-insensitive.
func (ir *ImplicitRules) SetRange(typ string, from, to rune) error {
	from, to = unicode.ToUpper(from), unicode.ToUpper(to)
	if from < 'A' || from > 'Z' || to < 'A' || to > 'Z' {
		return fmt.Errorf("implicit range %c-%c is not a letter range", from, to)
	} else if from > to {
		return fmt.Errorf("implicit range %c-%c is reversed", from, to)
	}
	for ch := from; ch <= to; ch++ {
		ir.LetterTypes[ch-'A'] = typ
	}
	ir.IsNone = false
	return nil
}

// TypeOf determines the type for an identifier based on implicit typing rules.
// ok is false if no rule applies, which happens under IMPLICIT NONE.
func (ir *ImplicitRules) TypeOf(name string) (typ string, ok bool) {
	if name == "" {
		return "", false
	}
	letter := unicode.ToUpper(rune(name[0]))
	if letter < 'A' || letter > 'Z' {
		return "", false
	}
	typ = ir.LetterTypes[letter-'A']
	return typ, typ != ""
}
