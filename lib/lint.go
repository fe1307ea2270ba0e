package lib

import (
	"fmt"
	"strings"

	"github.com/chewxy/sexp"
)

const symbolLibHead = "kicad_symbol_lib"

func leafText(s sexp.Sexp) string {
	if s == nil || !s.IsLeaf() {
		return ""
	}

	return strings.Trim(fmt.Sprint(s), `"`)
}

/*
	LintSymbol parses the written symbol library independently of the line
	model and checks it is a single balanced kicad_symbol_lib expression.
*/
func LintSymbol(text string) error {
	if delta := BracketDelta(text); delta != 0 {
		return fmt.Errorf("%w: unbalanced brackets (delta %d)", ErrMalformedDocument, delta)
	}

	exprs, err := sexp.ParseString(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if len(exprs) != 1 {
		return fmt.Errorf("%w: expected one top level expression, got %d", ErrMalformedDocument, len(exprs))
	}

	if exprs[0] == nil || exprs[0].IsLeaf() || leafText(exprs[0].Head()) != symbolLibHead {
		return fmt.Errorf("%w: not a %s", ErrMalformedDocument, symbolLibHead)
	}

	return nil
}
