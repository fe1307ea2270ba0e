package lib

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	symbolMarker    = "(symbol "
	symbolDeclStart = "(symbol \""
	namespacePrefix = "symbol:"
	propertyMarker  = "(property "
)

var propertyIDPattern = regexp.MustCompile(`\(id\s+([^)\s]*)\)`)

/*
	SymbolDocument is a KiCad symbol library held as an ordered list of
	lines. No tree is built; structure is recovered by bracket counting.

	An entry produced by InsertProperty spans several physical lines but
	stays a single element, so it is seen as one complete sub-expression.
*/
type SymbolDocument struct {
	lines           []string
	trailingNewline bool
}

func LoadSymbol(text string) *SymbolDocument {
	doc := &SymbolDocument{}
	if text == "" {
		return doc
	}

	if strings.HasSuffix(text, "\n") {
		doc.trailingNewline = true
		text = strings.TrimSuffix(text, "\n")
	}
	doc.lines = strings.Split(text, "\n")

	return doc
}

func (doc *SymbolDocument) Serialize() string {
	if len(doc.lines) == 0 {
		return ""
	}

	text := strings.Join(doc.lines, "\n")
	if doc.trailingNewline {
		text += "\n"
	}

	return text
}

/*
	Lines returns a copy of the document entries
*/
func (doc *SymbolDocument) Lines() []string {
	return append([]string(nil), doc.lines...)
}

/*
	BracketDelta counts '(' as +1 and ')' as -1. Parentheses inside quoted
	strings are counted too.
*/
func BracketDelta(line string) int {
	delta := 0
	for _, c := range line {
		switch c {
		case '(':
			delta++
		case ')':
			delta--
		}
	}

	return delta
}

/*
	RemoveEmptySymbolBlocks drops every symbol block that opens and closes
	on the same line and returns how many were removed.
*/
func (doc *SymbolDocument) RemoveEmptySymbolBlocks() int {
	kept := doc.lines[:0]
	removed := 0
	for _, line := range doc.lines {
		if BracketDelta(line) == 0 && strings.Contains(line, symbolMarker) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	doc.lines = kept

	return removed
}

func (doc *SymbolDocument) findLine(substring string) (int, bool) {
	for i, line := range doc.lines {
		if strings.Contains(line, substring) {
			return i, true
		}
	}

	return -1, false
}

/*
	FindIncorrectSymbolName returns the name of the first symbol declared
	with the converter's "symbol:" namespace, without the namespace.
*/
func (doc *SymbolDocument) FindIncorrectSymbolName() (string, error) {
	i, ok := doc.findLine(symbolDeclStart + namespacePrefix)
	if !ok {
		return "", fmt.Errorf("%w: no symbol declared with %q prefix", ErrMalformedDocument, namespacePrefix)
	}

	parts := strings.Split(doc.lines[i], "\"")
	if len(parts) < 3 {
		return "", fmt.Errorf("%w: unterminated symbol name on line %d", ErrMalformedDocument, i+1)
	}

	return strings.TrimPrefix(parts[1], namespacePrefix), nil
}

/*
	RenameSymbol substitutes "symbol:<old>" and then every remaining <old>
	with <new> on every line. The substitution is purely textual: unrelated
	text that contains <old> is rewritten as well.
*/
func (doc *SymbolDocument) RenameSymbol(old, new string) {
	if old == "" {
		return
	}

	for i, line := range doc.lines {
		line = strings.ReplaceAll(line, namespacePrefix+old, new)
		doc.lines[i] = strings.ReplaceAll(line, old, new)
	}
}

/*
	RenameSymbolDeclarations renames only the name tokens of symbol
	declarations (including "<old>_<unit>_<style>" sub-symbols) and extends
	clauses. It returns the number of lines changed.
*/
func (doc *SymbolDocument) RenameSymbolDeclarations(old, new string) int {
	if old == "" {
		return 0
	}

	quoted := regexp.QuoteMeta(old)
	decl := regexp.MustCompile(`\(symbol "(?:` + regexp.QuoteMeta(namespacePrefix) + `)?` + quoted + `((?:_\d+_\d+)?)"`)
	extends := regexp.MustCompile(`\(extends "` + quoted + `"\)`)

	// the replacement is literal apart from the captured unit suffix
	escaped := strings.ReplaceAll(escapeSexpString(new), "$", "$$")
	changed := 0
	for i, line := range doc.lines {
		renamed := decl.ReplaceAllString(line, `(symbol "`+escaped+`${1}"`)
		renamed = extends.ReplaceAllString(renamed, `(extends "`+escaped+`")`)
		if renamed != line {
			doc.lines[i] = renamed
			changed++
		}
	}

	return changed
}

func propertyID(line string) (int, bool, error) {
	if !strings.Contains(line, propertyMarker) {
		return 0, false, nil
	}

	m := propertyIDPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false, nil
	}

	id, err := strconv.Atoi(m[1])
	if err != nil || id < 0 {
		return 0, true, fmt.Errorf("%w: invalid id %q", ErrMalformedProperty, m[1])
	}

	return id, true, nil
}

func (doc *SymbolDocument) findLastProperty() (int, int, error) {
	index, max := -1, -1
	seen := map[int]int{}
	for i, line := range doc.lines {
		id, ok, err := propertyID(line)
		if err != nil {
			return -1, -1, fmt.Errorf("line %d: %w", i+1, err)
		}
		if !ok {
			continue
		}

		if BracketDelta(line) != 0 {
			return -1, -1, fmt.Errorf("%w: property on line %d must be on one line", ErrMalformedProperty, i+1)
		}

		if prev, ok := seen[id]; ok {
			return -1, -1, fmt.Errorf("%w: id %d on line %d already used on line %d", ErrMalformedProperty, id, i+1, prev+1)
		}
		seen[id] = i

		if id > max {
			index, max = i, id
		}
	}

	return index, max, nil
}

/*
	FindLastProperty returns the property with the highest id and that id.
	A document without properties yields an empty line and -1. Ids must be
	unique.
*/
func (doc *SymbolDocument) FindLastProperty() (string, int, error) {
	index, max, err := doc.findLastProperty()
	if err != nil || index < 0 {
		return "", max, err
	}

	return doc.lines[index], max, nil
}

func escapeSexpString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func propertyEntry(name, value string, visible bool, id int) string {
	effects := "      (effects (font (size 1.27 1.27)) hide)"
	if visible {
		effects = "      (effects (font (size 1.27 1.27)))"
	}

	return fmt.Sprintf("    (property \"%s\" \"%s\" (id %d) (at 0 0 0)\n%s\n    )",
		escapeSexpString(name), escapeSexpString(value), id, effects)
}

/*
	InsertProperty adds a property right after the current last property,
	or after the first symbol declaration when there is none yet, and
	returns the id it was given.
*/
func (doc *SymbolDocument) InsertProperty(name, value string, visible bool) (int, error) {
	index, max, err := doc.findLastProperty()
	if err != nil {
		return -1, err
	}

	if index < 0 {
		var ok bool
		if index, ok = doc.findLine(symbolDeclStart); !ok {
			return -1, fmt.Errorf("%w: no symbol declaration to attach %q to", ErrMalformedDocument, name)
		}
	}

	id := max + 1
	at := index + 1
	doc.lines = append(doc.lines, "")
	copy(doc.lines[at+1:], doc.lines[at:])
	doc.lines[at] = propertyEntry(name, value, visible, id)

	return id, nil
}
