package lib

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

/*
	A small S-expression tree for KiCad board and footprint files. Unlike
	SymbolDocument it is a real parse, used where geometry has to be read
	and rewritten.
*/

var sexprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var sexprParser = participle.MustBuild[SexprFile](
	participle.Lexer(sexprLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

type SexprFile struct {
	Nodes []*Node `parser:"@@*"`
}

/*
	Node is either a list, a quoted string or a bare atom
*/
type Node struct {
	List *List   `parser:"  @@"`
	Str  *string `parser:"| @String"`
	Atom *string `parser:"| @Atom"`
}

type List struct {
	Open  bool    `parser:"@\"(\""`
	Items []*Node `parser:"@@* \")\""`
}

func ParseSexpr(r io.Reader) ([]*Node, error) {
	file, err := sexprParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return file.Nodes, nil
}

func ParseSexprString(input string) ([]*Node, error) {
	file, err := sexprParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return file.Nodes, nil
}

func NewAtom(s string) *Node {
	return &Node{Atom: &s}
}

func NewString(s string) *Node {
	return &Node{Str: &s}
}

func NewList(head string, items ...*Node) *Node {
	return &Node{List: &List{Open: true, Items: append([]*Node{NewAtom(head)}, items...)}}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func NewNumber(f float64) *Node {
	return NewAtom(formatFloat(f))
}

func (n *Node) IsList() bool {
	return n != nil && n.List != nil
}

func (n *Node) Items() []*Node {
	if !n.IsList() {
		return nil
	}

	return n.List.Items
}

/*
	Head returns the leading atom of a list, "" otherwise
*/
func (n *Node) Head() string {
	items := n.Items()
	if len(items) == 0 || items[0].Atom == nil {
		return ""
	}

	return *items[0].Atom
}

/*
	Value returns the text of an atom or string
*/
func (n *Node) Value() string {
	switch {
	case n == nil:
		return ""
	case n.Str != nil:
		return *n.Str
	case n.Atom != nil:
		return *n.Atom
	}

	return ""
}

/*
	Arg returns the i-th item after the head
*/
func (n *Node) Arg(i int) *Node {
	items := n.Items()
	if i+1 >= len(items) {
		return nil
	}

	return items[i+1]
}

func (n *Node) Float(i int) (float64, error) {
	arg := n.Arg(i)
	if arg == nil {
		return 0, fmt.Errorf("(%s) has no argument %d", n.Head(), i)
	}

	return strconv.ParseFloat(arg.Value(), 64)
}

func (n *Node) SetArg(i int, v *Node) {
	if !n.IsList() {
		return
	}

	for len(n.List.Items) <= i+1 {
		n.List.Items = append(n.List.Items, NewAtom(""))
	}
	n.List.Items[i+1] = v
}

func (n *Node) Find(head string) *Node {
	for _, item := range n.Items() {
		if item.Head() == head {
			return item
		}
	}

	return nil
}

func (n *Node) FindAll(head string) []*Node {
	nodes := []*Node{}
	for _, item := range n.Items() {
		if item.Head() == head {
			nodes = append(nodes, item)
		}
	}

	return nodes
}

func (n *Node) Append(items ...*Node) {
	if n.IsList() {
		n.List.Items = append(n.List.Items, items...)
	}
}

/*
	Remove drops every direct child for which drop returns true
*/
func (n *Node) Remove(drop func(*Node) bool) {
	if !n.IsList() {
		return
	}

	kept := n.List.Items[:0]
	for i, item := range n.List.Items {
		if i > 0 && drop(item) {
			continue
		}
		kept = append(kept, item)
	}
	n.List.Items = kept
}

func quoteSexpr(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)

	return `"` + s + `"`
}

func (n *Node) inline() string {
	switch {
	case n.Str != nil:
		return quoteSexpr(*n.Str)
	case n.Atom != nil:
		return *n.Atom
	}

	parts := make([]string, 0, len(n.List.Items))
	for _, item := range n.List.Items {
		parts = append(parts, item.inline())
	}

	return "(" + strings.Join(parts, " ") + ")"
}

const inlineWidth = 100

func (n *Node) format(b *strings.Builder, indent int) {
	text := n.inline()
	if !n.IsList() || indent*2+len(text) <= inlineWidth {
		b.WriteString(text)
		return
	}

	b.WriteString("(")
	for i, item := range n.List.Items {
		if !item.IsList() {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(item.inline())
			continue
		}

		b.WriteString("\n")
		b.WriteString(strings.Repeat("  ", indent+1))
		item.format(b, indent+1)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(")")
}

/*
	Format renders a node in KiCad's layout: short lists on one line,
	longer ones with one child list per line
*/
func Format(n *Node) string {
	b := &strings.Builder{}
	n.format(b, 0)
	b.WriteString("\n")

	return b.String()
}
