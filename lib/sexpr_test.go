package lib

import (
	"strings"
	"testing"
)

func TestParseSexpr(t *testing.T) {
	nodes, err := ParseSexprString(`(a "b c" (d 1.5 -2) "esc\"aped") (e)`)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}

	a := nodes[0]
	if a.Head() != "a" || a.Arg(0).Value() != "b c" || a.Arg(2).Value() != `esc"aped` {
		t.Errorf("unexpected node %s", a.inline())
	}
	if a.Arg(0).Str == nil || a.Arg(1).Head() != "d" {
		t.Errorf("unexpected children %s", a.inline())
	}

	if f, err := a.Find("d").Float(0); err != nil || f != 1.5 {
		t.Errorf("Float(0) = %v, %v", f, err)
	}
	if f, err := a.Find("d").Float(1); err != nil || f != -2 {
		t.Errorf("Float(1) = %v, %v", f, err)
	}
	if _, err := a.Find("d").Float(2); err == nil {
		t.Errorf("expected an error for a missing argument")
	}
	if a.Find("missing") != nil || a.Arg(5) != nil {
		t.Errorf("lookups of missing items should be nil")
	}

	if _, err := ParseSexprString("(a (b)"); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestNodeEdit(t *testing.T) {
	nodes, err := ParseSexprString(`(a hide "hide" b (hide yes) (at 1))`)
	if err != nil {
		t.Fatal(err)
	}

	n := nodes[0]
	n.Remove(isHide)
	if got := n.inline(); got != `(a "hide" b (at 1))` {
		t.Errorf("after Remove: %s", got)
	}

	n.Find("at").SetArg(1, NewNumber(90))
	if got := n.inline(); got != `(a "hide" b (at 1 90))` {
		t.Errorf("after SetArg: %s", got)
	}

	n.Append(NewList("xy", NewNumber(0.25), NewString("q\"")))
	if len(n.FindAll("xy")) != 1 || !strings.HasSuffix(n.inline(), `(xy 0.25 "q\"")`+")") {
		t.Errorf("after Append: %s", n.inline())
	}

	// edits on missing nodes are ignored
	var missing *Node
	missing.Remove(isHide)
	missing.Append(NewAtom("x"))
	missing.SetArg(0, NewAtom("x"))
}

func TestFormat(t *testing.T) {
	short := NewList("at", NewNumber(1), NewNumber(2))
	if got := Format(short); got != "(at 1 2)\n" {
		t.Errorf("Format = %q", got)
	}

	long := NewList("footprint", NewString("X"))
	for i := 0; i < 10; i++ {
		long.Append(NewList("pad", NewString("1"), NewAtom("smd"), NewList("at", NewNumber(float64(i)), NewNumber(0))))
	}

	text := Format(long)
	if !strings.HasPrefix(text, "(footprint \"X\"\n  (pad \"1\" smd (at 0 0))\n") || !strings.HasSuffix(text, "\n)\n") {
		t.Errorf("unexpected layout:\n%s", text)
	}

	nodes, err := ParseSexprString(text)
	if err != nil {
		t.Fatal(err)
	}
	if nodes[0].inline() != long.inline() {
		t.Errorf("formatted text does not parse back to the same tree")
	}
}
