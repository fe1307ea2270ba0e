package lib

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

type Point struct {
	X, Y float64
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) TopMiddle() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y}
}

func (r Rect) BottomMiddle() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height}
}

/*
	Label is a footprint text field such as the reference or value
*/
type Label interface {
	SetVisible(visible bool)
	SetPosition(p Point)
	TextHeight() float64
}

/*
	Footprint is the geometry the post-processor needs from a footprint.
	BoundingBox must not include the labels themselves.
*/
type Footprint interface {
	Reference() Label
	Value() Label
	BoundingBox() Rect
}

/*
	PostProcessFootprint centres the reference above and the value below
	the footprint body, one text height away from it
*/
func PostProcessFootprint(fp Footprint) {
	ref, value := fp.Reference(), fp.Value()
	ref.SetVisible(false)
	value.SetVisible(false)

	bbox := fp.BoundingBox()
	height := ref.TextHeight()
	ref.SetPosition(bbox.TopMiddle().Add(Point{0, -height}))
	value.SetPosition(bbox.BottomMiddle().Add(Point{0, height}))

	ref.SetVisible(true)
	value.SetVisible(true)
}

const defaultTextHeight = 1.0

/*
	kicadLabel wraps an (fp_text reference ...) node or, for KiCad 7+, a
	(property "Reference" ...) node
*/
type kicadLabel struct {
	node *Node
}

func isHide(n *Node) bool {
	return (!n.IsList() && n.Str == nil && n.Value() == "hide") || n.Head() == "hide"
}

func (l *kicadLabel) SetVisible(visible bool) {
	if l.node == nil {
		return
	}

	l.node.Remove(isHide)
	l.node.Find("effects").Remove(isHide)
	if !visible {
		l.node.Append(NewAtom("hide"))
	}
}

func (l *kicadLabel) visible() bool {
	if l.node == nil {
		return false
	}

	for _, item := range l.node.Items()[1:] {
		if !item.IsList() && item.Str == nil && item.Value() == "hide" {
			return false
		}
		if item.Head() == "hide" && item.Arg(0).Value() != "no" {
			return false
		}
	}

	return true
}

func (l *kicadLabel) SetPosition(p Point) {
	if l.node == nil {
		return
	}

	at := l.node.Find("at")
	if at == nil {
		at = NewList("at")
		l.node.Append(at)
	}
	at.SetArg(0, NewNumber(p.X))
	at.SetArg(1, NewNumber(p.Y))
}

func (l *kicadLabel) position() Point {
	at := l.node.Find("at")
	if at == nil {
		return Point{}
	}
	x, _ := at.Float(0)
	y, _ := at.Float(1)

	return Point{x, y}
}

func (l *kicadLabel) TextHeight() float64 {
	if l.node == nil {
		return defaultTextHeight
	}

	size := l.node.Find("effects").Find("font").Find("size")
	if size == nil {
		return defaultTextHeight
	}

	h, err := size.Float(0)
	if err != nil {
		return defaultTextHeight
	}

	return h
}

/*
	KicadFootprint is a footprint parsed from a .kicad_mod file or taken
	out of a converted board
*/
type KicadFootprint struct {
	node *Node
}

func NewKicadFootprint(node *Node) (*KicadFootprint, error) {
	if head := node.Head(); head != "footprint" && head != "module" {
		return nil, fmt.Errorf("expected footprint, got (%s)", head)
	}

	return &KicadFootprint{node: node}, nil
}

func ParseFootprint(text string) (*KicadFootprint, error) {
	nodes, err := ParseSexprString(text)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, errors.New("empty footprint file")
	}

	return NewKicadFootprint(nodes[0])
}

/*
	FirstFootprint extracts the first footprint from a board file
*/
func FirstFootprint(board string) (*KicadFootprint, error) {
	nodes, err := ParseSexprString(board)
	if err != nil {
		return nil, fmt.Errorf("failed to parse board: %w", err)
	}

	for _, root := range nodes {
		for _, item := range root.Items() {
			if head := item.Head(); head == "footprint" || head == "module" {
				return NewKicadFootprint(item)
			}
		}
	}

	return nil, fmt.Errorf("%w: board contains no footprint", ErrNotFound)
}

func (fp *KicadFootprint) Node() *Node {
	return fp.node
}

func (fp *KicadFootprint) Name() string {
	return fp.node.Arg(0).Value()
}

/*
	SetName renames the footprint and moves it to the library origin
*/
func (fp *KicadFootprint) SetName(name string) {
	fp.node.SetArg(0, NewString(name))
	fp.node.Remove(func(n *Node) bool { return n.Head() == "at" })
}

func (fp *KicadFootprint) label(kind, property string) Label {
	for _, text := range fp.node.FindAll("fp_text") {
		if text.Arg(0).Value() == kind {
			return &kicadLabel{text}
		}
	}

	for _, prop := range fp.node.FindAll("property") {
		if prop.Arg(0).Value() == property {
			return &kicadLabel{prop}
		}
	}

	return &kicadLabel{}
}

func (fp *KicadFootprint) Reference() Label {
	return fp.label("reference", "Reference")
}

func (fp *KicadFootprint) Value() Label {
	return fp.label("value", "Value")
}

type bounds struct {
	min, max Point
	empty    bool
}

func (b *bounds) add(p Point) {
	if b.empty {
		b.min, b.max, b.empty = p, p, false
		return
	}
	b.min.X, b.min.Y = math.Min(b.min.X, p.X), math.Min(b.min.Y, p.Y)
	b.max.X, b.max.Y = math.Max(b.max.X, p.X), math.Max(b.max.Y, p.Y)
}

func point(n *Node) (Point, bool) {
	if n == nil {
		return Point{}, false
	}

	x, err := n.Float(0)
	if err != nil {
		return Point{}, false
	}
	y, err := n.Float(1)
	if err != nil {
		return Point{}, false
	}

	return Point{x, y}, true
}

func (b *bounds) addPad(pad *Node) {
	at, ok := point(pad.Find("at"))
	if !ok {
		return
	}
	size, ok := point(pad.Find("size"))
	if !ok {
		b.add(at)
		return
	}

	if angle, err := pad.Find("at").Float(2); err == nil {
		if a := math.Mod(math.Abs(angle), 180); a > 45 && a < 135 {
			size.X, size.Y = size.Y, size.X
		}
	}

	b.add(Point{at.X - size.X/2, at.Y - size.Y/2})
	b.add(Point{at.X + size.X/2, at.Y + size.Y/2})
}

func (b *bounds) addCircle(circle *Node) {
	center, ok := point(circle.Find("center"))
	if !ok {
		return
	}
	end, ok := point(circle.Find("end"))
	if !ok {
		b.add(center)
		return
	}

	r := math.Hypot(end.X-center.X, end.Y-center.Y)
	b.add(Point{center.X - r, center.Y - r})
	b.add(Point{center.X + r, center.Y + r})
}

/*
	BoundingBox covers pads and graphic items, ignoring every text
*/
func (fp *KicadFootprint) BoundingBox() Rect {
	b := &bounds{empty: true}
	for _, item := range fp.node.Items() {
		switch item.Head() {
		case "pad":
			b.addPad(item)
		case "fp_circle":
			b.addCircle(item)
		case "fp_line", "fp_rect", "fp_arc":
			for _, key := range []string{"start", "mid", "end"} {
				if p, ok := point(item.Find(key)); ok {
					b.add(p)
				}
			}
		case "fp_poly":
			for _, xy := range item.Find("pts").FindAll("xy") {
				if p, ok := point(xy); ok {
					b.add(p)
				}
			}
		}
	}

	if b.empty {
		return Rect{}
	}

	return Rect{X: b.min.X, Y: b.min.Y, Width: b.max.X - b.min.X, Height: b.max.Y - b.min.Y}
}

/*
	Model is a 3D model reference attached to a footprint
*/
type Model struct {
	Path    string
	Scale   float64
	RotateZ float64
}

/*
	NewModel references a VRML file through a KiCad path variable, scaled
	from EasyEDA's units
*/
func NewModel(pathVar, wrlPath string) Model {
	return Model{
		Path:    "${" + pathVar + "}/" + strings.ReplaceAll(wrlPath, "\\", "/"),
		Scale:   1 / 2.54,
		RotateZ: 180,
	}
}

func xyz(head string, x, y, z float64) *Node {
	return NewList(head, NewList("xyz", NewNumber(x), NewNumber(y), NewNumber(z)))
}

func (fp *KicadFootprint) AddModel(m Model) {
	fp.node.Append(NewList("model", NewString(m.Path),
		xyz("offset", 0, 0, 0),
		xyz("scale", m.Scale, m.Scale, m.Scale),
		xyz("rotate", 0, 0, m.RotateZ),
	))
}

func (fp *KicadFootprint) Models() []string {
	paths := []string{}
	for _, model := range fp.node.FindAll("model") {
		paths = append(paths, model.Arg(0).Value())
	}

	return paths
}

func (fp *KicadFootprint) Format() string {
	return Format(fp.node)
}

/*
	SaveFootprint writes the footprint as <lib>/<name>.kicad_mod
*/
func SaveFootprint(kicadLib string, fp *KicadFootprint) (string, error) {
	path := FootprintPath(kicadLib, fp.Name())
	if err := os.WriteFile(path, []byte(fp.Format()), 0644); err != nil {
		return "", fmt.Errorf("failed to write footprint: %w", err)
	}

	return path, nil
}
