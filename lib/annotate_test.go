package lib

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestAnnotate(t *testing.T) {
	doc := LoadSymbol(convertedSymbol)
	info := AnnotationInfo{
		Title:   "NE555DR",
		Package: "SOIC-8_L5.0-W4.0-P1.27-LS6.0-BL",
		LCSC:    "C7593",
		Price:   "0.1261",
	}

	if err := Annotate(doc, info, "EasyEDA", nil); err != nil {
		t.Fatal(err)
	}

	text := doc.Serialize()
	if strings.Contains(text, `(symbol "x")`) {
		t.Errorf("empty block was kept")
	}
	if strings.Contains(text, "ORIG") {
		t.Errorf("symbol was not renamed everywhere:\n%s", text)
	}
	if !strings.Contains(text, `(symbol "NE555DR" (in_bom yes)`) || !strings.Contains(text, `(symbol "NE555DR_0_1"`) {
		t.Errorf("renamed declarations missing:\n%s", text)
	}
	if BracketDelta(text) != 0 {
		t.Errorf("document is unbalanced")
	}

	want := []struct {
		name, value string
		hidden      bool
	}{
		{"Reference", "NONE?", false},
		{"Value", "NE555DR", false},
		{"Footprint", "EasyEDA:SOIC-8_L5.0-W4.0-P1.27-LS6.0-BL", true},
		{"Datasheet", "https://jlcpcb.com/partdetail/C7593", true},
		{"LCSC", "C7593", false},
		{"JLCPCB_CORRECTION", "0;0;0", true},
		{"PRICE", "0.1261", true},
	}

	property := regexp.MustCompile(`\(property "([^"]*)" "([^"]*)" \(id (\d+)\)`)
	matches := property.FindAllStringSubmatch(text, -1)
	if len(matches) != len(want) {
		t.Fatalf("found %d properties, want %d:\n%s", len(matches), len(want), text)
	}

	for i, m := range matches {
		if m[1] != want[i].name || m[2] != want[i].value || m[3] != strconv.Itoa(i) {
			t.Errorf("property %d = %s %q id %s, want %s %q id %d", i, m[1], m[2], m[3], want[i].name, want[i].value, i)
		}
	}

	for _, entry := range doc.Lines() {
		m := property.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		id, _ := strconv.Atoi(m[3])
		if hidden := strings.Contains(entry, " hide)"); hidden != want[id].hidden {
			t.Errorf("%s hidden = %v", m[1], hidden)
		}
	}
}

func TestAnnotateMinimalSymbol(t *testing.T) {
	doc := LoadSymbol("(kicad_symbol_lib\n  (symbol \"symbol:A\"\n  )\n)\n")
	if err := Annotate(doc, AnnotationInfo{Title: "B"}, "Lib", nil); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(doc.Serialize(), `(property "Reference" "NONE?" (id 0)`) {
		t.Errorf("missing default reference:\n%s", doc.Serialize())
	}
}

func TestAnnotateWithoutIncorrectName(t *testing.T) {
	text := "(kicad_symbol_lib\n  (symbol \"A\"\n  )\n)\n"
	doc := LoadSymbol(text)

	err := Annotate(doc, AnnotationInfo{Title: "B"}, "Lib", nil)
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("err = %v, want ErrMalformedDocument", err)
	}
	if doc.Serialize() != text {
		t.Errorf("document was modified")
	}
}

func TestFootprintLibraryName(t *testing.T) {
	tests := map[string]string{
		"EasyEDA.pretty":      "EasyEDA",
		"lib/EasyEDA.pretty":  "EasyEDA",
		"lib/EasyEDA.pretty/": "EasyEDA",
		"lib/Easy.EDA.pretty": "Easy",
		"lib/footprints":      "footprints",
	}

	for in, want := range tests {
		if got := FootprintLibraryName(in); got != want {
			t.Errorf("FootprintLibraryName(%q) = %q, want %q", in, got, want)
		}
	}
}
