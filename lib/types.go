package lib

import (
	"bytes"
	"encoding/json"
	"strings"
)

/*
	Text is a JSON scalar kept as its textual form. EasyEDA mixes strings
	and numbers for the same fields (coordinates, prices).
*/
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(data)
	}

	return nil
}

func (t Text) String() string { return string(t) }

type Head struct {
	UUID  string          `json:"uuid"`
	X     Text            `json:"x"`
	Y     Text            `json:"y"`
	CPara map[string]Text `json:"c_para"`
}

func (h Head) Param(key string) string {
	return h.CPara[key].String()
}

type LCSCInfo struct {
	Number Text `json:"number"`
	Price  Text `json:"price"`
}

/*
	ComponentSummary is a search hit
*/
type ComponentSummary struct {
	UUID    string `json:"uuid"`
	Title   string `json:"title"`
	DataStr struct {
		Head Head `json:"head"`
	} `json:"dataStr"`
	LCSC LCSCInfo `json:"lcsc"`
}

func (c *ComponentSummary) PackageName() string {
	return c.DataStr.Head.Param("package")
}

/*
	Code returns the vendor part code the component is listed under
*/
func (c *ComponentSummary) Code() string {
	if code := c.DataStr.Head.Param("BOM_Supplier Part"); code != "" {
		return code
	}

	return c.LCSC.Number.String()
}

func (c *ComponentSummary) DetailUUID() string {
	if c.DataStr.Head.UUID != "" {
		return c.DataStr.Head.UUID
	}

	return c.UUID
}

type SchematicData struct {
	Head   Head            `json:"head"`
	Canvas json.RawMessage `json:"canvas"`
	BBox   json.RawMessage `json:"BBox"`
	Shape  []string        `json:"shape"`
}

type PackageData struct {
	Head    Head            `json:"head"`
	BBox    json.RawMessage `json:"BBox"`
	Objects json.RawMessage `json:"objects"`
	Layers  json.RawMessage `json:"layers"`
	Shape   []string        `json:"shape"`
}

type PackageDetail struct {
	UUID    string      `json:"uuid"`
	Title   string      `json:"title"`
	DataStr PackageData `json:"dataStr"`
}

func (p *PackageDetail) PackageName() string {
	return p.DataStr.Head.Param("package")
}

/*
	ComponentDetail is the full component record with symbol and package
	geometry
*/
type ComponentDetail struct {
	UUID          string        `json:"uuid"`
	Title         string        `json:"title"`
	DataStr       SchematicData `json:"dataStr"`
	PackageDetail PackageDetail `json:"packageDetail"`
	LCSC          LCSCInfo      `json:"lcsc"`
}

func (c *ComponentDetail) PackageName() string {
	return c.DataStr.Head.Param("package")
}

type searchResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Lists json.RawMessage `json:"lists"`
	} `json:"result"`
}

type detailResponse struct {
	Success bool             `json:"success"`
	Result  *ComponentDetail `json:"result"`
}

/*
	flattenLists accepts either a plain list of components or an object of
	category -> list and returns one sequence, keeping category order as it
	appears in the document.
*/
func flattenLists(raw json.RawMessage) ([]*ComponentSummary, error) {
	raw = json.RawMessage(bytes.TrimSpace(raw))
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []*ComponentSummary{}, nil
	}

	if raw[0] == '[' {
		components := []*ComponentSummary{}
		if err := json.Unmarshal(raw, &components); err != nil {
			return nil, err
		}
		return dropNil(components), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	components := []*ComponentSummary{}
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}

		category := []*ComponentSummary{}
		if err := dec.Decode(&category); err != nil {
			return nil, err
		}
		components = append(components, dropNil(category)...)
	}

	return components, nil
}

func dropNil(components []*ComponentSummary) []*ComponentSummary {
	kept := components[:0]
	for _, c := range components {
		if c != nil {
			kept = append(kept, c)
		}
	}

	return kept
}

func trimLast(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(r[:len(r)-1])
}

func isSVGNode(shape string) bool {
	return strings.HasPrefix(shape, "SVGNODE")
}
