package lib

import (
	"encoding/json"
	"regexp"
	"strings"
)

/*
	The converters split shape strings by position, so the delimiters and
	field order below must not change.
*/
const (
	fieldDelimiter = "`"
	shapeDelimiter = "#@$"

	schematicEditorVersion = "6.4.14"
	boardEditorVersion     = "6.4.7"
)

var meshUUIDPattern = regexp.MustCompile(`"uuid":"([0-9a-f]*)"`)

type SymbolDocumentHead struct {
	DocType       string            `json:"docType"`
	EditorVersion string            `json:"editorVersion"`
	NewgID        bool              `json:"newgId"`
	CPara         map[string]string `json:"c_para"`
	SpiceCmd      *string           `json:"c_spiceCmd"`
}

type SymbolSheetData struct {
	Head   SymbolDocumentHead `json:"head"`
	Colors map[string]string  `json:"colors"`
	Canvas json.RawMessage    `json:"canvas"`
	BBox   json.RawMessage    `json:"BBox"`
	Shape  []string           `json:"shape"`
}

type SymbolSheet struct {
	DocType     string          `json:"docType"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DataStr     SymbolSheetData `json:"dataStr"`
}

/*
	SymbolContainer is the EasyEDA schematic document fed to the symbol
	converter
*/
type SymbolContainer struct {
	EditorVersion string            `json:"editorVersion"`
	DocType       string            `json:"docType"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Colors        map[string]string `json:"colors"`
	Schematics    []SymbolSheet     `json:"schematics"`
}

type BoardHead struct {
	DocType       string            `json:"docType"`
	EditorVersion string            `json:"editorVersion"`
	NewgID        bool              `json:"newgId"`
	CPara         map[string]string `json:"c_para"`
	HasIDFlag     bool              `json:"hasIdFlag"`
}

/*
	BoardContainer is an EasyEDA board holding a single footprint, fed to
	the board converter
*/
type BoardContainer struct {
	Head    BoardHead       `json:"head"`
	BBox    json.RawMessage `json:"BBox"`
	Objects json.RawMessage `json:"objects"`
	Layers  json.RawMessage `json:"layers"`
	Shape   []string        `json:"shape"`
}

func symbolLibShape(detail *ComponentDetail) string {
	head := detail.DataStr.Head
	fields := []string{
		"LIB~-5~5~package", detail.PackageDetail.Title,
		"BOM_Supplier", "LCSC",
		"BOM_Supplier Part", detail.LCSC.Number.String(),
		"BOM_Manufacturer", head.Param("BOM_Manufacturer"),
		"BOM_Manufacturer Part", head.Param("BOM_Manufacturer Part"),
		"Contributor", head.Param("Contributor"),
		"spicePre", trimLast(head.Param("pre")),
		"spiceSymbolName", head.Param("name"),
		"~~0~gge03d9a0f3a4a33646~" + detail.UUID + "~052918e6192f4a27891c8ca5941aa6aa~0~~yes~yes",
	}

	return strings.Join(fields, fieldDelimiter)
}

func BuildSymbolDocument(detail *ComponentDetail) *SymbolContainer {
	shape := symbolLibShape(detail)
	for _, line := range detail.DataStr.Shape {
		shape += shapeDelimiter + line
	}

	return &SymbolContainer{
		EditorVersion: schematicEditorVersion,
		DocType:       "5",
		Title:         "TempSch",
		Colors:        map[string]string{},
		Schematics: []SymbolSheet{
			{
				DocType: "1",
				Title:   "Sheet_1",
				DataStr: SymbolSheetData{
					Head: SymbolDocumentHead{
						DocType:       "1",
						EditorVersion: schematicEditorVersion,
						NewgID:        true,
						CPara:         map[string]string{"Prefix Start": "1"},
					},
					Colors: map[string]string{},
					Canvas: detail.DataStr.Canvas,
					BBox:   detail.DataStr.BBox,
					Shape:  []string{shape},
				},
			},
		},
	}
}

func BuildBoardDocument(pkg *PackageDetail) *BoardContainer {
	head := pkg.DataStr.Head
	shape := "LIB~" + head.X.String() + "~" + head.Y.String() + "~package" +
		fieldDelimiter + pkg.PackageName() + fieldDelimiter + "~0~~~1" + shapeDelimiter
	shape += strings.Join(pkg.DataStr.Shape, shapeDelimiter)

	return &BoardContainer{
		Head: BoardHead{
			DocType:       "3",
			EditorVersion: boardEditorVersion,
			NewgID:        true,
			CPara:         map[string]string{},
			HasIDFlag:     true,
		},
		BBox:    pkg.DataStr.BBox,
		Objects: pkg.DataStr.Objects,
		Layers:  pkg.DataStr.Layers,
		Shape:   []string{shape},
	}
}

/*
	MeshUUIDs lists the 3D model ids referenced by SVGNODE shapes, in shape
	order
*/
func MeshUUIDs(pkg *PackageDetail) []string {
	uuids := []string{}
	for _, shape := range pkg.DataStr.Shape {
		if !isSVGNode(shape) {
			continue
		}

		m := meshUUIDPattern.FindStringSubmatch(shape)
		if m == nil {
			continue
		}
		uuids = append(uuids, m[1])
	}

	return uuids
}
