package lib

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	datasheetURL      = "https://jlcpcb.com/partdetail/"
	correctionDefault = "0;0;0"
	unknownReference  = "NONE?"
)

/*
	AnnotationInfo holds the component metadata written into the symbol
*/
type AnnotationInfo struct {
	Title   string
	Package string
	LCSC    string
	Price   string
}

func AnnotationInfoFor(component *ComponentSummary) AnnotationInfo {
	return AnnotationInfo{
		Title:   component.Title,
		Package: component.PackageName(),
		LCSC:    component.Code(),
		Price:   component.LCSC.Price.String(),
	}
}

/*
	FootprintLibraryName turns "path/to/Name.pretty" into "Name"
*/
func FootprintLibraryName(kicadLib string) string {
	base := filepath.Base(filepath.Clean(kicadLib))
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}

	return base
}

/*
	Annotate cleans the converted symbol, gives it the part title and adds
	the metadata properties. Property order is fixed so ids are
	deterministic for a given document.
*/
func Annotate(doc *SymbolDocument, info AnnotationInfo, footprintLib string, log Logger) error {
	if log == nil {
		log = nopLogger{}
	}

	if n := doc.RemoveEmptySymbolBlocks(); n > 0 {
		log.Infof("removed %d empty symbol block(s)", n)
	}

	old, err := doc.FindIncorrectSymbolName()
	if err != nil {
		return err
	}
	log.Infof("renaming symbol %s to %s", old, info.Title)
	doc.RenameSymbolDeclarations(old, info.Title)

	properties := []struct {
		name    string
		value   string
		visible bool
	}{
		{"Reference", unknownReference, true},
		{"Value", info.Title, true},
		{"Footprint", footprintLib + ":" + info.Package, false},
		{"Datasheet", datasheetURL + info.LCSC, false},
		{"LCSC", info.LCSC, true},
		{"JLCPCB_CORRECTION", correctionDefault, false},
		{"PRICE", info.Price, false},
	}

	for _, p := range properties {
		id, err := doc.InsertProperty(p.name, p.value, p.visible)
		if err != nil {
			return fmt.Errorf("failed to add property %s: %w", p.name, err)
		}
		log.Infof("added property %s (id %d)", p.name, id)
	}

	return nil
}
