package lib

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mholt/archiver"
	"github.com/xuri/excelize/v2"
)

const PartsSheet = "parts"

var partsHeader = []interface{}{
	"LCSC Part", "Title", "Package", "Manufacturer", "MFR.Part", "Price",
	"Footprint", "Symbol", "3D Models", "Fetched",
}

/*
	ExportParts writes the parts to an excel sheet, one row per part
*/
func ExportParts(dst string, parts []*FetchedPart) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(PartsSheet); err != nil {
		return err
	}
	f.DeleteSheet("Sheet1")

	if err := f.SetSheetRow(PartsSheet, "A1", &partsHeader); err != nil {
		return err
	}

	for i, part := range parts {
		row := []interface{}{
			part.LCSC,
			part.Title,
			part.Package,
			part.Manufacturer,
			part.ManufacturerPart,
			part.Price,
			part.FootprintLib + ":" + part.Footprint,
			part.Symbol,
			strings.Join(part.Models, ", "),
			part.FetchedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(PartsSheet, "A"+strconv.Itoa(i+2), &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", part.LCSC, err)
		}
	}

	return f.SaveAs(dst)
}

/*
	ArchiveLibrary bundles the footprint library, its 3D models and the
	given symbol files into one archive; the format follows dst's extension
*/
func ArchiveLibrary(dst, kicadLib string, symbols []string) error {
	sources := []string{}
	for _, src := range append([]string{kicadLib, ModelLibPath(kicadLib)}, symbols...) {
		if Exists(src) {
			sources = append(sources, src)
		}
	}

	if len(sources) == 0 {
		return fmt.Errorf("%w: nothing to archive in %s", ErrNotFound, kicadLib)
	}

	return archiver.Archive(sources, dst)
}
