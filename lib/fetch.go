package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const DefaultPathVar = "EASY_EDA_3D"

type FetchOptions struct {
	KicadLib string
	Force    bool
	PathVar  string
	// Upgrade runs kicad-cli on the written files when set
	Upgrade *KiCadInterface
}

type FetchResult struct {
	Component *ComponentSummary
	Skipped   bool
	Footprint string
	Symbol    string
	Models    []string
}

/*
	Fetcher downloads one component and writes it into a KiCad library
*/
type Fetcher struct {
	Source    ComponentSource
	Converter *Converter
	Log       Logger
}

func (f *Fetcher) log() Logger {
	if f.Log == nil {
		return nopLogger{}
	}

	return f.Log
}

/*
	FetchLCSC fetches the component listed under code. When its package is
	already in the library and Force is not set nothing is written and the
	result is marked Skipped.
*/
func (f *Fetcher) FetchLCSC(code string, opts FetchOptions) (*FetchResult, error) {
	log := f.log()
	if opts.PathVar == "" {
		opts.PathVar = DefaultPathVar
	}

	if err := ValidateLibName(opts.KicadLib); err != nil {
		return nil, err
	}

	session, err := f.Source.Authenticate()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	component, err := f.Source.FindByCode(code, session)
	if err != nil {
		return nil, err
	}
	log.Infof("found %s: %s", code, component.Title)

	result := &FetchResult{Component: component}
	packageName := component.PackageName()
	if FootprintExists(opts.KicadLib, packageName) && !opts.Force {
		log.Warnf("component %s uses package %s which already exists in %s", code, packageName, opts.KicadLib)
		result.Skipped = true
		return result, nil
	}

	if err := EnsureLibraries(opts.KicadLib); err != nil {
		return nil, err
	}

	detail, err := f.Source.FetchDetail(component.DetailUUID(), session)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch component detail: %w", err)
	}

	conversion, err := f.Converter.Convert(
		BuildSymbolDocument(detail),
		BuildBoardDocument(&detail.PackageDetail),
		component.Title,
		opts.KicadLib,
	)
	if err != nil {
		return nil, err
	}
	result.Symbol = conversion.SymbolPath

	footprint, err := FirstFootprint(conversion.Board)
	if err != nil {
		return nil, err
	}
	footprint.SetName(packageName)
	PostProcessFootprint(footprint)

	if err := f.annotateSymbol(conversion.SymbolPath, component, opts.KicadLib); err != nil {
		return nil, err
	}

	models, err := f.fetchModels(detail, session, opts)
	if err != nil {
		return nil, err
	}
	for _, model := range models {
		footprint.AddModel(model)
		result.Models = append(result.Models, model.Path)
	}

	if result.Footprint, err = SaveFootprint(opts.KicadLib, footprint); err != nil {
		return nil, err
	}
	log.Infof("saved footprint %s", result.Footprint)

	if opts.Upgrade != nil {
		if err := opts.Upgrade.UpgradeFootprints(opts.KicadLib); err != nil {
			return nil, err
		}
		if err := opts.Upgrade.UpgradeSymbol(result.Symbol); err != nil {
			return nil, err
		}
	}

	if err := f.record(result, detail, opts.KicadLib); err != nil {
		log.Warnf("failed to update parts index: %s", err)
	}

	return result, nil
}

func (f *Fetcher) annotateSymbol(path string, component *ComponentSummary, kicadLib string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read symbol: %w", err)
	}

	doc := LoadSymbol(string(raw))
	if err := Annotate(doc, AnnotationInfoFor(component), FootprintLibraryName(kicadLib), f.log()); err != nil {
		return err
	}

	text := doc.Serialize()
	if err := LintSymbol(text); err != nil {
		f.log().Warnf("symbol %s: %s", path, err)
	}

	return os.WriteFile(path, []byte(text), 0644)
}

/*
	fetchModels downloads every mesh of the package and converts it to
	VRML in the .3dshapes directory. Extra meshes get a _model_<n> suffix.
*/
func (f *Fetcher) fetchModels(detail *ComponentDetail, session *Session, opts FetchOptions) ([]Model, error) {
	lib3D := ModelLibPath(opts.KicadLib)
	models := []Model{}
	for i, uuid := range MeshUUIDs(&detail.PackageDetail) {
		mesh, err := f.Source.FetchMesh(uuid, session)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch 3D model %s: %w", uuid, err)
		}

		name := detail.PackageName()
		if i != 0 {
			name += "_model_" + strconv.Itoa(i)
		}
		objFile := filepath.Join(lib3D, name+".obj")
		wrlFile := filepath.Join(lib3D, name+".wrl")

		if err := os.WriteFile(objFile, mesh, 0644); err != nil {
			return nil, fmt.Errorf("failed to write mesh: %w", err)
		}
		if err := f.Converter.ConvertMesh(objFile, wrlFile); err != nil {
			return nil, err
		}
		f.log().Infof("converted 3D model %s", wrlFile)

		models = append(models, NewModel(opts.PathVar, wrlFile))
	}

	return models, nil
}

func (f *Fetcher) record(result *FetchResult, detail *ComponentDetail, kicadLib string) error {
	library, err := NewLibrary(LibraryRoot(kicadLib))
	if err != nil {
		return err
	}
	defer library.Close()

	head := detail.DataStr.Head
	return library.Record(&FetchedPart{
		LCSC:             result.Component.Code(),
		Title:            result.Component.Title,
		Package:          result.Component.PackageName(),
		Manufacturer:     head.Param("BOM_Manufacturer"),
		ManufacturerPart: head.Param("BOM_Manufacturer Part"),
		Price:            result.Component.LCSC.Price.String(),
		FootprintLib:     FootprintLibraryName(kicadLib),
		Footprint:        result.Component.PackageName(),
		Symbol:           result.Symbol,
		Models:           result.Models,
		FetchedAt:        time.Now(),
	})
}
