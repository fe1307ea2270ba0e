package lib

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	FootprintLibSuffix = ".pretty"
	ModelLibSuffix     = ".3dshapes"
	FootprintSuffix    = ".kicad_mod"
	SymbolSuffix       = ".kicad_sym"
)

func Exists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	} else if os.IsNotExist(err) {
		return false
	}

	return true
}

/*
	return an encoded object as bytes
*/
func Marshal(v interface{}) ([]byte, error) {
	b := new(bytes.Buffer)
	err := gob.NewEncoder(b).Encode(v)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

/*
	return a decoded object from bytes
*/
func Unmarshal(data []byte, v interface{}) error {
	b := bytes.NewBuffer(data)
	return gob.NewDecoder(b).Decode(v)
}

func ValidateLibName(kicadLib string) error {
	if !strings.HasSuffix(filepath.Clean(kicadLib), FootprintLibSuffix) {
		return fmt.Errorf("%w: '%s' has to end with '%s'", ErrFormat, kicadLib, FootprintLibSuffix)
	}

	return nil
}

/*
	LibraryRoot is the directory holding the footprint library, where
	symbols and the parts index live
*/
func LibraryRoot(kicadLib string) string {
	return filepath.Dir(filepath.Clean(kicadLib))
}

func ModelLibPath(kicadLib string) string {
	return strings.TrimSuffix(filepath.Clean(kicadLib), FootprintLibSuffix) + ModelLibSuffix
}

func FootprintPath(kicadLib, name string) string {
	return filepath.Join(kicadLib, name+FootprintSuffix)
}

func SymbolPath(kicadLib, partName string) string {
	return filepath.Join(LibraryRoot(kicadLib), partName+SymbolSuffix)
}

func FootprintExists(kicadLib, name string) bool {
	return Exists(FootprintPath(kicadLib, name))
}

/*
	EnsureLibraries creates the footprint library and its 3D model
	directory when missing
*/
func EnsureLibraries(kicadLib string) error {
	for _, dir := range []string{kicadLib, ModelLibPath(kicadLib)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return nil
}
