/*
Copyright © 2020 Mars Galactic <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/TadeasPilar/EasyEDAFootprintScraper/lib"
	"github.com/spf13/cobra"
)

var (
	exportKicadLib string
	archive        string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export the parts index.",
	Long: `Export the index of fetched parts in the xlsx format.

	With --archive, the footprint library, its 3D models and the symbols are
	also bundled into an archive (zip, tar.gz, ... from the file extension).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dst := args[0]
		if !strings.HasSuffix(dst, "xlsx") && !strings.HasSuffix(dst, "xls") {
			return fmt.Errorf("export file name must be excel file")
		}

		if err := requireLib(exportKicadLib); err != nil {
			return err
		}

		library, err := lib.OpenLibrary(lib.LibraryRoot(exportKicadLib))
		if err != nil {
			return fmt.Errorf("failed to open parts index: %w", err)
		}
		defer library.Close()

		parts, err := library.All()
		if err != nil {
			return fmt.Errorf("failed to read parts index: %w", err)
		}

		if err := lib.ExportParts(dst, parts); err != nil {
			return fmt.Errorf("failed to export parts: %w", err)
		}
		fmt.Printf("exported %d parts to %s\n", len(parts), dst)

		if archive == "" {
			return nil
		}

		symbols := []string{}
		seen := map[string]bool{}
		for _, part := range parts {
			if part.Symbol != "" && !seen[part.Symbol] {
				seen[part.Symbol] = true
				symbols = append(symbols, part.Symbol)
			}
		}

		if err := lib.ArchiveLibrary(archive, exportKicadLib, symbols); err != nil {
			return fmt.Errorf("failed to archive library: %w", err)
		}
		fmt.Printf("archived library to %s\n", archive)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportKicadLib, "kicad-lib", "", "Footprint library the parts were fetched into")
	exportCmd.Flags().StringVar(&archive, "archive", "", "Also bundle the library into this archive")
	exportCmd.MarkFlagRequired("kicad-lib")
}
