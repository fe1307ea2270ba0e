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
	partsKicadLib string
)

// partsCmd represents the parts command
var partsCmd = &cobra.Command{
	Use:   "parts [QUERY]",
	Short: "List parts fetched into a library.",
	Long: `List the parts fetched next to a footprint library.

	Example:
		- easyeda-fetch parts --kicad-lib=lib/EasyEDA.pretty         : list all parts
		- easyeda-fetch parts SOT-23 --kicad-lib=lib/EasyEDA.pretty  : full text search
	`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLib(partsKicadLib); err != nil {
			return err
		}

		library, err := lib.OpenLibrary(lib.LibraryRoot(partsKicadLib))
		if err != nil {
			return fmt.Errorf("failed to open parts index: %w", err)
		}
		defer library.Close()

		var parts []*lib.FetchedPart
		if len(args) > 0 {
			parts, err = library.Find(strings.Join(args, " "))
		} else {
			parts, err = library.All()
		}
		if err != nil {
			return fmt.Errorf("failed to list parts: %w", err)
		}

		for _, part := range parts {
			fmt.Printf("%-10s %-30s %s:%s\n", part.LCSC, part.Title, part.FootprintLib, part.Footprint)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(partsCmd)

	partsCmd.Flags().StringVar(&partsKicadLib, "kicad-lib", "", "Footprint library the parts were fetched into")
	partsCmd.MarkFlagRequired("kicad-lib")
}
