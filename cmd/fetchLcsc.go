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

	"github.com/TadeasPilar/EasyEDAFootprintScraper/lib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	kicadLib string
	force    bool
	pathVar  string
	upgrade  bool
)

// fetchLcscCmd represents the fetch-lcsc command
var fetchLcscCmd = &cobra.Command{
	Use:   "fetch-lcsc <LCSC>",
	Short: "Fetch a footprint based on LCSC code",
	Long: `Fetch the footprint, symbol and 3D models of a component by its LCSC code.

	The footprint is stored in the library given by --kicad-lib, 3D models in the
	matching .3dshapes directory and the symbol next to the library.

	Example:
		- easyeda-fetch fetch-lcsc C2040 --kicad-lib=lib/EasyEDA.pretty
	`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchLcsc(args[0])
	},
}

func fetchLcsc(code string) error {
	opts := lib.FetchOptions{
		KicadLib: kicadLib,
		Force:    force,
		PathVar:  pathVar,
	}

	if err := requireLib(kicadLib); err != nil {
		return err
	}

	if upgrade {
		ki, err := lib.NewKicadInterface(viper.GetString("kicad-root"), nil)
		if err != nil {
			return fmt.Errorf("failed to locate kicad-cli: %w", err)
		}
		opts.Upgrade = ki
	}

	result, err := newFetcher().FetchLCSC(code, opts)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", code, err)
	}

	if result.Skipped {
		fmt.Printf("Component %s uses package %s which already exists in %s.\n", code, result.Component.PackageName(), kicadLib)
		fmt.Println("Nothing has been done. If you want to overwrite the package, run this command again with '--force'.")
		return nil
	}

	fmt.Printf("footprint: %s\n", result.Footprint)
	fmt.Printf("symbol:    %s\n", result.Symbol)
	for _, model := range result.Models {
		fmt.Printf("3D model:  %s\n", model)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(fetchLcscCmd)

	fetchLcscCmd.Flags().StringVar(&kicadLib, "kicad-lib", "", "Path to KiCAD library where to store the footprint")
	fetchLcscCmd.Flags().BoolVar(&force, "force", false, "Overwrite footprint if it already exists in the library")
	fetchLcscCmd.Flags().StringVar(&pathVar, "path-var", lib.DefaultPathVar, "Name of variable, that will be used for prefixing 3D models paths")
	fetchLcscCmd.Flags().BoolVar(&upgrade, "upgrade", false, "Upgrade the written files with kicad-cli")
	fetchLcscCmd.MarkFlagRequired("kicad-lib")
}
