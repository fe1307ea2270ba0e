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
	"os"
	"strings"

	"github.com/TadeasPilar/EasyEDAFootprintScraper/lib"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "easyeda-fetch",
	Short: "Tool for downloading KiCAD footprints from EasyEDA",
	Long: `Tool for downloading KiCAD footprints, symbols and 3D models from EasyEDA.

	Converters and the EasyEDA address can be configured through the
	environment:
		- EASYEDA_URL              : EasyEDA base address
		- EASYEDA_BOARD_CONVERTER  : board converter command
		- EASYEDA_SYMBOL_CONVERTER : symbol converter command
		- EASYEDA_MESH_CONVERTER   : 3D mesh converter command
		- EASYEDA_KICAD_ROOT       : folder holding versioned KiCad installs
	`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", err)
		os.Exit(1)
	}
}

func init() {
	viper.SetEnvPrefix("easyeda")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("url", lib.DefaultEasyEDAURL)
	viper.SetDefault("board-converter", "easyeda2kicad {input} {output}")
	viper.SetDefault("symbol-converter", "node ./easyeda2kicad6/dist/main.js {input}")
	viper.SetDefault("mesh-converter", "ctmconv {input} {output}")
	viper.SetDefault("kicad-root", "")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("url", lib.DefaultEasyEDAURL, "EasyEDA base address")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
}

func newFetcher() *lib.Fetcher {
	log := &cliLogger{verbose: verbose}

	return &lib.Fetcher{
		Source: lib.NewEasyEDA(viper.GetString("url")),
		Converter: &lib.Converter{
			Board:  lib.DefaultBoardStage(lib.ParseCommand(viper.GetString("board-converter"))),
			Symbol: lib.DefaultSymbolStage(lib.ParseCommand(viper.GetString("symbol-converter"))),
			Mesh:   lib.DefaultMeshStage(lib.ParseCommand(viper.GetString("mesh-converter"))),
			Runner: lib.ExecRunner{},
			Log:    log,
		},
		Log: log,
	}
}

func requireLib(kicadLib string) error {
	if kicadLib == "" {
		return fmt.Errorf("%w: --kicad-lib is required", lib.ErrFormat)
	}

	return lib.ValidateLibName(kicadLib)
}
