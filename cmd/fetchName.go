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
	"github.com/spf13/cobra"
)

var (
	nameKicadLib string
	nameForce    bool
)

// fetchNameCmd represents the fetch-name command
var fetchNameCmd = &cobra.Command{
	Use:   "fetch-name <NAME>",
	Short: "Fetch a footprint based on full text search.",
	Long: `Fetch a footprint based on full text search.

	Not implemented yet: the command accepts its arguments and does nothing.
	Use search to look a part up and fetch-lcsc to fetch it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func init() {
	rootCmd.AddCommand(fetchNameCmd)

	fetchNameCmd.Flags().StringVar(&nameKicadLib, "kicad-lib", "", "Path to KiCAD library where to store the footprint")
	fetchNameCmd.Flags().BoolVar(&nameForce, "force", false, "Overwrite footprint if it already exists in the library")
	fetchNameCmd.MarkFlagRequired("kicad-lib")
}
