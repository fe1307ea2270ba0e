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

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
)

var (
	searchKicadLib string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <TEXT>",
	Short: "Search EasyEDA components.",
	Long: `Search EasyEDA components with a full text query and list the hits.

	With --kicad-lib, an LCSC code can be picked from the hits and fetched into
	the library right away.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if searchKicadLib != "" {
			if err := requireLib(searchKicadLib); err != nil {
				return err
			}
		}

		client := newFetcher().Source
		session, err := client.Authenticate()
		if err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}

		components, err := client.Search(text, session)
		if err != nil {
			return fmt.Errorf("failed to search: %w", err)
		}

		suggestions := []prompt.Suggest{}
		for _, component := range components {
			fmt.Printf("%-10s %-30s %s\n", component.Code(), component.Title, component.PackageName())
			if code := component.Code(); code != "" {
				suggestions = append(suggestions, prompt.Suggest{
					Text:        code,
					Description: component.Title + " (" + component.PackageName() + ")",
				})
			}
		}

		if len(components) == 0 {
			fmt.Println("no components found")
			return nil
		}

		if searchKicadLib == "" || len(suggestions) == 0 {
			return nil
		}

		fmt.Println("Enter LCSC code to fetch (empty to quit):")
		code := strings.TrimSpace(prompt.Input("> ", func(d prompt.Document) []prompt.Suggest {
			return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
		}))
		if code == "" {
			return nil
		}

		kicadLib = searchKicadLib
		return fetchLcsc(code)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchKicadLib, "kicad-lib", "", "Library to fetch a picked component into")
}
