package main

import "github.com/TadeasPilar/EasyEDAFootprintScraper/cmd"

func main() {
	cmd.Execute()
}
