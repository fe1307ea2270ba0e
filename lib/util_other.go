//go:build !windows

package lib

/*
	GetProgramFiles has no equivalent outside Windows; kicad-cli is looked
	up on PATH instead
*/
func GetProgramFiles() string {
	return ""
}

func kicadCLIName() string {
	return "kicad-cli"
}
