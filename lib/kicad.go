package lib

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	vlib "github.com/mcuadros/go-version"
)

/*
	kicad-cli gained the fp/sym upgrade commands in KiCad 7
*/
const MinimumKicadVersion = "7.0.0"

var kicadVersionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

type KiCadInterface struct {
	binPath string
	version string
	runner  Runner
}

/*
	latestVersion picks the highest version-named directory under root
*/
func latestVersion(root string) (string, error) {
	versions, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}

	latest := ""
	for _, e := range versions {
		version := e.Name()
		if !e.IsDir() || !kicadVersionPattern.MatchString(version) {
			continue
		}
		if latest == "" || vlib.CompareSimple(latest, version) == -1 {
			latest = version
		}
	}

	if latest == "" {
		return "", errors.New("no KiCad versions found in program folder")
	}

	return latest, nil
}

/*
	NewKicadInterface locates kicad-cli, first under <root>/<version>/bin
	(root defaults to the KiCad folder in Program Files), then on PATH.
*/
func NewKicadInterface(root string, runner Runner) (*KiCadInterface, error) {
	if runner == nil {
		runner = ExecRunner{}
	}

	if root == "" && GetProgramFiles() != "" {
		root = filepath.Join(GetProgramFiles(), "KiCad")
	}

	ki := &KiCadInterface{runner: runner}
	if root != "" {
		if version, err := latestVersion(root); err == nil {
			binPath := filepath.Join(root, version, "bin")
			if Exists(filepath.Join(binPath, kicadCLIName())) {
				ki.binPath, ki.version = binPath, version
			}
		}
	}

	if ki.binPath == "" {
		cli, err := exec.LookPath(kicadCLIName())
		if err != nil {
			return nil, errors.New("KiCad binPath does not exist or does not have kicad-cli")
		}
		ki.binPath = filepath.Dir(cli)

		out, err := ki.ExecuteCommand([]string{"version"}, "")
		if err != nil {
			return nil, fmt.Errorf("failed to query kicad-cli version: %w", err)
		}
		ki.version = kicadVersionPattern.FindString(out)
	}

	if ki.version == "" || vlib.CompareSimple(ki.version, MinimumKicadVersion) == -1 {
		return nil, fmt.Errorf("kicad-cli %q is older than %s", ki.version, MinimumKicadVersion)
	}

	return ki, nil
}

func (ki *KiCadInterface) GetBinPath() string {
	return ki.binPath
}

func (ki *KiCadInterface) Version() string {
	return ki.version
}

func (ki *KiCadInterface) ExecuteCommand(args []string, cwd string) (string, error) {
	command := append([]string{filepath.Join(ki.binPath, kicadCLIName())}, args...)
	out, err := ki.runner.Run(command, cwd)
	if err != nil {
		return string(out), &StageError{Stage: "kicad-cli " + strings.Join(args, " "), Output: strings.TrimSpace(string(out)), Err: err}
	}

	return string(out), nil
}

/*
	UpgradeFootprints rewrites a footprint library in the installed KiCad's
	current file format
*/
func (ki *KiCadInterface) UpgradeFootprints(kicadLib string) error {
	_, err := ki.ExecuteCommand([]string{"fp", "upgrade", "--force", "-o", kicadLib, kicadLib}, "")
	return err
}

func (ki *KiCadInterface) UpgradeSymbol(path string) error {
	_, err := ki.ExecuteCommand([]string{"sym", "upgrade", "--force", "-o", path, path}, "")
	return err
}
