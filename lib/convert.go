package lib

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	inputPlaceholder  = "{input}"
	outputPlaceholder = "{output}"
)

/*
	Runner executes an external program and returns its combined output
*/
type Runner interface {
	Run(command []string, dir string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(command []string, dir string) ([]byte, error) {
	if len(command) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir

	return cmd.CombinedOutput()
}

/*
	Stage is one external conversion step. Input is the file name the stage
	reads inside the work directory, Output the artifact it leaves there.
	"{input}" and "{output}" in Command are replaced by their full paths.
*/
type Stage struct {
	Name    string
	Command []string
	Input   string
	Output  string
}

/*
	ParseCommand splits a configured command line. Arguments starting with
	./ or ../ are resolved against the current directory, stages run in
	their own work directory.
*/
func ParseCommand(command string) []string {
	args := strings.Fields(command)
	base, err := os.Getwd()
	if err != nil {
		return args
	}

	return resolveCommand(args, base)
}

func resolveCommand(args []string, base string) []string {
	for i, arg := range args {
		slashed := filepath.ToSlash(arg)
		if strings.HasPrefix(slashed, "./") || strings.HasPrefix(slashed, "../") {
			args[i] = filepath.Join(base, arg)
		}
	}

	return args
}

func (s Stage) args(workDir string) []string {
	input := filepath.Join(workDir, s.Input)
	output := filepath.Join(workDir, s.Output)

	args := make([]string, 0, len(s.Command))
	for _, arg := range s.Command {
		arg = strings.ReplaceAll(arg, inputPlaceholder, input)
		arg = strings.ReplaceAll(arg, outputPlaceholder, output)
		args = append(args, arg)
	}

	return args
}

/*
	Run executes the stage and returns the path of its output artifact
*/
func (s Stage) Run(runner Runner, workDir string) (string, error) {
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}

	out, err := runner.Run(s.args(workDir), workDir)
	if err != nil {
		stageErr := &StageError{Stage: s.Name, Output: strings.TrimSpace(string(out)), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stageErr.ExitCode = exitErr.ExitCode()
		}
		return "", stageErr
	}

	output := filepath.Join(workDir, s.Output)
	if !Exists(output) {
		return "", &StageError{
			Stage:  s.Name,
			Output: strings.TrimSpace(string(out)),
			Err:    fmt.Errorf("output %s was not produced", s.Output),
		}
	}

	return output, nil
}

func DefaultBoardStage(command []string) Stage {
	return Stage{Name: "board", Command: command, Input: "board.json", Output: "board.kicad_pcb"}
}

func DefaultSymbolStage(command []string) Stage {
	return Stage{Name: "symbol", Command: command, Input: "symbol.json", Output: filepath.Join("symbol", "symbol.kicad_sym")}
}

func DefaultMeshStage(command []string) Stage {
	return Stage{Name: "mesh", Command: command}
}

type Converter struct {
	Board  Stage
	Symbol Stage
	Mesh   Stage
	Runner Runner
	Log    Logger
}

/*
	Conversion holds what the converters produced for one component
*/
type Conversion struct {
	Board      string
	SymbolPath string
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

/*
	moveFile renames src to dst, copying when both are on different devices
*/
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}

/*
	Convert runs the board converter and then the symbol converter in a
	temporary directory, returns the board text and moves the symbol file
	next to the footprint library as <partName>.kicad_sym.
*/
func (c *Converter) Convert(symbol *SymbolContainer, board *BoardContainer, partName, kicadLib string) (*Conversion, error) {
	log := c.Log
	if log == nil {
		log = nopLogger{}
	}

	workDir, err := os.MkdirTemp("", "easyeda-convert-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := writeJSON(filepath.Join(workDir, c.Symbol.Input), symbol); err != nil {
		return nil, fmt.Errorf("failed to write symbol document: %w", err)
	}
	if err := writeJSON(filepath.Join(workDir, c.Board.Input), board); err != nil {
		return nil, fmt.Errorf("failed to write board document: %w", err)
	}

	log.Infof("running %s converter", c.Board.Name)
	boardPath, err := c.Board.Run(c.Runner, workDir)
	if err != nil {
		return nil, err
	}

	boardText, err := os.ReadFile(boardPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted board: %w", err)
	}

	log.Infof("running %s converter", c.Symbol.Name)
	symbolPath, err := c.Symbol.Run(c.Runner, workDir)
	if err != nil {
		return nil, err
	}

	dst := SymbolPath(kicadLib, partName)
	log.Infof("moving symbol to %s", dst)
	if err := moveFile(symbolPath, dst); err != nil {
		return nil, fmt.Errorf("failed to move symbol: %w", err)
	}

	return &Conversion{Board: string(boardText), SymbolPath: dst}, nil
}

/*
	ConvertMesh turns an OBJ mesh into a VRML model next to it
*/
func (c *Converter) ConvertMesh(objPath, wrlPath string) error {
	stage := c.Mesh
	dir := filepath.Dir(objPath)
	stage.Input, _ = filepath.Rel(dir, objPath)
	stage.Output, _ = filepath.Rel(dir, wrlPath)

	_, err := stage.Run(c.Runner, dir)
	return err
}
