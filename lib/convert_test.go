package lib

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

/*
	fakeRunner stands in for the converters: it writes outputs[name] to the
	last argument of the command and fails for names listed in fail
*/
type fakeRunner struct {
	outputs  map[string]string
	fail     map[string]bool
	commands [][]string
	dirs     []string
}

func (r *fakeRunner) Run(command []string, dir string) ([]byte, error) {
	r.commands = append(r.commands, command)
	r.dirs = append(r.dirs, dir)

	name := command[0]
	if r.fail[name] {
		return []byte("boom"), errors.New("exit status 2")
	}

	content, ok := r.outputs[name]
	if !ok {
		return []byte("done"), nil
	}

	dst := command[len(command)-1]
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, err
	}

	return []byte("done"), os.WriteFile(dst, []byte(content), 0644)
}

func testConverter(runner Runner) *Converter {
	return &Converter{
		Board:  DefaultBoardStage([]string{"board", "{input}", "{output}"}),
		Symbol: DefaultSymbolStage([]string{"symbol", "{input}", "{output}"}),
		Mesh:   DefaultMeshStage([]string{"mesh", "{input}", "{output}"}),
		Runner: runner,
	}
}

func TestParseCommand(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	got := ParseCommand("  node ./dist/main.js   {input} ../tools/x /usr/bin/y ")
	want := []string{"node", filepath.Join(cwd, "dist", "main.js"), "{input}", filepath.Join(filepath.Dir(cwd), "tools", "x"), "/usr/bin/y"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("ParseCommand = %q, want %q", got, want)
	}
}

func TestExecRunnerRelativeScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	tools := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tools, "conv"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tools, "conv", "main.sh"), []byte("cp \"$1\" \"$2\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(tools); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	stage := Stage{
		Name:    "symbol",
		Command: ParseCommand("sh ./conv/main.sh {input} {output}"),
		Input:   "symbol.json",
		Output:  "symbol.kicad_sym",
	}

	workDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workDir, "symbol.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := stage.Run(ExecRunner{}, workDir)
	if err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(output); err != nil || string(data) != "{}" {
		t.Errorf("output = %q (%v)", data, err)
	}
}

func TestStageRun(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{outputs: map[string]string{"board": "(kicad_pcb)"}}

	output, err := DefaultBoardStage([]string{"board", "-i", "{input}", "{output}"}).Run(runner, dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"board", "-i", filepath.Join(dir, "board.json"), filepath.Join(dir, "board.kicad_pcb")}
	if strings.Join(runner.commands[0], " ") != strings.Join(want, " ") {
		t.Errorf("command = %q, want %q", runner.commands[0], want)
	}
	if runner.dirs[0] != dir {
		t.Errorf("ran in %s, want %s", runner.dirs[0], dir)
	}
	if output != want[3] {
		t.Errorf("output = %s", output)
	}
}

func TestStageFailure(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{"exit", &fakeRunner{fail: map[string]bool{"board": true}}},
		{"no output", &fakeRunner{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultBoardStage([]string{"board", "{input}", "{output}"}).Run(tt.runner, t.TempDir())
			if !errors.Is(err, ErrConverterFailure) {
				t.Fatalf("err = %v, want ErrConverterFailure", err)
			}

			var stageErr *StageError
			if !errors.As(err, &stageErr) || stageErr.Stage != "board" {
				t.Errorf("err = %#v, want a board StageError", err)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	root := t.TempDir()
	kicadLib := filepath.Join(root, "EasyEDA.pretty")
	runner := &fakeRunner{outputs: map[string]string{
		"board":  "(kicad_pcb (footprint \"x\"))",
		"symbol": "(kicad_symbol_lib)",
	}}

	detail := testDetail()
	conversion, err := testConverter(runner).Convert(BuildSymbolDocument(detail), BuildBoardDocument(&detail.PackageDetail), "NE555DR", kicadLib)
	if err != nil {
		t.Fatal(err)
	}

	if conversion.Board != "(kicad_pcb (footprint \"x\"))" {
		t.Errorf("board = %q", conversion.Board)
	}
	if conversion.SymbolPath != filepath.Join(root, "NE555DR.kicad_sym") {
		t.Errorf("symbol path = %s", conversion.SymbolPath)
	}
	if data, err := os.ReadFile(conversion.SymbolPath); err != nil || string(data) != "(kicad_symbol_lib)" {
		t.Errorf("symbol = %q (%v)", data, err)
	}

	if len(runner.commands) != 2 || runner.commands[0][0] != "board" || runner.commands[1][0] != "symbol" {
		t.Errorf("commands = %q", runner.commands)
	}
	if Exists(runner.dirs[0]) {
		t.Errorf("work directory %s was not removed", runner.dirs[0])
	}
}

func TestConvertSymbolFailure(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{
		outputs: map[string]string{"board": "(kicad_pcb)"},
		fail:    map[string]bool{"symbol": true},
	}

	detail := testDetail()
	_, err := testConverter(runner).Convert(BuildSymbolDocument(detail), BuildBoardDocument(&detail.PackageDetail), "NE555DR", filepath.Join(root, "EasyEDA.pretty"))
	if !errors.Is(err, ErrConverterFailure) {
		t.Fatalf("err = %v, want ErrConverterFailure", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("converter output missing from %q", err)
	}

	if Exists(runner.dirs[0]) {
		t.Errorf("work directory %s was not removed", runner.dirs[0])
	}
	if Exists(filepath.Join(root, "NE555DR.kicad_sym")) {
		t.Errorf("symbol written after a failed stage")
	}
}

func TestConvertMesh(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{outputs: map[string]string{"mesh": "#VRML V2.0 utf8"}}

	obj := filepath.Join(dir, "SOIC-8.obj")
	wrl := filepath.Join(dir, "SOIC-8.wrl")
	if err := testConverter(runner).ConvertMesh(obj, wrl); err != nil {
		t.Fatal(err)
	}

	if got := runner.commands[0]; got[1] != obj || got[2] != wrl {
		t.Errorf("command = %q", got)
	}
	if !Exists(wrl) {
		t.Errorf("%s not written", wrl)
	}
}
