package lib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeKicadRoot(t *testing.T, versions ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, version := range versions {
		bin := filepath.Join(root, version, "bin")
		if err := os.MkdirAll(bin, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(bin, kicadCLIName()), nil, 0755); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func TestLatestVersion(t *testing.T) {
	root := makeKicadRoot(t, "6.0", "7.0.9", "7.0.10")
	if err := os.WriteFile(filepath.Join(root, "9.0"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "share"), 0755); err != nil {
		t.Fatal(err)
	}

	version, err := latestVersion(root)
	if err != nil {
		t.Fatal(err)
	}
	if version != "7.0.10" {
		t.Errorf("latestVersion = %s, want 7.0.10", version)
	}

	if _, err := latestVersion(t.TempDir()); err == nil {
		t.Errorf("expected an error for an empty folder")
	}
}

func TestKicadInterface(t *testing.T) {
	root := makeKicadRoot(t, "7.0.10", "8.0")
	runner := &fakeRunner{}

	ki, err := NewKicadInterface(root, runner)
	if err != nil {
		t.Fatal(err)
	}
	if ki.Version() != "8.0" || ki.GetBinPath() != filepath.Join(root, "8.0", "bin") {
		t.Errorf("found %s in %s", ki.Version(), ki.GetBinPath())
	}

	if err := ki.UpgradeFootprints("lib/EasyEDA.pretty"); err != nil {
		t.Fatal(err)
	}
	if err := ki.UpgradeSymbol("lib/NE555DR.kicad_sym"); err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(root, "8.0", "bin", kicadCLIName()) + " fp upgrade --force -o lib/EasyEDA.pretty lib/EasyEDA.pretty",
		filepath.Join(root, "8.0", "bin", kicadCLIName()) + " sym upgrade --force -o lib/NE555DR.kicad_sym lib/NE555DR.kicad_sym",
	}
	for i, command := range runner.commands {
		if got := strings.Join(command, " "); got != want[i] {
			t.Errorf("command %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestKicadInterfaceTooOld(t *testing.T) {
	if _, err := NewKicadInterface(makeKicadRoot(t, "6.0.11"), &fakeRunner{}); err == nil {
		t.Errorf("expected an error for KiCad 6")
	}
}
