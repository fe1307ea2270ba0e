//go:build windows

package lib

import (
	"syscall"

	"github.com/lxn/win"
)

func GetProgramFiles() string {
	buf := make([]uint16, win.MAX_PATH)
	win.SHGetSpecialFolderPath(win.HWND(0), &buf[0], win.CSIDL_PROGRAM_FILES, false)

	return syscall.UTF16ToString(buf)
}

func kicadCLIName() string {
	return "kicad-cli.exe"
}
