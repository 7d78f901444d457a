//go:build windows
// +build windows

package cmd

import (
	"os"

	"golang.org/x/term"
)

// getTerminalSize returns terminal dimensions for Windows
func getTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0
	}
	return width, height
}
