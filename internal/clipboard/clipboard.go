// Package clipboard copies text to the system clipboard via the platform's
// native tooling.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// Copy places s on the system clipboard.
func Copy(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	switch runtime.GOOS {
	case "darwin":
		return runCmd("pbcopy", nil, s)
	case "windows":
		// Try clip.exe first; fall back to PowerShell.
		if err := runCmd("cmd", []string{"/c", "clip"}, s); err == nil {
			return nil
		}
		return runCmd("powershell", []string{"-NoProfile", "-Command", "Set-Clipboard"}, s)
	default:
		// Prefer Wayland if available, then X11 fallbacks.
		if err := runCmd("wl-copy", nil, s); err == nil {
			return nil
		}
		if err := runCmd("xclip", []string{"-selection", "clipboard"}, s); err == nil {
			return nil
		}
		return runCmd("xsel", []string{"--clipboard", "--input"}, s)
	}
}

func runCmd(name string, args []string, stdin string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	if err := cmd.Run(); err != nil {
		return errors.New(name + ": " + err.Error())
	}
	return nil
}
