package tui

import (
	"os/exec"
	"runtime"

	"nordify/internal/errors"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenFile opens path with the system's default viewer.
//
// Supports macOS, Linux, and Windows platforms.
func OpenFile(path string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		return errors.Newf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return errors.NewFileError("failed to open viewer", path, errors.FileAccessDenied, err)
	}
	// Reap the viewer launcher without waiting on it
	go cmd.Wait()
	return nil
}
