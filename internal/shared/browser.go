package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// getRuntime is a test seam for the platform switch below.
var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser launches the default browser at url to start the authorization
// flow. Supports macOS, Linux, and Windows.
func OpenBrowser(url string) error {
	var name string
	var args []string

	switch rt := getRuntime(); rt {
	case "darwin":
		name = "open"
	case "linux":
		name = "xdg-open"
	case "windows":
		name, args = "cmd", []string{"/c", "start"}
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}
	args = append(args, url)

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
