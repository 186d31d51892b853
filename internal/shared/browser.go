package shared

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/desertthunder/mvx/internal/models"
)

var (
	getRuntime   = func() string { return runtime.GOOS }
	startCommand = func(name string, args ...string) error { return exec.Command(name, args...).Start() }
)

// browserCommand returns the launcher for goos that opens url in the default browser.
func browserCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenIMDb opens the IMDb title page for m in the default system browser.
//
// The identifier must have the IMDb form, so only imdb.com title pages are
// ever handed to the launcher.
func OpenIMDb(m models.Movie) (string, error) {
	if !models.ValidID(m.ID) {
		return "", fmt.Errorf("%w: movie id %q is not an IMDb identifier", ErrInvalidArgument, m.ID)
	}

	url := m.IMDbURL()
	name, args, err := browserCommand(getRuntime(), url)
	if err != nil {
		return url, err
	}
	if err := startCommand(name, args...); err != nil {
		return url, fmt.Errorf("failed to open browser: %w", err)
	}
	return url, nil
}
