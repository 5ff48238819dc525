package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// launcher starts a command without waiting for it. Replaced in tests.
var launcher = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenBrowser opens an http(s) link, usually the target spreadsheet, in the default browser.
func OpenBrowser(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: not a web link: %q", ErrInvalidArgument, link)
	}

	name, args, err := openCommand(runtime.GOOS, u.String())
	if err != nil {
		return err
	}
	if err := launcher(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func openCommand(goos, link string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{link}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{link}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
