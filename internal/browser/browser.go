package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"codeberg.org/practicetestbulk/client/internal/logger"
)

// Opener opens a URL for the user (checkout pages, OAuth sign-in).
type Opener func(rawURL string) error

// opens rawURL in the system browser. only http(s) URLs are accepted
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: unsupported scheme", u.Scheme)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	logger.Debug("opened browser", "url", u.Redacted())

	// reap the launcher; its exit status says nothing about the page
	go cmd.Wait() //nolint:errcheck

	return nil
}

// an Opener that only prints the URL, for headless sessions
func Print(printf func(format string, args ...any)) Opener {
	return func(rawURL string) error {
		printf("Open this URL in your browser:\n  %s\n", rawURL)
		return nil
	}
}
