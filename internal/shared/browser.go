package shared

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// startCommand launches cmd without waiting so the opened browser is detached from this process.
var startCommand = func(cmd *exec.Cmd) error { return cmd.Start() }

// SystemOpener opens playlist URLs in the platform's default browser.
//
// The browser runs as a separate process, so nothing it loads can reach back into the caller.
type SystemOpener struct{}

// Open implements the wheel opener contract by delegating to [OpenBrowser].
func (SystemOpener) Open(ctx context.Context, rawURL string) error {
	return OpenBrowser(ctx, rawURL)
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms. Only absolute http(s) URLs are accepted.
func OpenBrowser(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an http(s) url", ErrInvalidInput, rawURL)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", u.String())
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", u.String())
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u.String())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, rt)
	}

	if err := startCommand(cmd); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
