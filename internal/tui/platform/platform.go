package platform

import (
	"bytes"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

func ValidateMediaURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("item has no media URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func OpenURLInBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Run()
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// CopyURLToClipboard tries each available clipboard command in turn until
// one succeeds.
func CopyURLToClipboard(url string) error {
	return copyWith(url, exec.LookPath, func(c []string, input string) error {
		cmd := exec.Command(c[0], c[1:]...)
		cmd.Stdin = bytes.NewBufferString(input)
		return cmd.Run()
	})
}

var clipboardCommands = [][]string{
	{"pbcopy"},
	{"xclip", "-selection", "clipboard"},
	{"wl-copy"},
}

func copyWith(url string, lookPath func(string) (string, error), run func([]string, string) error) error {
	var lastErr error
	for _, c := range clipboardCommands {
		if _, err := lookPath(c[0]); err != nil {
			continue
		}
		if err := run(c, url); err != nil {
			lastErr = fmt.Errorf("%s: %w", c[0], err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("copy to clipboard: %w", lastErr)
	}
	return fmt.Errorf("no clipboard command available")
}
