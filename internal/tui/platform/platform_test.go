package platform

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValidateMediaURL(t *testing.T) {
	valid, err := ValidateMediaURL("https://example.com/path")
	if err != nil {
		t.Fatalf("unexpected error for valid URL: %v", err)
	}
	if valid != "https://example.com/path" {
		t.Fatalf("unexpected normalized URL: %q", valid)
	}

	_, err = ValidateMediaURL("ftp://example.com/path")
	if err == nil || !strings.Contains(err.Error(), "unsupported URL scheme") {
		t.Fatalf("expected unsupported scheme error, got %v", err)
	}

	_, err = ValidateMediaURL("  ")
	if err == nil || !strings.Contains(err.Error(), "no media URL") {
		t.Fatalf("expected missing URL error, got %v", err)
	}

	_, err = ValidateMediaURL("https://")
	if err == nil || !strings.Contains(err.Error(), "invalid URL host") {
		t.Fatalf("expected invalid host error, got %v", err)
	}
}

func TestBrowserCommand(t *testing.T) {
	cases := []struct {
		goos string
		url  string
		name string
		args []string
	}{
		{goos: "darwin", url: "https://example.com", name: "open", args: []string{"https://example.com"}},
		{goos: "windows", url: "https://example.com", name: "rundll32", args: []string{"url.dll,FileProtocolHandler", "https://example.com"}},
		{goos: "linux", url: "https://example.com", name: "xdg-open", args: []string{"https://example.com"}},
	}
	for _, tc := range cases {
		gotName, gotArgs := browserCommand(tc.goos, tc.url)
		if gotName != tc.name || !reflect.DeepEqual(gotArgs, tc.args) {
			t.Fatalf("browserCommand(%q) = (%q, %v), want (%q, %v)", tc.goos, gotName, gotArgs, tc.name, tc.args)
		}
	}
}

func TestCopyWith_FallsThroughOnRunFailure(t *testing.T) {
	lookup := func(bin string) (string, error) {
		if bin == "pbcopy" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + bin, nil
	}
	var tried []string
	run := func(c []string, input string) error {
		tried = append(tried, c[0])
		if input != "https://example.com/clip" {
			t.Fatalf("unexpected clipboard input %q", input)
		}
		if c[0] == "xclip" {
			return errors.New("can't open display")
		}
		return nil
	}
	if err := copyWith("https://example.com/clip", lookup, run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"xclip", "wl-copy"}; !reflect.DeepEqual(tried, want) {
		t.Fatalf("unexpected commands tried: got=%v want=%v", tried, want)
	}
}

func TestCopyWith_Errors(t *testing.T) {
	none := func(string) (string, error) { return "", errors.New("not found") }
	run := func([]string, string) error {
		t.Fatal("run must not be called without a clipboard command")
		return nil
	}
	err := copyWith("https://example.com", none, run)
	if err == nil || !strings.Contains(err.Error(), "no clipboard command") {
		t.Fatalf("expected missing command error, got %v", err)
	}

	all := func(bin string) (string, error) { return "/usr/bin/" + bin, nil }
	failing := func([]string, string) error { return errors.New("exit status 1") }
	err = copyWith("https://example.com", all, failing)
	if err == nil || !strings.Contains(err.Error(), "wl-copy") {
		t.Fatalf("expected last command failure, got %v", err)
	}
}
