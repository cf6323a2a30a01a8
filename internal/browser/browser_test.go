package browser

import (
	"fmt"
	"testing"
)

func TestYouTubeSearchURL(t *testing.T) {
	got := YouTubeSearchURL("never gonna give you up")
	want := "https://www.youtube.com/results?search_query=never+gonna+give+you+up"
	if got != want {
		t.Fatalf("got=%q", got)
	}
}

func TestOpenPrefersConfiguredBrowser(t *testing.T) {
	l := NewLauncher("/opt/brave/brave")
	var calls []string
	l.startCommand = func(name string, args ...string) error {
		calls = append(calls, name)
		return nil
	}
	if err := l.Open("https://example.com"); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0] != "/opt/brave/brave" {
		t.Fatalf("calls=%v", calls)
	}
}

func TestOpenFallsBackOnLaunchFailure(t *testing.T) {
	l := NewLauncher("/missing/browser")
	var calls []string
	l.startCommand = func(name string, args ...string) error {
		calls = append(calls, name)
		if name == "/missing/browser" {
			return fmt.Errorf("exec: not found")
		}
		return nil
	}
	if err := l.Open("https://example.com"); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 {
		t.Fatalf("calls=%v", calls)
	}
}

func TestOpenEmptyURL(t *testing.T) {
	l := NewLauncher("")
	if err := l.Open("  "); err == nil {
		t.Fatalf("expected error")
	}
}
