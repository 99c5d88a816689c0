package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/storage"
	tuiactions "github.com/glabrego/reelfeed-cli/internal/tui/actions"
)

func TestModelUpdate_HandlesAllActionMessageTypes(t *testing.T) {
	now := time.Date(2026, 2, 11, 16, 0, 0, 0, time.UTC)
	m, _ := start(t, storage.DefaultPreferences())

	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{name: "page loaded for unknown feed", msg: tuiactions.PageLoadedMsg{Feed: "sidebar", Result: feed.Result{}}},
		{name: "page loaded stale", msg: tuiactions.PageLoadedMsg{Feed: "grid", Result: feed.Result{}}},
		{name: "media ready unknown id", msg: tuiactions.MediaReadyMsg{ID: "missing"}},
		{name: "media ready", msg: tuiactions.MediaReadyMsg{ID: "for-you-002"}},
		{name: "playback tick", msg: tuiactions.PlaybackTickMsg{At: now}},
		{name: "clear status", msg: tuiactions.ClearStatusMsg{ID: 1}},
		{name: "preference save error", msg: tuiactions.PreferenceSaveErrorMsg{Err: errors.New("disk full")}},
		{name: "view record error", msg: tuiactions.ViewRecordErrorMsg{Err: errors.New("locked")}},
		{name: "open url success", msg: tuiactions.OpenURLSuccessMsg{Status: "Opened media in browser", Opened: true}},
		{name: "open url error", msg: tuiactions.OpenURLErrorMsg{Err: errors.New("no browser")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			updated, _ := m.Update(tc.msg)
			if _, ok := updated.(Model); !ok {
				t.Fatalf("expected Model, got %T", updated)
			}
		})
	}
}

func TestModelUpdate_ActionMessageEffects(t *testing.T) {
	m, _ := start(t, storage.DefaultPreferences())

	updated, cmd := m.Update(tuiactions.PlaybackTickMsg{})
	if cmd == nil {
		t.Fatal("expected playback tick to reschedule itself")
	}
	m = updated.(Model)

	updated, _ = m.Update(tuiactions.PreferenceSaveErrorMsg{Err: errors.New("disk full")})
	m = updated.(Model)
	if m.err == nil || m.status != "Could not persist preferences" {
		t.Fatalf("unexpected state after save error: err=%v status=%q", m.err, m.status)
	}

	updated, _ = m.Update(tuiactions.ClearStatusMsg{ID: m.statusID - 1})
	m = updated.(Model)
	if m.status == "" {
		t.Fatal("an outdated clear must not wipe a newer status")
	}
	updated, _ = m.Update(tuiactions.ClearStatusMsg{ID: m.statusID})
	m = updated.(Model)
	if m.status != "" {
		t.Fatalf("expected status cleared, got %q", m.status)
	}

	m.err = nil
	updated, _ = m.Update(tuiactions.ViewRecordErrorMsg{Err: errors.New("locked")})
	m = updated.(Model)
	if m.err != nil {
		t.Fatal("view bookkeeping failures stay out of the warning line")
	}

	updated, _ = m.Update(tuiactions.OpenURLSuccessMsg{Status: "URL copied to clipboard"})
	m = updated.(Model)
	if m.status != "URL copied to clipboard" {
		t.Fatalf("unexpected status %q", m.status)
	}

	updated, _ = m.Update(tuiactions.OpenURLErrorMsg{Err: errors.New("no browser")})
	m = updated.(Model)
	if m.err == nil || m.status != "Could not open media URL" {
		t.Fatalf("unexpected state after open error: err=%v status=%q", m.err, m.status)
	}
}
