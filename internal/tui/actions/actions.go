package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/storage"
)

const DefaultFetchTimeout = 10 * time.Second

// PageLoadedMsg carries a finished fetch back to the event loop. Feed names
// the controller that issued the request.
type PageLoadedMsg struct {
	Feed     string
	Result   feed.Result
	Duration time.Duration
}

// MediaReadyMsg reports that the unit for ID finished buffering. Epoch is the
// media host epoch the buffering started in.
type MediaReadyMsg struct {
	ID    string
	Epoch uint64
}

type PlaybackTickMsg struct {
	At time.Time
}

type ClearStatusMsg struct {
	ID int
}

type PreferenceSaveErrorMsg struct {
	Err error
}

type ViewRecordErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

// FetchPageCmd runs req off the event loop.
func FetchPageCmd(feedName string, req feed.Request, timeout time.Duration) tea.Cmd {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()

		res := req.Run(ctx)
		return PageLoadedMsg{Feed: feedName, Result: res, Duration: time.Since(start)}
	}
}

// BufferCmd reports id ready after delay.
func BufferCmd(id string, epoch uint64, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return MediaReadyMsg{ID: id, Epoch: epoch}
	})
}

func PlaybackTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return PlaybackTickMsg{At: t}
	})
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

func PersistPreferencesCmd(saveFn func(context.Context, storage.Preferences) error, prefs storage.Preferences) tea.Cmd {
	if saveFn == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := saveFn(ctx, prefs); err != nil {
			return PreferenceSaveErrorMsg{Err: err}
		}
		return nil
	}
}

func RecordViewCmd(recordFn func(context.Context, feed.Item, feed.QueryKey) error, item feed.Item, key feed.QueryKey) tea.Cmd {
	if recordFn == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recordFn(ctx, item, key); err != nil {
			return ViewRecordErrorMsg{Err: err}
		}
		return nil
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened media in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
