package feedapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/glabrego/reelfeed-cli/internal/feed"
)

type itemsResponse struct {
	Items   []feed.RawItem `json:"items"`
	HasMore bool           `json:"has_more"`
}

// StatusError is a non-200 response from the feed API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed api status %d: %s", e.Code, e.Body)
}

type Options struct {
	Token      string
	HTTPClient *http.Client
	Logger     zerolog.Logger
	// BreakerFailures is the number of consecutive failures that opens the circuit.
	BreakerFailures uint32
	// BreakerCooldown is how long the circuit stays open before a probe.
	BreakerCooldown time.Duration
}

// Client is a feed.DataSource backed by the HTTP feed API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
	cb      *gobreaker.CircuitBreaker[feed.RawPage]
	group   singleflight.Group
}

func NewClient(baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := opts.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   opts.Token,
		http:    httpClient,
		log:     opts.Logger.With().Str("component", "feedapi").Logger(),
	}
	c.cb = gobreaker.NewCircuitBreaker[feed.RawPage](gobreaker.Settings{
		Name:        "feed-api",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// Client errors say nothing about the health of the API.
			var perm feed.NonRetryable
			return err == nil || errors.As(err, &perm)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Info().Str("breaker", name).Stringer("from", from).Stringer("to", to).Msg("circuit breaker state change")
		},
	})
	return c
}

// Fetch implements feed.DataSource. Identical requests in flight at the same
// time, e.g. from the grid and the reels feed, share one round trip.
func (c *Client) Fetch(ctx context.Context, page int, key feed.QueryKey, pageSize int) (feed.RawPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = feed.DefaultPageSize
	}

	q := make(url.Values)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(pageSize))
	if key.Category != "" {
		q.Set("category", key.Category)
	}
	if key.Filter != "" {
		q.Set("filter", key.Filter)
	}
	path := "/items?" + q.Encode()

	ch := c.group.DoChan(path, func() (any, error) {
		return c.cb.Execute(func() (feed.RawPage, error) {
			return c.get(ctx, path)
		})
	})
	select {
	case <-ctx.Done():
		return feed.RawPage{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, gobreaker.ErrOpenState) || errors.Is(res.Err, gobreaker.ErrTooManyRequests) {
				return feed.RawPage{}, fmt.Errorf("feed api unavailable: %w", res.Err)
			}
			return feed.RawPage{}, res.Err
		}
		return res.Val.(feed.RawPage), nil
	}
}

func (c *Client) get(ctx context.Context, path string) (feed.RawPage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path)
	if err != nil {
		return feed.RawPage{}, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return feed.RawPage{}, fmt.Errorf("list items request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("path", path).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("list items")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		serr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusRequestTimeout {
			return feed.RawPage{}, feed.NonRetryable{Err: serr}
		}
		return feed.RawPage{}, serr
	}

	var body itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return feed.RawPage{}, feed.NonRetryable{Err: fmt.Errorf("decode items response: %w", err)}
	}
	return feed.RawPage{Items: body.Items, HasMore: body.HasMore}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// BreakerState reports the circuit breaker state, for the status line.
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}
