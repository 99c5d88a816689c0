package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const (
	ModeGrid  = "grid"
	ModeReels = "reels"
)

// Preferences are the UI settings that survive restarts.
type Preferences struct {
	Muted    bool
	Mode     string
	Category string
	Filter   string
}

func DefaultPreferences() Preferences {
	return Preferences{Muted: true, Mode: ModeGrid}
}

// View records that an item was shown in the reels player.
type View struct {
	ItemID   string
	Title    string
	Category string
	ViewedAt time.Time
	// Count is filled in by RecentViews.
	Count int
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps writes from the UI goroutines serialized.
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS views (
  item_id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  viewed_at TEXT NOT NULL,
  view_count INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_views_viewed_at ON views(viewed_at DESC);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable fails early when the database file cannot be written.
func (r *Repository) CheckWritable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO preferences (key, value, updated_at) VALUES ('_probe', '', '') ON CONFLICT(key) DO NOTHING`); err != nil {
		return fmt.Errorf("database not writable: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = '_probe'`); err != nil {
		return fmt.Errorf("database not writable: %w", err)
	}
	return nil
}

func (r *Repository) SavePreferences(ctx context.Context, prefs Preferences) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO preferences (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	values := map[string]string{
		"muted":    strconv.FormatBool(prefs.Muted),
		"mode":     prefs.Mode,
		"category": prefs.Category,
		"filter":   prefs.Filter,
	}
	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, key, value, now); err != nil {
			return fmt.Errorf("save preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadPreferences returns the stored preferences, falling back to
// DefaultPreferences for anything never saved.
func (r *Repository) LoadPreferences(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return prefs, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, fmt.Errorf("scan preference: %w", err)
		}
		switch key {
		case "muted":
			muted, err := strconv.ParseBool(value)
			if err != nil {
				return prefs, fmt.Errorf("parse preference muted %q: %w", value, err)
			}
			prefs.Muted = muted
		case "mode":
			if value == ModeGrid || value == ModeReels {
				prefs.Mode = value
			}
		case "category":
			prefs.Category = value
		case "filter":
			prefs.Filter = value
		}
	}
	if err := rows.Err(); err != nil {
		return prefs, fmt.Errorf("rows iteration: %w", err)
	}
	return prefs, nil
}

// viewedAtLayout keeps every stored timestamp the same width so that text
// ordering matches time ordering.
const viewedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (r *Repository) SaveViews(ctx context.Context, views []View) error {
	if len(views) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO views (item_id, title, category, viewed_at, view_count)
VALUES (?, ?, ?, ?, 1)
ON CONFLICT(item_id) DO UPDATE SET
  title=excluded.title,
  category=excluded.category,
  viewed_at=excluded.viewed_at,
  view_count=views.view_count + 1
`)
	if err != nil {
		return fmt.Errorf("prepare view statement: %w", err)
	}
	defer stmt.Close()

	for _, v := range views {
		if v.ItemID == "" {
			return errors.New("view without item id")
		}
		at := v.ViewedAt
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, v.ItemID, v.Title, v.Category, at.UTC().Format(viewedAtLayout)); err != nil {
			return fmt.Errorf("save view %s: %w", v.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// RecentViews lists viewed items, most recent first.
func (r *Repository) RecentViews(ctx context.Context, limit int) ([]View, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT item_id, title, category, viewed_at, view_count
FROM views
ORDER BY viewed_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	views := make([]View, 0, limit)
	for rows.Next() {
		var v View
		var viewedAt string
		if err := rows.Scan(&v.ItemID, &v.Title, &v.Category, &viewedAt, &v.Count); err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		v.ViewedAt, err = time.Parse(viewedAtLayout, viewedAt)
		if err != nil {
			return nil, fmt.Errorf("parse view viewed_at %q: %w", viewedAt, err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return views, nil
}
