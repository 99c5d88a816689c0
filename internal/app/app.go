package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/storage"
)

type Repository interface {
	LoadPreferences(ctx context.Context) (storage.Preferences, error)
	SavePreferences(ctx context.Context, prefs storage.Preferences) error
	SaveViews(ctx context.Context, views []storage.View) error
	RecentViews(ctx context.Context, limit int) ([]storage.View, error)
}

// Service wires the data source to the grid and reels feeds and keeps UI
// preferences in the repository.
type Service struct {
	source   feed.DataSource
	repo     Repository
	pageSize int
	log      zerolog.Logger
	grid     *feed.Controller
	reels    *feed.Controller
}

func NewService(source feed.DataSource, repo Repository, pageSize int, logger zerolog.Logger) *Service {
	return &Service{
		source:   source,
		repo:     repo,
		pageSize: pageSize,
		log:      logger,
		grid:     feed.NewController("grid", source, pageSize, logger),
		reels:    feed.NewController("reels", source, pageSize, logger),
	}
}

// Grid is the feed behind the masonry view.
func (s *Service) Grid() *feed.Controller { return s.grid }

// Reels is the feed behind the player. It pages independently of the grid.
func (s *Service) Reels() *feed.Controller { return s.reels }

// Prime loads the first page of key into both feeds.
func (s *Service) Prime(ctx context.Context, key feed.QueryKey) error {
	for _, c := range []*feed.Controller{s.grid, s.reels} {
		if _, err := c.Query(ctx, key); err != nil {
			return fmt.Errorf("load %s feed: %w", c.Name(), err)
		}
	}
	return nil
}

func (s *Service) LoadPreferences(ctx context.Context) (storage.Preferences, error) {
	prefs, err := s.repo.LoadPreferences(ctx)
	if err != nil {
		return storage.DefaultPreferences(), fmt.Errorf("load preferences from cache: %w", err)
	}
	return prefs, nil
}

func (s *Service) SavePreferences(ctx context.Context, prefs storage.Preferences) error {
	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return fmt.Errorf("save preferences to cache: %w", err)
	}
	s.log.Debug().Bool("muted", prefs.Muted).Str("mode", prefs.Mode).Str("category", prefs.Category).Msg("preferences saved")
	return nil
}

// RecordView stores that item was shown in the player under key.
func (s *Service) RecordView(ctx context.Context, item feed.Item, key feed.QueryKey) error {
	view := storage.View{ItemID: item.ID, Title: item.Title, Category: key.Category}
	if err := s.repo.SaveViews(ctx, []storage.View{view}); err != nil {
		return fmt.Errorf("save view to cache: %w", err)
	}
	return nil
}

func (s *Service) RecentViews(ctx context.Context, limit int) ([]storage.View, error) {
	views, err := s.repo.RecentViews(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load views from cache: %w", err)
	}
	return views, nil
}
