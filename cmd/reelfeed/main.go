package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/glabrego/reelfeed-cli/internal/app"
	"github.com/glabrego/reelfeed-cli/internal/config"
	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/feedapi"
	"github.com/glabrego/reelfeed-cli/internal/input"
	"github.com/glabrego/reelfeed-cli/internal/logging"
	"github.com/glabrego/reelfeed-cli/internal/media"
	"github.com/glabrego/reelfeed-cli/internal/playback"
	"github.com/glabrego/reelfeed-cli/internal/storage"
	"github.com/glabrego/reelfeed-cli/internal/tui"
)

const demoItemsPerCategory = 60

var (
	cfgPath  string
	demoFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "reelfeed",
	Short:         "Browse a media feed as a masonry grid or a vertical reels player",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI(""),
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Start in the masonry grid",
	Args:  cobra.NoArgs,
	RunE:  runTUI(storage.ModeGrid),
}

var reelsCmd = &cobra.Command{
	Use:   "reels",
	Short: "Start in the reels player",
	Args:  cobra.NoArgs,
	RunE:  runTUI(storage.ModeReels),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $"+config.ConfigPathEnvVar+" or ./"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVar(&demoFlag, "demo", false, "serve a built-in catalogue instead of calling the API")
	rootCmd.AddCommand(gridCmd, reelsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "reelfeed: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs once config, logging and storage are up.
type env struct {
	cfg     config.Config
	log     zerolog.Logger
	repo    *storage.Repository
	source  feed.DataSource
	breaker tui.BreakerReporter
	service *app.Service
	closers []func() error
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

func bootstrap(ctx context.Context) (*env, error) {
	cfg, err := config.Load(cfgPath, func(c *config.Config) {
		if demoFlag {
			c.Demo = true
		}
	})
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("logging error: %w", err)
	}
	e := &env{cfg: cfg, log: logger, closers: []func() error{closeLog}}

	repo, err := storage.NewRepository(cfg.DB.Path)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	e.repo = repo
	e.closers = append(e.closers, repo.Close)

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := repo.Init(initCtx); err != nil {
		e.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(initCtx); err != nil {
		e.Close()
		return nil, fmt.Errorf("storage write check failed (%v). Verify db.path is writable: %s", err, cfg.DB.Path)
	}

	if cfg.Demo {
		e.source = feedapi.NewMemorySource(feedapi.DemoItems(cfg.Feed.Categories, demoItemsPerCategory)).WithLatency(300 * time.Millisecond)
		logger.Info().Strs("categories", cfg.Feed.Categories).Msg("demo catalogue enabled")
	} else {
		client := feedapi.NewClient(cfg.API.BaseURL, feedapi.Options{
			Token:      cfg.API.Token,
			HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
			Logger:     logger,
		})
		e.source = client
		e.breaker = client
	}
	e.service = app.NewService(e.source, repo, cfg.Feed.PageSize, logger)

	logger.Info().
		Bool("demo", cfg.Demo).
		Int("page_size", cfg.Feed.PageSize).
		Str("db", cfg.DB.Path).
		Msg("reelfeed started")
	return e, nil
}

func runTUI(mode string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		prefCtx, prefCancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		prefs, err := e.service.LoadPreferences(prefCtx)
		prefCancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load preferences (%v), using defaults\n", err)
			e.log.Warn().Err(err).Msg("load preferences failed")
		}
		if mode != "" {
			prefs.Mode = mode
		}

		inputOpts := input.DefaultOptions()
		inputOpts.Debounce = e.cfg.Input.Debounce
		inputOpts.SwipeMinRows = e.cfg.Input.SwipeMinRows

		host := media.NewHost(media.Options{Logger: e.log})
		model := tui.NewModel(e.service, host, tui.Options{
			Categories: e.cfg.Feed.Categories,
			Columns:    e.cfg.Grid.Columns,
			Input:      inputOpts,
			Playback: playback.Options{
				PrefetchThreshold: e.cfg.Feed.PrefetchThreshold,
				PreloadAhead:      e.cfg.Feed.PreloadAhead,
			},
			FetchTimeout: e.cfg.API.Timeout,
			Preferences:  prefs,
			Breaker:      e.breaker,
			Logger:       e.log,
		})

		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("tui error: %w", err)
		}
		return nil
	}
}
