package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/five82/rolo/internal/config"
	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/favorites"
	"github.com/five82/rolo/internal/logging"
	"github.com/five82/rolo/internal/prefs"
	"github.com/five82/rolo/internal/query"
	"github.com/five82/rolo/internal/state"
	"github.com/five82/rolo/internal/ui"
)

// Options configure the rolo application.
type Options struct {
	ConfigPath     string
	PrefsPath      string // empty uses default ~/.config/rolo/prefs.toml
	View           string // starting location; empty resumes the last one
	APIURL         string // overrides api_url from the config file
	RefreshSeconds int    // background reload; zero keeps the config value
}

// session holds the wired pieces the UI runs on.
type session struct {
	cfg     config.Config
	client  *contacts.Client
	store   *state.Store
	actions *state.Actions
	syncer  *query.Syncer
	keeper  *prefs.Keeper
}

// Run boots the rolo TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.RefreshSeconds > 0 {
		cfg.RefreshInterval = time.Duration(opts.RefreshSeconds) * time.Second
	}

	// The terminal belongs to the UI, so a broken log file silences logging.
	logger, closer := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Format: cfg.LogFormat,
	}, io.Discard)
	defer func() { _ = closer.Close() }()

	s, err := newSession(cfg, opts.PrefsPath, opts.View, logger)
	if err != nil {
		return err
	}
	logger.Info("rolo starting", "api", s.client.BaseURL(), "location", s.syncer.Location.String())

	StartRefresher(ctx, s.actions, cfg.RefreshInterval, logger)

	return ui.Run(ui.Options{
		Context:  ctx,
		Actions:  s.actions,
		Syncer:   s.syncer,
		Keeper:   s.keeper,
		Logger:   logger,
		APIURL:   s.client.BaseURL(),
		LogPath:  cfg.LogFile,
		PollTick: ui.DefaultUIInterval,
	})
}

// newSession loads prefs and favorites, builds the client and store, and
// hydrates the list parameters from the starting location.
func newSession(cfg config.Config, prefsPath, view string, logger *slog.Logger) (*session, error) {
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("load prefs", "error", err)
	}
	keeper := prefs.NewKeeper(prefsPath, userPrefs)

	slot := &favorites.File{Path: cfg.FavoritesPath}
	initial, err := slot.Load()
	if err != nil {
		logger.Warn("favorites unreadable, starting empty", "path", cfg.FavoritesPath, "error", err)
	}

	client, err := contacts.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init contacts client: %w", err)
	}

	store := state.NewStore(slot, initial)
	actions := &state.Actions{Store: store, API: client, Logger: logger}

	start := view
	if start == "" {
		start = userPrefs.LastView
	}
	if start == "" {
		start = query.PathContacts
	}
	syncer := &query.Syncer{
		Store:    store,
		Location: query.NewLocation(start, keeper.SetLastView),
	}
	if err := syncer.Hydrate(); err != nil {
		logger.Warn("list parameters partly ignored", "location", start, "error", err)
	}

	return &session{
		cfg:     cfg,
		client:  client,
		store:   store,
		actions: actions,
		syncer:  syncer,
		keeper:  keeper,
	}, nil
}
