package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"driveqa/internal/config"
	"driveqa/internal/domain"
	"driveqa/internal/extractor"
	"driveqa/internal/logging"
	"driveqa/internal/ranker"
	"driveqa/internal/remote"
	"driveqa/internal/session"
)

// app holds the assembled components of one run.
type app struct {
	cfg    *config.AppConfig
	log    zerolog.Logger
	closer io.Closer
	store  domain.Store
}

func loadConfig() (*config.AppConfig, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

// newApp loads configuration and builds the logger and the file store. The
// interactive browser always logs to a file so the terminal stays clean.
func newApp(ctx context.Context, interactive bool) (*app, error) {
	cfg, log, closer, err := setup(interactive)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &app{cfg: cfg, log: log, closer: closer, store: store}, nil
}

func setup(interactive bool) (*config.AppConfig, zerolog.Logger, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("failed to load config: %w", err)
	}
	if siteName != "" && cfg.Remote.Graph != nil {
		cfg.Remote.Graph.SiteName = siteName
		cfg.Remote.Graph.SiteID = ""
	}
	logCfg := cfg.Logging
	if interactive && logCfg.File == "" {
		logCfg.File = filepath.Join(os.TempDir(), "driveqa.log")
	}
	log, closer, err := logging.Setup(logCfg)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	return cfg, log, closer, nil
}

func buildStore(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (domain.Store, error) {
	switch cfg.Remote.Type {
	case "graph", "":
		g := cfg.Remote.Graph
		if g == nil {
			return nil, fmt.Errorf("graph store: no graph section in config")
		}
		store, err := graphStore(cfg, g.SiteID, log)
		if err != nil {
			return nil, err
		}
		if g.SiteID != "" || g.SiteName == "" {
			return store, nil
		}
		site, err := store.ResolveSite(ctx, g.SiteName)
		if err != nil {
			return nil, fmt.Errorf("graph store: %w", err)
		}
		log.Info().Str("site", site.String()).Str("id", site.ID).Msg("resolved site")
		return graphStore(cfg, site.ID, log)
	case "local":
		return remote.NewLocalStore(cfg.Remote.Local.Root, log), nil
	default:
		return nil, fmt.Errorf("unknown remote store: %s", cfg.Remote.Type)
	}
}

// graphStore builds a Graph store for siteID; an empty id addresses /me/drive.
func graphStore(cfg *config.AppConfig, siteID string, log zerolog.Logger) (*remote.GraphStore, error) {
	g := cfg.Remote.Graph
	if g == nil {
		return nil, fmt.Errorf("graph store: no graph section in config")
	}
	token := os.Getenv(g.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("graph store: access token missing, set %s", g.TokenEnv)
	}
	fetch := remote.NewFetcher(remote.FetcherConfig{
		Token:   token,
		Timeout: time.Duration(cfg.Remote.TimeoutSecs) * time.Second,
	}, log.With().Str("component", "fetcher").Logger())
	return remote.NewGraphStore(remote.GraphConfig{
		BaseURL: g.BaseURL,
		SiteID:  siteID,
		Host:    g.Host,
	}, fetch, log), nil
}

func (a *app) newSession() (*session.Session, error) {
	r, err := ranker.New(ranker.Config{
		SimilarityThreshold: a.cfg.Ranker.SimilarityThreshold,
		MinTokens:           a.cfg.Ranker.MinTokens,
		ExcludePatterns:     a.cfg.Ranker.ExcludePatterns,
		Stopwords:           a.cfg.Ranker.Stopwords,
	})
	if err != nil {
		return nil, err
	}
	return session.New(a.store, extractor.New(a.log), r, session.Config{
		PageSize:    a.cfg.Navigation.PageSize,
		View:        a.cfg.Navigation.View,
		DownloadDir: a.cfg.Download.Dir,
	}, a.log), nil
}

func (a *app) Close() error { return a.closer.Close() }
