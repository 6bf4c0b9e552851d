package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Makepad-fr/artspot/internal/app"
	"github.com/Makepad-fr/artspot/internal/catalog"
	"github.com/Makepad-fr/artspot/internal/config"
	"github.com/Makepad-fr/artspot/internal/found"
	"github.com/Makepad-fr/artspot/internal/geocode"
	"github.com/Makepad-fr/artspot/internal/logging"
	"github.com/Makepad-fr/artspot/internal/store/kvstore"
	"github.com/Makepad-fr/artspot/internal/ui"
)

// env is everything a subcommand needs, built once per invocation.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	catalog  *catalog.Catalog
	source   string
	geocoder geocode.Geocoder
	session  *app.Session
}

func loadConfig(opt *Options) (*config.Config, error) {
	path := opt.Config
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	ui.SetTheme(cfg.UI.Theme)
	return cfg, nil
}

func credentials() (geocode.Credentials, error) {
	dir, err := config.Dir()
	if err != nil {
		return geocode.Credentials{}, err
	}
	return geocode.Credentials{Dir: dir}, nil
}

// newGeocoder returns Google when a key is available, else Unavailable.
func newGeocoder(cfg *config.Config, logger *zap.Logger) geocode.Geocoder {
	creds, err := credentials()
	if err != nil {
		logger.Warn("credentials dir unavailable", zap.Error(err))
		return geocode.Unavailable{}
	}
	ki, err := creds.GetKey()
	if err != nil {
		logger.Warn("maps key unreadable", zap.Error(err))
		return geocode.Unavailable{}
	}
	if ki == nil {
		return geocode.Unavailable{}
	}
	g, err := geocode.NewGoogle(ki.Key, cfg.Geocoder.Region, logger)
	if err != nil {
		logger.Warn("maps client unavailable", zap.Error(err))
		return geocode.Unavailable{}
	}
	return g
}

// setup loads config, logging, the catalog and the file-backed found set.
func setup(ctx context.Context, opt *Options, out logging.Output) (*env, error) {
	cfg, err := loadConfig(opt)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging, opt.Verbose, out)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.Data.FetchTimeout())
	defer cancel()
	cat, source := catalog.Load(fetchCtx, logger, catalog.DefaultSources(cfg.Data.Source, cfg.Data.FetchTimeout())...)

	storePath, err := cfg.Found.ResolvedStorePath()
	if err != nil {
		return nil, fmt.Errorf("store path: %w", err)
	}
	tracker := found.New(kvstore.New(storePath),
		found.WithKey(cfg.Found.Key),
		found.WithRetention(cfg.Found.RetentionPeriod()),
		found.WithLogger(logger),
	)
	if err := tracker.Load(); err != nil {
		return nil, err
	}

	geocoder := newGeocoder(cfg, logger)
	return &env{
		cfg:      cfg,
		logger:   logger,
		catalog:  cat,
		source:   source,
		geocoder: geocoder,
		session:  app.NewSession(cat, tracker, geocoder, logger),
	}, nil
}
