package cli

import (
	"fmt"

	"clickbreak/internal/app"
	"clickbreak/internal/clicksource"
	"clickbreak/internal/config"
	"clickbreak/internal/logging"
	"clickbreak/internal/metrics"
	"clickbreak/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// appRuntime is everything a front end needs once flags and config are resolved.
type appRuntime struct {
	config  *config.Config
	logger  zerolog.Logger
	session *app.Context
	metrics *metrics.Server
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		defaultPath, err := config.DefaultPath(appName)
		if err == nil {
			path = defaultPath
		}
	}
	return config.Load(path, cmd.Flags())
}

func openStore(opts *options) (*storage.Store, error) {
	if opts.settingsPath != "" {
		return storage.NewStoreAt(opts.settingsPath), nil
	}
	return storage.NewStore(appName)
}

// bootstrap loads configuration, sets up logging and builds the application context.
func bootstrap(cmd *cobra.Command, opts *options) (*appRuntime, error) {
	cfg, logger, err := setup(cmd, opts)
	if err != nil {
		return nil, err
	}
	return newRuntime(cfg, logger, opts)
}

func setup(cmd *cobra.Command, opts *options) (*config.Config, zerolog.Logger, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logging.Setup(cfg.Logging), nil
}

func newRuntime(cfg *config.Config, logger zerolog.Logger, opts *options) (*appRuntime, error) {
	store, err := openStore(opts)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	logger.Debug().Str("path", store.Path()).Msg("Using settings file")

	mode := clicksource.ModeNative
	if cfg.Tracking.Mode == string(clicksource.ModeSimulated) {
		mode = clicksource.ModeSimulated
	}
	systemWide := clicksource.NewSystemWide(clicksource.Options{
		Mode:                 mode,
		SimulatedInterval:    cfg.Tracking.SimulatedIntervalDuration(),
		SimulatedProbability: cfg.Tracking.SimulatedProbability,
		Logger:               logger,
	})

	session := app.New(app.Options{
		Store:            store,
		SystemWide:       systemWide,
		EnableSystemWide: cfg.Tracking.SystemWide,
		Logger:           logger,
	})

	rt := &appRuntime{config: cfg, logger: logger, session: session}
	if cfg.Metrics.ListenAddress != "" {
		server := metrics.NewServer(cfg.Metrics.ListenAddress, logger)
		if err := server.Start(); err != nil {
			logger.Warn().Err(err).Msg("Metrics server disabled")
		} else {
			rt.metrics = server
		}
	}
	return rt, nil
}

// close shuts down the session and the metrics server.
func (rt *appRuntime) close() {
	rt.session.Shutdown()
	if rt.metrics != nil {
		if err := rt.metrics.Stop(); err != nil {
			rt.logger.Warn().Err(err).Msg("Failed to stop metrics server")
		}
	}
}
