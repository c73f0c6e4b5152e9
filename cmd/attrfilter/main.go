// Command attrfilter pages through attribute elements and keeps staged
// selections over them as saved filters.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/attrfilter/internal/adapters/driven/config/file"
	"github.com/custodia-labs/attrfilter/internal/adapters/driven/remote"
	"github.com/custodia-labs/attrfilter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/attrfilter/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/attrfilter/internal/adapters/driving/cli"
	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
	"github.com/custodia-labs/attrfilter/internal/core/services"
	"github.com/custodia-labs/attrfilter/internal/logger"
	"github.com/custodia-labs/attrfilter/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBuilder(build)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// build wires the services for one command run.
func build(_ context.Context, opts cli.Options) (*cli.Services, func() error, error) {
	configDir, err := resolveDataDir(opts.DataDir)
	if err != nil {
		return nil, nil, err
	}

	config, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(config)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, err
	}
	if err := settingsService.Validate(); err != nil {
		logger.Warn("invalid settings, using local source: %v", err)
		settings.Source = domain.SourceLocal
	}

	var (
		elementStore driven.ElementStore
		filterStore  driven.FilterStore
		closeFn      = func() error { return nil }
	)
	if opts.Memory {
		elementStore = memory.NewElementStore()
		filterStore = memory.NewFilterStore()
	} else {
		storeDir := configDir
		if settings.DataDir != "" {
			storeDir = settings.DataDir
		}
		store, err := sqlite.NewStore(storeDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		logger.Debug("using store %s", store.Path())
		elementStore = store.ElementStore()
		filterStore = store.FilterStore()
		closeFn = store.Close
	}

	source, err := elementSource(settings, elementStore)
	if err != nil {
		return nil, nil, errors.Join(err, closeFn())
	}

	collector := metrics.NewCollector()
	return &cli.Services{
		Elements:    services.NewElementService(source, elementStore, settings.PageSize),
		Filters:     services.NewFilterService(filterStore, source, settings.PageSize, collector),
		Settings:    settingsService,
		Metrics:     collector,
		WatchConfig: config.Watch,
	}, closeFn, nil
}

// elementSource picks the remote service or the local store.
func elementSource(settings *domain.Settings, local driven.ElementStore) (driven.ElementSource, error) {
	if settings.Source != domain.SourceRemote {
		return local, nil
	}
	logger.Debug("loading elements from %s", settings.RemoteURL)
	return remote.NewSource(remote.Config{
		BaseURL: settings.RemoteURL,
		Token:   settings.RemoteToken,
		Rate:    settings.RemoteRate,
	})
}

func resolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if env := os.Getenv("ATTRFILTER_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".attrfilter"), nil
}
