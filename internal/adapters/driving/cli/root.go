// Package cli provides the attrfilter command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
	"github.com/custodia-labs/attrfilter/internal/logger"
	"github.com/custodia-labs/attrfilter/internal/metrics"
)

// version is set at build time via ldflags.
var version = "dev"

// Options are the global flags handed to the Builder.
type Options struct {
	// DataDir overrides the data directory.
	DataDir string

	// Memory keeps elements and filters in memory only.
	Memory bool
}

// Services are the core services the commands drive.
type Services struct {
	Elements driving.ElementService
	Filters  driving.FilterService
	Settings driving.SettingsService
	Metrics  *metrics.Collector

	// WatchConfig blocks, calling onChange whenever the config file changes.
	// It may be nil.
	WatchConfig func(ctx context.Context, onChange func()) error
}

// Builder wires Services from the global options. The returned function
// releases whatever the services hold open.
type Builder func(ctx context.Context, opts Options) (*Services, func() error, error)

var (
	elementService  driving.ElementService
	filterService   driving.FilterService
	settingsService driving.SettingsService
	collector       *metrics.Collector
	watchConfig     func(ctx context.Context, onChange func()) error

	builder Builder
	closer  func() error
)

var (
	verbose    bool
	dataDir    string
	memoryMode bool
)

var rootCmd = &cobra.Command{
	Use:   "attrfilter",
	Short: "Page through attribute elements and stage filter selections",
	Long: `attrfilter lists the elements of attribute display forms page by page
and keeps staged, invertible selections over them as saved filters.

Elements come from the local store (see "elements import") or from a remote
element service configured with "settings set source.kind remote".`,
	SilenceUsage:       true,
	PersistentPreRunE:  bootstrap,
	PersistentPostRunE: shutdown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/.attrfilter)")
	rootCmd.PersistentFlags().BoolVar(&memoryMode, "memory", false, "Keep elements and filters in memory only")
}

// SetBuilder registers the function that wires services before a command runs.
func SetBuilder(b Builder) {
	builder = b
}

// SetServices sets the services directly, bypassing the Builder.
func SetServices(s *Services) {
	if s == nil {
		elementService, filterService, settingsService = nil, nil, nil
		collector, watchConfig = nil, nil
		return
	}
	elementService = s.Elements
	filterService = s.Filters
	settingsService = s.Settings
	collector = s.Metrics
	watchConfig = s.WatchConfig
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if builder == nil || elementService != nil {
		return nil
	}

	services, closeFn, err := builder(commandContext(cmd), Options{DataDir: dataDir, Memory: memoryMode})
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	SetServices(services)
	closer = closeFn
	return nil
}

func shutdown(_ *cobra.Command, _ []string) error {
	if closer == nil {
		return nil
	}
	err := closer()
	closer = nil
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var (
	errElementsNotConfigured = errors.New("element service not configured")
	errFiltersNotConfigured  = errors.New("filter service not configured")
	errSettingsNotConfigured = errors.New("settings service not configured")
)
