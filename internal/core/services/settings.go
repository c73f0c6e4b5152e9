package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyPageSize    = "elements.page_size"
	KeyDataDir     = "core.data_dir"
	KeySourceKind  = "source.kind"
	KeyRemoteURL   = "source.url"
	KeyRemoteToken = "source.token"
	KeyRemoteRate  = "source.rate"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or malformed
// values fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		PageSize:    s.getInt(KeyPageSize, defaults.PageSize),
		DataDir:     s.configStore.GetString(KeyDataDir),
		Source:      s.getSourceKind(defaults.Source),
		RemoteURL:   s.configStore.GetString(KeyRemoteURL),
		RemoteToken: s.configStore.GetString(KeyRemoteToken),
		RemoteRate:  s.getFloat(KeyRemoteRate, defaults.RemoteRate),
	}
	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := validateSettings(settings); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyPageSize, settings.PageSize},
		{KeyDataDir, settings.DataDir},
		{KeySourceKind, settings.Source.String()},
		{KeyRemoteURL, settings.RemoteURL},
		{KeyRemoteToken, settings.RemoteToken},
		{KeyRemoteRate, settings.RemoteRate},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("failed to save %s: %w", v.key, err)
		}
	}
	return s.configStore.Save()
}

// Set updates a single setting by key.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeyPageSize:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.PageSize = n
	case KeyDataDir:
		settings.DataDir = value
	case KeySourceKind:
		settings.Source = domain.SourceKind(value)
	case KeyRemoteURL:
		settings.RemoteURL = value
	case KeyRemoteToken:
		settings.RemoteToken = value
	case KeyRemoteRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.RemoteRate = f
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys lists the keys accepted by Set.
func (s *SettingsService) Keys() []string {
	keys := []string{KeyPageSize, KeyDataDir, KeySourceKind, KeyRemoteURL, KeyRemoteToken, KeyRemoteRate}
	sort.Strings(keys)
	return keys
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func validateSettings(settings *domain.Settings) error {
	if err := validateStruct(settings); err != nil {
		return err
	}
	if settings.Source == domain.SourceRemote && settings.RemoteURL == "" {
		return fmt.Errorf("%w: source %q requires %s", domain.ErrInvalidInput, domain.SourceRemote, KeyRemoteURL)
	}
	return nil
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if v := s.configStore.GetFloat(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getSourceKind(defaultVal domain.SourceKind) domain.SourceKind {
	kind := domain.SourceKind(s.configStore.GetString(KeySourceKind))
	if kind.IsValid() {
		return kind
	}
	return defaultVal
}
