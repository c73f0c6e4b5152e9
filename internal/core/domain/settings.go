package domain

// SourceKind selects where elements are loaded from.
type SourceKind string

// Available element sources.
const (
	// SourceLocal loads elements from the local SQLite store.
	SourceLocal SourceKind = "local"

	// SourceRemote loads elements from a remote element-listing service.
	SourceRemote SourceKind = "remote"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	return k == SourceLocal || k == SourceRemote
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Default setting values.
const (
	DefaultPageSize   = 50
	DefaultRemoteRate = 10.0
)

// Settings holds user configuration.
type Settings struct {
	// PageSize is the number of elements fetched per page.
	PageSize int `validate:"gt=0,lte=10000"`

	// DataDir overrides the data directory. Empty means the default.
	DataDir string

	// Source selects the element source.
	Source SourceKind `validate:"oneof=local remote"`

	// RemoteURL is the base URL of the remote element-listing service.
	RemoteURL string `validate:"omitempty,url"`

	// RemoteToken is the bearer token for the remote service.
	RemoteToken string

	// RemoteRate caps remote requests per second.
	RemoteRate float64 `validate:"gt=0"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		PageSize:   DefaultPageSize,
		Source:     SourceLocal,
		RemoteRate: DefaultRemoteRate,
	}
}
