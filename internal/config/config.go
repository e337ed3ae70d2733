package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default tunables. The tail window and screen quota come from the display
// layout this daemon feeds: six rows fit one screen, and 200 KB of feed tail
// reliably covers the newest events of large hosted calendars.
const (
	DefaultRefreshCron        = "*/15 * * * *"
	DefaultTailBytes          = 200_000
	DefaultMaxItems           = 6
	DefaultHTTPTimeoutSeconds = 15
)

// Config is the top-level daemon configuration.
type Config struct {
	// URL is the ICS subscription endpoint. Empty means "no source
	// configured": refreshes return zero rows without network I/O.
	URL string `yaml:"url" json:"url"`

	// Timezone is the IANA zone used for "today" and for local timestamp
	// values in the feed (e.g. "Europe/Berlin"). Empty means the process
	// local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Locale selects the date/time formatter ("de" or "en").
	Locale string `yaml:"locale" json:"locale"`

	// Use24h selects 24-hour clock formatting where the locale supports
	// both.
	Use24h bool `yaml:"use_24h" json:"use_24h"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// controlling how often the feed is re-read.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// TailBytes is the size of the trailing byte range requested on the
	// first fetch attempt.
	TailBytes int64 `yaml:"tail_bytes" json:"tail_bytes"`

	// MaxItems caps how many rows a refresh asks for.
	MaxItems int `yaml:"max_items" json:"max_items"`

	// InsecureTLS disables certificate verification. Only for feeds served
	// with certificates the device cannot validate.
	InsecureTLS bool `yaml:"insecure_tls" json:"insecure_tls"`

	// HTTPTimeoutSeconds bounds one fetch attempt end to end.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds" json:"http_timeout_seconds"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		URL:                "",
		Timezone:           "",
		Locale:             "de",
		Use24h:             true,
		RefreshCron:        DefaultRefreshCron,
		TailBytes:          DefaultTailBytes,
		MaxItems:           DefaultMaxItems,
		InsecureTLS:        false,
		HTTPTimeoutSeconds: DefaultHTTPTimeoutSeconds,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs (e.g., older versions) still behave correctly.
func (c *Config) Normalize() {
	switch c.Locale {
	case "de", "en":
		// ok
	default:
		c.Locale = "de"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = DefaultRefreshCron
	}
	if c.TailBytes <= 0 {
		c.TailBytes = DefaultTailBytes
	}
	if c.MaxItems <= 0 {
		c.MaxItems = DefaultMaxItems
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600 (the URL may carry a secret
//     token in its path).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".epdtoday-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
