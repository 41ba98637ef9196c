package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ICSSource describes a single external ICS subscription.
type ICSSource struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id"`
	// Name is a human-friendly label shown in the UI.
	Name string `yaml:"name"`
}

// EmailConfig holds outbound email settings. An empty APIKey disables
// sending; the application falls back to a logging no-op sender.
type EmailConfig struct {
	APIKey  string `yaml:"api_key"`
	From    string `yaml:"from"`
	ReplyTo string `yaml:"reply_to"`
}

// AdminSeedConfig holds the initial admin credentials created on first boot.
type AdminSeedConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// DBPath is the SQLite database file path.
	DBPath string `yaml:"db_path"`

	// StaticDir is the directory served at the site root.
	StaticDir string `yaml:"static_dir"`

	// SyncCron is a cron-style schedule string (e.g. "*/15 * * * *") for
	// refreshing external ICS sources.
	SyncCron string `yaml:"sync_cron"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSSource `yaml:"ics"`

	// HourRangeMin and HourRangeMax bound the visible hours of the week and
	// day time grids.
	HourRangeMin int `yaml:"hour_range_min"`
	HourRangeMax int `yaml:"hour_range_max"`

	Email EmailConfig     `yaml:"email"`
	Admin AdminSeedConfig `yaml:"admin"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		DBPath:       "volunteerhub.db",
		StaticDir:    "static",
		SyncCron:     "*/15 * * * *",
		ICS:          []ICSSource{},
		HourRangeMin: 6,
		HourRangeMax: 22,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.DBPath == "" {
		c.DBPath = "volunteerhub.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.SyncCron == "" {
		c.SyncCron = "*/15 * * * *"
	}
	if c.ICS == nil {
		c.ICS = []ICSSource{}
	}
	if c.HourRangeMax <= c.HourRangeMin {
		c.HourRangeMin = 6
		c.HourRangeMax = 22
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there with 0600
// permissions and returned. Otherwise the file is read, unmarshalled, and
// normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
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
// The parent directory is created if needed, and the write is atomic: the
// YAML goes to a temp file in the same directory which is then renamed over
// the target. Final permissions are 0600 since the file can carry credentials.
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

	tmp, err := os.CreateTemp(dir, ".volunteerhub-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
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
	return os.Rename(tmpName, path)
}
