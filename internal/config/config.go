package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Store  StoreConfig
	Notify NotifyConfig
	Seed   SeedConfig
}

// StoreConfig holds slot-store settings.
type StoreConfig struct {
	Path      string
	Namespace string
}

// NotifyConfig holds change-propagation settings.
type NotifyConfig struct {
	// PollInterval is the refresh backstop for views; it bounds how
	// stale a view can go when a change signal is missed.
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// SeedConfig holds demo fixture settings. OverrideNames and
// OverrideOutstanding reproduce the demo accounts that display a fixed
// outstanding balance when their real balance is zero; they are seed
// data, not business rules.
type SeedConfig struct {
	Demo                bool
	OverrideNames       []string `mapstructure:"override_names"`
	OverrideOutstanding float64  `mapstructure:"override_outstanding"`
}

// Load reads configuration from file and env. Env var overrides use prefix SAFESAVE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("store.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "safesave", "safesave.db"))
	v.SetDefault("store.namespace", "safe_save_")
	v.SetDefault("notify.poll_interval", "3s")
	v.SetDefault("seed.demo", true)
	v.SetDefault("seed.override_names", []string{"Alice Mukamana", "Bob Kamanzi", "Carol Shimwa"})
	v.SetDefault("seed.override_outstanding", 500.0)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SAFESAVE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "safesave"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SAFESAVE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
