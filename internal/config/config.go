package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"TIMEKEEP_ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"TIMEKEEP_STORAGE_PATH" env-default:"timekeep.db"`
	Timezone    string `yaml:"timezone" env:"TIMEKEEP_TZ" env-default:""`

	Log struct {
		Level  string `yaml:"level" env:"TIMEKEEP_LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"TIMEKEEP_LOG_FORMAT" env-default:"console"`
	} `yaml:"log"`

	Timer struct {
		TickInterval     int `yaml:"tick_interval" env:"TIMEKEEP_TICK_INTERVAL" env-default:"1"`
		SnapshotInterval int `yaml:"snapshot_interval" env:"TIMEKEEP_SNAPSHOT_INTERVAL" env-default:"15"`
	} `yaml:"timer"`

	Notifications struct {
		Enabled bool `yaml:"enabled" env:"TIMEKEEP_NOTIFICATIONS" env-default:"true"`
	} `yaml:"notifications"`
}

// LoadConfig reads the YAML file at path with environment overrides.
// A missing file is not an error; defaults and environment apply.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return &cfg, nil
}

// Location resolves the configured time zone, falling back to the
// system local zone. All local-calendar math (midnights, weeks,
// hour-of-day buckets) uses this location.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
