// Package config loads client configuration from a .lusiacal file or the
// environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is everything the client needs to reach the backend and shape the
// calendar grid.
type Config struct {
	APIURL       string
	Token        string
	SnapInterval int
	CachePath    string
}

// Load reads configuration with viper: defaults, then a .lusiacal config
// file (home directory or cwd), then LUSIACAL_* environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("api_url", "http://localhost:8000")
	v.SetDefault("snap_interval", 15)
	v.SetDefault("cache_path", "~/.lusiacal.cache")

	v.SetConfigName(".lusiacal") // .yaml is implicit
	v.SetEnvPrefix("LUSIACAL")
	v.AutomaticEnv()

	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cachePath, err := expandPath(v.GetString("cache_path"))
	if err != nil {
		return nil, fmt.Errorf("config: cache path: %w", err)
	}

	cfg := &Config{
		APIURL:       strings.TrimSpace(v.GetString("api_url")),
		Token:        strings.TrimSpace(v.GetString("token")),
		SnapInterval: v.GetInt("snap_interval"),
		CachePath:    cachePath,
	}
	if cfg.SnapInterval <= 0 {
		cfg.SnapInterval = 15
	}
	return cfg, nil
}

func expandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}
