// Package config loads the optional tinkv.hujson file the CLI and server
// binaries read their defaults from. Fields mirror pkg/options.Options;
// CLI flags are layered on top by the caller and always win over whatever
// this package returns.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/tailscale/hujson"

	"github.com/iamNilotpal/tinkv/pkg/options"
)

// DefaultFileName is where Load looks when no explicit path is given.
const DefaultFileName = "tinkv.hujson"

// ServerConfig holds the RESP listener settings tinkv.hujson's "server"
// section carries. It has no equivalent in pkg/options because the
// embeddable Store has no notion of a network address.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// Config is the shape of tinkv.hujson.
type Config struct {
	DataDir         string       `json:"dataDir"`
	MaxKeySize      uint64       `json:"maxKeySize"`
	MaxValueSize    uint64       `json:"maxValueSize"`
	MaxDataFileSize uint64       `json:"maxDataFileSize"`
	Sync            bool         `json:"sync"`
	Server          ServerConfig `json:"server"`
}

var (
	loaded   *Config
	loadOnce sync.Once
	loadErr  error
)

// Load reads and parses path once; subsequent calls return the cached
// result regardless of path, matching the singleton shape config files are
// conventionally loaded under. A missing file at the default path is not
// an error: Load returns the built-in defaults instead, since
// tinkv.hujson is documented as optional.
func Load(path string) (*Config, error) {
	loadOnce.Do(func() {
		explicit := path != ""
		if !explicit {
			path = DefaultFileName
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) && !explicit {
				loaded = defaultConfig()
				return
			}
			loadErr = fmt.Errorf("config: reading %s: %w", path, err)
			return
		}

		standardized, err := hujson.Standardize(data)
		if err != nil {
			loadErr = fmt.Errorf("config: %s is not valid hujson: %w", path, err)
			return
		}

		cfg := defaultConfig()
		if err := json.Unmarshal(standardized, cfg); err != nil {
			loadErr = fmt.Errorf("config: %s: %w", path, err)
			return
		}
		loaded = cfg
	})
	return loaded, loadErr
}

func defaultConfig() *Config {
	d := options.NewDefaultOptions()
	return &Config{
		DataDir:         d.DataDir,
		MaxKeySize:      d.MaxKeySize,
		MaxValueSize:    d.MaxValueSize,
		MaxDataFileSize: d.MaxDataFileSize,
		Sync:            d.Sync,
		Server:          ServerConfig{Addr: "127.0.0.1:7379"},
	}
}

// Options translates c into the pkg/options.OptionFunc slice that
// pkg/tinkv.Open accepts, so config-file values apply before any CLI flag
// overrides the caller layers on top.
func (c *Config) Options() []options.OptionFunc {
	return []options.OptionFunc{
		options.WithDataDir(c.DataDir),
		options.WithMaxKeySize(c.MaxKeySize),
		options.WithMaxValueSize(c.MaxValueSize),
		options.WithMaxDataFileSize(c.MaxDataFileSize),
		options.WithSync(c.Sync),
	}
}
