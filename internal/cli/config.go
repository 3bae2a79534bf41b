package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user defaults for the render command, read from
// ~/.config/orthogram/config.toml (or XDG_CONFIG_HOME). Flags given
// on the command line always win over config values.
//
// Example:
//
//	format = "png"
//	refinement = 4
//	scale = 2.0
//	no_cache = false
type Config struct {
	Format     string  `toml:"format"`
	Refinement int     `toml:"refinement"`
	Scale      float64 `toml:"scale"`
	NoCache    bool    `toml:"no_cache"`
}

// configPath returns the path of the user config file.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// loadConfig reads the config file at path. A missing file is not an
// error; it yields the zero config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		printWarning("Unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// loadUserConfig loads the config from the default location. Any
// failure to resolve the path degrades to the zero config.
func loadUserConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, nil
	}
	return loadConfig(path)
}
