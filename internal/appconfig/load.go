// internal/appconfig/load.go
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Load reads the configuration document at path (or the default path when
// empty), validates it against the embedded schema, and fills unset knobs
// with their defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := ValidateDocument(data); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	config.ApplyDefaults()
	config.ConfigPath = path

	return config, nil
}
