// Package config loads the daemon configuration from a JSON or YAML
// file with environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coremetrics "github.com/dashpi/displayd/core/metrics"
	"github.com/dashpi/displayd/infra/mqtt"
)

// Config is loaded once at startup and immutable for the process
// lifetime. The broker fields live at the top level of the file, the
// way the hub deployment has always written its mqtt.json.
type Config struct {
	MQTT    mqtt.Config
	Metrics coremetrics.Config
}

// Load reads, overrides and validates the configuration. A missing file
// or missing required field is an error the caller treats as fatal.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. DISPLAYD_BROKER or
	// DISPLAYD_METRICS__PROMETHEUS_ENABLED.
	if err := k.Load(env.Provider("DISPLAYD_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "displayd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg.MQTT, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := k.UnmarshalWithConf("metrics", &cfg.Metrics, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Metrics.SetDefaults()
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
