package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections improve readability and map naturally to flags.
type FileConfig struct {
	Listen string `yaml:"listen" json:"listen"`

	Fetch struct {
		UserAgent string `yaml:"userAgent" json:"userAgent"`
		// Timeout is a duration string like "30s"; yaml.v3 has no native
		// time.Duration decoding.
		Timeout      string `yaml:"timeout" json:"timeout"`
		MaxBodyBytes int64  `yaml:"maxBodyBytes" json:"maxBodyBytes"`
	} `yaml:"fetch" json:"fetch"`

	Cache struct {
		Capacity int `yaml:"capacity" json:"capacity"`
	} `yaml:"cache" json:"cache"`

	Output struct {
		Markdown string `yaml:"markdown" json:"markdown"`
		PDF      string `yaml:"pdf" json:"pdf"`
	} `yaml:"output" json:"output"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// Defaults shared between flag registration and file-config overlay, so the
// overlay can tell "flag left at default" from "flag set explicitly".
const (
	ListenDefault        = ":8080"
	UserAgentDefault     = "pagepeek/1.0 (+https://github.com/hyperifyio/pagepeek)"
	FetchTimeoutDefault  = 15 * time.Second
	MaxBodyBytesDefault  = 5 << 20
	CacheCapacityDefault = 50
)

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are currently unset or still at their flag defaults. Flags should
// already have been parsed; this lets file config supply defaults while
// preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if (cfg.ListenAddr == "" || cfg.ListenAddr == ListenDefault) && fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if (cfg.UserAgent == "" || cfg.UserAgent == UserAgentDefault) && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.FetchTimeout == 0 || cfg.FetchTimeout == FetchTimeoutDefault {
		if d, err := time.ParseDuration(fc.Fetch.Timeout); err == nil && d > 0 {
			cfg.FetchTimeout = d
		}
	}
	if (cfg.MaxBodyBytes == 0 || cfg.MaxBodyBytes == MaxBodyBytesDefault) && fc.Fetch.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = fc.Fetch.MaxBodyBytes
	}
	if (cfg.CacheCapacity == 0 || cfg.CacheCapacity == CacheCapacityDefault) && fc.Cache.Capacity > 0 {
		cfg.CacheCapacity = fc.Cache.Capacity
	}
	if cfg.OutputPath == "" && fc.Output.Markdown != "" {
		cfg.OutputPath = fc.Output.Markdown
	}
	if cfg.OutputPDFPath == "" && fc.Output.PDF != "" {
		cfg.OutputPDFPath = fc.Output.PDF
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.URL) == "" && strings.TrimSpace(cfg.ListenAddr) == "" {
		return errors.New("config: listen address is required in server mode")
	}
	if cfg.FetchTimeout < 0 || cfg.MaxBodyBytes < 0 || cfg.CacheCapacity < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
