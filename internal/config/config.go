package config

import (
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Config struct {
	Port           string `json:"port"`
	DictDir        string `json:"dictDir"`
	DefaultVersion string `json:"defaultVersion"`
	LazyLoad       bool   `json:"lazyLoad"`

	LogLevel  string `json:"logLevel"`
	LogPretty bool   `json:"logPretty"`
}

func def() Config {
	return Config{
		Port:           "8080",
		DictDir:        "resources/dict",
		DefaultVersion: "FIX.5.0SP2",
		LazyLoad:       false,

		LogLevel:  "info",
		LogPretty: false,
	}
}

func loadJSON(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "1" || v == "true" || v == "yes" {
			return true
		}
		if v == "0" || v == "false" || v == "no" {
			return false
		}
	}
	return fallback
}

// LoadWithPath reads the JSON file at the given path, then applies ENV and
// flag overrides, in that order.
func LoadWithPath(jsonPath string) Config {
	cfg := def()

	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		if c2, err := loadJSON(jsonPath); err == nil {
			cfg = c2
		}
	}

	// ENV overrides
	cfg.Port = getenv("FIXDICT_PORT", cfg.Port)
	cfg.DictDir = getenv("FIXDICT_DICT_DIR", cfg.DictDir)
	cfg.DefaultVersion = getenv("FIXDICT_DEFAULT_VERSION", cfg.DefaultVersion)
	cfg.LazyLoad = getenvBool("FIXDICT_LAZY_LOAD", cfg.LazyLoad)
	cfg.LogLevel = getenv("FIXDICT_LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = getenvBool("FIXDICT_LOG_PRETTY", cfg.LogPretty)

	// Flag overrides
	configPath := flag.String("config", jsonPath, "Path to config JSON")
	port := flag.String("port", cfg.Port, "HTTP port")
	dict := flag.String("dict", cfg.DictDir, "Path to dictionary resources directory")
	defVer := flag.String("default-version", cfg.DefaultVersion, "Version served when none is requested")
	lazy := flag.Bool("lazy-load", cfg.LazyLoad, "Load versions on first request instead of at startup")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (trace/debug/info/warn/error)")
	logPretty := flag.Bool("log-pretty", cfg.LogPretty, "Human-readable console logging")

	flag.Parse()

	if *configPath != jsonPath {
		return LoadWithPath(*configPath)
	}

	cfg.Port = strings.TrimSpace(*port)
	cfg.DictDir = strings.TrimSpace(*dict)
	cfg.DefaultVersion = strings.TrimSpace(*defVer)
	cfg.LazyLoad = *lazy
	cfg.LogLevel = strings.TrimSpace(*logLevel)
	cfg.LogPretty = *logPretty

	return cfg
}

// ZerologLevel maps the configured level name, defaulting to info.
func (c Config) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
