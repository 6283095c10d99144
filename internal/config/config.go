package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type StoreBackend string

const (
	StoreSQLite StoreBackend = "sqlite"
	StoreFile   StoreBackend = "file"
)

type PlannerConfig struct {
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RuntimeConfig struct {
	StoreBackend   StoreBackend  `yaml:"store_backend"`
	StorePath      string        `yaml:"store_path"`
	LogLevel       string        `yaml:"log_level"`
	LogFile        string        `yaml:"log_file"`
	ListenAddr     string        `yaml:"listen"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Planner        PlannerConfig `yaml:"planner"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StoreBackend:   StoreSQLite,
		StorePath:      "daystream.db",
		LogLevel:       "info",
		LogFile:        "daystream.log",
		ListenAddr:     "127.0.0.1:8080",
		AllowedOrigins: []string{"http://localhost:5173"},
		Planner: PlannerConfig{
			Model:    "gemini-2.5-flash",
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Timeout:  30 * time.Second,
		},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// DAYSTREAM_* environment overrides. A missing file is not an error.
func Load(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg = RuntimeConfigFromEnv(cfg)
	return cfg, cfg.Validate()
}

func (c RuntimeConfig) Validate() error {
	switch c.StoreBackend {
	case StoreSQLite, StoreFile:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.StoreBackend)
	}
	if strings.TrimSpace(c.StorePath) == "" {
		return errors.New("config: store path is required")
	}
	if c.Planner.Timeout <= 0 {
		return errors.New("config: planner timeout must be positive")
	}
	return nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("DAYSTREAM_STORE_BACKEND"); ok {
		cfg.StoreBackend = StoreBackend(strings.ToLower(v))
	}
	if v, ok := getEnvString("DAYSTREAM_STORE_PATH"); ok {
		cfg.StorePath = v
	}
	if v, ok := getEnvString("DAYSTREAM_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("DAYSTREAM_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("DAYSTREAM_LISTEN"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := getEnvString("DAYSTREAM_ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}
	for _, name := range []string{"API_KEY", "GEMINI_API_KEY", "DAYSTREAM_PLANNER_API_KEY"} {
		if v, ok := getEnvString(name); ok {
			cfg.Planner.APIKey = v
		}
	}
	if v, ok := getEnvString("DAYSTREAM_PLANNER_MODEL"); ok {
		cfg.Planner.Model = v
	}
	if v, ok := getEnvString("DAYSTREAM_PLANNER_ENDPOINT"); ok {
		cfg.Planner.Endpoint = v
	}
	if v, ok := getEnvInt("DAYSTREAM_PLANNER_TIMEOUT_SECONDS"); ok && v > 0 {
		cfg.Planner.Timeout = time.Duration(v) * time.Second
	}
	return cfg
}

// DefaultPath is ~/.config/daystream/config.yaml, or empty when the home
// directory is unknown.
func DefaultPath() string {
	if v, ok := getEnvString("DAYSTREAM_CONFIG"); ok {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "daystream", "config.yaml")
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
