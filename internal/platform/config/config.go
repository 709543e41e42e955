// Package config resolves blazectl settings for one project root.
//
// Layers, lowest priority first: built-in defaults, <root>/.blaze/config.yaml,
// <root>/.env (never overriding variables already set), BLAZE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreDirName   = ".blaze"
	configFileName = "config.yaml"
)

type Config struct {
	Root       string
	StoreDir   string
	ReportPath string
	ChartPath  string
	IndexPath  string
	LockPath   string
	LogLevel   string
	ASCIIChart bool
	Lock       bool
	AutoCommit bool
	Notify     bool
}

type fileConfig struct {
	ReportPath *string `yaml:"report_path"`
	ChartPath  *string `yaml:"chart_path"`
	LogLevel   *string `yaml:"log_level"`
	ASCIIChart *bool   `yaml:"ascii_chart"`
	Lock       *bool   `yaml:"lock"`
	Git        struct {
		AutoCommit *bool `yaml:"auto_commit"`
	} `yaml:"git"`
	Notify struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"notify"`
}

type envConfig struct {
	ReportPath *string `env:"BLAZE_REPORT_PATH"`
	ChartPath  *string `env:"BLAZE_CHART_PATH"`
	LogLevel   *string `env:"BLAZE_LOG_LEVEL"`
	ASCIIChart *bool   `env:"BLAZE_ASCII_CHART"`
	Lock       *bool   `env:"BLAZE_LOCK"`
	AutoCommit *bool   `env:"BLAZE_GIT_AUTO_COMMIT"`
	Notify     *bool   `env:"BLAZE_NOTIFY"`
}

func defaults(root string) Config {
	store := filepath.Join(root, StoreDirName)
	return Config{
		Root:       root,
		StoreDir:   store,
		ReportPath: "README.md",
		ChartPath:  filepath.Join("assets", "activity.svg"),
		IndexPath:  filepath.Join(store, "index.db"),
		LockPath:   filepath.Join(store, "blazectl.lock"),
		LogLevel:   "info",
		AutoCommit: true,
	}
}

// Load builds the configuration for root. Report and chart paths are returned
// resolved against root.
func Load(root string) (Config, error) {
	if strings.TrimSpace(root) == "" {
		return Config{}, fmt.Errorf("root path is required")
	}
	cfg := defaults(root)

	if err := applyFile(&cfg, filepath.Join(cfg.StoreDir, configFileName)); err != nil {
		return Config{}, err
	}

	dotenv := filepath.Join(root, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	raw := envConfig{}
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("environment variables are invalid: %w", err)
	}
	applyEnv(&cfg, raw)

	cfg.ReportPath = resolve(root, cfg.ReportPath)
	cfg.ChartPath = resolve(root, cfg.ChartPath)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	setString(&cfg.ReportPath, fc.ReportPath)
	setString(&cfg.ChartPath, fc.ChartPath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setBool(&cfg.ASCIIChart, fc.ASCIIChart)
	setBool(&cfg.Lock, fc.Lock)
	setBool(&cfg.AutoCommit, fc.Git.AutoCommit)
	setBool(&cfg.Notify, fc.Notify.Enabled)
	return nil
}

func applyEnv(cfg *Config, raw envConfig) {
	setString(&cfg.ReportPath, raw.ReportPath)
	setString(&cfg.ChartPath, raw.ChartPath)
	setString(&cfg.LogLevel, raw.LogLevel)
	setBool(&cfg.ASCIIChart, raw.ASCIIChart)
	setBool(&cfg.Lock, raw.Lock)
	setBool(&cfg.AutoCommit, raw.AutoCommit)
	setBool(&cfg.Notify, raw.Notify)
}

func setString(dst *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be one of debug|info|warn|error, got %q", c.LogLevel)
	}
	if c.ReportPath == c.ChartPath {
		return fmt.Errorf("report_path and chart_path must differ")
	}
	return nil
}
