// Package config loads skill settings.
//
// Layers are applied in order: built-in defaults, an optional YAML file,
// caller supplied overrides (command line flags) and finally environment
// variables.
package config

import (
	"errors"
	"fmt"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

const (
	ModeHTTP   = "http"
	ModeLambda = "lambda"

	DefaultTokenURI = "https://oauth2.googleapis.com/token"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Skill   SkillConfig   `yaml:"skill"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Mode         string        `yaml:"mode"` // "http" or "lambda"
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SkillConfig is checked per invocation, not at startup: a skill deployed
// without these still answers with a spoken configuration error.
type SkillConfig struct {
	SecretID       string        `yaml:"secret_id"`
	TargetAudience string        `yaml:"target_audience"`
	AWSRegion      string        `yaml:"aws_region"`
	TokenURI       string        `yaml:"token_uri"`
	RemoteTimeout  time.Duration `yaml:"remote_timeout"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func Defaults() Config {
	mode := ModeHTTP
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		mode = ModeLambda
	}

	return Config{
		Server: ServerConfig{
			Mode:         mode,
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Skill: SkillConfig{
			AWSRegion:     "us-east-1",
			TokenURI:      DefaultTokenURI,
			RemoteTimeout: 8 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load builds the configuration. An empty path falls back to SKILL_CONFIG
// and then ./config.yaml; a missing file is not an error unless the path
// was given explicitly.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := Defaults()

	if file, explicit := discoverFile(path); file != "" {
		if err := loadYAML(file, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", file, err)
			}
		}
	}

	for _, o := range overrides {
		o(&cfg)
	}

	envErr := applyEnv(&cfg)

	if err := errors.Join(envErr, cfg.Validate()); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

func discoverFile(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if env := os.Getenv("SKILL_CONFIG"); env != "" {
		return env, true
	}
	return "config.yaml", false
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) error {
	var errs []error

	if v := os.Getenv("GCP_SECRET_ID"); v != "" {
		cfg.Skill.SecretID = v
	}
	if v := os.Getenv("TARGET_AUDIENCE"); v != "" {
		cfg.Skill.TargetAudience = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Skill.AWSRegion = v
	}
	if v := os.Getenv("TOKEN_URI"); v != "" {
		cfg.Skill.TokenURI = v
	}
	if v := os.Getenv("REMOTE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("REMOTE_TIMEOUT: %w", err))
		} else {
			cfg.Skill.RemoteTimeout = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RUN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SKILL_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	return errors.Join(errs...)
}

// Validate checks the settings the process needs to start.
func (c *Config) Validate() error {
	var errs []error

	switch c.Server.Mode {
	case ModeHTTP, ModeLambda:
	default:
		errs = append(errs, fmt.Errorf("server.mode must be %q or %q, got %q", ModeHTTP, ModeLambda, c.Server.Mode))
	}

	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if c.Server.Mode == ModeHTTP && c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required in http mode"))
	}

	if c.Skill.RemoteTimeout <= 0 {
		errs = append(errs, errors.New("skill.remote_timeout must be positive"))
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		errs = append(errs, errors.New("metrics.path is required when metrics are enabled"))
	}

	return errors.Join(errs...)
}
