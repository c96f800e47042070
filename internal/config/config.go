package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/warraq-dev/warraq/internal/engine"
)

// Config holds the full application configuration.
type Config struct {
	Engine    string          `mapstructure:"engine" yaml:"engine"`
	DPI       int             `mapstructure:"dpi" yaml:"dpi"`
	Workers   int             `mapstructure:"workers" yaml:"workers"`
	OutputDir string          `mapstructure:"output_dir" yaml:"output_dir"`
	Paddle    PaddleConfig    `mapstructure:"paddle" yaml:"paddle"`
	Vision    VisionConfig    `mapstructure:"vision" yaml:"vision"`
	Tesseract TesseractConfig `mapstructure:"tesseract" yaml:"tesseract"`
}

// PaddleConfig configures the PaddleOCR HTTP engine.
type PaddleConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Attempts       int    `mapstructure:"attempts" yaml:"attempts"`
}

// VisionConfig configures the vision-model engine.
type VisionConfig struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`
	Model          string `mapstructure:"model" yaml:"model"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// TesseractConfig configures the local Tesseract engine.
type TesseractConfig struct {
	Language string `mapstructure:"language" yaml:"language"`
}

// EngineOptions converts the config into engine construction options.
// API keys with ${ENV_VAR} references are resolved here.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Engine: c.Engine,
		Paddle: engine.PaddleConfig{
			BaseURL:  c.Paddle.BaseURL,
			Timeout:  time.Duration(c.Paddle.TimeoutSeconds) * time.Second,
			Attempts: uint(c.Paddle.Attempts),
		},
		Vision: engine.VisionConfig{
			APIKey:  ResolveEnvVars(c.Vision.APIKey),
			Model:   c.Vision.Model,
			BaseURL: c.Vision.BaseURL,
			Timeout: time.Duration(c.Vision.TimeoutSeconds) * time.Second,
		},
		Tesseract: engine.TesseractConfig{
			Language: c.Tesseract.Language,
			PoolSize: c.Workers,
		},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("engine", defaults.Engine)
	viper.SetDefault("dpi", defaults.DPI)
	viper.SetDefault("workers", defaults.Workers)
	viper.SetDefault("output_dir", defaults.OutputDir)
	viper.SetDefault("paddle", defaults.Paddle)
	viper.SetDefault("vision", defaults.Vision)
	viper.SetDefault("tesseract", defaults.Tesseract)

	// Environment variables with WARRAQ_ prefix
	viper.SetEnvPrefix("WARRAQ")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.warraq")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Warraq configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
