package finreport

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential means no API key was found at startup. It is fatal
// before any pipeline work begins.
var ErrMissingCredential = errors.New("missing API credential (set FINREPORT_API_KEY or OPENAI_API_KEY)")

// Config holds the full finreport configuration.
type Config struct {
	Inputs      []string      `yaml:"inputs"`
	Output      string        `yaml:"output"`
	JournalPath string        `yaml:"journal_path"`
	MaxFileMB   int           `yaml:"max_file_mb"`
	Service     ServiceConfig `yaml:"service"`
}

// ServiceConfig configures the narrative completion service.
type ServiceConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:      "financial_report.pdf",
		JournalPath: "finreport.db",
		MaxFileMB:   100,
		Service: ServiceConfig{
			Endpoint: "https://api.openai.com",
			Model:    "gpt-4o",
		},
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	if c.Service.TimeoutSeconds < 0 {
		return fmt.Errorf("service.timeout_seconds must be >= 0")
	}
	return nil
}

// LoadCredential resolves the completion service API key from the
// environment, loading a .env file first if one is present. Returns
// ErrMissingCredential when neither variable is set.
func LoadCredential() (string, error) {
	// Best effort; absence of a .env file is not an error.
	_ = godotenv.Load()

	for _, name := range []string{"FINREPORT_API_KEY", "OPENAI_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}
	return "", ErrMissingCredential
}
