package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API struct {
		BaseURL   string  `yaml:"base_url"`
		Timeout   int     `yaml:"timeout"` // seconds
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"api"`

	Upload struct {
		MaxFileMB         int      `yaml:"max_file_mb"`
		AllowedExtensions []string `yaml:"allowed_extensions"`
	} `yaml:"upload"`

	UI struct {
		Color bool   `yaml:"color"`
		Theme string `yaml:"theme"`
	} `yaml:"ui"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/infuse/config.yaml"),
			"/etc/infuse/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.API.Timeout == 0 {
		config.API.Timeout = 30
	}
	if config.API.RateLimit == 0 {
		config.API.RateLimit = 10
	}

	if config.Upload.MaxFileMB == 0 {
		config.Upload.MaxFileMB = 10
	}
	if len(config.Upload.AllowedExtensions) == 0 {
		config.Upload.AllowedExtensions = []string{".pdf"}
	}

	if config.UI.Theme == "" {
		config.UI.Theme = "default"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("INFUSE_API_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
}
