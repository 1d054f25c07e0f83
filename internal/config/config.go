package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Admin    AdminConfig    `yaml:"admin"`
	Import   ImportConfig   `yaml:"import"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

type AdminConfig struct {
	Key string `yaml:"key"`
}

// ImportConfig names the layout assumptions of the legacy spreadsheets so
// tests can target each one directly instead of chasing magic numbers.
type ImportConfig struct {
	// RegionSheet is the sheet the end-of-year workbook must contain.
	RegionSheet string `yaml:"region_sheet"`
	// EOYDataStartRow is the zero-based row index where EOY data begins.
	EOYDataStartRow int `yaml:"eoy_data_start_row"`
	// EOYActiveScanRows bounds the search for the membership-count column.
	EOYActiveScanRows int `yaml:"eoy_active_scan_rows"`
	// HeaderScanRows bounds the anchor-row search for header rows that sit
	// below decorative banner rows.
	HeaderScanRows int `yaml:"header_scan_rows"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if key := os.Getenv("ADMIN_KEY"); key != "" {
		config.Admin.Key = key
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Database.Path == "" {
		c.Database.Path = "app.db"
	}
	if c.Import.RegionSheet == "" {
		c.Import.RegionSheet = "Southeastern"
	}
	if c.Import.EOYDataStartRow == 0 {
		c.Import.EOYDataStartRow = 23
	}
	if c.Import.EOYActiveScanRows == 0 {
		c.Import.EOYActiveScanRows = 30
	}
	if c.Import.HeaderScanRows == 0 {
		c.Import.HeaderScanRows = 6
	}
}

// Defaults returns a config with the layout constants filled in, for tests
// and tooling that do not read a config file.
func Defaults() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}
