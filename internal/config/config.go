package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/harrison/batchimport/internal/models"
)

// CodeTypeMapping is one row of the code to document type table
type CodeTypeMapping struct {
	// Code is the filename prefix before the first "-"
	Code string `yaml:"code"`

	// PortalType is the document type created for files carrying Code
	PortalType string `yaml:"portal_type"`
}

// Config represents batchimport configuration options
type Config struct {
	// SourceRoot is the directory tree scanned for files to import
	SourceRoot string `yaml:"source_root"`

	// ProcessedRoot receives imported files, mirroring the source layout
	ProcessedRoot string `yaml:"processed_root"`

	// CodeToTypeMapping maps filename codes to document types
	CodeToTypeMapping []CodeTypeMapping `yaml:"code_to_type_mapping"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// DBPath is the path to the document repository database
	DBPath string `yaml:"db_path"`

	// ReportDir receives run reports when set
	ReportDir string `yaml:"report_dir"`

	// DryRun enables plan-only mode without creating documents or moving files
	DryRun bool `yaml:"dry_run"`
}

// Environment variables overriding file configuration
const (
	EnvSourceRoot    = "BATCHIMPORT_SOURCE_ROOT"
	EnvProcessedRoot = "BATCHIMPORT_PROCESSED_ROOT"
	EnvLogLevel      = "BATCHIMPORT_LOG_LEVEL"
	EnvDBPath        = "BATCHIMPORT_DB_PATH"
)

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		LogDir:   ".batchimport/logs",
		DBPath:   ".batchimport/documents.db",
		DryRun:   false,
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.SourceRoot != "" {
		cfg.SourceRoot = fileCfg.SourceRoot
	}
	if fileCfg.ProcessedRoot != "" {
		cfg.ProcessedRoot = fileCfg.ProcessedRoot
	}
	if len(fileCfg.CodeToTypeMapping) > 0 {
		cfg.CodeToTypeMapping = fileCfg.CodeToTypeMapping
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.DBPath != "" {
		cfg.DBPath = fileCfg.DBPath
	}
	if fileCfg.ReportDir != "" {
		cfg.ReportDir = fileCfg.ReportDir
	}
	// DryRun is explicitly set if present in YAML
	if fileCfg.DryRun {
		cfg.DryRun = fileCfg.DryRun
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .batchimport/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".batchimport", "config.yaml")
	return LoadConfig(configPath)
}

// ApplyEnv overrides configuration values from the environment.
// A .env file in dir is loaded first; variables already present in the
// process environment are never overwritten by it.
func (c *Config) ApplyEnv(dir string) error {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(EnvSourceRoot); v != "" {
		c.SourceRoot = v
	}
	if v := os.Getenv(EnvProcessedRoot); v != "" {
		c.ProcessedRoot = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	return nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(sourceRoot, processedRoot, logDir, reportDir *string, dryRun *bool) {
	if sourceRoot != nil {
		c.SourceRoot = *sourceRoot
	}
	if processedRoot != nil {
		c.ProcessedRoot = *processedRoot
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if reportDir != nil {
		c.ReportDir = *reportDir
	}
	if dryRun != nil {
		c.DryRun = *dryRun
	}
}

// Validate validates the configuration values
// Source and processed roots are checked by the importer, which owns
// the rule that a bad source root aborts before any mutation.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}

	seen := make(map[string]bool, len(c.CodeToTypeMapping))
	for i, m := range c.CodeToTypeMapping {
		code := strings.TrimSpace(m.Code)
		if code == "" {
			return fmt.Errorf("code_to_type_mapping[%d]: code cannot be empty", i)
		}
		if strings.Contains(code, "-") {
			return fmt.Errorf("code_to_type_mapping[%d]: code %q cannot contain \"-\"", i, code)
		}
		if strings.TrimSpace(m.PortalType) == "" {
			return fmt.Errorf("code_to_type_mapping[%d]: portal_type cannot be empty for code %q", i, code)
		}
		if seen[code] {
			return fmt.Errorf("code_to_type_mapping: duplicate code %q", code)
		}
		seen[code] = true
	}

	return nil
}

// Settings projects the configuration into the immutable settings of one run
func (c *Config) Settings() models.ImportSettings {
	mapping := make(map[string]string, len(c.CodeToTypeMapping))
	for _, m := range c.CodeToTypeMapping {
		mapping[strings.TrimSpace(m.Code)] = strings.TrimSpace(m.PortalType)
	}
	return models.ImportSettings{
		SourceRoot:    c.SourceRoot,
		ProcessedRoot: c.ProcessedRoot,
		CodeToType:    mapping,
		DryRun:        c.DryRun,
	}
}
