package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	AI      AIConfig      `yaml:"ai" json:"ai"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	ReadTimeout  int    `yaml:"read_timeout" json:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" json:"write_timeout"` // seconds
	EnableCORS   bool   `yaml:"enable_cors" json:"enable_cors"`
}

// StorageConfig holds file and artifact storage configuration
type StorageConfig struct {
	UserFilesDir string `yaml:"user_files_dir" json:"user_files_dir"` // uploaded workbooks
	ModelsDir    string `yaml:"models_dir" json:"models_dir"`         // trained model artifacts
	CatalogPath  string `yaml:"catalog_path" json:"catalog_path"`     // SQLite upload catalog
}

// AIConfig holds configuration for the local generation service
type AIConfig struct {
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	Model    string `yaml:"model" json:"model"`
	Timeout  int    `yaml:"timeout" json:"timeout"` // seconds
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format   string `yaml:"format" json:"format"` // json, text
	Output   string `yaml:"output" json:"output"` // stdout, file, both
	FilePath string `yaml:"file_path" json:"file_path"`
}

// ConfigManager manages application configuration
type ConfigManager struct {
	config     *Config
	configPath string
	mutex      sync.RWMutex
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config: getDefaultConfig(),
	}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (cm *ConfigManager) LoadFromFile(configPath string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var newConfig Config
	ext := filepath.Ext(configPath)

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &newConfig); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &newConfig); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	merged := cm.mergeWithDefaults(&newConfig)

	if err := cm.validateConfig(merged); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cm.config = merged
	cm.configPath = configPath
	return nil
}

// LoadFromEnvironment overrides configuration from environment variables
func (cm *ConfigManager) LoadFromEnvironment() error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if host := os.Getenv("NUU_HOST"); host != "" {
		cm.config.Server.Host = host
	}

	if port := os.Getenv("NUU_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cm.config.Server.Port = p
		}
	}

	if dir := os.Getenv("NUU_USERFILES_DIR"); dir != "" {
		cm.config.Storage.UserFilesDir = dir
	}

	if dir := os.Getenv("NUU_MODELS_DIR"); dir != "" {
		cm.config.Storage.ModelsDir = dir
	}

	if endpoint := os.Getenv("NUU_AI_ENDPOINT"); endpoint != "" {
		cm.config.AI.Endpoint = endpoint
	}

	if level := os.Getenv("NUU_LOG_LEVEL"); level != "" {
		cm.config.Logging.Level = level
	}

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	// Return a copy to prevent external modifications
	configCopy := *cm.config
	return &configCopy
}

// GetConfigPath returns the current configuration file path
func (cm *ConfigManager) GetConfigPath() string {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return cm.configPath
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         5001,
			ReadTimeout:  30,
			WriteTimeout: 60,
			EnableCORS:   true,
		},
		Storage: StorageConfig{
			UserFilesDir: "./userfiles",
			ModelsDir:    "./models",
			CatalogPath:  "./data/uploads.db",
		},
		AI: AIConfig{
			Endpoint: "http://localhost:11434",
			Model:    "llama3.2:1b",
			Timeout:  120,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "stdout",
			FilePath: "./logs/churn-api.log",
		},
	}
}

// mergeWithDefaults merges user config with defaults
func (cm *ConfigManager) mergeWithDefaults(userConfig *Config) *Config {
	merged := *getDefaultConfig()

	if userConfig.Server.Host != "" {
		merged.Server.Host = userConfig.Server.Host
	}
	if userConfig.Server.Port != 0 {
		merged.Server.Port = userConfig.Server.Port
	}
	if userConfig.Server.ReadTimeout != 0 {
		merged.Server.ReadTimeout = userConfig.Server.ReadTimeout
	}
	if userConfig.Server.WriteTimeout != 0 {
		merged.Server.WriteTimeout = userConfig.Server.WriteTimeout
	}
	merged.Server.EnableCORS = userConfig.Server.EnableCORS

	if userConfig.Storage.UserFilesDir != "" {
		merged.Storage.UserFilesDir = userConfig.Storage.UserFilesDir
	}
	if userConfig.Storage.ModelsDir != "" {
		merged.Storage.ModelsDir = userConfig.Storage.ModelsDir
	}
	if userConfig.Storage.CatalogPath != "" {
		merged.Storage.CatalogPath = userConfig.Storage.CatalogPath
	}

	if userConfig.AI.Endpoint != "" {
		merged.AI.Endpoint = userConfig.AI.Endpoint
	}
	if userConfig.AI.Model != "" {
		merged.AI.Model = userConfig.AI.Model
	}
	if userConfig.AI.Timeout != 0 {
		merged.AI.Timeout = userConfig.AI.Timeout
	}

	if userConfig.Logging.Level != "" {
		merged.Logging.Level = userConfig.Logging.Level
	}
	if userConfig.Logging.Format != "" {
		merged.Logging.Format = userConfig.Logging.Format
	}
	if userConfig.Logging.Output != "" {
		merged.Logging.Output = userConfig.Logging.Output
	}
	if userConfig.Logging.FilePath != "" {
		merged.Logging.FilePath = userConfig.Logging.FilePath
	}

	return &merged
}

// validateConfig validates the configuration
func (cm *ConfigManager) validateConfig(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, config.Logging.Format) {
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	validOutputs := []string{"stdout", "file", "both"}
	if !contains(validOutputs, config.Logging.Output) {
		return fmt.Errorf("invalid log output: %s", config.Logging.Output)
	}

	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// Global configuration manager instance
var globalConfigManager *ConfigManager
var configOnce sync.Once

// GetConfigManager returns the global configuration manager instance
func GetConfigManager() *ConfigManager {
	configOnce.Do(func() {
		globalConfigManager = NewConfigManager()
	})
	return globalConfigManager
}

// LoadGlobalConfig loads configuration from default locations
func LoadGlobalConfig() error {
	cm := GetConfigManager()

	configPaths := []string{
		"./config.yaml",
		"./config.yml",
		"./config.json",
		"/etc/nuu/config.yaml",
		"/etc/nuu/config.yml",
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := cm.LoadFromFile(path); err == nil {
				break
			}
		}
	}

	// Environment variables override file config
	return cm.LoadFromEnvironment()
}
