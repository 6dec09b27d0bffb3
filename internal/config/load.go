package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

const envPrefix = "SUBBATCH_"

// DefaultEnvFile is loaded when no env file is given; a missing file is fine.
const DefaultEnvFile = ".env"

// Load builds the configuration from defaults, configPath (optional), the env
// file, the process environment and finally opts, then validates it.
func Load(configPath, envFile string, opts ...Option) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(configPath) != "" {
		if err := decodeFile(configPath, &cfg); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug("Config: source=%s target=%s backend=%s input=%s output=%s",
		cfg.Translate.SourceLang, cfg.Translate.TargetLang, cfg.Translate.Backend,
		cfg.Paths.InputDir, cfg.Paths.OutputDir)

	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
	return nil
}

// loadEnvFile loads KEY=VALUE pairs without overriding variables that are
// already set in the process environment.
func loadEnvFile(path string) error {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Translate.SourceLang = getEnvString("SOURCE_LANG", c.Translate.SourceLang)
	c.Translate.TargetLang = getEnvString("TARGET_LANG", c.Translate.TargetLang)
	c.Translate.Backend = getEnvString("BACKEND", c.Translate.Backend)
	c.Translate.Alignment = getEnvString("ALIGNMENT", c.Translate.Alignment)
	c.Translate.Workers = getEnvInt("WORKERS", c.Translate.Workers)
	c.Translate.FailFast = getEnvBool("FAIL_FAST", c.Translate.FailFast)
	c.Translate.CronExpr = getEnvString("CRON_EXPR", c.Translate.CronExpr)

	c.Paths.InputDir = getEnvString("INPUT_DIR", c.Paths.InputDir)
	c.Paths.OutputDir = getEnvString("OUTPUT_DIR", c.Paths.OutputDir)
	c.Paths.TempDir = getEnvString("TEMP_DIR", c.Paths.TempDir)
	c.Paths.FileExtension = getEnvString("FILE_EXTENSION", c.Paths.FileExtension)
	c.Paths.Encoding = getEnvString("ENCODING", c.Paths.Encoding)

	c.Batch.Separator = getEnvString("SEPARATOR", c.Batch.Separator)
	c.Batch.LengthLimit = getEnvInt("LENGTH_LIMIT", c.Batch.LengthLimit)

	c.Google.Endpoint = getEnvString("GOOGLE_ENDPOINT", c.Google.Endpoint)
	c.Google.Timeout = getEnvInt("GOOGLE_TIMEOUT", c.Google.Timeout)

	c.LLM.APIKey = getEnvString("LLM_API_KEY", c.LLM.APIKey)
	c.LLM.APIURL = getEnvString("LLM_API_URL", c.LLM.APIURL)
	c.LLM.Model = getEnvString("LLM_MODEL", c.LLM.Model)
	c.LLM.MaxTokens = getEnvInt("LLM_MAX_TOKENS", c.LLM.MaxTokens)
	c.LLM.Temperature = getEnvFloat("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.Timeout = getEnvInt("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.SiteURL = getEnvString("LLM_SITE_URL", c.LLM.SiteURL)
	c.LLM.AppName = getEnvString("LLM_APP_NAME", c.LLM.AppName)

	c.State.DBPath = getEnvString("DB_PATH", c.State.DBPath)
	c.State.Cache = getEnvBool("CACHE", c.State.Cache)
	c.State.CacheTTLDays = getEnvInt("CACHE_TTL_DAYS", c.State.CacheTTLDays)

	c.Log.Level = getEnvString("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnvString("LOG_FILE", c.Log.File)
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(envPrefix + key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn("Ignoring %s%s=%q: not an integer", envPrefix, key, value)
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(envPrefix + key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn("Ignoring %s%s=%q: not a number", envPrefix, key, value)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(envPrefix + key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		log.Warn("Ignoring %s%s=%q: not a boolean", envPrefix, key, value)
	}
	return defaultValue
}
