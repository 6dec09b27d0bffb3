package config

import (
	"path/filepath"
	"strings"
)

// Config holds all application configuration.
//
// Values are layered: built-in defaults, then an optional TOML or YAML
// config file, then a .env file, then SUBBATCH_* environment variables,
// and finally CLI flags applied as Options.
//
// Environment Variables:
// Translation:
// - SUBBATCH_SOURCE_LANG: source language tag or "auto" (default: en)
// - SUBBATCH_TARGET_LANG: target language tag (default: pt)
// - SUBBATCH_BACKEND: google, llm or echo (default: google)
// - SUBBATCH_ALIGNMENT: strict or lenient (default: strict)
// - SUBBATCH_WORKERS: files translated in parallel (default: 1)
// - SUBBATCH_FAIL_FAST: abort the run on the first failing file (default: false)
// - SUBBATCH_CRON_EXPR: schedule for the schedule command (default: 0 * * * *)
//
// Files:
// - SUBBATCH_INPUT_DIR, SUBBATCH_OUTPUT_DIR, SUBBATCH_TEMP_DIR
// - SUBBATCH_FILE_EXTENSION (default: .srt)
// - SUBBATCH_ENCODING (default: utf-8)
//
// Batching:
// - SUBBATCH_SEPARATOR (default: ------)
// - SUBBATCH_LENGTH_LIMIT (default: 4500)
//
// Backends:
// - SUBBATCH_GOOGLE_ENDPOINT, SUBBATCH_GOOGLE_TIMEOUT
// - SUBBATCH_LLM_API_KEY, SUBBATCH_LLM_API_URL, SUBBATCH_LLM_MODEL,
//   SUBBATCH_LLM_MAX_TOKENS, SUBBATCH_LLM_TEMPERATURE, SUBBATCH_LLM_TIMEOUT
//
// State and logging:
// - SUBBATCH_DB_PATH, SUBBATCH_CACHE
// - SUBBATCH_LOG_LEVEL, SUBBATCH_LOG_FILE
type Config struct {
	Translate TranslateConfig `toml:"translate" yaml:"translate"`
	Paths     PathsConfig     `toml:"paths" yaml:"paths"`
	Batch     BatchConfig     `toml:"batch" yaml:"batch"`
	Google    GoogleConfig    `toml:"google" yaml:"google"`
	LLM       LLMConfig       `toml:"llm" yaml:"llm"`
	State     StateConfig     `toml:"state" yaml:"state"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

type TranslateConfig struct {
	SourceLang string `toml:"source_lang" yaml:"source_lang"`
	TargetLang string `toml:"target_lang" yaml:"target_lang"`
	Backend    string `toml:"backend" yaml:"backend"`
	Alignment  string `toml:"alignment" yaml:"alignment"`
	Workers    int    `toml:"workers" yaml:"workers"`
	FailFast   bool   `toml:"fail_fast" yaml:"fail_fast"`
	CronExpr   string `toml:"cron_expr" yaml:"cron_expr"`
}

type PathsConfig struct {
	InputDir      string `toml:"input_dir" yaml:"input_dir"`
	OutputDir     string `toml:"output_dir" yaml:"output_dir"`
	TempDir       string `toml:"temp_dir" yaml:"temp_dir"`
	FileExtension string `toml:"file_extension" yaml:"file_extension"`
	Encoding      string `toml:"encoding" yaml:"encoding"`
}

type BatchConfig struct {
	Separator   string `toml:"separator" yaml:"separator"`
	LengthLimit int    `toml:"length_limit" yaml:"length_limit"`
}

type GoogleConfig struct {
	Endpoint string `toml:"endpoint" yaml:"endpoint"`
	Timeout  int    `toml:"timeout" yaml:"timeout"` // seconds
}

// LLMConfig configures the OpenAI-compatible chat backend
type LLMConfig struct {
	APIKey      string  `toml:"api_key" yaml:"api_key"`
	APIURL      string  `toml:"api_url" yaml:"api_url"`
	Model       string  `toml:"model" yaml:"model"`
	MaxTokens   int     `toml:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `toml:"temperature" yaml:"temperature"`
	Timeout     int     `toml:"timeout" yaml:"timeout"`
	SiteURL     string  `toml:"site_url" yaml:"site_url"`
	AppName     string  `toml:"app_name" yaml:"app_name"`
}

// StateConfig controls the run history database and the batch cache
type StateConfig struct {
	DBPath       string `toml:"db_path" yaml:"db_path"`
	Cache        bool   `toml:"cache" yaml:"cache"`
	CacheTTLDays int    `toml:"cache_ttl_days" yaml:"cache_ttl_days"` // 0 keeps entries forever
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Translate: TranslateConfig{
			SourceLang: "en",
			TargetLang: "pt",
			Backend:    "google",
			Alignment:  "strict",
			Workers:    1,
			CronExpr:   "0 * * * *",
		},
		Paths: PathsConfig{
			InputDir:      "input",
			OutputDir:     "output",
			TempDir:       "temp",
			FileExtension: ".srt",
			Encoding:      "utf-8",
		},
		Batch: BatchConfig{
			Separator:   "------",
			LengthLimit: 4500,
		},
		Google: GoogleConfig{
			Endpoint: "https://translate.googleapis.com/translate_a/single",
			Timeout:  30,
		},
		LLM: LLMConfig{
			APIURL:      "https://openrouter.ai/api/v1",
			Model:       "openai/gpt-4o-mini",
			MaxTokens:   8000,
			Temperature: 0.2,
			Timeout:     60,
		},
		State: StateConfig{
			DBPath:       filepath.Join(".subbatch", "subbatch.db"),
			Cache:        true,
			CacheTTLDays: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Option is a function type for configuring Config
type Option func(*Config)

func (c *Config) normalize() {
	c.Translate.SourceLang = strings.TrimSpace(c.Translate.SourceLang)
	c.Translate.TargetLang = strings.TrimSpace(c.Translate.TargetLang)
	c.Translate.Backend = strings.ToLower(strings.TrimSpace(c.Translate.Backend))
	c.Translate.Alignment = strings.ToLower(strings.TrimSpace(c.Translate.Alignment))
	c.Paths.Encoding = strings.ToLower(strings.TrimSpace(c.Paths.Encoding))

	ext := strings.ToLower(strings.TrimSpace(c.Paths.FileExtension))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Paths.FileExtension = ext
}
