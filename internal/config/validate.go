package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/subtitle"
	"github.com/MimeLyc/subtitle-batch-translator/internal/translator"
)

// AutoLanguage lets the source language follow detection on each file
const AutoLanguage = "auto"

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranslate(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateBackend(); err != nil {
		return err
	}
	if c.State.CacheTTLDays < 0 {
		return errors.New("state.cache_ttl_days must not be negative")
	}
	return nil
}

func (c *Config) validateTranslate() error {
	if !strings.EqualFold(c.Translate.SourceLang, AutoLanguage) {
		if _, err := language.Parse(c.Translate.SourceLang); err != nil {
			return fmt.Errorf("invalid translate.source_lang %q: %w", c.Translate.SourceLang, err)
		}
	}
	if _, err := language.Parse(c.Translate.TargetLang); err != nil {
		return fmt.Errorf("invalid translate.target_lang %q: %w", c.Translate.TargetLang, err)
	}
	if _, err := batch.ParsePolicy(c.Translate.Alignment); err != nil {
		return fmt.Errorf("invalid translate.alignment: %w", err)
	}
	if c.Translate.Workers < 1 {
		return errors.New("translate.workers must be at least 1")
	}
	if strings.TrimSpace(c.Translate.CronExpr) != "" {
		if _, err := cron.ParseStandard(c.Translate.CronExpr); err != nil {
			return fmt.Errorf("invalid translate.cron_expr: %w", err)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		return errors.New("paths.temp_dir must be set")
	}
	if c.Paths.FileExtension == "" || c.Paths.FileExtension == "." {
		return errors.New("paths.file_extension must be set")
	}
	if err := subtitle.ValidateEncoding(c.Paths.Encoding); err != nil {
		return fmt.Errorf("invalid paths.encoding %q: %w", c.Paths.Encoding, err)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if strings.TrimSpace(c.Batch.Separator) == "" {
		return errors.New("batch.separator must not be empty")
	}
	if strings.Contains(c.Batch.Separator, "\n") {
		return errors.New("batch.separator must be a single line")
	}
	if c.Batch.LengthLimit <= 0 {
		return errors.New("batch.length_limit must be positive")
	}
	return nil
}

func (c *Config) validateBackend() error {
	switch c.Translate.Backend {
	case translator.BackendGoogle:
		if c.Google.Timeout < 1 {
			return errors.New("google.timeout must be greater than 0")
		}
	case translator.BackendLLM:
		llmCfg := c.LLMClientConfig()
		if err := llmCfg.Validate(); err != nil {
			return fmt.Errorf("invalid llm config: %w", err)
		}
	case translator.BackendEcho:
	default:
		return fmt.Errorf("unknown translate.backend %q (want %s, %s or %s)",
			c.Translate.Backend, translator.BackendGoogle, translator.BackendLLM, translator.BackendEcho)
	}
	return nil
}
