package config

import (
	"time"

	"github.com/MimeLyc/subtitle-batch-translator/internal/llm"
	"github.com/MimeLyc/subtitle-batch-translator/internal/translator"
)

func (c *Config) LLMClientConfig() llm.Config {
	return llm.Config{
		APIKey:      c.LLM.APIKey,
		APIURL:      c.LLM.APIURL,
		Model:       c.LLM.Model,
		MaxTokens:   c.LLM.MaxTokens,
		Temperature: c.LLM.Temperature,
		Timeout:     c.LLM.Timeout,
		SiteURL:     c.LLM.SiteURL,
		AppName:     c.LLM.AppName,
	}
}

// TranslatorOptions maps the backend section onto translator.New options
func (c *Config) TranslatorOptions() translator.Options {
	return translator.Options{
		Backend:   c.Translate.Backend,
		Separator: c.Batch.Separator,
		Google: translator.GoogleConfig{
			Endpoint: c.Google.Endpoint,
			Timeout:  time.Duration(c.Google.Timeout) * time.Second,
		},
		LLM: c.LLMClientConfig(),
	}
}
