package translator

import (
	"context"
)

// Backend is an external translation service. It receives a blob of text
// and must return text of the same structure in the target language.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text string, sourceLang string, targetLang string) (string, error)
}

// Translator is what the pipeline uses to translate one batch
type Translator interface {
	TranslateBatch(ctx context.Context, text string, sourceLang string, targetLang string) (string, error)
	TranslateFile(ctx context.Context, path string, sourceLang string, targetLang string) (string, error)
	BackendName() string
}

// Backend names accepted by New
const (
	BackendGoogle = "google"
	BackendLLM    = "llm"
	BackendEcho   = "echo"
)
