package translator

import (
	"context"
	"fmt"
	"os"
)

// adapter hands batches to a Backend unchanged. It does not retry.
type adapter struct {
	backend Backend
}

// NewAdapter wraps a backend as a Translator
func NewAdapter(backend Backend) Translator {
	return &adapter{backend: backend}
}

func (a *adapter) BackendName() string {
	return a.backend.Name()
}

func (a *adapter) TranslateBatch(
	ctx context.Context,
	text string,
	sourceLang string,
	targetLang string,
) (string, error) {
	translated, err := a.backend.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", fmt.Errorf("%s translation %s->%s failed: %w", a.backend.Name(), sourceLang, targetLang, err)
	}
	return translated, nil
}

// TranslateFile translates the content of a scratch batch file
func (a *adapter) TranslateFile(
	ctx context.Context,
	path string,
	sourceLang string,
	targetLang string,
) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read batch file %s: %w", path, err)
	}
	return a.TranslateBatch(ctx, string(content), sourceLang, targetLang)
}
