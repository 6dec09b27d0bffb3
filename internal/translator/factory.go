package translator

import (
	"fmt"
	"strings"

	"github.com/MimeLyc/subtitle-batch-translator/internal/llm"
)

// Options selects and configures a backend
type Options struct {
	Backend   string
	Separator string
	Google    GoogleConfig
	LLM       llm.Config
}

// New builds the Translator for the configured backend
func New(opts Options) (Translator, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendGoogle, "":
		return NewAdapter(NewGoogleBackend(opts.Google)), nil
	case BackendLLM:
		client, err := llm.NewClient(&opts.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		return NewAdapter(NewLLMBackend(client, opts.Separator)), nil
	case BackendEcho:
		return NewAdapter(NewEchoBackend()), nil
	default:
		return nil, fmt.Errorf("unknown translation backend %q", opts.Backend)
	}
}
