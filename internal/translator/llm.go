package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/MimeLyc/subtitle-batch-translator/internal/llm"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// llmBackend translates a batch with one chat completion
type llmBackend struct {
	client    *llm.Client
	separator string
}

// NewLLMBackend creates a backend on top of an OpenAI-compatible chat API.
// separator is pinned in the prompt so the reply can be split back.
func NewLLMBackend(client *llm.Client, separator string) Backend {
	return &llmBackend{
		client:    client,
		separator: separator,
	}
}

func (b *llmBackend) Name() string {
	return BackendLLM
}

func (b *llmBackend) Translate(ctx context.Context, text string, sourceLang string, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	content, err := b.client.SimpleChat(ctx, text, b.buildPrompt(sourceLang, targetLang))
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	return stripCodeFence(content), nil
}

func (b *llmBackend) buildPrompt(sourceLang, targetLang string) string {
	var prompt strings.Builder

	prompt.WriteString("You are a professional subtitle translator. Translate the subtitles from " +
		languageName(sourceLang) + " to " + languageName(targetLang) + ".\n\n")

	prompt.WriteString("=== INPUT FORMAT ===\n")
	prompt.WriteString("Each subtitle is followed by a line containing only " + b.separator + "\n")
	prompt.WriteString("A subtitle may span several lines.\n")

	prompt.WriteString("\n=== RULES ===\n")
	prompt.WriteString("1. Copy every " + b.separator + " line exactly, one after each subtitle\n")
	prompt.WriteString("2. Do NOT merge, split, reorder, or drop subtitles\n")
	prompt.WriteString("3. Keep line breaks inside a subtitle\n")
	prompt.WriteString("4. Keep subtitle length appropriate for screen reading\n")

	prompt.WriteString("\n=== OUTPUT FORMAT ===\n")
	prompt.WriteString("Return ONLY the translated subtitles in the input format.\n")
	prompt.WriteString("Do not include any explanations, notes, or additional text.\n")

	return prompt.String()
}

// languageName renders a tag as an English name for the prompt
func languageName(lang string) string {
	if lang == "" || lang == "auto" {
		return "the detected language"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return lang
}

// stripCodeFence removes a ``` wrapper some models add around the reply
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.Index(trimmed, "\n"); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	return strings.TrimSuffix(trimmed, "```")
}
