// Package draft turns a resolved title into the raw article body.
package draft

import (
	"context"
	"fmt"
	"strings"

	"autopress/internal/core"
	"autopress/internal/llm"
)

// DraftPromptTemplate instructs the model to produce the full HTML body.
// Transform stages downstream require a complete replacement, never a diff,
// so the instruction is explicit about returning the whole document body.
const DraftPromptTemplate = `Write a complete blog article body for the title "%s".

Requirements:
- Around %d paragraphs and roughly %d words in total.
- Output clean HTML only: <p>, <h2>, <h3>, <ul>, <li>, <strong>, <em>. No <html>, <head> or <body> wrapper.
- No markdown, no code fences, no preamble or closing remarks outside the article itself.
- Always return the entire article body, never a partial edit.`

// LLMClient is the slice of the backend client the generator needs.
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
}

// Generator produces the raw HTML article body.
type Generator struct {
	llmClient LLMClient
}

// NewGenerator creates a draft generator.
func NewGenerator(llmClient LLMClient) *Generator {
	return &Generator{llmClient: llmClient}
}

// Generate writes the article body for the given title using the configured
// length hints. The result is a self-contained HTML fragment.
func (g *Generator) Generate(ctx context.Context, title string, cfg *core.AutopostConfig) (string, error) {
	paragraphs := cfg.Paragraphs
	if paragraphs <= 0 {
		paragraphs = 5
	}
	words := cfg.Words
	if words <= 0 {
		words = 800
	}

	prompt := fmt.Sprintf(DraftPromptTemplate, title, paragraphs, words)

	body, err := g.llmClient.GenerateText(ctx, prompt, llm.TextGenerationOptions{Temperature: 0.8})
	if err != nil {
		return "", &core.GenerationError{Stage: "draft", Err: err}
	}

	body = StripCodeFence(body)
	if strings.TrimSpace(body) == "" {
		return "", &core.GenerationError{Stage: "draft", Err: fmt.Errorf("model returned an empty body")}
	}

	return body, nil
}

// StripCodeFence removes a surrounding markdown code fence that models add
// around HTML output despite instructions.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}

	// Drop the opening fence line (``` or ```html) and a closing fence.
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
