// Package style optionally rewrites a draft for tone, length and complexity.
package style

import (
	"context"
	"fmt"
	"strings"

	"autopress/internal/core"
	"autopress/internal/draft"
	"autopress/internal/llm"
)

const adjustPromptTemplate = `Rewrite the following HTML blog article body.

%s
Keep the same HTML vocabulary as the input (<p>, <h2>, <h3>, <ul>, <li>, <strong>, <em>).
Return the complete rewritten article body, never a partial edit or a diff.
No markdown, no code fences, no commentary.

Article body:
---
%s
---`

// LLMClient is the slice of the backend client the adjuster needs.
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
}

// Adjuster rewrites article bodies according to configured style hints.
type Adjuster struct {
	llmClient LLMClient
}

// NewAdjuster creates a style adjuster.
func NewAdjuster(llmClient LLMClient) *Adjuster {
	return &Adjuster{llmClient: llmClient}
}

// Adjust returns a full replacement body honoring the configured hints.
// When no hints are configured the input passes through untouched and no
// model call is made.
func (a *Adjuster) Adjust(ctx context.Context, body string, cfg *core.AutopostConfig) (string, error) {
	if !cfg.HasStyleHints() {
		return body, nil
	}

	var hints []string
	if cfg.StyleTone != "" {
		hints = append(hints, fmt.Sprintf("Adopt a %s tone.", cfg.StyleTone))
	}
	if cfg.StyleLength != "" {
		hints = append(hints, fmt.Sprintf("Adjust the overall length to be %s.", cfg.StyleLength))
	}
	if cfg.StyleComplexity != "" {
		hints = append(hints, fmt.Sprintf("Target a %s reading level.", cfg.StyleComplexity))
	}

	prompt := fmt.Sprintf(adjustPromptTemplate, strings.Join(hints, "\n"), body)

	rewritten, err := a.llmClient.GenerateText(ctx, prompt, llm.TextGenerationOptions{Temperature: 0.6})
	if err != nil {
		return "", &core.GenerationError{Stage: "style", Err: err}
	}

	rewritten = draft.StripCodeFence(rewritten)
	if strings.TrimSpace(rewritten) == "" {
		return "", &core.GenerationError{Stage: "style", Err: fmt.Errorf("model returned an empty rewrite")}
	}

	return rewritten, nil
}
