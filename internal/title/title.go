// Package title resolves the article title for a run using the mode selected
// in the autopost configuration.
package title

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"autopress/internal/core"
	"autopress/internal/llm"
)

const (
	categoryTitlePrompt = `You are writing for a blog that covers the "%s" category.
Propose one compelling, specific article title for a new post in this category.
Respond with the title only: no quotes, no numbering, no commentary.`

	keywordTitlePrompt = `Propose one compelling, specific blog article title built around the keyword "%s".
The keyword must appear naturally in the title.
Respond with the title only: no quotes, no numbering, no commentary.`
)

// LLMClient is the slice of the backend client this resolver needs.
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
}

// Result is a resolved title. Keyword is set only in random-keyword mode and
// records which keyword seeded the generation.
type Result struct {
	Title   string
	Mode    core.TitleMode
	Keyword string
}

// Resolver picks the article title according to the configured mode.
type Resolver struct {
	llmClient LLMClient
	pick      func(n int) int // index picker, uniform by default
}

// NewResolver creates a title resolver backed by the given LLM client.
func NewResolver(llmClient LLMClient) *Resolver {
	return &Resolver{
		llmClient: llmClient,
		pick:      rand.Intn,
	}
}

// NewResolverWithPicker creates a resolver with a custom index picker.
// Tests use this to make the keyword choice deterministic.
func NewResolverWithPicker(llmClient LLMClient, pick func(n int) int) *Resolver {
	return &Resolver{llmClient: llmClient, pick: pick}
}

// Resolve returns the title for this run. No retries happen here: a model
// failure propagates as a GenerationError.
func (r *Resolver) Resolve(ctx context.Context, cfg *core.AutopostConfig) (*Result, error) {
	switch cfg.TitleMode {
	case core.TitleManual:
		return r.resolveManual(cfg)
	case core.TitleAICategory:
		return r.resolveFromCategory(ctx, cfg)
	case core.TitleRandomKeyword:
		return r.resolveFromKeyword(ctx, cfg)
	default:
		return nil, &core.ConfigError{Field: "title_mode", Reason: fmt.Sprintf("unknown title mode: %s", cfg.TitleMode)}
	}
}

func (r *Resolver) resolveManual(cfg *core.AutopostConfig) (*Result, error) {
	if strings.TrimSpace(cfg.ManualTitle) == "" {
		return nil, &core.ConfigError{Field: "manual_title", Reason: "manual title is blank"}
	}
	// Manual titles pass through verbatim, whitespace included.
	return &Result{Title: cfg.ManualTitle, Mode: core.TitleManual}, nil
}

func (r *Resolver) resolveFromCategory(ctx context.Context, cfg *core.AutopostConfig) (*Result, error) {
	prompt := fmt.Sprintf(categoryTitlePrompt, cfg.Category)

	raw, err := r.llmClient.GenerateText(ctx, prompt, llm.TextGenerationOptions{Temperature: 0.9})
	if err != nil {
		return nil, &core.GenerationError{Stage: "title", Err: err}
	}

	candidate := firstCandidate(raw)
	if candidate == "" {
		return nil, &core.GenerationError{Stage: "title", Err: fmt.Errorf("model returned no usable title")}
	}

	return &Result{Title: candidate, Mode: core.TitleAICategory}, nil
}

func (r *Resolver) resolveFromKeyword(ctx context.Context, cfg *core.AutopostConfig) (*Result, error) {
	if len(cfg.Keywords) == 0 {
		return nil, &core.ConfigError{Field: "keywords", Reason: "keyword list is empty"}
	}

	keyword := cfg.Keywords[r.pick(len(cfg.Keywords))]
	prompt := fmt.Sprintf(keywordTitlePrompt, keyword)

	raw, err := r.llmClient.GenerateText(ctx, prompt, llm.TextGenerationOptions{Temperature: 0.9})
	if err != nil {
		return nil, &core.GenerationError{Stage: "title", Err: err}
	}

	candidate := firstCandidate(raw)
	if candidate == "" {
		return nil, &core.GenerationError{Stage: "title", Err: fmt.Errorf("model returned no usable title")}
	}

	return &Result{Title: candidate, Mode: core.TitleRandomKeyword, Keyword: keyword}, nil
}

// firstCandidate takes the first non-empty line of a model response and
// strips the decoration models like to add around titles.
func firstCandidate(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, `"'`)
		line = strings.TrimPrefix(line, "# ")
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
