// Package tags resolves the tag set attached to a generated article, either
// from the configured manual list or from a category-driven model call.
package tags

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"autopress/internal/core"
	"autopress/internal/llm"

	"google.golang.org/genai"
)

// LLMClient is the model surface the resolver needs.
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
}

// Resolver produces the final tag list for an article.
type Resolver struct {
	llmClient LLMClient
}

// NewResolver creates a tag resolver.
func NewResolver(llmClient LLMClient) *Resolver {
	return &Resolver{llmClient: llmClient}
}

// tagListSchema enforces structured JSON output for generated tags.
func tagListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tags": {
				Type:        genai.TypeArray,
				Description: "Short lowercase topic tags, one or two words each",
				Items: &genai.Schema{
					Type: genai.TypeString,
				},
			},
		},
		Required: []string{"tags"},
	}
}

type tagListResponse struct {
	Tags []string `json:"tags"`
}

// Resolve returns the tag set for the article. Tagging disabled resolves to
// an empty list regardless of mode. The result never exceeds
// cfg.NumberOfTags and never contains case-insensitive duplicates.
func (r *Resolver) Resolve(ctx context.Context, cfg *core.AutopostConfig, title string) ([]string, error) {
	if !cfg.AddTags || cfg.NumberOfTags <= 0 {
		return nil, nil
	}

	switch cfg.TagMode {
	case core.TagsManual:
		return capTags(cfg.ManualTags, cfg.NumberOfTags), nil
	case core.TagsAICategory:
		return r.resolveAI(ctx, cfg, title)
	default:
		return nil, &core.ConfigError{Field: "tag_mode", Reason: fmt.Sprintf("unknown mode %q", cfg.TagMode)}
	}
}

func (r *Resolver) resolveAI(ctx context.Context, cfg *core.AutopostConfig, title string) ([]string, error) {
	prompt := fmt.Sprintf(`Suggest %d topic tags for a blog article in the %q category titled %q.
Tags must be short (one or two words), lowercase, and relevant to the category. Return JSON only.`,
		cfg.NumberOfTags, cfg.Category, title)

	raw, err := r.llmClient.GenerateText(ctx, prompt, llm.TextGenerationOptions{
		Temperature:    0.7,
		ResponseSchema: tagListSchema(),
	})
	if err != nil {
		return nil, &core.GenerationError{Stage: "tags", Err: err}
	}

	var parsed tagListResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return nil, &core.GenerationError{Stage: "tags", Err: fmt.Errorf("failed to parse tag response: %w", err)}
	}

	return capTags(parsed.Tags, cfg.NumberOfTags), nil
}

// capTags trims whitespace, drops empties and case-insensitive duplicates,
// and caps the list at max while preserving original order.
func capTags(tags []string, max int) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
		if len(out) == max {
			break
		}
	}
	return out
}
