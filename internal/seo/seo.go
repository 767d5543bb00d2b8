// Package seo rewrites article content for target keywords. The model is
// handed a local evaluation tool it can call while rewriting; the final
// result bundles the optimized content with the last checklist produced.
package seo

import (
	"context"
	"fmt"
	"strings"

	"autopress/internal/core"
	"autopress/internal/draft"
	"autopress/internal/llm"

	"google.golang.org/genai"
)

// ChecklistToolName identifies the evaluation tool offered to the model.
const ChecklistToolName = "seo_checklist"

const optimizePromptTemplate = `You are an SEO editor. Optimize the following HTML blog article body for these target keywords: %s.

Use the %s tool to evaluate the article before you answer, and again on your rewrite if you want to verify it. Then respond with the complete optimized article body.

Rules:
- Keep the same HTML vocabulary as the input.
- Return the entire article body, never a partial edit.
- Work keywords in naturally; do not stuff them.
- No markdown, no code fences, no commentary.

Article body:
---
%s
---`

// ToolCaller is the slice of the backend client the optimizer needs.
type ToolCaller interface {
	GenerateWithTools(ctx context.Context, prompt string, tools []llm.ToolHandler, options llm.TextGenerationOptions) (string, []llm.ToolCallResult, error)
}

// Result bundles the optimized content with the evaluation checklist.
// ChecklistRan is false when the model never called the tool; callers must
// tolerate the zero-valued checklist in that case.
type Result struct {
	Content      string
	Checklist    Checklist
	ChecklistRan bool
	ToolCalls    int
}

// Optimizer runs the keyword optimization stage.
type Optimizer struct {
	llmClient ToolCaller
}

// NewOptimizer creates an SEO optimizer.
func NewOptimizer(llmClient ToolCaller) *Optimizer {
	return &Optimizer{llmClient: llmClient}
}

// Optimize rewrites content for the configured keywords.
func (o *Optimizer) Optimize(ctx context.Context, content, keywords string) (*Result, error) {
	if strings.TrimSpace(keywords) == "" {
		return nil, &core.ConfigError{Field: "seo_keywords", Reason: "seo is enabled but no keywords are configured"}
	}

	prompt := fmt.Sprintf(optimizePromptTemplate, keywords, ChecklistToolName, content)

	tools := []llm.ToolHandler{checklistTool()}

	optimized, calls, err := o.llmClient.GenerateWithTools(ctx, prompt, tools, llm.TextGenerationOptions{Temperature: 0.4})
	if err != nil {
		return nil, &core.GenerationError{Stage: "seo", Err: err}
	}

	optimized = draft.StripCodeFence(optimized)
	if strings.TrimSpace(optimized) == "" {
		return nil, &core.GenerationError{Stage: "seo", Err: fmt.Errorf("model returned an empty rewrite")}
	}

	result := &Result{Content: optimized, ToolCalls: len(calls)}
	for _, call := range calls {
		if call.Name != ChecklistToolName {
			continue
		}
		// Keep the last evaluation the model requested.
		result.Checklist = checklistFromOutput(call.Output)
		result.ChecklistRan = true
	}

	return result, nil
}

func checklistTool() llm.ToolHandler {
	return llm.ToolHandler{
		Name:        ChecklistToolName,
		Description: "Evaluates article content against target keywords. Returns keyword density (percent), a 0-100 readability score, and optimization advice.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"content": {
					Type:        genai.TypeString,
					Description: "The HTML article body to evaluate",
				},
				"keywords": {
					Type:        genai.TypeString,
					Description: "Comma-separated target keywords",
				},
			},
			Required: []string{"content", "keywords"},
		},
		Execute: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			content, _ := args["content"].(string)
			keywords, _ := args["keywords"].(string)

			checklist := Evaluate(content, keywords)

			advice := make([]any, 0, len(checklist.OptimizationAdvice))
			for _, a := range checklist.OptimizationAdvice {
				advice = append(advice, a)
			}
			return map[string]any{
				"keyword_density":     checklist.KeywordDensity,
				"readability_score":   checklist.ReadabilityScore,
				"optimization_advice": advice,
			}, nil
		},
	}
}

func checklistFromOutput(output map[string]any) Checklist {
	var checklist Checklist
	if v, ok := output["keyword_density"].(float64); ok {
		checklist.KeywordDensity = v
	}
	if v, ok := output["readability_score"].(float64); ok {
		checklist.ReadabilityScore = v
	}
	if advice, ok := output["optimization_advice"].([]any); ok {
		for _, a := range advice {
			if s, ok := a.(string); ok {
				checklist.OptimizationAdvice = append(checklist.OptimizationAdvice, s)
			}
		}
	}
	return checklist
}
