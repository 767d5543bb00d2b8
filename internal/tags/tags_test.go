package tags

import (
	"context"
	"errors"
	"strings"
	"testing"

	"autopress/internal/core"
	"autopress/internal/llm"
)

type mockLLM struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (m *mockLLM) GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.response, m.err
}

func baseConfig() *core.AutopostConfig {
	cfg := core.DefaultAutopostConfig()
	cfg.Category = "Technology"
	cfg.AddTags = true
	cfg.NumberOfTags = 3
	return cfg
}

func TestResolveDisabled(t *testing.T) {
	cfg := baseConfig()
	cfg.AddTags = false
	cfg.ManualTags = []string{"go", "web"}

	mock := &mockLLM{}
	tags, err := NewResolver(mock).Resolve(context.Background(), cfg, "Some Title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags when disabled, got %v", tags)
	}
	if mock.calls != 0 {
		t.Errorf("expected no model calls when disabled, got %d", mock.calls)
	}
}

func TestResolveManualCapsAndOrders(t *testing.T) {
	cfg := baseConfig()
	cfg.TagMode = core.TagsManual
	cfg.ManualTags = []string{"go", "web", "backend", "cloud", "devops"}

	tags, err := NewResolver(&mockLLM{}).Resolve(context.Background(), cfg, "Some Title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"go", "web", "backend"}
	if len(tags) != len(want) {
		t.Fatalf("expected %d tags, got %v", len(want), tags)
	}
	for i, tag := range want {
		if tags[i] != tag {
			t.Errorf("expected tag %d to be %q, got %q", i, tag, tags[i])
		}
	}
}

func TestResolveManualDeduplicatesCaseInsensitive(t *testing.T) {
	cfg := baseConfig()
	cfg.TagMode = core.TagsManual
	cfg.NumberOfTags = 5
	cfg.ManualTags = []string{"Go", "go", "GO", "web"}

	tags, err := NewResolver(&mockLLM{}).Resolve(context.Background(), cfg, "Some Title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("expected 2 distinct tags, got %v", tags)
	}
}

func TestResolveAICategory(t *testing.T) {
	cfg := baseConfig()
	cfg.TagMode = core.TagsAICategory

	mock := &mockLLM{response: `{"tags": ["golang", "apis", "cloud", "testing"]}`}
	tags, err := NewResolver(mock).Resolve(context.Background(), cfg, "Building Resilient APIs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 3 {
		t.Errorf("expected cap at 3 tags, got %v", tags)
	}
	if !strings.Contains(mock.prompt, "Technology") {
		t.Error("expected category in prompt")
	}
	if !strings.Contains(mock.prompt, "Building Resilient APIs") {
		t.Error("expected title in prompt")
	}
}

func TestResolveAICategoryDeduplicates(t *testing.T) {
	cfg := baseConfig()
	cfg.TagMode = core.TagsAICategory

	mock := &mockLLM{response: `{"tags": ["Cloud", "cloud", "golang"]}`}
	tags, err := NewResolver(mock).Resolve(context.Background(), cfg, "Some Title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("expected duplicates removed, got %v", tags)
	}
}

func TestResolveAICategoryModelFailure(t *testing.T) {
	cfg := baseConfig()
	cfg.TagMode = core.TagsAICategory

	mock := &mockLLM{err: errors.New("model unavailable")}
	_, err := NewResolver(mock).Resolve(context.Background(), cfg, "Some Title")

	var genErr *core.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Stage != "tags" {
		t.Errorf("expected tags stage, got %q", genErr.Stage)
	}
}

func TestResolveAICategoryMalformedResponse(t *testing.T) {
	cfg := baseConfig()
	cfg.TagMode = core.TagsAICategory

	mock := &mockLLM{response: "not json"}
	_, err := NewResolver(mock).Resolve(context.Background(), cfg, "Some Title")

	var genErr *core.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError for malformed response, got %v", err)
	}
}
