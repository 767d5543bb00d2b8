package title

import (
	"context"
	"errors"
	"strings"
	"testing"

	"autopress/internal/core"
	"autopress/internal/llm"
)

// MockLLMClient implements LLMClient for testing
type MockLLMClient struct {
	response   string
	callCount  int
	lastPrompt string
	shouldFail bool
}

func (m *MockLLMClient) GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error) {
	m.callCount++
	m.lastPrompt = prompt
	if m.shouldFail {
		return "", errors.New("mock LLM error")
	}
	if m.response != "" {
		return m.response, nil
	}
	return "Generated Test Title", nil
}

func TestResolveManualVerbatim(t *testing.T) {
	mockClient := &MockLLMClient{}
	resolver := NewResolver(mockClient)

	cfg := core.DefaultAutopostConfig()
	cfg.TitleMode = core.TitleManual
	cfg.ManualTitle = "  Exact Title, Spaces Kept  "

	result, err := resolver.Resolve(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Title != cfg.ManualTitle {
		t.Errorf("Expected manual title verbatim %q, got %q", cfg.ManualTitle, result.Title)
	}

	if mockClient.callCount != 0 {
		t.Errorf("Manual mode must not call the model, got %d calls", mockClient.callCount)
	}
}

func TestResolveManualBlank(t *testing.T) {
	resolver := NewResolver(&MockLLMClient{})

	cfg := core.DefaultAutopostConfig()
	cfg.TitleMode = core.TitleManual
	cfg.ManualTitle = "   "

	_, err := resolver.Resolve(context.Background(), cfg)
	if err == nil {
		t.Fatal("Expected error for blank manual title")
	}

	var cfgErr *core.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigError, got %T: %v", err, err)
	}
}

func TestResolveFromCategory(t *testing.T) {
	mockClient := &MockLLMClient{response: "\"The Future of Gardening\"\nSecond candidate"}
	resolver := NewResolver(mockClient)

	cfg := core.DefaultAutopostConfig()
	cfg.TitleMode = core.TitleAICategory
	cfg.Category = "Gardening"

	result, err := resolver.Resolve(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Title != "The Future of Gardening" {
		t.Errorf("Expected first candidate without quotes, got %q", result.Title)
	}

	if !strings.Contains(mockClient.lastPrompt, "Gardening") {
		t.Error("Expected category in the prompt")
	}
}

func TestResolveRandomKeywordSeedFromList(t *testing.T) {
	keywords := []string{"alpha", "beta", "gamma"}

	// Every picker index must seed the prompt with the corresponding keyword.
	for i := range keywords {
		mockClient := &MockLLMClient{}
		resolver := NewResolverWithPicker(mockClient, func(n int) int { return i })

		cfg := core.DefaultAutopostConfig()
		cfg.TitleMode = core.TitleRandomKeyword
		cfg.Keywords = keywords

		result, err := resolver.Resolve(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if result.Keyword != keywords[i] {
			t.Errorf("Expected seed keyword %q, got %q", keywords[i], result.Keyword)
		}

		if !strings.Contains(mockClient.lastPrompt, keywords[i]) {
			t.Errorf("Expected keyword %q in the prompt", keywords[i])
		}
	}
}

func TestResolveRandomKeywordSeedMembership(t *testing.T) {
	keywords := []string{"alpha", "beta"}

	mockClient := &MockLLMClient{}
	resolver := NewResolver(mockClient)

	cfg := core.DefaultAutopostConfig()
	cfg.TitleMode = core.TitleRandomKeyword
	cfg.Keywords = keywords

	for run := 0; run < 20; run++ {
		result, err := resolver.Resolve(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		found := false
		for _, k := range keywords {
			if result.Keyword == k {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Seed keyword %q not drawn from configured keywords", result.Keyword)
		}
	}
}

func TestResolveRandomKeywordEmptyList(t *testing.T) {
	resolver := NewResolver(&MockLLMClient{})

	cfg := core.DefaultAutopostConfig()
	cfg.TitleMode = core.TitleRandomKeyword
	cfg.Keywords = nil

	_, err := resolver.Resolve(context.Background(), cfg)
	if err == nil {
		t.Fatal("Expected error for empty keyword list")
	}

	var cfgErr *core.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigError, got %T: %v", err, err)
	}
}

func TestResolveModelFailurePropagates(t *testing.T) {
	mockClient := &MockLLMClient{shouldFail: true}
	resolver := NewResolver(mockClient)

	cfg := core.DefaultAutopostConfig()
	cfg.TitleMode = core.TitleAICategory
	cfg.Category = "Tech"

	_, err := resolver.Resolve(context.Background(), cfg)
	if err == nil {
		t.Fatal("Expected error when model fails")
	}

	var genErr *core.GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("Expected GenerationError, got %T: %v", err, err)
	}

	if mockClient.callCount != 1 {
		t.Errorf("Expected exactly 1 model call (no retries), got %d", mockClient.callCount)
	}
}
