package llm

import (
	"context"
	"fmt"
	"os"

	"autopress/internal/core"

	"github.com/spf13/viper"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model used for article generation.
	DefaultModel = "gemini-2.5-flash"

	// maxToolRounds bounds the function-call loop. The model may invoke a
	// registered tool several times but never indefinitely.
	maxToolRounds = 6
)

// Client represents a client for interacting with the Gemini backend.
// It is created once at startup and injected into every pipeline stage.
type Client struct {
	apiKey    string
	modelName string
	gClient   *genai.Client
	ready     bool
}

// TextGenerationOptions contains options for text generation
type TextGenerationOptions struct {
	MaxTokens      int32         // Maximum number of tokens to generate
	Temperature    float32       // Temperature for randomness (0.0 to 1.0)
	Model          string        // Model to use (optional, defaults to client's model)
	ResponseSchema *genai.Schema // Optional: schema for structured output
}

// ToolHandler is a callable the model may invoke by name during generation.
// Execute runs synchronously inside the stage and must be free of side
// effects outside the stage's own scope.
type ToolHandler struct {
	Name        string
	Description string
	Parameters  *genai.Schema
	Execute     func(ctx context.Context, args map[string]any) (map[string]any, error)
}

// NewClient creates a new LLM client.
// It supports multiple ways to get the API key (in order of preference):
// 1. Environment variable: GEMINI_API_KEY (or alternatives)
// 2. Viper configuration: ai.gemini.api_key
func NewClient(modelName string) (*Client, error) {
	apiKey := resolveAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file")
	}

	if modelName == "" {
		modelName = viper.GetString("ai.gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:    apiKey,
		modelName: modelName,
		gClient:   gClient,
		ready:     true,
	}, nil
}

// NewLazyClient creates a client handle that tolerates a missing API key at
// startup. The handle reports unready and every generation call fails loudly
// until the key appears; the process itself keeps running so the diagnostics
// endpoint can report the misconfiguration.
func NewLazyClient(modelName string) *Client {
	client, err := NewClient(modelName)
	if err != nil {
		return &Client{modelName: modelName, ready: false}
	}
	return client
}

// Ready reports whether the backend handle is usable.
func (c *Client) Ready() bool { return c != nil && c.ready }

// ModelName returns the model this client generates with.
func (c *Client) ModelName() string { return c.modelName }

// Close releases the client. The SDK client does not require explicit close.
func (c *Client) Close() {}

func resolveAPIKey() string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			if apiKey = os.Getenv("GOOGLE_AI_API_KEY"); apiKey == "" {
				apiKey = viper.GetString("ai.gemini.api_key")
			}
		}
	}
	return apiKey
}

// GenerateText generates text using the LLM with specified options
func (c *Client) GenerateText(ctx context.Context, prompt string, options TextGenerationOptions) (string, error) {
	if !c.Ready() {
		return "", fmt.Errorf("cannot generate text: %w", core.ErrBackendUnready)
	}
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	modelName := c.modelName
	if options.Model != "" {
		modelName = options.Model
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	config := buildConfig(options)

	resp, err := c.gClient.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}

// ToolCallResult captures one executed tool invocation for the caller.
type ToolCallResult struct {
	Name   string
	Args   map[string]any
	Output map[string]any
}

// GenerateWithTools runs a generation with registered tools available to the
// model. Requested calls are executed synchronously through a registry keyed
// by name and their results fed back until the model produces final text.
// The model is free to call each tool zero or more times.
func (c *Client) GenerateWithTools(ctx context.Context, prompt string, tools []ToolHandler, options TextGenerationOptions) (string, []ToolCallResult, error) {
	if !c.Ready() {
		return "", nil, fmt.Errorf("cannot generate text: %w", core.ErrBackendUnready)
	}
	if prompt == "" {
		return "", nil, fmt.Errorf("prompt cannot be empty")
	}

	modelName := c.modelName
	if options.Model != "" {
		modelName = options.Model
	}

	registry := make(map[string]ToolHandler, len(tools))
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		registry[tool.Name] = tool
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}

	config := buildConfig(options)
	if config == nil {
		config = &genai.GenerateContentConfig{}
	}
	// Structured output cannot be combined with function declarations.
	config.ResponseSchema = nil
	config.ResponseMIMEType = ""
	config.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}

	history := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	var executed []ToolCallResult

	for round := 0; round < maxToolRounds; round++ {
		resp, err := c.gClient.Models.GenerateContent(ctx, modelName, history, config)
		if err != nil {
			return "", executed, fmt.Errorf("failed to generate text with tools: %w", err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			text := resp.Text()
			if text == "" {
				return "", executed, fmt.Errorf("empty response from model")
			}
			return text, executed, nil
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			history = append(history, resp.Candidates[0].Content)
		}

		responseParts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			handler, ok := registry[call.Name]
			if !ok {
				return "", executed, fmt.Errorf("model requested unknown tool %q", call.Name)
			}

			output, err := handler.Execute(ctx, call.Args)
			if err != nil {
				return "", executed, fmt.Errorf("tool %q failed: %w", call.Name, err)
			}

			executed = append(executed, ToolCallResult{Name: call.Name, Args: call.Args, Output: output})
			responseParts = append(responseParts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     call.Name,
					Response: output,
				},
			})
		}

		history = append(history, &genai.Content{
			Parts: responseParts,
			Role:  "user",
		})
	}

	return "", executed, fmt.Errorf("model did not finish after %d tool rounds", maxToolRounds)
}

func buildConfig(options TextGenerationOptions) *genai.GenerateContentConfig {
	if options.MaxTokens <= 0 && options.Temperature <= 0 && options.ResponseSchema == nil {
		return nil
	}
	config := &genai.GenerateContentConfig{}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = options.MaxTokens
	}
	if options.Temperature > 0 {
		temp := options.Temperature
		config.Temperature = &temp
	}
	if options.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = options.ResponseSchema
	}
	return config
}
