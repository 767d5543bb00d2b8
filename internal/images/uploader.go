package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Uploader pushes image bytes to the hosting service and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// HostClient talks to the image hosting service's HTTP API.
type HostClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewHostClient creates an image hosting client.
func NewHostClient(baseURL, apiKey string) *HostClient {
	return &HostClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// uploadRequest is the hosting service's upload payload
type uploadRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data"` // base64-encoded image bytes
}

// uploadResponse is the hosting service's reply
type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends image bytes to the hosting service and returns the public URL.
func (c *HostClient) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("image host base URL is not configured")
	}

	request := uploadRequest{
		Filename: filename,
		Data:     base64.StdEncoding.EncodeToString(data),
	}

	reqBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/upload", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("image host error (status %d): %s", resp.StatusCode, string(body))
	}

	var uploadResp uploadResponse
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal upload response: %w", err)
	}

	if uploadResp.URL == "" {
		return "", fmt.Errorf("image host returned no URL")
	}

	return uploadResp.URL, nil
}
