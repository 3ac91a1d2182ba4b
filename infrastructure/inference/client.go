package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inspection-api/domain/services"
)

// Client communicates with the defect detection model service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// PredictRequest is the request to run detection on a stored image
type PredictRequest struct {
	ImageURL string `json:"image_url"`
}

// PredictResponse is the response from the model service
type PredictResponse struct {
	Success    bool                 `json:"success"`
	Detections []services.Detection `json:"detections"`
	Error      string               `json:"error,omitempty"`

	ProcessingTimeMs int `json:"processing_time_ms"`
}

// HealthResponse is the response from health check
type HealthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict runs the detector on imageURL
func (c *Client) Predict(ctx context.Context, imageURL string) ([]services.Detection, error) {
	jsonBody, err := json.Marshal(PredictRequest{ImageURL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call inference API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result PredictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("prediction failed: %s", result.Error)
	}

	if result.Detections == nil {
		return []services.Detection{}, nil
	}
	return result.Detections, nil
}

// Health checks if the model service is healthy
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call health API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Status != "ok" {
		return fmt.Errorf("model service reports status %q", result.Status)
	}
	return nil
}
