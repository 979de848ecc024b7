package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// Client calls a Chronos inference server over HTTP. The server wraps
// the pretrained model and returns sampled forecast trajectories.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string) *Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = 3
	retry.Logger = nil

	return &Client{
		url:        url,
		httpClient: retry.StandardClient(),
	}
}

type predictRequest struct {
	Inputs           []float64 `json:"inputs"`
	PredictionLength int       `json:"prediction_length"`
	NumSamples       int       `json:"num_samples"`
}

type predictResponse struct {
	Samples [][]float64 `json:"samples"`
}

func (c *Client) Sample(ctx context.Context, history []float64, horizon, numSamples int) ([][]float64, error) {
	body, err := json.Marshal(predictRequest{
		Inputs:           history,
		PredictionLength: horizon,
		NumSamples:       numSamples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("forecast server returned %d: %s", resp.StatusCode, payload)
	}

	var decoded predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode predict response: %w", err)
	}
	return decoded.Samples, nil
}
