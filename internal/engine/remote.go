package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"genserve/internal/core"
)

const defaultBaseURL = "http://localhost:9090"

// Remote is an HTTP client to the inference runner, the sidecar process that
// owns the model and accelerator. The runner exposes:
//
//	POST /generate  {prompt, max_new_tokens, temperature, top_p, do_sample}
//	                -> {text, tokens_generated, device}
//	GET  /healthz   -> {status, model, device}
//
// No retries are performed: a failed generation is reported, not repeated,
// since retrying an exhausted backend without backoff worsens the condition.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

// Status is the inference runner's health report.
type Status struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Device string `json:"device"`
}

type generatePayload struct {
	Prompt       string  `json:"prompt"`
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	DoSample     bool    `json:"do_sample"`
}

type generateReply struct {
	Text            string `json:"text"`
	TokensGenerated int    `json:"tokens_generated"`
	Device          string `json:"device"`
}

// NewRemote creates a client for the runner at baseURL. A zero timeout means
// no client-side deadline — generation can legitimately take minutes.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Remote{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewRemoteWithHTTPClient creates a client with a custom HTTP client.
// If httpClient is nil, http.DefaultClient is used.
func NewRemoteWithHTTPClient(baseURL string, httpClient *http.Client) *Remote {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Remote{baseURL: baseURL, httpClient: httpClient}
}

// Generate invokes the runner synchronously with the raw request parameters.
func (r *Remote) Generate(ctx context.Context, prompt string, p core.Params) (*Result, error) {
	body, err := json.Marshal(generatePayload{
		Prompt:       prompt,
		MaxNewTokens: p.MaxNewTokens,
		Temperature:  p.Temperature,
		TopP:         p.TopP,
		DoSample:     p.DoSample,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read engine response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine error (status %d): %s", resp.StatusCode, errorMessage(respBody))
	}

	var reply generateReply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return nil, fmt.Errorf("decode engine response: %w", err)
	}

	return &Result{
		Text:       reply.Text,
		TokenCount: reply.TokensGenerated,
		Device:     reply.Device,
	}, nil
}

// Check verifies the runner is up and returns its health report. Used at
// startup to flip the handle to ready.
func (r *Remote) Check(ctx context.Context) (*Status, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/healthz", nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read health response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine unhealthy (status %d): %s", resp.StatusCode, errorMessage(respBody))
	}

	var status Status
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &status, nil
}

// errorMessage extracts a human-readable message from a runner error body.
// Runners report either {"error": {"message": ...}} or {"detail": ...};
// anything else is passed through raw.
func errorMessage(body []byte) string {
	if m := gjson.GetBytes(body, "error.message"); m.Exists() {
		return m.String()
	}
	if m := gjson.GetBytes(body, "detail"); m.Exists() {
		return m.String()
	}
	return string(body)
}
