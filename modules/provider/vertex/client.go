package vertex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/voltmesh/solarbot/internal/provider"
)

// maxResponseSize is the maximum response body size (10 MB).
// Protects against OOM from malformed or huge responses.
const maxResponseSize = 10 * 1024 * 1024

// buildRequest creates a generateContent request from a provider
// CompletionRequest, merging request-level overrides with config defaults.
func (p *Provider) buildRequest(req provider.CompletionRequest) generateRequest {
	contents, instruction := toContents(req.Messages)
	gr := generateRequest{
		Contents:          contents,
		SystemInstruction: instruction,
	}

	gc := &generationConfig{}

	switch {
	case req.MaxTokens > 0:
		gc.MaxOutputTokens = req.MaxTokens
	case p.config.MaxTokens > 0:
		gc.MaxOutputTokens = p.config.MaxTokens
	}

	switch {
	case req.Temperature != nil:
		gc.Temperature = req.Temperature
	case p.config.Temperature != nil:
		gc.Temperature = p.config.Temperature
	}

	switch {
	case req.TopP != nil:
		gc.TopP = req.TopP
	case p.config.TopP != nil:
		gc.TopP = p.config.TopP
	}

	if len(req.Stop) > 0 {
		gc.StopSequences = req.Stop
	}

	if gc.MaxOutputTokens > 0 || gc.Temperature != nil || gc.TopP != nil || len(gc.StopSequences) > 0 {
		gr.GenerationConfig = gc
	}

	return gr
}

// newHTTPRequest creates an authenticated generateContent HTTP request.
func (p *Provider) newHTTPRequest(ctx context.Context, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("vertex: marshal request: %w", err)
	}

	url := p.modelURL + ":generateContent"
	if p.config.APIKey != "" {
		url += "?key=" + p.config.APIKey
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("vertex: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if p.tokenSource != nil {
		tok, err := p.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errAuth, err)
		}
		tok.SetAuthHeader(httpReq)
	}

	return httpReq, nil
}

// Complete sends a generateContent request and returns the full response.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	httpReq, err := p.newHTTPRequest(ctx, p.buildRequest(req))
	if err != nil {
		return provider.CompletionResponse{}, err
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return provider.CompletionResponse{}, mapConnectionError(err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("vertex: read response: %w", err)
	}

	if httpErr := mapHTTPError(httpResp.StatusCode, body); httpErr != nil {
		return provider.CompletionResponse{}, httpErr
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("vertex: unmarshal response: %w", err)
	}

	return fromResponse(&resp), nil
}

// HealthCheck validates the provider is functional by sending a minimal
// 1-token completion. This tests the full path: authentication, model
// access, and quota.
func (p *Provider) HealthCheck(ctx context.Context) error {
	req := provider.CompletionRequest{
		Messages: []provider.LLMMessage{
			{Role: provider.MessageRoleUser, Content: "hi"},
		},
		MaxTokens: 1,
	}
	_, err := p.Complete(ctx, req)
	return err
}
