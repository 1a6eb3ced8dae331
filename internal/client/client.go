// Package client calls the remote analysis service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sprite-ai/insight/internal/logger"
	"github.com/sprite-ai/insight/internal/model"
)

// Client posts analysis requests to a fixed service endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for endpoint. No timeout is applied; a hung request
// stays pending until ctx is cancelled.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Analyze sends req and decodes the service's answer. Failures are returned
// as *Error.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	log := logger.Get()

	if req.Repos == nil {
		req.Repos = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return model.AnalysisResult{}, &Error{Kind: KindNetwork, Err: fmt.Errorf("encoding request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.AnalysisResult{}, &Error{Kind: KindNetwork, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	log.Debug("dispatching analysis request", "endpoint", c.endpoint, "repos", len(req.Repos))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn("analysis request failed", "error", err)
		return model.AnalysisResult{}, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The service's error body is not shown to the user.
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Warn("analysis service returned failure status", "status", resp.StatusCode)
		return model.AnalysisResult{}, &Error{Kind: KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.AnalysisResult{}, &Error{Kind: KindNetwork, Err: fmt.Errorf("reading response: %w", err)}
	}

	result, err := model.DecodeResult(data)
	if err != nil {
		log.Warn("analysis response rejected", "error", err)
		return model.AnalysisResult{}, &Error{Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}

	log.Info("analysis received", "trends", len(result.Aggregate), "verified", result.Verified)
	return result, nil
}
