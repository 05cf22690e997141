package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spec-kit/helpdesk-bridge/internal/config"
)

// FederatedClient talks to the external unified-search API that aggregates
// multiple knowledge sources behind one endpoint.
type FederatedClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewFederatedClient returns nil when federated search is not configured.
func NewFederatedClient(cfg config.SearchConfig) *FederatedClient {
	if !cfg.FederatedEnabled() {
		return nil
	}
	return &FederatedClient{
		baseURL:    cfg.FederatedURL,
		apiKey:     cfg.FederatedKey,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

type federatedRequest struct {
	Query   string            `json:"query"`
	Limit   int               `json:"limit,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
}

type federatedResult struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Score     float64    `json:"score"`
	Content   string     `json:"content"`
	Source    string     `json:"source"`
	Locale    string     `json:"locale"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type federatedEnvelope struct {
	Results []federatedResult `json:"results"`
	Total   int               `json:"total"`
}

// Search posts the query to the unified endpoint and decodes the hits.
func (f *FederatedClient) Search(ctx context.Context, query string, limit int, filters map[string]string) (*federatedEnvelope, error) {
	raw, err := json.Marshal(federatedRequest{Query: query, Limit: limit, Filters: filters})
	if err != nil {
		return nil, fmt.Errorf("encode federated request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/search", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build federated request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("federated search unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("federated search: status %d: %s", resp.StatusCode, string(body))
	}

	var envelope federatedEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode federated response: %w", err)
	}
	return &envelope, nil
}
