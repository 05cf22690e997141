// Package helpdesk implements the REST client for the upstream ticketing
// vendor. Every mutation authenticates with the service credential; the one
// exception is UpdateRequest, which accepts an end-user bearer token.
package helpdesk

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-bridge/internal/config"
	"github.com/spec-kit/helpdesk-bridge/internal/observability"
)

const maxErrorBodyBytes = 2048

// APIError carries the upstream status code and a bounded slice of the
// response body for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("helpdesk api: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the upstream ticketing API.
type Client struct {
	baseURL    string
	basicAuth  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient constructs a client from configuration.
func NewClient(cfg config.HelpdeskConfig, metrics *observability.Metrics, logger *zap.Logger) *Client {
	credential := fmt.Sprintf("%s/token:%s", cfg.ServiceEmail, cfg.APIToken)
	return &Client{
		baseURL:    cfg.ResolveBaseURL(),
		basicAuth:  "Basic " + base64.StdEncoding.EncodeToString([]byte(credential)),
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		metrics:    metrics,
		logger:     logger,
	}
}

// CreateTicket opens a new ticket with the service credential.
func (c *Client) CreateTicket(ctx context.Context, ticket NewTicket) (*Ticket, error) {
	var out ticketEnvelope
	body := struct {
		Ticket NewTicket `json:"ticket"`
	}{Ticket: ticket}
	if err := c.do(ctx, http.MethodPost, "/tickets.json", body, &out, ""); err != nil {
		c.metrics.RecordUpstream("create_ticket", "error")
		return nil, err
	}
	c.metrics.RecordUpstream("create_ticket", "ok")
	if out.Ticket == nil {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Body: "empty ticket payload"}
	}
	return out.Ticket, nil
}

// UpdateTicket mutates a ticket; status, embedded comment, and additional
// tags may be combined into a single call.
func (c *Client) UpdateTicket(ctx context.Context, ticketID int64, update TicketUpdate) (*Ticket, error) {
	var out ticketEnvelope
	body := struct {
		Ticket TicketUpdate `json:"ticket"`
	}{Ticket: update}
	if err := c.do(ctx, http.MethodPut, "/tickets/"+strconv.FormatInt(ticketID, 10)+".json", body, &out, ""); err != nil {
		c.metrics.RecordUpstream("update_ticket", "error")
		return nil, err
	}
	c.metrics.RecordUpstream("update_ticket", "ok")
	if out.Ticket == nil {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Body: "empty ticket payload"}
	}
	return out.Ticket, nil
}

// GetTicket fetches one ticket by id.
func (c *Client) GetTicket(ctx context.Context, ticketID int64) (*Ticket, error) {
	var out ticketEnvelope
	if err := c.do(ctx, http.MethodGet, "/tickets/"+strconv.FormatInt(ticketID, 10)+".json", nil, &out, ""); err != nil {
		c.metrics.RecordUpstream("get_ticket", "error")
		return nil, err
	}
	c.metrics.RecordUpstream("get_ticket", "ok")
	if out.Ticket == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Body: "empty ticket payload"}
	}
	return out.Ticket, nil
}

// ListComments returns the full comment thread of a ticket.
func (c *Client) ListComments(ctx context.Context, ticketID int64) ([]Comment, error) {
	var out commentsEnvelope
	if err := c.do(ctx, http.MethodGet, "/tickets/"+strconv.FormatInt(ticketID, 10)+"/comments.json", nil, &out, ""); err != nil {
		c.metrics.RecordUpstream("list_comments", "error")
		return nil, err
	}
	c.metrics.RecordUpstream("list_comments", "ok")
	return out.Comments, nil
}

// GetUser fetches an identity record.
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(userID, 10)+".json", nil, &out, ""); err != nil {
		c.metrics.RecordUpstream("get_user", "error")
		return nil, err
	}
	c.metrics.RecordUpstream("get_user", "ok")
	if out.User == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Body: "empty user payload"}
	}
	return out.User, nil
}

// UpdateRequest appends a comment through the end-user Requests API. An
// empty bearer falls back to the service credential.
func (c *Client) UpdateRequest(ctx context.Context, ticketID int64, commentBody, bearer string) error {
	var body requestUpdate
	body.Request.Comment = TicketComment{Body: commentBody}
	if err := c.do(ctx, http.MethodPut, "/requests/"+strconv.FormatInt(ticketID, 10)+".json", body, nil, bearer); err != nil {
		c.metrics.RecordUpstream("update_request", "error")
		return err
	}
	c.metrics.RecordUpstream("update_request", "ok")
	return nil
}

// SearchArticles queries the help-center article search endpoint.
func (c *Client) SearchArticles(ctx context.Context, query, locale string, perPage int) ([]Article, int, error) {
	params := url.Values{}
	params.Set("query", query)
	if locale != "" {
		params.Set("locale", locale)
	}
	if perPage > 0 {
		params.Set("per_page", strconv.Itoa(perPage))
	}
	var out articleSearchEnvelope
	if err := c.do(ctx, http.MethodGet, "/help_center/articles/search.json?"+params.Encode(), nil, &out, ""); err != nil {
		c.metrics.RecordUpstream("search_articles", "error")
		return nil, 0, err
	}
	c.metrics.RecordUpstream("search_articles", "ok")
	return out.Results, out.Count, nil
}

// Ping probes the upstream API for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/help_center/articles/search.json?query=ping&per_page=1", nil, nil, "")
	var apiErr *APIError
	if err != nil && !errors.As(err, &apiErr) {
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any, bearer string) error {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", c.basicAuth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("helpdesk request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Warn("helpdesk api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
