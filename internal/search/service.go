// Package search implements the knowledge-base search proxy: direct
// help-center lookups and a federated mode that falls back to the
// help-center when the unified API fails.
package search

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-bridge/internal/config"
	"github.com/spec-kit/helpdesk-bridge/internal/helpdesk"
	"github.com/spec-kit/helpdesk-bridge/internal/observability"
	"github.com/spec-kit/helpdesk-bridge/internal/textutil"
	apperrors "github.com/spec-kit/helpdesk-bridge/pkg/util"
)

// Source labels for the response envelope.
const (
	SourceFederated  = "federated"
	SourceHelpCenter = "help_center"
)

// Result is the normalized article shape shared by every source.
type Result struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Score     float64    `json:"score"`
	Snippet   string     `json:"snippet"`
	Section   string     `json:"section,omitempty"`
	Locale    string     `json:"locale,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Response is the envelope every search route returns. Fallback marks that
// federated mode failed over to the help-center; FederatedError then carries
// the upstream diagnostic.
type Response struct {
	Success        bool     `json:"success"`
	Source         string   `json:"source"`
	Fallback       bool     `json:"fallback"`
	FederatedError string   `json:"federatedError,omitempty"`
	Results        []Result `json:"results"`
	Total          int      `json:"total"`
}

// Service validates queries, picks a mode, and normalizes results.
type Service struct {
	federated *FederatedClient
	helpdesk  *helpdesk.Client
	cfg       config.SearchConfig
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewService wires the proxy. federated may be nil.
func NewService(federated *FederatedClient, hd *helpdesk.Client, cfg config.SearchConfig, metrics *observability.Metrics, logger *zap.Logger) *Service {
	return &Service{federated: federated, helpdesk: hd, cfg: cfg, metrics: metrics, logger: logger}
}

// FederatedEnabled reports whether the unified API is configured.
func (s *Service) FederatedEnabled() bool {
	return s.federated != nil
}

// HelpCenter performs a direct help-center article search.
func (s *Service) HelpCenter(ctx context.Context, query, locale string, perPage int) (*Response, error) {
	if err := textutil.ValidateQuery(query); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if locale == "" {
		locale = s.cfg.DefaultLocale
	}
	if perPage <= 0 {
		perPage = s.cfg.DefaultPerPage
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()

	articles, total, err := s.helpdesk.SearchArticles(ctx, query, locale, perPage)
	if err != nil {
		s.metrics.RecordSearch(SourceHelpCenter, "error")
		return nil, apperrors.NewUpstreamError("help center search failed", map[string]any{"cause": err.Error()})
	}
	s.metrics.RecordSearch(SourceHelpCenter, "ok")

	return &Response{
		Success: true,
		Source:  SourceHelpCenter,
		Results: normalizeArticles(articles),
		Total:   total,
	}, nil
}

// Federated queries the unified API first and falls back to the help-center
// on any failure. The fallback response stays successful and records the
// federated error for diagnostics.
func (s *Service) Federated(ctx context.Context, query string, limit int, filters map[string]string) (*Response, error) {
	if err := textutil.ValidateQuery(query); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if limit <= 0 {
		limit = s.cfg.DefaultPerPage
	}

	var federatedErr string
	if s.federated == nil {
		federatedErr = "federated search not configured"
	} else {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
		envelope, err := s.federated.Search(callCtx, query, limit, filters)
		cancel()
		if err == nil {
			s.metrics.RecordSearch(SourceFederated, "ok")
			return &Response{
				Success: true,
				Source:  SourceFederated,
				Results: normalizeFederated(envelope.Results),
				Total:   envelope.Total,
			}, nil
		}
		federatedErr = err.Error()
		s.metrics.RecordSearch(SourceFederated, "error")
		s.logger.Warn("federated search failed, falling back to help center",
			zap.String("query", query), zap.Error(err))
	}

	fallback, err := s.HelpCenter(ctx, query, "", limit)
	if err != nil {
		return nil, err
	}
	fallback.Fallback = true
	fallback.FederatedError = federatedErr
	return fallback, nil
}

func normalizeArticles(articles []helpdesk.Article) []Result {
	results := make([]Result, 0, len(articles))
	for _, article := range articles {
		body := article.Body
		if body == "" {
			body = article.Snippet
		}
		results = append(results, Result{
			ID:        strconv.FormatInt(article.ID, 10),
			Title:     article.Title,
			URL:       article.HTMLURL,
			Score:     article.Score,
			Snippet:   textutil.Snippet(body, textutil.DefaultSnippetMax),
			Section:   strconv.FormatInt(article.SectionID, 10),
			Locale:    article.Locale,
			CreatedAt: article.CreatedAt,
			UpdatedAt: article.UpdatedAt,
		})
	}
	return results
}

func normalizeFederated(hits []federatedResult) []Result {
	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, Result{
			ID:        hit.ID,
			Title:     hit.Title,
			URL:       hit.URL,
			Score:     hit.Score,
			Snippet:   textutil.Snippet(hit.Content, textutil.DefaultSnippetMax),
			Section:   hit.Source,
			Locale:    hit.Locale,
			CreatedAt: hit.CreatedAt,
			UpdatedAt: hit.UpdatedAt,
		})
	}
	return results
}
