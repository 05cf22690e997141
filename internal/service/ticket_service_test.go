package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-bridge/internal/config"
	"github.com/spec-kit/helpdesk-bridge/internal/helpdesk"
	"github.com/spec-kit/helpdesk-bridge/internal/observability"
	"github.com/spec-kit/helpdesk-bridge/internal/search"
	apperrors "github.com/spec-kit/helpdesk-bridge/pkg/util"
)

// fakeHelpdesk is an in-process stand-in for the upstream ticketing API. It
// counts calls per endpoint so tests can assert how many upstream requests a
// workflow produced.
type fakeHelpdesk struct {
	mu sync.Mutex

	createCalls     int
	updateCalls     int
	searchCalls     int
	lastSearchQuery string
	failCreate      bool
	failUpdate      bool
	articles        []map[string]any
	comments        []map[string]any
	ticketStatus    string

	server *httptest.Server
}

func newFakeHelpdesk(t *testing.T) *fakeHelpdesk {
	t.Helper()
	f := &fakeHelpdesk{ticketStatus: "new"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tickets.json", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.createCalls++
		fail := f.failCreate
		f.mu.Unlock()
		if fail {
			http.Error(w, `{"error":"ServiceUnavailable"}`, http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"ticket": map[string]any{
			"id": 101, "requester_id": 202, "status": "new",
		}})
	})
	mux.HandleFunc("PUT /tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.updateCalls++
		fail := f.failUpdate
		status := f.ticketStatus
		f.mu.Unlock()
		if fail {
			http.Error(w, `{"error":"ServiceUnavailable"}`, http.StatusServiceUnavailable)
			return
		}
		var body struct {
			Ticket helpdesk.TicketUpdate `json:"ticket"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Ticket.Status != "" {
			status = body.Ticket.Status
			f.mu.Lock()
			f.ticketStatus = status
			f.mu.Unlock()
		}
		if body.Ticket.Comment != nil {
			f.mu.Lock()
			public := body.Ticket.Comment.Public == nil || *body.Ticket.Comment.Public
			f.comments = append(f.comments, map[string]any{
				"id": len(f.comments) + 1, "body": body.Ticket.Comment.Body, "public": public,
			})
			f.mu.Unlock()
		}
		writeJSON(w, map[string]any{"ticket": map[string]any{
			"id": 101, "requester_id": 202, "status": status,
		}})
	})
	mux.HandleFunc("GET /tickets/{id}/comments.json", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		comments := append([]map[string]any{}, f.comments...)
		f.mu.Unlock()
		writeJSON(w, map[string]any{"comments": comments})
	})
	mux.HandleFunc("GET /tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := f.ticketStatus
		f.mu.Unlock()
		writeJSON(w, map[string]any{"ticket": map[string]any{
			"id": 101, "requester_id": 202, "status": status,
			"description": "opened via chat widget", "tags": []string{"chat"},
		}})
	})
	mux.HandleFunc("GET /help_center/articles/search.json", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.searchCalls++
		f.lastSearchQuery = r.URL.Query().Get("query")
		articles := append([]map[string]any{}, f.articles...)
		f.mu.Unlock()
		writeJSON(w, map[string]any{"results": articles, "count": len(articles)})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (f *fakeHelpdesk) client(t *testing.T) *helpdesk.Client {
	t.Helper()
	return helpdesk.NewClient(config.HelpdeskConfig{
		BaseURL:      f.server.URL,
		ServiceEmail: "svc@example.com",
		APIToken:     "token",
	}, observability.NewMetrics(), zap.NewNop())
}

func newTicketService(t *testing.T, f *fakeHelpdesk, cfg config.TicketConfig) *TicketService {
	t.Helper()
	client := f.client(t)
	searchCfg := config.SearchConfig{DefaultLocale: "en-us", DefaultPerPage: 5, TimeoutSeconds: 2}
	searchSvc := search.NewService(nil, client, searchCfg, observability.NewMetrics(), zap.NewNop())
	return NewTicketService(client, searchSvc, cfg, "chatbot", zap.NewNop())
}

func TestCreateSupportTicketWithoutSearch(t *testing.T) {
	fake := newFakeHelpdesk(t)
	svc := newTicketService(t, fake, config.TicketConfig{ChannelTag: "chat", SearchEnabled: true})

	result, err := svc.CreateSupportTicket(context.Background(), SupportTicketInput{
		Message: "my printer is on fire",
		Name:    "Ada",
		Email:   "ada@example.com",
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket() error = %v", err)
	}
	if result.TicketID == nil || *result.TicketID != 101 {
		t.Fatalf("TicketID = %v, want 101", result.TicketID)
	}
	if result.RequesterID == nil || *result.RequesterID != 202 {
		t.Fatalf("RequesterID = %v, want 202", result.RequesterID)
	}
	if result.Search != nil || result.SearchPerformed || result.SearchError != nil {
		t.Errorf("search fields should be null: %+v", result)
	}
	if fake.createCalls != 1 {
		t.Errorf("createCalls = %d, want exactly 1", fake.createCalls)
	}
	// confirmation comment + tag merge
	if fake.updateCalls != 2 {
		t.Errorf("updateCalls = %d, want 2", fake.updateCalls)
	}
}

func TestCreateSupportTicketSkipsSearchForInvalidQuery(t *testing.T) {
	fake := newFakeHelpdesk(t)
	svc := newTicketService(t, fake, config.TicketConfig{ChannelTag: "chat", SearchEnabled: true})

	for _, query := range []string{"hi", "help"} {
		result, err := svc.CreateSupportTicket(context.Background(), SupportTicketInput{
			Message:     "something broke",
			SearchQuery: query,
		})
		if err != nil {
			t.Fatalf("CreateSupportTicket(query=%q) error = %v", query, err)
		}
		if result.SearchPerformed {
			t.Errorf("query %q: search performed, want skipped", query)
		}
		if result.TicketID == nil {
			t.Errorf("query %q: ticket not created", query)
		}
	}
	if fake.searchCalls != 0 {
		t.Errorf("searchCalls = %d, want 0", fake.searchCalls)
	}
}

func TestCreateSupportTicketStripsFillerFromSearchQuery(t *testing.T) {
	fake := newFakeHelpdesk(t)
	svc := newTicketService(t, fake, config.TicketConfig{ChannelTag: "chat", SearchEnabled: true})

	result, err := svc.CreateSupportTicket(context.Background(), SupportTicketInput{
		Message:     "Hi, I need help with password reset",
		SearchQuery: "Hi, I need help with password reset",
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket() error = %v", err)
	}
	if !result.SearchPerformed {
		t.Fatal("search should run for a valid extracted query")
	}
	if fake.lastSearchQuery != "password reset" {
		t.Errorf("upstream query = %q, want %q", fake.lastSearchQuery, "password reset")
	}
}

func TestCreateSupportTicketSkipsSearchWhenOnlyFillerRemains(t *testing.T) {
	fake := newFakeHelpdesk(t)
	svc := newTicketService(t, fake, config.TicketConfig{ChannelTag: "chat", SearchEnabled: true})

	result, err := svc.CreateSupportTicket(context.Background(), SupportTicketInput{
		Message:     "polite but empty",
		SearchQuery: "Hello, can you help me?",
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket() error = %v", err)
	}
	if result.SearchPerformed {
		t.Error("search performed, want skipped once filler is stripped")
	}
	if fake.searchCalls != 0 {
		t.Errorf("searchCalls = %d, want 0", fake.searchCalls)
	}
	if result.TicketID == nil {
		t.Error("ticket should still be created")
	}
}

func TestCreateSupportTicketSkipsTicketWhenResultsExist(t *testing.T) {
	fake := newFakeHelpdesk(t)
	fake.articles = []map[string]any{{
		"id": 1, "title": "Password reset", "body": "Use the reset link.",
	}}
	svc := newTicketService(t, fake, config.TicketConfig{ChannelTag: "chat", SearchEnabled: true})

	skip := true
	result, err := svc.CreateSupportTicket(context.Background(), SupportTicketInput{
		Message:             "how do I reset my password",
		SearchQuery:         "password reset",
		SkipTicketIfResults: &skip,
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket() error = %v", err)
	}
	if !result.TicketSkipped || result.SkipReason == "" {
		t.Fatalf("expected skipped ticket with reason, got %+v", result)
	}
	if result.TicketID != nil {
		t.Errorf("TicketID = %v, want nil", result.TicketID)
	}
	if fake.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", fake.createCalls)
	}
}

func TestCreateSupportTicketSearchFailureIsNotFatal(t *testing.T) {
	fake := newFakeHelpdesk(t)
	svc := newTicketService(t, fake, config.TicketConfig{ChannelTag: "chat", SearchEnabled: true})

	// Point the search service at a dead endpoint while ticket creation
	// stays reachable.
	deadCfg := config.SearchConfig{DefaultLocale: "en-us", DefaultPerPage: 5, TimeoutSeconds: 1}
	deadClient := helpdesk.NewClient(config.HelpdeskConfig{
		BaseURL: "http://127.0.0.1:1", ServiceEmail: "svc@example.com", APIToken: "token",
	}, observability.NewMetrics(), zap.NewNop())
	svc.search = search.NewService(nil, deadClient, deadCfg, observability.NewMetrics(), zap.NewNop())

	result, err := svc.CreateSupportTicket(context.Background(), SupportTicketInput{
		Message:     "vpn will not connect",
		SearchQuery: "vpn connection",
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket() error = %v", err)
	}
	if !result.SearchPerformed || result.SearchError == nil {
		t.Fatalf("expected recorded search error, got %+v", result)
	}
	if result.TicketID == nil {
		t.Fatal("ticket should still be created after search failure")
	}
}

func TestCreateSupportTicketUpstreamFailureIsFatal(t *testing.T) {
	fake := newFakeHelpdesk(t)
	fake.failCreate = true
	svc := newTicketService(t, fake, config.TicketConfig{ChannelTag: "chat", SearchEnabled: true})

	result, err := svc.CreateSupportTicket(context.Background(), SupportTicketInput{
		Message: "nothing works",
	})
	if err == nil {
		t.Fatal("CreateSupportTicket() error = nil, want upstream failure")
	}
	if domainErr := apperrors.ToDomainError(err); domainErr.Code != "UPSTREAM_ERROR" {
		t.Errorf("code = %s, want UPSTREAM_ERROR", domainErr.Code)
	}
	if result == nil || result.TicketID != nil {
		t.Errorf("result should carry null ticket fields, got %+v", result)
	}
}

func TestCreateSupportTicketBestEffortStepsSwallowFailures(t *testing.T) {
	fake := newFakeHelpdesk(t)
	fake.failUpdate = true
	svc := newTicketService(t, fake, config.TicketConfig{ChannelTag: "chat", SearchEnabled: true})

	result, err := svc.CreateSupportTicket(context.Background(), SupportTicketInput{
		Message: "checkout page 500s",
	})
	if err != nil {
		t.Fatalf("CreateSupportTicket() error = %v, comment/tag failures must not surface", err)
	}
	if result.TicketID == nil {
		t.Fatal("ticket id missing")
	}
}
