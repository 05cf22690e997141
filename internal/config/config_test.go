package config

import (
	"testing"
	"time"
)

func TestLoadRequiresUpstreamTarget(t *testing.T) {
	t.Setenv("HELPDESK_SUBDOMAIN", "")
	t.Setenv("HELPDESK_BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil error, want missing upstream target")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HELPDESK_SUBDOMAIN", "acme")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.App.Port)
	}
	if cfg.Helpdesk.ChatbotTag != "chatbot" {
		t.Errorf("ChatbotTag = %s, want chatbot", cfg.Helpdesk.ChatbotTag)
	}
	if cfg.Search.DefaultPerPage != 5 {
		t.Errorf("DefaultPerPage = %d, want 5", cfg.Search.DefaultPerPage)
	}
	if got := cfg.Ticket.CommentFallbacks; len(got) != 2 || got[0] != "ticket_update" || got[1] != "request_update" {
		t.Errorf("CommentFallbacks = %v, want default chain", got)
	}
	if cfg.Search.FederatedEnabled() {
		t.Error("federated search enabled without URL")
	}
}

func TestResolveBaseURL(t *testing.T) {
	derived := HelpdeskConfig{Subdomain: "acme"}
	if got := derived.ResolveBaseURL(); got != "https://acme.zendesk.com/api/v2" {
		t.Errorf("ResolveBaseURL() = %s", got)
	}
	override := HelpdeskConfig{Subdomain: "acme", BaseURL: "http://127.0.0.1:9000/"}
	if got := override.ResolveBaseURL(); got != "http://127.0.0.1:9000" {
		t.Errorf("ResolveBaseURL() = %s, want trimmed override", got)
	}
}

func TestFallbackOrderOverride(t *testing.T) {
	t.Setenv("HELPDESK_SUBDOMAIN", "acme")
	t.Setenv("COMMENT_FALLBACK_ORDER", "request_update, ticket_update")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Ticket.CommentFallbacks; len(got) != 2 || got[0] != "request_update" {
		t.Errorf("CommentFallbacks = %v, want override order", got)
	}
}

func TestTimeoutDefaults(t *testing.T) {
	if got := (HelpdeskConfig{}).Timeout(); got != 8*time.Second {
		t.Errorf("helpdesk timeout = %v", got)
	}
	if got := (SearchConfig{TimeoutSeconds: 3}).Timeout(); got != 3*time.Second {
		t.Errorf("search timeout = %v", got)
	}
}
