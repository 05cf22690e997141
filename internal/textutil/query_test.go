package textutil

import "testing"

func TestExtractQueryDropsGreetingAndFiller(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Hi, I need help with password reset", "password reset"},
		{"    » Hello! Can you help me with billing", "billing"},
		{"hey can you assist me with two-factor setup", "two-factor setup"},
		{"I have a question about invoices", "invoices"},
		{"please help me with login", "login"},
		{"    « agent note", "agent note"},
		{"password reset", "password reset"},
	}
	for _, tt := range tests {
		if got := ExtractQuery(tt.raw); got != tt.want {
			t.Errorf("ExtractQuery(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestValidateQueryRejectsShortAndStopWords(t *testing.T) {
	invalid := []string{"", "  ", "ab", "help", "HELP", "issue", "hi"}
	for _, query := range invalid {
		if err := ValidateQuery(query); err == nil {
			t.Errorf("ValidateQuery(%q) = nil, want error", query)
		}
	}

	valid := []string{"password reset", "vpn", "billing question"}
	for _, query := range valid {
		if err := ValidateQuery(query); err != nil {
			t.Errorf("ValidateQuery(%q) = %v, want nil", query, err)
		}
	}
}
