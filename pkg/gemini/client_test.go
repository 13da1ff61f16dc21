package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"helpdesk-automation/pkg/gemini"
)

func TestGenerateContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, ok := req["system_instruction"]; !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "automatico: "}, {"text": "standard procedure"}]}}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 4, "totalTokenCount": 16}
		}`))
	}))
	defer ts.Close()

	client, err := gemini.New(gemini.Config{APIKey: "test-api-key", APIURL: ts.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := client.GenerateContent(context.Background(), &gemini.Request{
		SystemInstruction: "classify",
		Messages:          []gemini.Message{{Role: "user", Text: "reset password"}},
	})
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if resp.Text != "automatico: standard procedure" {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 16 {
		t.Errorf("TotalTokens = %d, want 16", resp.Usage.TotalTokens)
	}
}

func TestGenerateContent_APIError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus string
		wantMsg    string
	}{
		{"rpc status", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`, "RESOURCE_EXHAUSTED", "quota exceeded"},
		{"empty body", http.StatusInternalServerError, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client, _ := gemini.New(gemini.Config{APIKey: "k", APIURL: ts.URL})
			_, err := client.GenerateContent(context.Background(), &gemini.Request{})

			var apiErr *gemini.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *gemini.APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Status != tt.wantStatus || apiErr.Message != tt.wantMsg {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := gemini.New(gemini.Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
