package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"battery_advisor/internal/models"
)

func TestParseDecision(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want models.Action
	}{
		{"plain json", `{"action":"DO_NOTHING","reason":"prices are flat"}`, models.ActionDoNothing},
		{"json fences", "```json\n{\"action\":\"WAIT_FOR_SOLAR\",\"reason\":\"solar peak ahead\"}\n```", models.ActionWaitForSolar},
		{"bare fences", "```\n{\"action\":\"DISCHARGE_TO_HOUSE\",\"reason\":\"expensive hour\"}\n```", models.ActionDischargeToHouse},
		{"surrounding whitespace", "  \n{\"action\":\"CHARGE_FROM_GRID\",\"reason\":\"cheap hour\"}\n ", models.ActionChargeFromGrid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec, err := parseDecision(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dec.Action != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, dec.Action)
			}
			if dec.Reason == "" {
				t.Fatalf("expected non-empty reason")
			}
		})
	}
}

func TestParseDecision_Failures(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not json", "charge the battery now"},
		{"unknown action", `{"action":"SELF_DESTRUCT","reason":"why not"}`},
		{"lowercase action", `{"action":"do_nothing","reason":"hold"}`},
		{"empty reason", `{"action":"DO_NOTHING","reason":"  "}`},
		{"empty object", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseDecision(tc.in); err == nil {
				t.Fatalf("expected error for %q", tc.in)
			}
		})
	}
}

func TestGemini_UnavailableWithoutKey(t *testing.T) {
	g := NewGemini("", "gemini-1.5-flash", "")

	if g.Available() {
		t.Fatalf("client must not report available before init")
	}
	_, err := g.Propose(context.Background(), Situation{SoC: 50})
	if !errors.Is(err, errUnavailable) {
		t.Fatalf("expected errUnavailable, got %v", err)
	}
	if g.Available() {
		t.Fatalf("failed init must keep the client unavailable")
	}

	// The failure is sticky.
	if _, err := g.Propose(context.Background(), Situation{SoC: 50}); !errors.Is(err, errUnavailable) {
		t.Fatalf("expected sticky errUnavailable, got %v", err)
	}
}

func geminiReply(t *testing.T, text string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
			},
		})
	}
}

func TestGeminiPropose(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		geminiReply(t, `{"action":"WAIT_FOR_SOLAR","reason":"strong irradiance expected"}`)(w, r)
	}))
	defer srv.Close()

	g := NewGemini(srv.URL, "gemini-1.5-flash", "test-key")
	dec, err := g.Propose(context.Background(), Situation{
		SoC:                   55,
		CurrentPriceEURPerKWH: 0.21,
		FuturePrices: models.PriceForecast{
			{TimestampUTC: time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC), PriceEURPerKWH: 0.18},
		},
		Solar: models.SolarForecast{120, 430},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Action != models.ActionWaitForSolar {
		t.Fatalf("expected WAIT_FOR_SOLAR, got %s", dec.Action)
	}
	if !g.Available() {
		t.Fatalf("client must report available after a successful init")
	}

	if gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Fatalf("expected JSON response mode, got %q", gotBody.GenerationConfig.ResponseMIMEType)
	}
	if gotBody.SystemInstruction == nil || len(gotBody.SystemInstruction.Parts) == 0 {
		t.Fatalf("expected a system instruction")
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) == 0 {
		t.Fatalf("expected one user content block")
	}
	prompt := gotBody.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "55") || !strings.Contains(prompt, "0.21") {
		t.Fatalf("situation not rendered into prompt:\n%s", prompt)
	}
}

func TestGeminiPropose_MalformedModelOutput(t *testing.T) {
	srv := httptest.NewServer(geminiReply(t, "I think you should charge."))
	defer srv.Close()

	g := NewGemini(srv.URL, "gemini-1.5-flash", "test-key")
	if _, err := g.Propose(context.Background(), Situation{SoC: 50}); err == nil {
		t.Fatalf("expected error for non-JSON model output")
	}
}

func TestGeminiPropose_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := NewGemini(srv.URL, "gemini-1.5-flash", "test-key")
	if _, err := g.Propose(context.Background(), Situation{SoC: 50}); err == nil {
		t.Fatalf("expected error for empty candidates")
	}
}

func TestGeminiPropose_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGemini(srv.URL, "gemini-1.5-flash", "test-key")
	if _, err := g.Propose(context.Background(), Situation{SoC: 50}); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestGeminiPropose_RespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	g := NewGemini(srv.URL, "gemini-1.5-flash", "test-key")
	if _, err := g.Propose(ctx, Situation{SoC: 50}); err == nil {
		t.Fatalf("expected error for expired context")
	}
}
