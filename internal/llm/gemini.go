package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"battery_advisor/internal/llm/prompts"
	"battery_advisor/internal/models"
)

// Gemini is a client for the Google Generative Language REST API. The
// connection is initialized lazily exactly once; a failed initialization is
// remembered and every later call short-circuits to unavailable.
type Gemini struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client

	initOnce sync.Once
	initErr  error
	ready    atomic.Bool
}

var errUnavailable = errors.New("generative model client unavailable")

func NewGemini(baseURL, model, apiKey string) *Gemini {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	return &Gemini{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

// Available reports whether the client has been initialized successfully.
// It never triggers initialization or a model call.
func (g *Gemini) Available() bool {
	return g.ready.Load()
}

func (g *Gemini) init() {
	if g.apiKey == "" {
		g.initErr = errors.New("GEMINI_API_KEY not set")
		return
	}
	if g.model == "" {
		g.initErr = errors.New("model name not configured")
		return
	}
	g.ready.Store(true)
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"response_mime_type"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Propose renders the situational prompt, calls the model, and validates the
// structured response. The caller owns the deadline via ctx.
func (g *Gemini) Propose(ctx context.Context, s Situation) (models.Decision, error) {
	g.initOnce.Do(g.init)
	if g.initErr != nil {
		return models.Decision{}, fmt.Errorf("%w: %s", errUnavailable, g.initErr)
	}

	prompt, err := renderSituation(s)
	if err != nil {
		return models.Decision{}, fmt.Errorf("render prompt: %w", err)
	}

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return models.Decision{}, err
	}
	return parseDecision(text)
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: prompts.SystemPrompt()}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig:  generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini error %d: %s", resp.StatusCode, string(msg))
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty model response")
	}
	return payload.Candidates[0].Content.Parts[0].Text, nil
}

func renderSituation(s Situation) (string, error) {
	lines := make([]prompts.PriceLine, 0, len(s.FuturePrices))
	for _, p := range s.FuturePrices {
		lines = append(lines, prompts.PriceLine{
			Hour:  p.TimestampUTC.Format("15:04"),
			Price: p.PriceEURPerKWH,
		})
	}
	return prompts.RenderSituation(prompts.SituationData{
		SoC:          s.SoC,
		CurrentPrice: s.CurrentPriceEURPerKWH,
		Prices:       lines,
		Solar:        s.Solar,
	})
}

// parseDecision validates the model output: a single JSON object with one of
// the four canonical actions and a non-empty reason. Markdown code fences
// around the JSON are tolerated.
func parseDecision(text string) (models.Decision, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var raw struct {
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return models.Decision{}, fmt.Errorf("invalid decision JSON: %w", err)
	}
	action, err := models.ParseAction(raw.Action)
	if err != nil {
		return models.Decision{}, err
	}
	if strings.TrimSpace(raw.Reason) == "" {
		return models.Decision{}, errors.New("decision reason is empty")
	}
	return models.Decision{Action: action, Reason: raw.Reason}, nil
}
