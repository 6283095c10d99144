package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daystream/internal/model"
)

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	APIKey   string
	Model    string
	Endpoint string
	HTTP     *http.Client
	Logger   *logrus.Logger
}

func NewGeminiClient(apiKey, modelName, endpoint string, timeout time.Duration, logger *logrus.Logger) *GeminiClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GeminiClient{
		APIKey:   apiKey,
		Model:    modelName,
		Endpoint: strings.TrimRight(endpoint, "/"),
		HTTP:     &http.Client{Timeout: timeout},
		Logger:   logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction content        `json:"systemInstruction"`
	Contents          []content      `json:"contents"`
	GenerationConfig  map[string]any `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GeminiClient) Generate(ctx context.Context, input, currentDate string) ([]model.Proposal, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	body, err := json.Marshal(generateRequest{
		SystemInstruction: content{Parts: []part{{Text: fmt.Sprintf(systemPromptTemplate, currentDate)}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: input}}}},
		GenerationConfig: map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema(),
		},
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.Endpoint, url.PathEscape(c.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("planner: request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("planner: read response: %w", err)
	}
	entry := c.Logger.WithFields(logrus.Fields{
		"component":   "planner",
		"model":       c.Model,
		"status":      res.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		entry.WithError(err).Warn("planner returned non-json body")
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if res.StatusCode != http.StatusOK {
		msg := http.StatusText(res.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		entry.Warn("planner request rejected")
		return nil, fmt.Errorf("planner: status %d: %s", res.StatusCode, msg)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		entry.Warn("planner returned no candidates")
		return nil, fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	proposals, err := ParseProposals([]byte(text.String()))
	if err != nil {
		entry.WithError(err).Warn("planner proposals rejected")
		return nil, err
	}
	entry.WithField("proposals", len(proposals)).Info("planner proposals received")
	return proposals, nil
}
