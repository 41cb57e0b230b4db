package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// geminiSchema is the OpenAPI-subset schema Gemini accepts as responseSchema.
var geminiSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"matched_jobs": map[string]any{
			"type": "ARRAY",
			"items": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"title":            map[string]any{"type": "STRING", "description": "The extracted job title."},
					"company":          map[string]any{"type": "STRING", "description": "The extracted company name."},
					"reason_for_match": map[string]any{"type": "STRING", "description": "A concise reason why this job matches the user's preferences."},
					"url":              map[string]any{"type": "STRING", "description": "The URL for the job posting."},
					"id":               map[string]any{"type": "STRING", "description": "The unique ID for the job, which is its URL."},
				},
				"required": []string{"title", "company", "reason_for_match", "url", "id"},
			},
		},
	},
	"required": []string{"matched_jobs"},
}

// GeminiProvider calls the Gemini generateContent endpoint with a JSON
// response schema.
type GeminiProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiProvider creates a provider targeting the Generative Language API.
func NewGeminiProvider(baseURL, apiKey, model string, httpClient *http.Client) *GeminiProvider {
	return &GeminiProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64        `json:"temperature"`
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Complete sends prompt to Gemini and returns the JSON text of the first candidate.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      0,
			ResponseMimeType: "application/json",
			ResponseSchema:   geminiSchema,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, url.PathEscape(p.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", httpError(resp, respBytes)
	}

	var gr geminiResponse
	if err := json.Unmarshal(respBytes, &gr); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", gr.Error.Status, gr.Error.Message)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("llm returned no candidates")
	}

	var sb strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
