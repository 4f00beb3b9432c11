package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bnema/scribe/internal/domain"
	"github.com/samber/lo"
)

const analysisSystemPrompt = "You are an expert podcast editor. Output ONLY valid JSON."

const analysisPrompt = `Analyze the following video transcription and divide it into logical "themes" or "chapters".
For each theme, provide:
1. A start time in seconds (as a number).
2. An end time in seconds (as a number).
3. A short, punchy title.
4. A one-sentence summary.
5. An interestScore (a number between 0 and 1) representing how engaging or "viral" this specific segment is.

Format the output as a JSON object with a key "themes" containing an array of these objects.
Example:
{
  "themes": [
    { "start": 0, "end": 60, "title": "Introduction", "summary": "The speakers introduce themselves and the topic.", "interestScore": 0.4 }
  ]
}

Ensure the segments cover the entire duration and do not overlap significantly.
Mandatory to write in the language of the transcription.

Transcription:
`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// AnalyzeThemes asks the chat model to split a transcript into chapters.
// Themes with an empty title or an end before their start are dropped.
func (c *Client) AnalyzeThemes(ctx context.Context, transcript string) ([]domain.Theme, error) {
	if !c.Configured() {
		return nil, domain.ErrNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.AnalysisModel,
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: analysisPrompt + transcript},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("encode analysis request: %w", err)
	}

	var resp chatResponse
	err = c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("analyze themes: %w", err)
	}

	content := `{"themes": []}`
	if len(resp.Choices) > 0 && strings.TrimSpace(resp.Choices[0].Message.Content) != "" {
		content = resp.Choices[0].Message.Content
	}

	var parsed struct {
		Themes []domain.Theme `json:"themes"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse analysis output: %w", err)
	}

	themes := lo.Filter(parsed.Themes, func(t domain.Theme, _ int) bool {
		return strings.TrimSpace(t.Title) != "" && t.End >= t.Start
	})
	return themes, nil
}
