package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/scribe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{APIKey: "gsk_test", BaseURL: srv.URL + "/", MaxRetries: 2})
	c.retryBase = time.Millisecond
	return c
}

func TestClient_Transcribe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, DefaultModel, r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		assert.Equal(t, "segment", r.FormValue("timestamp_granularities[]"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "chunk_0.mp3", hdr.Filename)
		assert.Equal(t, "ID3-audio", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": " Hello there. General Kenobi. ",
			"language": "en",
			"duration": 12.5,
			"segments": [
				{"id": 0, "start": 0, "end": 4.2, "text": " Hello there.", "avg_logprob": -0.2},
				{"id": 1, "start": 4.2, "end": 9, "text": " General Kenobi."}
			]
		}`))
	})

	tr, err := c.Transcribe(context.Background(), "chunk_0.mp3", strings.NewReader("ID3-audio"))
	require.NoError(t, err)

	assert.Equal(t, "Hello there. General Kenobi.", tr.Text)
	assert.Equal(t, "en", tr.Language)
	assert.Equal(t, 12.5, tr.Duration)
	assert.Equal(t, []domain.Segment{
		{Start: 0, End: 4.2, Text: "Hello there."},
		{Start: 4.2, End: 9, Text: "General Kenobi."},
	}, tr.Segments)
}

func TestClient_Transcribe_NoSegments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text": ""}`))
	})

	tr, err := c.Transcribe(context.Background(), "silence.mp3", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Empty(t, tr.Text)
	assert.NotNil(t, tr.Segments)
	assert.Empty(t, tr.Segments)
}

func TestClient_Transcribe_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "payload", string(data), "body must be resent intact on retry")

		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"text":"ok","segments":[]}`))
	})

	tr, err := c.Transcribe(context.Background(), "a.mp3", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, "ok", tr.Text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Transcribe_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	})

	_, err := c.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Rate limit reached")
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Transcribe_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid api key\n"))
	})

	_, err := c.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))

	require.Error(t, err)
	assert.Equal(t, "transcribe a.mp3: stt api returned 401: invalid api key", err.Error())
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	ctx := context.Background()

	_, err := c.Transcribe(ctx, "a.mp3", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = c.AnalyzeThemes(ctx, "text")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	assert.ErrorIs(t, c.Health(ctx), domain.ErrNotConfigured)
	assert.False(t, c.Configured())
}

func TestClient_Health(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"whisper-large-v3"}]}`))
	})

	assert.NoError(t, c.Health(context.Background()))
}

func TestClient_AnalyzeThemes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultAnalysisModel, req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat["type"])
		require.Len(t, req.Messages, 2)
		assert.Equal(t, analysisSystemPrompt, req.Messages[0].Content)
		assert.True(t, strings.HasSuffix(req.Messages[1].Content, "Transcription:\nhello world"))

		content := `{"themes":[` +
			`{"start":0,"end":60,"title":"Intro","summary":"Hi.","interestScore":0.4},` +
			`{"start":60,"end":30,"title":"Broken","summary":"","interestScore":0.1},` +
			`{"start":60,"end":120,"title":"  ","summary":"untitled","interestScore":0.9}` +
			`]}`
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	})

	themes, err := c.AnalyzeThemes(context.Background(), "hello world")
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, domain.Theme{Start: 0, End: 60, Title: "Intro", Summary: "Hi.", InterestScore: 0.4}, themes[0])
}

func TestClient_AnalyzeThemes_EmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	themes, err := c.AnalyzeThemes(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, themes)
}

func TestClient_AnalyzeThemes_InvalidJSONContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"not json"}}]}`))
	})

	_, err := c.AnalyzeThemes(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse analysis output")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k", BaseURL: "https://example.test/v1///", MaxRetries: -1})

	assert.Equal(t, "https://example.test/v1", c.cfg.BaseURL)
	assert.Equal(t, DefaultModel, c.cfg.Model)
	assert.Equal(t, DefaultAnalysisModel, c.cfg.AnalysisModel)
	assert.Equal(t, 10*time.Minute, c.httpClient.Timeout)
	assert.Equal(t, 0, c.cfg.MaxRetries)
}
