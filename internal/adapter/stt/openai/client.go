// Package openai talks to an OpenAI-compatible speech API (Groq by default)
// for transcription, transcript analysis and health checks.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/logger"
	"github.com/bnema/scribe/internal/port"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultBaseURL       = "https://api.groq.com/openai/v1"
	DefaultModel         = "whisper-large-v3"
	DefaultAnalysisModel = "openai/gpt-oss-120b"

	maxErrorBody = 300
)

type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	AnalysisModel string
	Timeout       time.Duration
	MaxRetries    int
}

// APIError is a non-2xx answer from the upstream API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("stt api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("stt api returned %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	retryBase  time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.AnalysisModel == "" {
		cfg.AnalysisModel = DefaultAnalysisModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retryBase:  time.Second,
	}
}

func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

type verboseSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type verboseResponse struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
	Segments []verboseSegment `json:"segments"`
}

// Transcribe uploads one audio file and returns text with segment timings.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (*domain.Transcription, error) {
	if !c.Configured() {
		return nil, domain.ErrNotConfigured
	}

	data, err := io.ReadAll(audio)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	var out verboseResponse
	err = c.do(ctx, func() (*http.Request, error) {
		body, contentType, err := c.transcriptionBody(filename, data)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/audio/transcriptions", body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", filename, err)
	}

	return &domain.Transcription{
		Text:     strings.TrimSpace(out.Text),
		Language: out.Language,
		Duration: out.Duration,
		Segments: toSegments(out.Segments),
	}, nil
}

func (c *Client) transcriptionBody(filename string, data []byte) (io.Reader, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := [][2]string{
		{"model", c.cfg.Model},
		{"response_format", "verbose_json"},
		{"timestamp_granularities[]", "segment"},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &body, mw.FormDataContentType(), nil
}

// Health lists the available models as a cheap authenticated probe.
func (c *Client) Health(ctx context.Context) error {
	if !c.Configured() {
		return domain.ErrNotConfigured
	}
	return c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/models", nil)
	}, nil)
}

// do sends the request built by newReq, retrying rate-limited and server
// errors, and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, newReq func() (*http.Request, error), out any) error {
	backoff := retry.WithMaxRetries(uint64(c.cfg.MaxRetries),
		retry.WithJitterPercent(20, retry.NewExponential(c.retryBase)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := newReq()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return retry.RetryableError(err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: logger.Truncate(strings.TrimSpace(string(b)), maxErrorBody)}
			if apiErr.retryable() {
				logger.Warn.Printf("stt api %s %s: %d, retrying", req.Method, req.URL.Path, resp.StatusCode)
				return retry.RetryableError(apiErr)
			}
			return apiErr
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

var (
	_ port.SpeechToText  = (*Client)(nil)
	_ port.ThemeAnalyzer = (*Client)(nil)
)
