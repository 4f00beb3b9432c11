package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/scribe/internal/adapter/ratelimit"
	"github.com/bnema/scribe/internal/adapter/storage/jsonfile"
	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/clock"
	"github.com/bnema/scribe/internal/port/mocks"
	"github.com/bnema/scribe/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// mp4Header is enough of an ISO BMFF header for content sniffing.
var mp4Header = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00}

type testEnv struct {
	server   *Server
	jobs     *service.JobService
	store    *jsonfile.Store
	queue    *jsonfile.RunQueue
	events   *service.EventBus
	stt      *mocks.SpeechToTextMock
	analyzer *mocks.ThemeAnalyzerMock
	dataDir  string
}

type envOptions struct {
	unconfigured bool
	auth         TokenVerifier
	maxUpload    int64
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	dir := t.TempDir()
	clk := clock.NewManaged(epoch)

	store, err := jsonfile.NewStore(dir, clk)
	require.NoError(t, err)
	queue, err := jsonfile.NewRunQueue(dir, clk)
	require.NoError(t, err)

	env := &testEnv{
		store:    store,
		queue:    queue,
		events:   service.NewEventBus(),
		stt:      mocks.NewSpeechToTextMock(t),
		analyzer: mocks.NewThemeAnalyzerMock(t),
		dataDir:  dir,
	}
	env.jobs = service.NewJobService(service.JobServiceConfig{
		Store:           store,
		Queue:           queue,
		STT:             env.stt,
		Analyzer:        env.analyzer,
		STTGovernor:     ratelimit.NewLimiter(clk, 1, time.Minute),
		AnalyzeGovernor: ratelimit.NewLimiter(clk, 1, time.Hour),
		Events:          env.events,
		DataDir:         dir,
		STTConfigured:   !opts.unconfigured,
	})

	maxUpload := opts.maxUpload
	if maxUpload == 0 {
		maxUpload = 1 << 20
	}
	env.server = NewServer(ServerConfig{
		Jobs:          env.jobs,
		Events:        env.events,
		Auth:          opts.auth,
		Clock:         clk,
		MaxUploadSize: maxUpload,
		Version:       "test",
	})
	return env
}

func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", body)
	req.Header.Set("Content-Type", ct)
	return e.do(req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func uploadsLeft(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, "uploads"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUpload_CreatesJob(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.upload(t, "My Talk é.mp4", "video/mp4", mp4Header)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	jobID, _ := body["jobId"].(string)
	require.NotEmpty(t, jobID)

	job, err := env.store.Get(jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusUploaded, job.Status)
	assert.Equal(t, "My Talk é.mp4", job.OriginalName)
	assert.True(t, strings.HasSuffix(job.VideoPath, "_My_Talk_e.mp4"), job.VideoPath)
	assert.Len(t, uploadsLeft(t, env.dataDir), 1, "temporary file must be moved, not copied")
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		wantError   string
	}{
		{name: "text file", filename: "notes.txt", contentType: "text/plain", data: []byte("hello"), wantError: "Invalid file type: .txt"},
		{name: "declared type not allowed", filename: "a.mp4", contentType: "text/html", data: mp4Header, wantError: "Invalid MIME type: text/html"},
		{name: "html disguised as video", filename: "a.mp4", contentType: "video/mp4", data: []byte("<!DOCTYPE html><html></html>"), wantError: "Invalid file content"},
		{name: "empty file", filename: "a.mp4", contentType: "video/mp4", data: nil, wantError: "File is empty"},
		{name: "too large", filename: "a.mp4", contentType: "video/mp4", data: append(mp4Header, make([]byte, 2048)...), wantError: "File too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{maxUpload: 1024})

			rec := env.upload(t, tt.filename, tt.contentType, tt.data)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Contains(t, body["error"], tt.wantError)

			jobs, err := env.store.List()
			require.NoError(t, err)
			assert.Empty(t, jobs, "no job is created for a rejected upload")
			assert.Empty(t, uploadsLeft(t, env.dataDir), "rejected uploads leave no files behind")
		})
	}
}

func TestUpload_RejectsDeclaredTypeBeforeReadingBody(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		wantError   string
	}{
		{name: "oversized text file", filename: "notes.txt", contentType: "text/plain", wantError: "Invalid file type: .txt"},
		{name: "oversized html", filename: "a.mp4", contentType: "text/html", wantError: "Invalid MIME type: text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{maxUpload: 1024})

			rec := env.upload(t, tt.filename, tt.contentType, make([]byte, 64<<10))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Contains(t, body["error"], tt.wantError)
			assert.NotContains(t, body["error"], "File too large")
			assert.NoDirExists(t, filepath.Join(env.dataDir, "uploads"), "no temporary file is created")
		})
	}
}

func TestUpload_NoFile(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "No file provided")
}

func TestProcess_StartsOnce(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	jobID := decode(t, env.upload(t, "talk.mp4", "video/mp4", mp4Header))["jobId"].(string)

	for range 2 {
		rec := env.do(httptest.NewRequest(http.MethodPost, "/api/jobs/"+jobID+"/process", nil))
		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.Equal(t, "processing", body["status"])
		assert.Equal(t, jobID, body["jobId"])
	}

	run, err := env.queue.Claim()
	require.NoError(t, err)
	require.NotNil(t, run)
	next, err := env.queue.Claim()
	require.NoError(t, err)
	assert.Nil(t, next, "a double start creates exactly one run")
}

func TestProcess_Errors(t *testing.T) {
	t.Run("unknown job", func(t *testing.T) {
		env := newTestEnv(t, envOptions{})
		rec := env.do(httptest.NewRequest(http.MethodPost, "/api/jobs/6b1c1f0e-8a0a-4d7e-9a55-0c8f0f6a2b11/process", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Job not found", decode(t, rec)["error"])
	})

	t.Run("missing credential", func(t *testing.T) {
		env := newTestEnv(t, envOptions{unconfigured: true})
		jobID := decode(t, env.upload(t, "talk.mp4", "video/mp4", mp4Header))["jobId"].(string)

		rec := env.do(httptest.NewRequest(http.MethodPost, "/api/jobs/"+jobID+"/process", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec)["error"], "not configured")
	})
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	jobID := decode(t, env.upload(t, "talk.mp4", "video/mp4", mp4Header))["jobId"].(string)
	_, err := env.store.Update(jobID, domain.JobPatch{
		Status:            domain.StatusPtr(domain.JobStatusCompleted),
		Progress:          domain.IntPtr(100),
		TranscriptionText: domain.StringPtr("hello world"),
		Segments:          []domain.Segment{{Start: 0, End: 1.5, Text: "hello world"}},
	})
	require.NoError(t, err)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	job := decode(t, rec)["job"].(map[string]any)
	assert.Equal(t, jobID, job["id"])
	assert.Equal(t, "completed", job["status"])
	assert.Equal(t, float64(100), job["progress"])
	assert.Equal(t, "hello world", job["transcriptionText"])
	assert.Len(t, job["segments"], 1)
	assert.NotContains(t, job, "error")
	assert.NotContains(t, job, "videoPath", "internal paths are not exposed")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTranscribe_RateLimited(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.stt.EXPECT().Transcribe(mock.Anything, "clip.mp3", mock.Anything).
		Return(&domain.Transcription{Text: "hi there", Segments: []domain.Segment{{Start: 0, End: 1, Text: "hi there"}}}, nil).Once()

	mp3 := append([]byte("ID3"), make([]byte, 64)...)
	body, ct := multipartBody(t, "clip.mp3", "audio/mpeg", mp3)
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", ct)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, "hi there", out["text"])
	assert.Len(t, out["segments"], 1)
	assert.Equal(t, float64(0), out["rateLimit"].(map[string]any)["remaining"])

	body, ct = multipartBody(t, "clip.mp3", "audio/mpeg", mp3)
	req = httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", ct)
	rec = env.do(req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, decode(t, rec)["error"], "maximum 1 requests per 1m0s")
	assert.Empty(t, uploadsLeft(t, env.dataDir), "single-shot uploads are not kept")
}

func TestAnalyze(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	themes := []domain.Theme{{Start: 0, End: 60, Title: "Intro", Summary: "Hosts say hello.", InterestScore: 0.4}}
	env.analyzer.EXPECT().AnalyzeThemes(mock.Anything, "we talk about go").Return(themes, nil).Once()

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:5555"
		return env.do(req)
	}

	rec := post(`{"transcription":"<script>alert(1)</script>"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unsafe content")

	rec = post(`{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No transcription provided", decode(t, rec)["error"])

	rec = post(`not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(`{"transcription":"we talk about go"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	require.Len(t, out["themes"], 1)
	assert.Equal(t, "Intro", out["themes"].([]any)[0].(map[string]any)["title"])

	rec = post(`{"transcription":"we talk about go"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := newTestEnv(t, envOptions{})
		env.stt.EXPECT().Health(mock.Anything).Return(nil).Once()

		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/health/stt", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		out := decode(t, rec)
		assert.Equal(t, true, out["healthy"])
		assert.Equal(t, "available", out["status"])
	})

	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, envOptions{unconfigured: true})

		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/health/stt", nil))

		out := decode(t, rec)
		assert.Equal(t, false, out["healthy"])
		assert.Equal(t, "API key not configured", out["error"])
	})
}

func TestAuthMiddleware(t *testing.T) {
	const token = "integration-test-token-0123456789"
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.MinCost)
	require.NoError(t, err)
	auth, err := service.NewTokenAuth(string(hash))
	require.NoError(t, err)

	env := newTestEnv(t, envOptions{auth: auth})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	assert.Equal(t, http.StatusUnauthorized, env.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, env.do(req).Code, "authorized requests reach the handler")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "liveness is public")
	assert.Equal(t, "test", decode(t, rec)["version"])
}

func TestServer_SecurityHeaders(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, bearerToken(req), "header %q", tt.header)
	}
}
