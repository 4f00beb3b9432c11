package validation

import (
	"strings"
	"testing"
)

func TestSanitizeUploadName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Safe names pass through unchanged
		{name: "simple filename", input: "video.mp4", expected: "video.mp4"},
		{name: "multiple dots", input: "file.name.with.dots.mp4", expected: "file.name.with.dots.mp4"},
		{name: "dashes and underscores", input: "my-video_file.mp4", expected: "my-video_file.mp4"},
		{name: "extension case kept", input: "Episode12.MP4", expected: "Episode12.MP4"},

		// Unsafe runs collapse to one underscore
		{name: "spaces", input: "my video file.mp4", expected: "my_video_file.mp4"},
		{name: "run of spaces", input: "my   video.mp4", expected: "my_video.mp4"},
		{name: "CRLF", input: "file\r\nname.mp4", expected: "file_name.mp4"},
		{name: "NUL", input: "file\x00name.mp4", expected: "file_name.mp4"},
		{name: "quotes and colon", input: `"file:name".mp4`, expected: "_file_name_.mp4"},

		// Accents are folded before replacement
		{name: "french accents", input: "vidéo été.mp4", expected: "video_ete.mp4"},
		{name: "cedilla", input: "Ça va.mp3", expected: "Ca_va.mp3"},
		{name: "compatibility ligature", input: "\ufb01le.wav", expected: "file.wav"},
		{name: "non latin script", input: "動画.mp4", expected: "_.mp4"},

		// Path components are dropped
		{name: "unix traversal", input: "../../../etc/passwd", expected: "passwd"},
		{name: "windows traversal", input: `..\..\secret.mp4`, expected: "secret.mp4"},
		{name: "windows full path", input: `C:\Users\me\talk.mov`, expected: "talk.mov"},
		{name: "leading dots", input: "..secret.mp4", expected: "secret.mp4"},
		{name: "hidden file", input: ".hidden.mp3", expected: "hidden.mp3"},

		// Nothing usable left
		{name: "empty", input: "", expected: "video"},
		{name: "only whitespace", input: "   ", expected: "video"},
		{name: "only unsafe chars", input: `"/\:`, expected: "video"},
		{name: "trailing separator", input: "dir/", expected: "video"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeUploadName(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeUploadName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSanitizeUploadName_LongNames(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantExt string
	}{
		{name: "no extension", input: strings.Repeat("a", 300)},
		{name: "keeps extension", input: strings.Repeat("a", 300) + ".mp4", wantExt: ".mp4"},
		{name: "keeps long extension", input: strings.Repeat("a", 300) + ".mpeg", wantExt: ".mpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeUploadName(tt.input)
			if len(result) != maxFilenameLength {
				t.Errorf("len = %d, want %d", len(result), maxFilenameLength)
			}
			if tt.wantExt != "" && !strings.HasSuffix(result, tt.wantExt) {
				t.Errorf("result %q does not end with %q", result, tt.wantExt)
			}
		})
	}
}

func TestSanitizeUploadName_Idempotent(t *testing.T) {
	inputs := []string{"vidéo.mp4", "a b c.wav", "../x/y.mkv", strings.Repeat("é", 300) + ".mp3"}
	for _, in := range inputs {
		once := SanitizeUploadName(in)
		if twice := SanitizeUploadName(once); twice != once {
			t.Errorf("SanitizeUploadName not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func BenchmarkSanitizeUploadName(b *testing.B) {
	name := "Épisode 42 – l'été à Montréal (final cut).mp4"
	for b.Loop() {
		_ = SanitizeUploadName(name)
	}
}
