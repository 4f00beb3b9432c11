package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bnema/scribe/internal/domain"
)

const MaxTranscriptLength = 500000

var unsafeTranscriptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
}

// ValidateTranscript rejects empty, oversized or markup-bearing transcripts
// before they are forwarded to the analysis model.
func ValidateTranscript(transcript string) error {
	if strings.TrimSpace(transcript) == "" {
		return domain.NewValidationError("transcription", "Transcription must be a non-empty string")
	}

	if n := utf8.RuneCountInString(transcript); n > MaxTranscriptLength {
		return domain.NewValidationError("transcription", "Transcription too long: %d characters. Maximum: %d", n, MaxTranscriptLength)
	}

	for _, p := range unsafeTranscriptPatterns {
		if p.MatchString(transcript) {
			return domain.NewValidationError("transcription", "Transcription contains potentially unsafe content")
		}
	}

	return nil
}
