package port

import (
	"context"
	"io"

	"github.com/bnema/scribe/internal/domain"
)

type SpeechToText interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (*domain.Transcription, error)
	Health(ctx context.Context) error
}

type ThemeAnalyzer interface {
	AnalyzeThemes(ctx context.Context, transcript string) ([]domain.Theme, error)
}

type RateGovernor interface {
	Check(key string) domain.RateDecision
}
