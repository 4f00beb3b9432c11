package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/logger"
	"github.com/bnema/scribe/internal/port"
)

// Planner cuts an extracted audio file into overlapping chunk files.
type Planner struct {
	audio port.AudioTool
}

func NewPlanner(audio port.AudioTool) *Planner {
	return &Planner{audio: audio}
}

// Plan probes audioPath and writes one chunk_<i>.mp3 per planned window into
// outputDir. An audio file with no usable duration yields zero chunks and no
// error; the caller decides whether that is fatal.
func (p *Planner) Plan(ctx context.Context, audioPath, outputDir string, cfg domain.ChunkConfig) (float64, []domain.Chunk, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, nil, fmt.Errorf("create chunk directory: %w", err)
	}

	total, err := p.audio.ProbeDuration(ctx, audioPath)
	if err != nil {
		return 0, nil, fmt.Errorf("probe audio duration: %w", err)
	}

	windows := domain.PlanWindows(total, cfg)
	if len(windows) == 0 {
		logger.Warn.Printf("audio %s has no usable duration (%v)", logger.SanitizeForLog(filepath.Base(audioPath)), total)
		return 0, []domain.Chunk{}, nil
	}

	chunks := make([]domain.Chunk, 0, len(windows))
	for _, w := range windows {
		out := filepath.Join(outputDir, fmt.Sprintf("chunk_%d.mp3", w.Index))
		if err := p.audio.ExtractSlice(ctx, audioPath, out, w.Start, w.Duration); err != nil {
			return 0, nil, fmt.Errorf("extract chunk %d: %w", w.Index, err)
		}
		chunks = append(chunks, domain.Chunk{Path: out, Start: w.Start, Duration: w.Duration})
	}

	logger.Debug.Printf("planned %d chunks over %s", len(chunks), domain.FormatDuration(total))
	return total, chunks, nil
}
