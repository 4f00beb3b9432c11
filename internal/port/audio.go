package port

import "context"

type AudioTool interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ExtractAudio(ctx context.Context, inputPath, outputPath string) error
	ExtractSlice(ctx context.Context, inputPath, outputPath string, start, duration float64) error
}
