package domain

import "math"

const (
	DefaultChunkDuration = 480.0
	DefaultChunkOverlap  = 10.0
)

// Chunk is a time-bounded slice of the extracted audio. Start and Duration
// are seconds; Duration includes the trailing overlap.
type Chunk struct {
	Path     string  `json:"path"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

func (c Chunk) End() float64 {
	return c.Start + c.Duration
}

type ChunkConfig struct {
	ChunkDuration float64
	Overlap       float64
}

// Normalize replaces invalid settings with defaults. The overlap is always
// strictly less than the chunk duration afterwards.
func (c ChunkConfig) Normalize() ChunkConfig {
	if !isFinite(c.ChunkDuration) || c.ChunkDuration <= 0 {
		c.ChunkDuration = DefaultChunkDuration
	}
	if !isFinite(c.Overlap) || c.Overlap < 0 || c.Overlap >= c.ChunkDuration {
		c.Overlap = DefaultChunkOverlap
		if c.Overlap >= c.ChunkDuration {
			c.Overlap = 0
		}
	}
	return c
}

// Window is a planned chunk interval before it is materialized as a file.
type Window struct {
	Index    int
	Start    float64
	Duration float64
}

// PlanWindows splits [0, total) into windows stepping by ChunkDuration, each
// padded with Overlap seconds and clipped to the total duration.
func PlanWindows(total float64, cfg ChunkConfig) []Window {
	if !isFinite(total) || total <= 0 {
		return nil
	}
	cfg = cfg.Normalize()

	count := int(math.Ceil(total / cfg.ChunkDuration))
	windows := make([]Window, 0, count)
	for i := 0; float64(i)*cfg.ChunkDuration < total; i++ {
		start := float64(i) * cfg.ChunkDuration
		windows = append(windows, Window{
			Index:    i,
			Start:    start,
			Duration: math.Min(cfg.ChunkDuration+cfg.Overlap, total-start),
		})
	}
	return windows
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
