package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/port"
)

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrInvalidPath = errors.New("path contains null byte")
)

// CommandError carries the diagnostic output of a failed ffmpeg or ffprobe
// invocation.
type CommandError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return fmt.Sprintf("%s failed: %s", e.Tool, lastLines(msg, 5))
	}
	return fmt.Sprintf("%s exited with code %d: %v", e.Tool, e.ExitCode, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Converter decodes media into speech-ready audio: mono, 16 kHz, 64 kbps.
type Converter struct {
	runner      commandRunner
	ffmpegPath  string
	ffprobePath string
}

func NewConverter() *Converter {
	return &Converter{
		runner:      &execRunner{},
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
	}
}

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return ErrInvalidPath
	}
	return nil
}

func speechArgs(outputPath string) []string {
	return []string{"-vn", "-ac", "1", "-ar", "16000", "-b:a", "64k", outputPath}
}

func (c *Converter) ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	if err := validatePath(inputPath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(outputPath); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	args := append([]string{"-y", "-i", inputPath}, speechArgs(outputPath)...)
	return c.run(ctx, c.ffmpegPath, args...)
}

func (c *Converter) ExtractSlice(ctx context.Context, inputPath, outputPath string, start, duration float64) error {
	if err := validatePath(inputPath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(outputPath); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if start < 0 || duration <= 0 {
		return fmt.Errorf("invalid slice: start=%v duration=%v", start, duration)
	}

	args := []string{
		"-y",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-i", inputPath,
	}
	args = append(args, speechArgs(outputPath)...)
	return c.run(ctx, c.ffmpegPath, args...)
}

// ProbeDuration returns the media duration in seconds. Output that cannot be
// parsed yields 0 and no error; only a failing ffprobe is an error.
func (c *Converter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	if err := validatePath(path); err != nil {
		return 0, fmt.Errorf("invalid input path: %w", err)
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	res, err := c.runner.Run(ctx, c.ffprobePath, args...)
	if err != nil {
		return 0, &CommandError{Tool: "ffprobe", ExitCode: res.ExitCode, Stderr: res.Stderr, Err: err}
	}

	var probe domain.ProbeResult
	if err := json.Unmarshal([]byte(res.Stdout), &probe); err != nil {
		return 0, nil
	}
	return probe.Duration(), nil
}

func (c *Converter) run(ctx context.Context, name string, args ...string) error {
	res, err := c.runner.Run(ctx, name, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", name, ctxErr)
		}
		return &CommandError{Tool: name, ExitCode: res.ExitCode, Stderr: res.Stderr, Err: err}
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

var _ port.AudioTool = (*Converter)(nil)
