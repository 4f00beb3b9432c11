package ffmpeg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	name string
	args []string
}

type fakeRunner struct {
	calls  []recordedCall
	result commandResult
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (commandResult, error) {
	f.calls = append(f.calls, recordedCall{name: name, args: args})
	return f.result, f.err
}

func newTestConverter(r *fakeRunner) *Converter {
	return &Converter{runner: r, ffmpegPath: "ffmpeg", ffprobePath: "ffprobe"}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"valid path", "/data/uploads/talk.mp4", nil},
		{"valid path with spaces", "/data/my talk.mp4", nil},
		{"relative path", "talk.mp4", nil},
		{"empty path", "", ErrEmptyPath},
		{"null byte at start", "\x00/tmp/a.mp4", ErrInvalidPath},
		{"null byte in middle", "/tmp/\x00a.mp4", ErrInvalidPath},
		{"null byte at end", "/tmp/a.mp4\x00", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, validatePath(tt.path), tt.wantErr)
		})
	}
}

func TestConverter_ExtractAudio(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestConverter(runner)

	err := c.ExtractAudio(context.Background(), "/data/uploads/a.mp4", "/data/uploads/job_audio.mp3")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "ffmpeg", runner.calls[0].name)
	assert.Equal(t, []string{
		"-y", "-i", "/data/uploads/a.mp4",
		"-vn", "-ac", "1", "-ar", "16000", "-b:a", "64k",
		"/data/uploads/job_audio.mp3",
	}, runner.calls[0].args)
}

func TestConverter_ExtractSlice(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestConverter(runner)

	err := c.ExtractSlice(context.Background(), "/a/audio.mp3", "/a/chunks/chunk_2.mp3", 960, 40)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"-y", "-ss", "960", "-t", "40", "-i", "/a/audio.mp3",
		"-vn", "-ac", "1", "-ar", "16000", "-b:a", "64k",
		"/a/chunks/chunk_2.mp3",
	}, runner.calls[0].args)
}

func TestConverter_ExtractSlice_FractionalSeconds(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestConverter(runner)

	require.NoError(t, c.ExtractSlice(context.Background(), "in.mp3", "out.mp3", 12.5, 0.25))
	assert.Equal(t, "12.5", runner.calls[0].args[2])
	assert.Equal(t, "0.25", runner.calls[0].args[4])
}

func TestConverter_PathValidation(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestConverter(runner)
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		errMsg string
	}{
		{"extract empty input", func() error { return c.ExtractAudio(ctx, "", "/tmp/o.mp3") }, "invalid input path"},
		{"extract null output", func() error { return c.ExtractAudio(ctx, "/tmp/i.mp4", "/tmp/\x00o.mp3") }, "invalid output path"},
		{"slice null input", func() error { return c.ExtractSlice(ctx, "/tmp/\x00i.mp3", "/tmp/o.mp3", 0, 1) }, "invalid input path"},
		{"slice empty output", func() error { return c.ExtractSlice(ctx, "/tmp/i.mp3", "", 0, 1) }, "invalid output path"},
		{"slice zero duration", func() error { return c.ExtractSlice(ctx, "/tmp/i.mp3", "/tmp/o.mp3", 0, 0) }, "invalid slice"},
		{"probe empty", func() error { _, err := c.ProbeDuration(ctx, ""); return err }, "invalid input path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
	assert.Empty(t, runner.calls, "nothing should be executed for invalid input")
}

func TestConverter_CommandErrorCarriesStderr(t *testing.T) {
	runner := &fakeRunner{
		result: commandResult{Stderr: "line1\nline2\n/in.mp4: Invalid data found when processing input\n", ExitCode: 1},
		err:    errors.New("exit status 1"),
	}
	c := newTestConverter(runner)

	err := c.ExtractAudio(context.Background(), "/in.mp4", "/out.mp3")

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "ffmpeg", cmdErr.Tool)
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Contains(t, err.Error(), "Invalid data found when processing input")
}

func TestConverter_CommandErrorWithoutStderr(t *testing.T) {
	runner := &fakeRunner{result: commandResult{ExitCode: 127}, err: errors.New("exec: not found")}
	c := newTestConverter(runner)

	err := c.ExtractAudio(context.Background(), "/in.mp4", "/out.mp3")
	require.Error(t, err)
	assert.Equal(t, "ffmpeg exited with code 127: exec: not found", err.Error())
}

func TestConverter_CanceledContext(t *testing.T) {
	runner := &fakeRunner{err: errors.New("signal: killed")}
	c := newTestConverter(runner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.ExtractSlice(ctx, "/in.mp3", "/out.mp3", 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConverter_ProbeDuration(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   float64
	}{
		{"format duration", `{"format":{"duration":"1000.000000"},"streams":[]}`, 1000},
		{"stream fallback", `{"format":{"duration":"N/A"},"streams":[{"codec_type":"audio","duration":"61.5"}]}`, 61.5},
		{"no duration", `{"format":{}}`, 0},
		{"garbage output", `not json`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{result: commandResult{Stdout: tt.stdout}}
			c := newTestConverter(runner)

			got, err := c.ProbeDuration(context.Background(), "/a/audio.mp3")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.Equal(t, "ffprobe", runner.calls[0].name)
			assert.Equal(t, "/a/audio.mp3", runner.calls[0].args[len(runner.calls[0].args)-1])
		})
	}
}

func TestConverter_ProbeDuration_ToolFailure(t *testing.T) {
	runner := &fakeRunner{
		result: commandResult{Stderr: "/a/missing.mp3: No such file or directory", ExitCode: 1},
		err:    errors.New("exit status 1"),
	}
	c := newTestConverter(runner)

	_, err := c.ProbeDuration(context.Background(), "/a/missing.mp3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffprobe failed")
	assert.Contains(t, err.Error(), "No such file or directory")
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "c | d", lastLines("a\nb\nc\nd", 2))
	assert.Equal(t, "only", lastLines("only", 5))
}
