package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Adapter shells out to ffmpeg/ffprobe for media operations.
type Adapter struct {
	ffmpeg  string
	ffprobe string
}

// New creates an adapter; empty paths fall back to the binaries on PATH.
func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// AspectDims maps an aspect-ratio label to output dimensions.
func AspectDims(aspect string) (width, height int) {
	switch aspect {
	case "1:1":
		return 1080, 1080
	case "4:5":
		return 1080, 1350
	case "16:9":
		return 1920, 1080
	default: // "9:16"
		return 1080, 1920
	}
}

// ExtractAudioMono16k extracts the audio track as mono 16 kHz WAV, the
// input format local ASR models expect.
func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// RenderVertical cuts [start, end) out of the source and reframes it to
// width x height by scaling up and center-cropping.
func (a *Adapter) RenderVertical(ctx context.Context, in string, start, end float64, width, height int, out string) error {
	duration := end - start
	if duration <= 0 {
		return fmt.Errorf("invalid clip range: %.3f - %.3f", start, end)
	}

	filter := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		width, height, width, height)

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-ss", fmtSeconds(start),
		"-t", fmtSeconds(duration),
		"-vf", filter,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		"-crf", "23",
		"-movflags", "+faststart",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render clip: %w\n%s", err, string(b))
	}
	return nil
}

// ProbeDuration returns the media duration in seconds.
func (a *Adapter) ProbeDuration(ctx context.Context, in string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
