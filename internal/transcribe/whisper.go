package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// WhisperConfig holds configuration for the local Whisper model.
type WhisperConfig struct {
	ModelDir   string
	Language   string // empty for auto-detect
	NumThreads int
	SampleRate int
}

// DefaultWhisperConfig returns the default Whisper configuration.
func DefaultWhisperConfig(modelDir string) *WhisperConfig {
	return &WhisperConfig{
		ModelDir:   modelDir,
		Language:   "en",
		NumThreads: 4,
		SampleRate: 16000,
	}
}

// WhisperTranscriber runs a local Whisper model through sherpa-onnx. It is
// the middle rung of the chain, used when the source has no caption track
// and a model directory is configured.
type WhisperTranscriber struct {
	config     *WhisperConfig
	recognizer *sherpa.OfflineRecognizer
}

// NewWhisperTranscriber creates a Whisper transcriber from a model
// directory containing encoder/decoder onnx files and tokens.txt.
func NewWhisperTranscriber(config *WhisperConfig) (*WhisperTranscriber, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	encoderPath := findModelFile(config.ModelDir, []string{"encoder.int8.onnx", "encoder.onnx"})
	decoderPath := findModelFile(config.ModelDir, []string{"decoder.int8.onnx", "decoder.onnx"})
	tokensPath := findModelFile(config.ModelDir, []string{"tokens.txt"})

	if encoderPath == "" {
		return nil, fmt.Errorf("encoder model not found in %s", config.ModelDir)
	}
	if decoderPath == "" {
		return nil, fmt.Errorf("decoder model not found in %s", config.ModelDir)
	}
	if tokensPath == "" {
		return nil, fmt.Errorf("tokens file not found in %s", config.ModelDir)
	}

	sherpaConfig := sherpa.OfflineRecognizerConfig{
		FeatConfig: sherpa.FeatureConfig{
			SampleRate: config.SampleRate,
			FeatureDim: 80,
		},
		ModelConfig: sherpa.OfflineModelConfig{
			Whisper: sherpa.OfflineWhisperModelConfig{
				Encoder:  encoderPath,
				Decoder:  decoderPath,
				Language: config.Language,
				Task:     "transcribe",
			},
			Tokens:     tokensPath,
			NumThreads: config.NumThreads,
			Debug:      0,
		},
	}

	recognizer := sherpa.NewOfflineRecognizer(&sherpaConfig)
	if recognizer == nil {
		return nil, fmt.Errorf("failed to create Whisper recognizer")
	}

	return &WhisperTranscriber{config: config, recognizer: recognizer}, nil
}

// Close releases the recognizer resources.
func (t *WhisperTranscriber) Close() {
	if t.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(t.recognizer)
		t.recognizer = nil
	}
}

// Transcribe decodes the extracted audio in 30-second chunks. Whisper
// handles up to 30 seconds natively; each chunk becomes one segment with
// the chunk's time bounds.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, src Source) ([]Segment, error) {
	if src.AudioPath == "" {
		return nil, fmt.Errorf("no extracted audio: %w", ErrNoTranscript)
	}
	if _, err := os.Stat(src.AudioPath); err != nil {
		return nil, fmt.Errorf("audio file: %w", err)
	}

	wave := sherpa.ReadWave(src.AudioPath)
	if wave == nil || len(wave.Samples) == 0 {
		return nil, fmt.Errorf("failed to read WAV file or file is empty")
	}

	const chunkSec = 30
	chunkSamples := t.config.SampleRate * chunkSec

	var segments []Segment
	for offset := 0; offset < len(wave.Samples); offset += chunkSamples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := offset + chunkSamples
		if end > len(wave.Samples) {
			end = len(wave.Samples)
		}

		stream := sherpa.NewOfflineStream(t.recognizer)
		stream.AcceptWaveform(t.config.SampleRate, wave.Samples[offset:end])
		t.recognizer.Decode(stream)
		result := stream.GetResult()
		sherpa.DeleteOfflineStream(stream)

		if result == nil {
			continue
		}
		text := strings.TrimSpace(result.Text)
		if text == "" {
			continue
		}

		segments = append(segments, Segment{
			Start: float64(offset) / float64(t.config.SampleRate),
			End:   float64(end) / float64(t.config.SampleRate),
			Text:  text,
		})
	}
	return segments, nil
}

func findModelFile(dir string, candidates []string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
