package youtube

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	ytdl "github.com/kkdai/youtube/v2"
)

// Media is the result of fetching a source video: a local file plus the
// metadata the rest of the pipeline needs.
type Media struct {
	Path        string
	Title       string
	DurationSec float64
	Width       int
	Height      int
	Uploader    string
	Views       int64

	// CaptionURL is the timedtext URL of the preferred caption track,
	// empty when the video has no captions.
	CaptionURL  string
	CaptionLang string
}

// Fetch downloads the source video into destDir and returns the local
// media handle. No partial file is left behind on failure.
func (c *Client) Fetch(ctx context.Context, url, destDir string) (*Media, error) {
	info, video, err := c.GetVideo(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	selected, err := selectVideoFormat(video)
	if err != nil {
		return nil, err
	}

	var target *ytdl.Format
	for i := range video.Formats {
		if video.Formats[i].ItagNo == selected.ItagNo {
			target = &video.Formats[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("format not found: itag=%d", selected.ItagNo)
	}

	stream, _, err := c.client.GetStreamContext(ctx, video, target)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream: %w", err)
	}
	defer stream.Close()

	outputPath := filepath.Join(destDir, "source"+selected.Extension())
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if err := copyWithContext(ctx, file, stream); err != nil {
		file.Close()
		os.Remove(outputPath)
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(outputPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	m := &Media{
		Path:        outputPath,
		Title:       info.Title,
		DurationSec: info.Duration.Seconds(),
		Width:       selected.Width,
		Height:      selected.Height,
		Uploader:    info.Author,
		Views:       info.Views,
	}
	if track := info.FindCaption(c.CaptionLang); track != nil {
		m.CaptionURL = track.BaseURL
		m.CaptionLang = track.LanguageCode
	}
	return m, nil
}

// copyWithContext copies the stream while honoring cancellation.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		nr, err := src.Read(buf)
		if nr > 0 {
			if _, ew := dst.Write(buf[:nr]); ew != nil {
				return ew
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
