package youtube

import (
	"fmt"
	"sort"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"
)

// maxHeight is the resolution ceiling for downloads. Higher-resolution
// streams on YouTube are video-only and would require a merge step.
const maxHeight = 1080

// VideoFormat is a downloadable muxed (audio+video) format.
type VideoFormat struct {
	ItagNo        int
	MimeType      string
	Width         int
	Height        int
	Bitrate       int
	ContentLength int64
	QualityLabel  string
}

// Extension returns a file extension for the format's container.
func (f *VideoFormat) Extension() string {
	if strings.Contains(f.MimeType, "mp4") {
		return ".mp4"
	}
	if strings.Contains(f.MimeType, "webm") {
		return ".webm"
	}
	return ".video"
}

// muxedFormats filters a video's formats down to progressive streams that
// carry both audio and video, sorted best-first.
func muxedFormats(video *ytdl.Video) []VideoFormat {
	var formats []VideoFormat
	for _, f := range video.Formats {
		if !strings.HasPrefix(f.MimeType, "video/") {
			continue
		}
		if f.AudioChannels == 0 {
			continue
		}
		formats = append(formats, VideoFormat{
			ItagNo:        f.ItagNo,
			MimeType:      f.MimeType,
			Width:         f.Width,
			Height:        f.Height,
			Bitrate:       f.Bitrate,
			ContentLength: f.ContentLength,
			QualityLabel:  f.QualityLabel,
		})
	}

	sort.Slice(formats, func(i, j int) bool {
		if formats[i].Height != formats[j].Height {
			return formats[i].Height > formats[j].Height
		}
		return formats[i].Bitrate > formats[j].Bitrate
	})
	return formats
}

// selectVideoFormat picks the best muxed format with height up to the
// ceiling, falling back to the best available muxed format.
func selectVideoFormat(video *ytdl.Video) (*VideoFormat, error) {
	formats := muxedFormats(video)
	if len(formats) == 0 {
		return nil, fmt.Errorf("no downloadable muxed formats available")
	}

	for i := range formats {
		if formats[i].Height <= maxHeight {
			return &formats[i], nil
		}
	}
	// Everything is above the ceiling; take the best there is.
	return &formats[0], nil
}
