package youtube

import (
	"context"
	"time"

	"github.com/kkdai/youtube/v2"
)

// Client abstracts YouTube operations behind the pipeline's fetcher boundary.
type Client struct {
	client youtube.Client

	// CaptionLang is the preferred caption language; the first available
	// track is used when the preferred one is missing.
	CaptionLang string
}

// NewClient creates a new YouTube client.
func NewClient(captionLang string) *Client {
	return &Client{
		client:      youtube.Client{},
		CaptionLang: captionLang,
	}
}

// VideoInfo is the source video metadata.
type VideoInfo struct {
	ID          string
	Title       string
	Author      string
	Views       int64
	Duration    time.Duration
	Description string
	Captions    []CaptionTrack
}

// CaptionTrack describes one caption track.
type CaptionTrack struct {
	LanguageCode string
	Name         string
	BaseURL      string
}

// GetVideo fetches the video metadata for a URL.
func (c *Client) GetVideo(ctx context.Context, url string) (*VideoInfo, *youtube.Video, error) {
	video, err := c.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, nil, err
	}

	captions := make([]CaptionTrack, len(video.CaptionTracks))
	for i, track := range video.CaptionTracks {
		captions[i] = CaptionTrack{
			LanguageCode: track.LanguageCode,
			Name:         track.Name.SimpleText,
			BaseURL:      track.BaseURL,
		}
	}

	return &VideoInfo{
		ID:          video.ID,
		Title:       video.Title,
		Author:      video.Author,
		Views:       int64(video.Views),
		Duration:    video.Duration,
		Description: video.Description,
		Captions:    captions,
	}, video, nil
}

// FindCaption returns the caption track for the given language, falling
// back to the first available track.
func (v *VideoInfo) FindCaption(lang string) *CaptionTrack {
	if len(v.Captions) == 0 {
		return nil
	}
	for i := range v.Captions {
		if v.Captions[i].LanguageCode == lang {
			return &v.Captions[i]
		}
	}
	return &v.Captions[0]
}
