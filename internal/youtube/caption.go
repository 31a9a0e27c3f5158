package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CaptionEntry is one caption cue.
type CaptionEntry struct {
	StartTime time.Duration
	Duration  time.Duration
	Text      string
}

// EndTime returns the end of the cue.
func (e *CaptionEntry) EndTime() time.Duration {
	return e.StartTime + e.Duration
}

// YouTube timedtext XML structure
type xmlTranscript struct {
	XMLName xml.Name  `xml:"timedtext"`
	Text    []xmlText `xml:"body>p"`
}

type xmlText struct {
	Start    int64        `xml:"t,attr"` // milliseconds
	Duration int64        `xml:"d,attr"` // milliseconds
	Segments []xmlSegment `xml:"s"`
}

type xmlSegment struct {
	Text string `xml:",chardata"`
}

// FetchCaptionByURL downloads and parses a caption track.
func FetchCaptionByURL(ctx context.Context, url string) ([]CaptionEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return ParseCaptionXML(body)
}

// ParseCaptionXML parses timedtext XML into caption entries.
func ParseCaptionXML(data []byte) ([]CaptionEntry, error) {
	var transcript xmlTranscript
	if err := xml.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("XML parse failed: %w", err)
	}

	entries := make([]CaptionEntry, 0, len(transcript.Text))
	for _, p := range transcript.Text {
		var text string
		for _, seg := range p.Segments {
			text += seg.Text
		}
		if len(text) == 0 {
			continue
		}
		entries = append(entries, CaptionEntry{
			StartTime: time.Duration(p.Start) * time.Millisecond,
			Duration:  time.Duration(p.Duration) * time.Millisecond,
			Text:      text,
		})
	}
	return entries, nil
}
