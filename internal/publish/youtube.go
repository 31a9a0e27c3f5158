package publish

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
)

// YouTubeUploader publishes shorts to YouTube with a refresh-token OAuth
// credential. The token exchange itself is the oauth2 package's concern.
type YouTubeUploader struct {
	conf          *oauth2.Config
	refreshToken  string
	privacyStatus string
	categoryID    string
}

// NewYouTubeUploader creates an uploader from an OAuth client credential
// pair and a long-lived refresh token.
func NewYouTubeUploader(clientID, clientSecret, refreshToken string) *YouTubeUploader {
	return &YouTubeUploader{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{yt.YoutubeUploadScope},
		},
		refreshToken:  refreshToken,
		privacyStatus: "private",
		categoryID:    "24", // Entertainment
	}
}

func (u *YouTubeUploader) Enabled() bool { return true }

// Upload sends one rendered short to YouTube and returns the resulting
// video id and URL.
func (u *YouTubeUploader) Upload(ctx context.Context, s *models.Short) (string, string, error) {
	if !s.Rendered() {
		return "", "", fmt.Errorf("short %s has no rendered output", s.ID)
	}

	ts := u.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: u.refreshToken})
	svc, err := yt.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return "", "", fmt.Errorf("youtube service: %w", err)
	}

	file, err := os.Open(s.OutputPath)
	if err != nil {
		return "", "", fmt.Errorf("open clip: %w", err)
	}
	defer file.Close()

	video := &yt.Video{
		Snippet: &yt.VideoSnippet{
			Title:       s.Title,
			Description: s.Description,
			Tags:        s.Tags,
			CategoryId:  u.categoryID,
		},
		Status: &yt.VideoStatus{
			PrivacyStatus: u.privacyStatus,
		},
	}

	resp, err := svc.Videos.Insert([]string{"snippet", "status"}, video).
		Media(file).
		Context(ctx).
		Do()
	if err != nil {
		return "", "", fmt.Errorf("upload: %w", err)
	}
	if resp.Id == "" {
		return "", "", fmt.Errorf("no video id returned from youtube")
	}
	return resp.Id, "https://youtube.com/shorts/" + resp.Id, nil
}
