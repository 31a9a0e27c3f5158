package publish

import (
	"context"
	"errors"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
)

// Publisher uploads rendered shorts to an external platform. Publish
// failures are recorded per short and never fail the owning job; when
// Enabled is false the orchestrator skips the uploading stage entirely.
type Publisher interface {
	Enabled() bool
	Upload(ctx context.Context, s *models.Short) (videoID, videoURL string, err error)
}

// Disabled is the publisher used when no credential is configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Upload(context.Context, *models.Short) (string, string, error) {
	return "", "", errors.New("publishing is not configured")
}
