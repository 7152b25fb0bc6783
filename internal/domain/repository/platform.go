package repository

import (
	"context"
	"encoding/json"

	"github.com/hszk-dev/tubeproxy/internal/domain/model"
)

// VideoPlatform defines the read-only calls made against the upstream video platform.
// Implementations should be provided by the infrastructure layer (e.g., YouTube Data API).
type VideoPlatform interface {
	// Search runs a text search and returns the raw response body.
	Search(ctx context.Context, query string) (json.RawMessage, error)

	// VideoDetails fetches content details for up to MaxBatchSize ids in one call.
	// Ids the platform does not know are absent from the result.
	VideoDetails(ctx context.Context, ids []string) ([]model.VideoDetail, error)

	// PlaylistItems returns the first page of members of a playlist.
	PlaylistItems(ctx context.Context, playlistID string) ([]model.PlaylistItem, error)
}
