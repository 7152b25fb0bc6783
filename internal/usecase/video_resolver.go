package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/tubeproxy/internal/domain/model"
	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/cache"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/youtube"
)

// VideoResolver enriches video stubs with upstream details and stores them in the video cache.
type VideoResolver interface {
	// ResolveMissing fetches details for videos and caches the enriched copies.
	// Ids already present in the cache are skipped. On error no video is cached.
	ResolveMissing(ctx context.Context, videos []model.Video) error
}

type videoResolver struct {
	platform repository.VideoPlatform
	videos   *cache.Store[model.Video]
	logger   *slog.Logger

	batchSize int
}

// NewVideoResolver creates a new VideoResolver instance.
func NewVideoResolver(
	platform repository.VideoPlatform,
	videos *cache.Store[model.Video],
	logger *slog.Logger,
) VideoResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &videoResolver{
		platform:  platform,
		videos:    videos,
		logger:    logger.With(slog.String("component", "video_resolver")),
		batchSize: youtube.MaxBatchSize,
	}
}

func (r *videoResolver) ResolveMissing(ctx context.Context, videos []model.Video) error {
	stubs := make(map[string]model.Video, len(videos))
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		if _, seen := stubs[v.ID]; seen || r.videos.Contains(v.ID) {
			continue
		}
		stubs[v.ID] = v
		ids = append(ids, v.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	// Every batch must succeed before anything is cached.
	details := make(map[string]model.VideoDetail, len(ids))
	for start := 0; start < len(ids); start += r.batchSize {
		end := min(start+r.batchSize, len(ids))

		batch, err := r.platform.VideoDetails(ctx, ids[start:end])
		if err != nil {
			return fmt.Errorf("fetch video details: %w", err)
		}
		for _, d := range batch {
			details[d.ID] = d
		}
	}

	enriched := make(map[string]model.Video, len(ids))
	for _, id := range ids {
		detail, ok := details[id]
		if !ok {
			r.logger.Warn("upstream omitted video details, skipping",
				slog.String("video_id", id),
				slog.Any("error", repository.ErrUpstreamShapeMismatch),
			)
			continue
		}
		enriched[id] = stubs[id].WithDetail(detail)
	}

	if err := r.videos.PutAll(ctx, enriched); err != nil {
		return fmt.Errorf("cache videos: %w", err)
	}

	r.logger.Debug("resolved videos",
		slog.Int("requested", len(ids)),
		slog.Int("resolved", len(enriched)),
	)
	return nil
}
