package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/tubeproxy/internal/domain/model"
	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/cache"
)

// PlaylistResolver fills playlists with their enriched member videos and caches them.
type PlaylistResolver interface {
	// ResolveMissing resolves playlists in order and stops at the first failure.
	// Playlists resolved before the failure stay cached.
	ResolveMissing(ctx context.Context, playlists []model.Playlist) error
}

type playlistResolver struct {
	platform  repository.VideoPlatform
	resolver  VideoResolver
	videos    *cache.Store[model.Video]
	playlists *cache.Store[model.Playlist]
	logger    *slog.Logger

	sfGroup     singleflight.Group
	callTimeout time.Duration
}

// NewPlaylistResolver creates a new PlaylistResolver instance.
// callTimeout bounds one shared playlist resolution; zero means DefaultCallTimeout.
func NewPlaylistResolver(
	platform repository.VideoPlatform,
	resolver VideoResolver,
	videos *cache.Store[model.Video],
	playlists *cache.Store[model.Playlist],
	callTimeout time.Duration,
	logger *slog.Logger,
) PlaylistResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &playlistResolver{
		platform:    platform,
		resolver:    resolver,
		videos:      videos,
		playlists:   playlists,
		callTimeout: callTimeout,
		logger:      logger.With(slog.String("component", "playlist_resolver")),
	}
}

func (r *playlistResolver) ResolveMissing(ctx context.Context, playlists []model.Playlist) error {
	for _, playlist := range playlists {
		// Concurrent searches returning the same playlist share one resolution.
		_, err := doShared(ctx, &r.sfGroup, playlist.ID, r.callTimeout, func(ctx context.Context) (any, error) {
			return nil, r.resolve(ctx, playlist)
		})
		if err != nil {
			return fmt.Errorf("resolve playlist %s: %w", playlist.ID, err)
		}
	}
	return nil
}

func (r *playlistResolver) resolve(ctx context.Context, playlist model.Playlist) error {
	if r.playlists.Contains(playlist.ID) {
		return nil
	}

	items, err := r.platform.PlaylistItems(ctx, playlist.ID)
	if err != nil {
		return fmt.Errorf("fetch playlist items: %w", err)
	}

	members := make([]model.Video, 0, len(items))
	var missing []model.Video
	for _, item := range items {
		if item.IsUnavailable() || item.ContentDetails.VideoID == "" {
			continue
		}
		stub := model.NewVideoFromPlaylistItem(item)
		members = append(members, stub)
		if !r.videos.Contains(stub.ID) {
			missing = append(missing, stub)
		}
	}

	if err := r.resolver.ResolveMissing(ctx, missing); err != nil {
		return err
	}

	resolved := make([]model.Video, 0, len(members))
	for _, stub := range members {
		video, ok := r.videos.Get(stub.ID)
		if !ok {
			// Upstream returned no details for this member.
			r.logger.Warn("dropping unresolved playlist member",
				slog.String("playlist_id", playlist.ID),
				slog.String("video_id", stub.ID),
			)
			continue
		}
		resolved = append(resolved, video)
	}

	playlist.Videos = resolved
	if err := r.playlists.Put(ctx, playlist.ID, playlist); err != nil {
		return fmt.Errorf("cache playlist: %w", err)
	}

	r.logger.Debug("resolved playlist",
		slog.String("playlist_id", playlist.ID),
		slog.Int("item_count", len(items)),
		slog.Int("video_count", len(resolved)),
	)
	return nil
}
