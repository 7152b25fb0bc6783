package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/tubeproxy/internal/domain/model"
	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/cache"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/metrics"
)

// SearchService defines the interface for search operations.
type SearchService interface {
	// Search returns the entities matching query in upstream order, with videos
	// and playlists replaced by their enriched cached copies.
	// The query is used verbatim as the cache key.
	Search(ctx context.Context, query string) ([]model.Entity, error)
}

type searchService struct {
	platform  repository.VideoPlatform
	queries   *cache.Store[json.RawMessage]
	videos    *cache.Store[model.Video]
	playlists *cache.Store[model.Playlist]

	videoResolver    VideoResolver
	playlistResolver PlaylistResolver

	logger      *slog.Logger
	sfGroup     singleflight.Group
	callTimeout time.Duration
}

// SearchServiceDeps groups the collaborators of SearchService.
type SearchServiceDeps struct {
	Platform         repository.VideoPlatform
	Queries          *cache.Store[json.RawMessage]
	Videos           *cache.Store[model.Video]
	Playlists        *cache.Store[model.Playlist]
	VideoResolver    VideoResolver
	PlaylistResolver PlaylistResolver

	// CallTimeout bounds a shared upstream search. Zero means DefaultCallTimeout.
	CallTimeout time.Duration
}

// NewSearchService creates a new SearchService instance.
func NewSearchService(deps SearchServiceDeps, logger *slog.Logger) SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{
		platform:         deps.Platform,
		queries:          deps.Queries,
		videos:           deps.Videos,
		playlists:        deps.Playlists,
		videoResolver:    deps.VideoResolver,
		playlistResolver: deps.PlaylistResolver,
		callTimeout:      deps.CallTimeout,
		logger:           logger.With(slog.String("component", "search")),
	}
}

func (s *searchService) Search(ctx context.Context, query string) ([]model.Entity, error) {
	raw, err := s.rawResult(ctx, query)
	if err != nil {
		return nil, err
	}

	entities, err := model.ConvertSearchResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUpstreamShapeMismatch, err)
	}

	var videoMisses []model.Video
	var playlistMisses []model.Playlist
	for _, entity := range entities {
		switch e := entity.(type) {
		case model.Video:
			if !s.videos.Contains(e.ID) {
				videoMisses = append(videoMisses, e)
			}
		case model.Playlist:
			if !s.playlists.Contains(e.ID) {
				playlistMisses = append(playlistMisses, e)
			}
		}
	}

	// Videos first, so playlist members already returned by the search are cache hits.
	if err := s.videoResolver.ResolveMissing(ctx, videoMisses); err != nil {
		return nil, fmt.Errorf("resolve videos: %w", err)
	}
	if err := s.playlistResolver.ResolveMissing(ctx, playlistMisses); err != nil {
		return nil, fmt.Errorf("resolve playlists: %w", err)
	}

	result := make([]model.Entity, 0, len(entities))
	for _, entity := range entities {
		result = append(result, s.substitute(entity))
	}
	return result, nil
}

// rawResult returns the cached search response for query, fetching and caching it on a miss.
func (s *searchService) rawResult(ctx context.Context, query string) (json.RawMessage, error) {
	if raw, ok := s.queries.Get(query); ok {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.CacheStatusHit).Inc()
		return raw, nil
	}
	metrics.SearchRequestsTotal.WithLabelValues(metrics.CacheStatusMiss).Inc()

	result, err := doShared(ctx, &s.sfGroup, query, s.callTimeout, func(ctx context.Context) (any, error) {
		if raw, ok := s.queries.Get(query); ok {
			return raw, nil
		}

		raw, err := s.platform.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search upstream: %w", err)
		}
		if _, err := model.ConvertSearchResponse(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrUpstreamShapeMismatch, err)
		}

		if err := s.queries.Put(ctx, query, raw); err != nil {
			return nil, fmt.Errorf("cache search result: %w", err)
		}
		s.logger.Debug("cached search result", slog.String("query", query))
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

func (s *searchService) substitute(entity model.Entity) model.Entity {
	switch e := entity.(type) {
	case model.Video:
		if cached, ok := s.videos.Get(e.ID); ok {
			return cached
		}
	case model.Playlist:
		if cached, ok := s.playlists.Get(e.ID); ok {
			return cached
		}
	}
	return entity
}
