package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hszk-dev/tubeproxy/internal/domain/model"
	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/cache"
)

// mockVideoPlatform provides a configurable mock for VideoPlatform.
type mockVideoPlatform struct {
	searchFn        func(ctx context.Context, query string) (json.RawMessage, error)
	videoDetailsFn  func(ctx context.Context, ids []string) ([]model.VideoDetail, error)
	playlistItemsFn func(ctx context.Context, playlistID string) ([]model.PlaylistItem, error)

	searchCount        atomic.Int32
	videoDetailsCount  atomic.Int32
	playlistItemsCount atomic.Int32

	mu           sync.Mutex
	requestedIDs []string
}

func (m *mockVideoPlatform) Search(ctx context.Context, query string) (json.RawMessage, error) {
	m.searchCount.Add(1)
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return json.RawMessage(`{"items":[]}`), nil
}

func (m *mockVideoPlatform) VideoDetails(ctx context.Context, ids []string) ([]model.VideoDetail, error) {
	m.videoDetailsCount.Add(1)
	m.mu.Lock()
	m.requestedIDs = append(m.requestedIDs, ids...)
	m.mu.Unlock()
	if m.videoDetailsFn != nil {
		return m.videoDetailsFn(ctx, ids)
	}
	return detailsFor(ids, "PT1M"), nil
}

func (m *mockVideoPlatform) PlaylistItems(ctx context.Context, playlistID string) ([]model.PlaylistItem, error) {
	m.playlistItemsCount.Add(1)
	if m.playlistItemsFn != nil {
		return m.playlistItemsFn(ctx, playlistID)
	}
	return nil, nil
}

func (m *mockVideoPlatform) requested() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requestedIDs...)
}

// mockSnapshotStore is an in-memory SnapshotStore.
type mockSnapshotStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	saveFn func(ctx context.Context, name string, data []byte) error
}

func newMockSnapshotStore() *mockSnapshotStore {
	return &mockSnapshotStore{data: make(map[string][]byte)}
}

func (m *mockSnapshotStore) Load(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[name]
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}
	return data, nil
}

func (m *mockSnapshotStore) Save(ctx context.Context, name string, data []byte) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, name, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = append([]byte(nil), data...)
	return nil
}

// testStores bundles the three caches backed by one in-memory snapshot store.
type testStores struct {
	snapshots *mockSnapshotStore
	queries   *cache.Store[json.RawMessage]
	videos    *cache.Store[model.Video]
	playlists *cache.Store[model.Playlist]
}

func newTestStores() *testStores {
	snapshots := newMockSnapshotStore()
	return &testStores{
		snapshots: snapshots,
		queries:   cache.NewStore[json.RawMessage]("querycache", snapshots, nil),
		videos:    cache.NewStore[model.Video]("videocache", snapshots, nil),
		playlists: cache.NewStore[model.Playlist]("playlistcache", snapshots, nil),
	}
}

func newTestSearchService(platform *mockVideoPlatform, stores *testStores) SearchService {
	videoResolver := NewVideoResolver(platform, stores.videos, nil)
	playlistResolver := NewPlaylistResolver(platform, videoResolver, stores.videos, stores.playlists, 0, nil)
	return NewSearchService(SearchServiceDeps{
		Platform:         platform,
		Queries:          stores.queries,
		Videos:           stores.videos,
		Playlists:        stores.playlists,
		VideoResolver:    videoResolver,
		PlaylistResolver: playlistResolver,
	}, nil)
}

func detailsFor(ids []string, duration string) []model.VideoDetail {
	details := make([]model.VideoDetail, 0, len(ids))
	for _, id := range ids {
		var d model.VideoDetail
		d.ID = id
		d.ContentDetails.Duration = duration
		details = append(details, d)
	}
	return details
}

func stubVideo(id string) model.Video {
	return model.NewVideo(id, model.Snippet{Title: "Video " + id})
}

func playlistItem(videoID, title, description string) model.PlaylistItem {
	var item model.PlaylistItem
	item.Snippet = model.Snippet{Title: title, Description: description}
	item.ContentDetails.VideoID = videoID
	return item
}

// searchBody renders a search.list body. Each entry is "kind:id" with kind
// being video, playlist, channel or any other string for an unknown kind.
func searchBody(entries ...string) json.RawMessage {
	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		kind, id, _ := strings.Cut(entry, ":")
		var idJSON string
		switch kind {
		case "video":
			idJSON = fmt.Sprintf(`{"kind":"youtube#video","videoId":%q}`, id)
		case "playlist":
			idJSON = fmt.Sprintf(`{"kind":"youtube#playlist","playlistId":%q}`, id)
		case "channel":
			idJSON = fmt.Sprintf(`{"kind":"youtube#channel","channelId":%q}`, id)
		default:
			idJSON = fmt.Sprintf(`{"kind":"youtube#%s"}`, kind)
		}
		items = append(items, fmt.Sprintf(`{"id":%s,"snippet":{"title":"Title %s"}}`, idJSON, id))
	}
	return json.RawMessage(`{"items":[` + strings.Join(items, ",") + `]}`)
}
