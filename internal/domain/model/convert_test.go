package model

import (
	"encoding/json"
	"errors"
	"testing"
)

const searchFixture = `{
  "kind": "youtube#searchListResponse",
  "items": [
    {
      "id": {"kind": "youtube#video", "videoId": "v1"},
      "snippet": {
        "title": "Cat video",
        "description": "A cat",
        "channelId": "UC1",
        "channelTitle": "Cats Inc",
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/v1/default.jpg", "width": 120, "height": 90},
          "high": {"url": "https://i.ytimg.com/vi/v1/hqdefault.jpg", "width": 480, "height": 360}
        }
      }
    },
    {
      "id": {"kind": "youtube#channel", "channelId": "UC1"},
      "snippet": {"title": "Cats Inc", "description": "All cats", "channelId": "UC1", "channelTitle": "Cats Inc",
        "thumbnails": {"default": {"url": "https://yt3.ggpht.com/c.jpg"}}}
    },
    {
      "id": {"kind": "youtube#playlist", "playlistId": "PL1"},
      "snippet": {"title": "Best cats", "description": "List", "channelId": "UC1", "channelTitle": "Cats Inc",
        "thumbnails": {"default": {"url": "https://i.ytimg.com/pl.jpg", "width": 120, "height": 90}}}
    },
    {
      "id": {"kind": "youtube#short", "videoId": "s1"},
      "snippet": {"title": "Unknown"}
    }
  ]
}`

func TestConvertSearchResponse(t *testing.T) {
	entities, err := ConvertSearchResponse(json.RawMessage(searchFixture))
	if err != nil {
		t.Fatalf("ConvertSearchResponse failed: %v", err)
	}

	if len(entities) != 3 {
		t.Fatalf("len(entities) = %d, want 3", len(entities))
	}

	wantKinds := []Kind{KindVideo, KindChannel, KindPlaylist}
	wantIDs := []string{"v1", "UC1", "PL1"}
	for i, e := range entities {
		if e.Kind() != wantKinds[i] {
			t.Errorf("entities[%d].Kind() = %v, want %v", i, e.Kind(), wantKinds[i])
		}
		if e.EntityID() != wantIDs[i] {
			t.Errorf("entities[%d].EntityID() = %v, want %v", i, e.EntityID(), wantIDs[i])
		}
	}

	video := entities[0].(Video)
	if video.Type != KindVideo {
		t.Errorf("Type = %v, want video", video.Type)
	}
	if video.URL != "https://www.youtube.com/watch?v=v1" {
		t.Errorf("URL = %v", video.URL)
	}
	if video.Thumbnail.URL != "https://i.ytimg.com/vi/v1/hqdefault.jpg" {
		t.Errorf("Thumbnail.URL = %v, want high thumbnail", video.Thumbnail.URL)
	}
	if video.Channel != "Cats Inc" || video.ChannelID != "UC1" {
		t.Errorf("Channel = %q/%q", video.Channel, video.ChannelID)
	}
	if !video.Duration.IsZero() {
		t.Errorf("Duration = %+v, want zero", video.Duration)
	}

	playlist := entities[2].(Playlist)
	if playlist.URL != "https://www.youtube.com/playlist?list=PL1" {
		t.Errorf("URL = %v", playlist.URL)
	}
	if playlist.Videos == nil || len(playlist.Videos) != 0 {
		t.Errorf("Videos = %v, want empty non-nil slice", playlist.Videos)
	}
	if playlist.Thumbnail.URL != "https://i.ytimg.com/pl.jpg" {
		t.Errorf("Thumbnail.URL = %v, want default thumbnail", playlist.Thumbnail.URL)
	}

	channel := entities[1].(Channel)
	if channel.URL != "https://www.youtube.com/channel/UC1" {
		t.Errorf("URL = %v", channel.URL)
	}
}

func TestConvertSearchResponse_Empty(t *testing.T) {
	entities, err := ConvertSearchResponse(json.RawMessage(`{"items": []}`))
	if err != nil {
		t.Fatalf("ConvertSearchResponse failed: %v", err)
	}
	if entities == nil || len(entities) != 0 {
		t.Errorf("entities = %v, want empty slice", entities)
	}
}

func TestConvertSearchResponse_Malformed(t *testing.T) {
	_, err := ConvertSearchResponse(json.RawMessage(`{"items": "nope"`))
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestConvertSearchResponse_DropsItemsWithoutID(t *testing.T) {
	raw := json.RawMessage(`{"items": [
		{"id": {"kind": "youtube#video"}, "snippet": {"title": "No video id"}},
		{"id": {"kind": "youtube#playlist", "playlistId": ""}, "snippet": {"title": "No playlist id"}},
		{"id": {"kind": "youtube#channel"}, "snippet": {"title": "No channel id"}},
		{"id": {"kind": "youtube#video", "videoId": "v1"}, "snippet": {"title": "Kept"}}
	]}`)

	entities, err := ConvertSearchResponse(raw)
	if err != nil {
		t.Fatalf("ConvertSearchResponse failed: %v", err)
	}
	if len(entities) != 1 || entities[0].EntityID() != "v1" {
		t.Errorf("entities = %+v, want only v1", entities)
	}
}
