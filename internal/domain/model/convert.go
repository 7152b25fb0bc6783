package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

const channelURLPrefix = "https://www.youtube.com/channel/"

// ErrMalformedResponse is returned when a raw search response cannot be decoded.
var ErrMalformedResponse = errors.New("malformed search response")

// ConvertSearchResponse maps a raw search.list body to entities in upstream order.
// Items of an unknown kind or without an id are dropped.
func ConvertSearchResponse(raw json.RawMessage) ([]Entity, error) {
	var resp SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	entities := make([]Entity, 0, len(resp.Items))
	for _, item := range resp.Items {
		switch {
		case item.ID.Kind == resourceKindVideo && item.ID.VideoID != "":
			entities = append(entities, NewVideo(item.ID.VideoID, item.Snippet))
		case item.ID.Kind == resourceKindPlaylist && item.ID.PlaylistID != "":
			entities = append(entities, NewPlaylist(item.ID.PlaylistID, item.Snippet))
		case item.ID.Kind == resourceKindChannel && item.ID.ChannelID != "":
			entities = append(entities, newChannel(item.ID.ChannelID, item.Snippet))
		}
	}
	return entities, nil
}

func newChannel(id string, snippet Snippet) Channel {
	return Channel{
		Type:        KindChannel,
		Title:       snippet.Title,
		Description: snippet.Description,
		URL:         channelURLPrefix + id,
		ID:          id,
		Thumbnail:   snippet.Thumbnails.Best(),
	}
}
