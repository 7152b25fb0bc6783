package model

import "encoding/json"

const playlistURLPrefix = "https://www.youtube.com/playlist?list="

// Playlist represents an upstream playlist. Videos is empty until the playlist
// has been resolved, after which it only holds enriched videos.
type Playlist struct {
	Type        Kind      `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ID          string    `json:"id"`
	Thumbnail   Thumbnail `json:"thumbnail"`
	Videos      []Video   `json:"videos"`
	Channel     string    `json:"channel"`
	ChannelID   string    `json:"channelId"`
}

func (p Playlist) Kind() Kind       { return KindPlaylist }
func (p Playlist) EntityID() string { return p.ID }

// NewPlaylist builds a playlist stub with no videos.
func NewPlaylist(id string, snippet Snippet) Playlist {
	return Playlist{
		Type:        KindPlaylist,
		Title:       snippet.Title,
		Description: snippet.Description,
		URL:         playlistURLPrefix + id,
		ID:          id,
		Thumbnail:   snippet.Thumbnails.Best(),
		Videos:      []Video{},
		Channel:     snippet.ChannelTitle,
		ChannelID:   snippet.ChannelID,
	}
}

// MarshalJSON keeps "videos" an array even for a nil slice.
func (p Playlist) MarshalJSON() ([]byte, error) {
	type playlistJSON Playlist
	out := playlistJSON(p)
	if out.Videos == nil {
		out.Videos = []Video{}
	}
	return json.Marshal(out)
}
