package model

// Wire shapes of the YouTube Data API v3 responses the proxy reads.
// Only the fields used by conversion and enrichment are declared.

const (
	resourceKindVideo    = "youtube#video"
	resourceKindPlaylist = "youtube#playlist"
	resourceKindChannel  = "youtube#channel"
)

// Titles and descriptions the platform substitutes for playlist members
// that can no longer be watched.
const (
	privateVideoTitle       = "Private video"
	privateVideoDescription = "This video is private."
	deletedVideoTitle       = "Deleted video"
	deletedVideoDescription = "This video is unavailable."
)

// SearchResponse is the body of a search.list call.
type SearchResponse struct {
	Items []SearchItem `json:"items"`
}

// SearchItem is a single search.list result.
type SearchItem struct {
	ID      ResourceID `json:"id"`
	Snippet Snippet    `json:"snippet"`
}

// ResourceID carries the kind discriminator and the id of the matching kind.
type ResourceID struct {
	Kind       string `json:"kind"`
	VideoID    string `json:"videoId,omitempty"`
	PlaylistID string `json:"playlistId,omitempty"`
	ChannelID  string `json:"channelId,omitempty"`
}

// Snippet holds the descriptive fields shared by search results and playlist items.
type Snippet struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelID    string     `json:"channelId"`
	ChannelTitle string     `json:"channelTitle"`
	Thumbnails   Thumbnails `json:"thumbnails"`
}

// Thumbnails lists the available thumbnail sizes.
type Thumbnails struct {
	Default  *Thumbnail `json:"default,omitempty"`
	Medium   *Thumbnail `json:"medium,omitempty"`
	High     *Thumbnail `json:"high,omitempty"`
	Standard *Thumbnail `json:"standard,omitempty"`
	Maxres   *Thumbnail `json:"maxres,omitempty"`
}

// Best picks the high resolution thumbnail, falling back to default and medium.
func (t Thumbnails) Best() Thumbnail {
	for _, candidate := range []*Thumbnail{t.High, t.Default, t.Medium} {
		if candidate != nil {
			return *candidate
		}
	}
	return Thumbnail{}
}

// VideoListResponse is the body of a videos.list call.
type VideoListResponse struct {
	Items []VideoDetail `json:"items"`
}

// VideoDetail is a videos.list item requested with part=contentDetails.
type VideoDetail struct {
	ID             string `json:"id"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

// PlaylistItemListResponse is the body of a playlistItems.list call.
type PlaylistItemListResponse struct {
	Items []PlaylistItem `json:"items"`
}

// PlaylistItem is a playlistItems.list item requested with part=contentDetails,snippet.
type PlaylistItem struct {
	Snippet        Snippet `json:"snippet"`
	ContentDetails struct {
		VideoID string `json:"videoId"`
	} `json:"contentDetails"`
}

// IsUnavailable reports whether the item is a private or deleted placeholder.
func (p PlaylistItem) IsUnavailable() bool {
	title, description := p.Snippet.Title, p.Snippet.Description
	switch {
	case title == privateVideoTitle && description == privateVideoDescription:
		return true
	case title == deletedVideoTitle && description == deletedVideoDescription:
		return true
	default:
		return false
	}
}
