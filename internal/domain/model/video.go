package model

const videoURLPrefix = "https://www.youtube.com/watch?v="

// Duration is the length of a video split into its display fields.
// The zero value marks a video whose details have not been fetched yet.
type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// IsZero reports whether no field is set.
func (d Duration) IsZero() bool {
	return d == Duration{}
}

// Video represents a single upstream video.
// ID is the platform's stable identifier and the video cache key.
type Video struct {
	Type        Kind      `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ID          string    `json:"id"`
	Thumbnail   Thumbnail `json:"thumbnail"`
	Channel     string    `json:"channel"`
	ChannelID   string    `json:"channelId"`
	Duration    Duration  `json:"duration"`
}

func (v Video) Kind() Kind       { return KindVideo }
func (v Video) EntityID() string { return v.ID }

// NewVideo builds a video stub with a zero duration.
func NewVideo(id string, snippet Snippet) Video {
	return Video{
		Type:        KindVideo,
		Title:       snippet.Title,
		Description: snippet.Description,
		URL:         videoURLPrefix + id,
		ID:          id,
		Thumbnail:   snippet.Thumbnails.Best(),
		Channel:     snippet.ChannelTitle,
		ChannelID:   snippet.ChannelID,
	}
}

// NewVideoFromPlaylistItem builds a stub for a playlist member.
func NewVideoFromPlaylistItem(item PlaylistItem) Video {
	return NewVideo(item.ContentDetails.VideoID, item.Snippet)
}

// WithDetail returns a copy of v enriched with the fetched details.
func (v Video) WithDetail(detail VideoDetail) Video {
	v.Duration = ParseDuration(detail.ContentDetails.Duration)
	return v
}
