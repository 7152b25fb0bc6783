package model

// Kind identifies the variant of an Entity.
type Kind string

const (
	KindVideo    Kind = "video"
	KindPlaylist Kind = "playlist"
	KindChannel  Kind = "channel"
)

func (k Kind) String() string {
	return string(k)
}

// Entity is one converted search result: a Video, a Playlist or a Channel.
type Entity interface {
	Kind() Kind
	EntityID() string
}

// Thumbnail is passed through from the upstream platform without validation.
type Thumbnail struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// Channel is produced by conversion but never cached or enriched.
type Channel struct {
	Type        Kind      `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ID          string    `json:"id"`
	Thumbnail   Thumbnail `json:"thumbnail"`
}

func (c Channel) Kind() Kind       { return KindChannel }
func (c Channel) EntityID() string { return c.ID }

var (
	_ Entity = Video{}
	_ Entity = Playlist{}
	_ Entity = Channel{}
)
