package source

// Transport tells the player how to consume a stream URL.
type Transport string

const (
	HLS    Transport = "hls"
	Direct Transport = "direct"
)

// Stream is a resolved, playable URL.
type Stream struct {
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Quality    string    `json:"quality"`
	Transport  Transport `json:"transport"`
	Relayed    bool      `json:"relayed"`
	BingeGroup string    `json:"bingeGroup"`
	Language   string    `json:"language"`
	// Headers must accompany player requests to a direct URL.
	Headers   map[string]string `json:"headers,omitempty"`
	Subtitles []*Subtitle       `json:"subtitles"`
}

// NotWebReady reports whether a browser player cannot open the URL as-is.
func (s *Stream) NotWebReady() bool {
	return !s.Relayed && s.Transport == HLS
}

// Subtitle is a subtitle track with a normalized two-letter language code.
type Subtitle struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Lang string `json:"lang"`
}
