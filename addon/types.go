package addon

// Manifest describes the addon to the player.
type Manifest struct {
	ID            string         `json:"id"`
	Version       string         `json:"version"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Logo          string         `json:"logo,omitempty"`
	Resources     []string       `json:"resources"`
	Types         []string       `json:"types"`
	Catalogs      []Catalog      `json:"catalogs"`
	IDPrefixes    []string       `json:"idPrefixes"`
	BehaviorHints ManifestHints  `json:"behaviorHints"`
}

// ManifestHints are addon-wide hints.
type ManifestHints struct {
	Adult bool `json:"adult"`
	P2P   bool `json:"p2p"`
}

// Catalog is one browsable listing.
type Catalog struct {
	Type  string  `json:"type"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Extra []Extra `json:"extra,omitempty"`
}

// Extra is an optional catalog argument.
type Extra struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired"`
}

// Meta is a catalog entry, with videos when detailed.
type Meta struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Poster      string   `json:"poster,omitempty"`
	Background  string   `json:"background,omitempty"`
	Description string   `json:"description,omitempty"`
	ReleaseInfo string   `json:"releaseInfo,omitempty"`
	IMDbRating  *string  `json:"imdbRating"`
	Genres      []string `json:"genres"`
	Country     string   `json:"country,omitempty"`
	Videos      []Video  `json:"videos,omitempty"`
}

// Video is one episode of a series meta.
type Video struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Season   int    `json:"season"`
	Episode  int    `json:"episode"`
	Released string `json:"released,omitempty"`
}

// Stream is a playable source.
type Stream struct {
	Name          string      `json:"name"`
	Title         string      `json:"title"`
	URL           string      `json:"url"`
	Subtitles     []Subtitle  `json:"subtitles"`
	BehaviorHints StreamHints `json:"behaviorHints"`
}

// StreamHints tell the player how to treat a stream.
type StreamHints struct {
	BingeGroup        string        `json:"bingeGroup"`
	NotWebReady       bool          `json:"notWebReady,omitempty"`
	AudioLanguages    []string      `json:"audioLanguages,omitempty"`
	SubtitleLanguages []string      `json:"subtitleLanguages,omitempty"`
	ProxyHeaders      *ProxyHeaders `json:"proxyHeaders,omitempty"`
}

// ProxyHeaders are headers the player must send when fetching the stream.
type ProxyHeaders struct {
	Request map[string]string `json:"request"`
}

// Subtitle is an external subtitle track.
type Subtitle struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Lang string `json:"lang"`
}
