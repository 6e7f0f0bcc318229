// Package source defines the catalog domain model and the capabilities a catalog provider offers.
package source

import "context"

// Source is a catalog provider. Implementations translate their wire formats into the types
// of this package and report upstream trouble as errors; callers decide how to degrade.
type Source interface {
	// Name returns the provider name.
	Name() string

	// Search returns items matching a free-text query, optionally restricted to one category.
	Search(ctx context.Context, query string, categories ...Category) ([]*Item, error)

	// ItemOf returns the detailed record of an item, episodes included.
	ItemOf(ctx context.Context, id string) (*Item, error)

	// PlaybackOf returns the raw playback record of an episode, authorized with token.
	PlaybackOf(ctx context.Context, episodeID, token string) (*Playback, error)

	// SubtitlesOf returns the upstream subtitle entries of an episode, authorized with token.
	SubtitlesOf(ctx context.Context, episodeID, token string) ([]*SubtitleEntry, error)
}

// Category is a provider search category.
type Category struct {
	Code int
	Slug string
	Name string
	Kind Kind
}

// Playback is the decoded stream endpoint payload.
type Playback struct {
	Video      string `json:"Video"`
	ThirdParty string `json:"ThirdParty,omitempty"`
}

// SubtitleEntry is one upstream subtitle as delivered, before language normalization.
type SubtitleEntry struct {
	Src      string `json:"src"`
	Label    string `json:"label"`
	Language string `json:"language,omitempty"`
	Default  bool   `json:"default,omitempty"`
}

// Name returns the label, falling back to the language field.
func (s *SubtitleEntry) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Language
}
