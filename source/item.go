package source

import (
	"strings"
)

// Kind classifies an item as a movie or a series.
type Kind string

const (
	Movie  Kind = "movie"
	Series Kind = "series"
)

// Item is a titled work in the catalog.
type Item struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Kind          Kind       `json:"kind"`
	ReleaseDate   string     `json:"releaseDate,omitempty"`
	Description   string     `json:"description,omitempty"`
	Country       string     `json:"country,omitempty"`
	Status        string     `json:"status,omitempty"`
	Thumbnail     string     `json:"thumbnail,omitempty"`
	Genres        []string   `json:"genres,omitempty"`
	Rating        string     `json:"rating,omitempty"`
	EpisodesCount int        `json:"episodesCount,omitempty"`
	Episodes      []*Episode `json:"episodes,omitempty"`
}

func (i *Item) String() string {
	return i.Title
}

// ClassifyKind maps the upstream type string and episode count to a Kind.
// Single-episode items are movies whatever the upstream says.
func ClassifyKind(upstreamType string, episodesCount int) Kind {
	if strings.EqualFold(upstreamType, "movie") || episodesCount == 1 {
		return Movie
	}
	return Series
}

// Year extracts the year from an ISO-like release date, "" when absent.
func (i *Item) Year() string {
	date, _, _ := strings.Cut(i.ReleaseDate, "T")
	year, _, _ := strings.Cut(date, "-")
	return year
}

// SortedEpisodes returns the episodes in numeric order without touching Episodes.
func (i *Item) SortedEpisodes() []*Episode {
	return SortEpisodes(i.Episodes)
}

// FirstEpisode returns the numerically smallest episode, nil when there is none.
func (i *Item) FirstEpisode() *Episode {
	sorted := i.SortedEpisodes()
	if len(sorted) == 0 {
		return nil
	}
	return sorted[0]
}
