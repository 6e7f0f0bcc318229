package source

import (
	"cmp"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Episode addresses one playable unit of an Item. Numbers are decimals because catalogs
// number specials as 1.5 and skip values freely.
type Episode struct {
	ID      string  `json:"id"`
	Number  float64 `json:"number"`
	Created string  `json:"created,omitempty"`
}

// Label renders the number without trailing zeros: 1, 1.5, 10.
func (e *Episode) Label() string {
	return strconv.FormatFloat(e.Number, 'f', -1, 64)
}

func (e *Episode) String() string {
	return "Episode " + e.Label()
}

// ParseEpisodeNumber parses an upstream episode number. Garbage parses as 0.
func ParseEpisodeNumber(raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return n
}

// SortEpisodes returns a copy ordered by numeric episode number. Equal numbers keep their
// upstream order.
func SortEpisodes(episodes []*Episode) []*Episode {
	sorted := slices.Clone(episodes)
	slices.SortStableFunc(sorted, func(a, b *Episode) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return sorted
}
