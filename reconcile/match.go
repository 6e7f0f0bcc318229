package reconcile

import (
	"strings"

	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/lo"
)

// TitleMatches reports whether a catalog title plausibly names the work the query names.
// Containment either way is enough; otherwise at least min(2, query words) query words must
// share a substring relation with some candidate word.
func TitleMatches(query, candidate string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	candidate = strings.ToLower(strings.TrimSpace(candidate))

	if query == "" || candidate == "" {
		return false
	}

	if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
		return true
	}

	queryWords := strings.Fields(query)
	candidateWords := strings.Fields(candidate)

	matching := lo.CountBy(queryWords, func(w string) bool {
		return lo.SomeBy(candidateWords, func(cw string) bool {
			return strings.Contains(cw, w) || strings.Contains(w, cw)
		})
	})

	return matching >= min(2, len(queryWords))
}

// SelectEpisode picks the episode of item that ref addresses. Movies, and references without
// season and episode, get the numerically smallest episode. Series references try an exact
// episode number first, then the requested number as a 1-based position in numeric order.
// The season is not used to offset the number.
func SelectEpisode(item *source.Item, ref Ref, kind source.Kind) *source.Episode {
	sorted := item.SortedEpisodes()
	if len(sorted) == 0 {
		return nil
	}

	if kind == source.Movie || ref.IsMovie() {
		return sorted[0]
	}

	season, hasSeason := ref.Season.Get()
	episode, hasEpisode := ref.Episode.Get()
	if !hasSeason || !hasEpisode {
		return nil
	}

	if exact, ok := lo.Find(sorted, func(e *source.Episode) bool {
		return e.Number == float64(episode)
	}); ok {
		return exact
	}

	if season > 1 {
		log.Infof("Episode %d not found, %q might be a multi-season show", episode, item.Title)
	}

	if episode <= len(sorted) {
		return sorted[episode-1]
	}

	return nil
}
