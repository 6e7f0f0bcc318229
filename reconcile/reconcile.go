// Package reconcile maps external canonical references (IMDb ids with optional season and
// episode) onto catalog items and their flat episode numbering.
package reconcile

import (
	"context"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// candidates is how many search results are considered, in search order.
const candidates = 3

// Titles resolves an external id to a display title.
type Titles interface {
	Title(ctx context.Context, kind source.Kind, id string) mo.Option[string]
}

// Match is a catalog item and one of its episodes.
type Match struct {
	Item    *source.Item
	Episode *source.Episode
}

// Reconciler matches references against one catalog source.
type Reconciler struct {
	source source.Source
	titles Titles
}

// New returns a reconciler searching src with titles from titles.
func New(src source.Source, titles Titles) *Reconciler {
	return &Reconciler{source: src, titles: titles}
}

// Each walks the matches of ref in candidate order until visit returns true. It reports
// whether a visit accepted a match. kind is the kind the caller asked for; it decides both the
// metadata lookup and movie episode selection.
func (r *Reconciler) Each(ctx context.Context, kind source.Kind, ref Ref, visit func(Match) bool) bool {
	title, ok := r.titles.Title(ctx, kind, ref.ID).Get()
	if !ok {
		log.Infof("Could not get metadata for %s", ref)
		return false
	}

	log.Infof("Searching catalog for %q", title)
	results, err := r.source.Search(ctx, title)
	if err != nil || len(results) == 0 {
		log.Infof("No results found for %q", title)
		return false
	}

	for _, result := range lo.Slice(results, 0, candidates) {
		details, err := r.source.ItemOf(ctx, result.ID)
		if err != nil {
			log.Warnf("Skipping candidate %s: %v", result.ID, err)
			continue
		}

		if len(details.Episodes) == 0 {
			continue
		}

		if !TitleMatches(title, details.Title) {
			log.Debugf("Rejected %q for %q", details.Title, title)
			continue
		}

		episode := SelectEpisode(details, ref, kind)
		if episode == nil {
			continue
		}

		log.WithFields(map[string]any{
			"item":     details.ID,
			"episode":  episode.ID,
			"number":   episode.Label(),
			"distance": levenshtein.Distance(title, details.Title),
		}).Infof("Matched %s to %q", ref, details.Title)

		if visit(Match{Item: details, Episode: episode}) {
			return true
		}
	}

	return false
}

// Find returns the first match of ref.
func (r *Reconciler) Find(ctx context.Context, kind source.Kind, ref Ref) mo.Option[Match] {
	found := mo.None[Match]()
	r.Each(ctx, kind, ref, func(m Match) bool {
		found = mo.Some(m)
		return true
	})
	return found
}
