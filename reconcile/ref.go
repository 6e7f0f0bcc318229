package reconcile

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kissbridge/kissbridge/source"
	"github.com/kissbridge/kissbridge/util"
	"github.com/samber/mo"
)

var refPattern = regexp.MustCompile(`^(?P<id>tt\d+)(?::(?P<season>\d+):(?P<episode>\d+))?$`)

// Ref is an external canonical reference: an IMDb id, with season and episode for series.
type Ref struct {
	ID      string
	Season  mo.Option[int]
	Episode mo.Option[int]
}

// ParseRef parses "tt<digits>" or "tt<digits>:<season>:<episode>". Season and episode must be
// positive.
func ParseRef(s string) (Ref, bool) {
	groups := util.ReGroups(refPattern, s)
	if groups == nil {
		return Ref{}, false
	}

	ref := Ref{
		ID:      groups["id"],
		Season:  mo.None[int](),
		Episode: mo.None[int](),
	}

	if groups["season"] == "" {
		return ref, true
	}

	season, err := strconv.Atoi(groups["season"])
	if err != nil || season < 1 {
		return Ref{}, false
	}

	episode, err := strconv.Atoi(groups["episode"])
	if err != nil || episode < 1 {
		return Ref{}, false
	}

	ref.Season = mo.Some(season)
	ref.Episode = mo.Some(episode)
	return ref, true
}

// IsMovie reports whether the reference names no episode.
func (r Ref) IsMovie() bool {
	return r.Season.IsAbsent() && r.Episode.IsAbsent()
}

// Kind is the metadata kind implied by the reference form.
func (r Ref) Kind() source.Kind {
	if r.IsMovie() {
		return source.Movie
	}
	return source.Series
}

func (r Ref) String() string {
	season, ok := r.Season.Get()
	if !ok {
		return r.ID
	}
	return fmt.Sprintf("%s:%d:%d", r.ID, season, r.Episode.OrEmpty())
}
