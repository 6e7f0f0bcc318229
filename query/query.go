// Package query remembers the titles searched from the command line and suggests them back,
// fuzzy-matched and ranked by how often they were used.
package query

import (
	"cmp"
	"strings"
	"sync"

	"github.com/kissbridge/kissbridge/filesystem"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var (
	mu          sync.Mutex
	suggestions = make(map[string][]*record)
)

func enabled() bool {
	return viper.GetBool(key.SearchRememberQueries)
}

func load() map[string]*record {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*record)
	}
	return cached
}

// Remember records q in the history, adding weight to its rank when already known.
func Remember(q string, weight int) error {
	if !enabled() {
		return nil
	}

	q = sanitize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	cached := load()
	if r, ok := cached[q]; ok {
		r.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	clear(suggestions)
	return cacher.Set(cached)
}

// Suggest returns the best ranked remembered query matching q.
func Suggest(q string) mo.Option[string] {
	many := SuggestMany(q)
	if len(many) == 0 {
		return mo.None[string]()
	}
	return mo.Some(many[0])
}

// SuggestMany returns the remembered queries fuzzily matching q, best ranked first.
func SuggestMany(q string) []string {
	if !enabled() {
		return []string{}
	}

	q = sanitize(q)

	mu.Lock()
	defer mu.Unlock()

	records, ok := suggestions[q]
	if !ok {
		records = lo.Filter(lo.Values(load()), func(r *record, _ int) bool {
			return fuzzy.Match(q, r.Query)
		})
		rank(records)
		suggestions[q] = records
	}

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

// Forget wipes the history.
func Forget() error {
	mu.Lock()
	defer mu.Unlock()

	clear(suggestions)
	return cacher.Set(make(map[string]*record))
}

// rank orders by descending rank, then alphabetically so equal ranks are deterministic.
func rank(records []*record) {
	slices.SortFunc(records, func(a, b *record) int {
		if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
			return c
		}
		return strings.Compare(a.Query, b.Query)
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
