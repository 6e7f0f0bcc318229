// Package bridge wires the catalog, token, resolution and reconciliation layers together and
// answers requests addressed by public identifiers, either "kisskh:" ids or IMDb references.
package bridge

import (
	"context"
	"strings"

	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/metadata/cinemeta"
	"github.com/kissbridge/kissbridge/provider"
	"github.com/kissbridge/kissbridge/reconcile"
	"github.com/kissbridge/kissbridge/relay"
	"github.com/kissbridge/kissbridge/resolve"
	"github.com/kissbridge/kissbridge/source"
	"github.com/kissbridge/kissbridge/token"
	"github.com/kissbridge/kissbridge/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// DefaultTerms are searched to fill a catalog listing when no query is given.
var DefaultTerms = []string{"2024", "2025", "love", "drama"}

// perTerm caps how many results of each default term are looked at.
const perTerm = 10

// Bridge answers catalog, stream and subtitle requests.
type Bridge struct {
	source     source.Source
	resolver   *resolve.Resolver
	reconciler *reconcile.Reconciler
	tokens     *token.Deriver
}

// New assembles a bridge from its parts.
func New(src source.Source, resolver *resolve.Resolver, reconciler *reconcile.Reconciler, tokens *token.Deriver) *Bridge {
	return &Bridge{source: src, resolver: resolver, reconciler: reconciler, tokens: tokens}
}

// FromConfig builds the production bridge from configuration.
func FromConfig() *Bridge {
	fetcher := fetch.FromConfig()
	base := viper.GetString(key.UpstreamBaseURL)
	tokens := token.FromConfig(fetcher)
	src := provider.Default().CreateSource(fetcher)

	resolver := resolve.New(
		src,
		tokens,
		relay.FromConfig(),
		resolve.WithOrigin(base),
		resolve.WithLanguage(viper.GetString(key.SubtitlesLanguage)),
	)

	return New(src, resolver, reconcile.New(src, cinemeta.FromConfig()), tokens)
}

// Source returns the catalog source.
func (b *Bridge) Source() source.Source {
	return b.source
}

// Resolver returns the stream resolver.
func (b *Bridge) Resolver() *resolve.Resolver {
	return b.resolver
}

// Tokens returns the token deriver.
func (b *Bridge) Tokens() *token.Deriver {
	return b.tokens
}

// Streams resolves streams for a "kisskh:" id, or an IMDb reference through reconciliation.
// kind is the kind the consumer asked for.
func (b *Bridge) Streams(ctx context.Context, kind source.Kind, id string) []*source.Stream {
	if series, episode, ok := ParseID(id); ok {
		if episode == "" {
			if episode, ok = b.resolver.DefaultEpisode(ctx, series); !ok {
				return nil
			}
		}
		return b.resolver.Streams(ctx, series, episode)
	}

	ref, ok := reconcile.ParseRef(id)
	if !ok {
		log.Warnf("Cannot resolve id %q", id)
		return nil
	}

	var streams []*source.Stream
	b.reconciler.Each(ctx, kind, ref, func(m reconcile.Match) bool {
		streams = b.resolver.Streams(ctx, m.Item.ID, m.Episode.ID)
		for _, s := range streams {
			s.Title = m.Item.Title + "\n" + s.Title
		}
		return len(streams) > 0
	})

	log.Infof("Returning %s for %s", util.Quantify(len(streams), "stream", "streams"), id)
	return streams
}

// Subtitles lists every subtitle track of the episode id addresses.
func (b *Bridge) Subtitles(ctx context.Context, kind source.Kind, id string) []*source.Subtitle {
	episode, ok := b.episodeOf(ctx, kind, id)
	if !ok {
		return nil
	}

	return b.resolver.Subtitles(ctx, episode)
}

// Item returns the detailed record behind a "kisskh:" id.
func (b *Bridge) Item(ctx context.Context, id string) mo.Option[*source.Item] {
	series, _, ok := ParseID(id)
	if !ok {
		return mo.None[*source.Item]()
	}

	item, err := b.source.ItemOf(ctx, series)
	if err != nil {
		log.Errorf("Error fetching series %s: %v", series, err)
		return mo.None[*source.Item]()
	}

	return mo.Some(item)
}

// Listing describes one catalog page request.
type Listing struct {
	Category mo.Option[source.Category]
	Kind     source.Kind
	Search   string
	Skip     int
	Limit    int
}

// Catalog lists detailed items of the requested kind. A search lists every match; without one
// the default terms are walked until Limit distinct items are found.
func (b *Bridge) Catalog(ctx context.Context, l Listing) []*source.Item {
	categories := lo.Ternary(l.Category.IsPresent(), []source.Category{l.Category.OrEmpty()}, nil)

	var items []*source.Item
	seen := make(map[string]bool)

	add := func(result *source.Item) {
		if seen[result.ID] {
			return
		}
		seen[result.ID] = true

		details, err := b.source.ItemOf(ctx, result.ID)
		if err != nil {
			log.Warnf("Skipping %s: %v", result.ID, err)
			return
		}
		if details.Kind == l.Kind {
			items = append(items, details)
		}
	}

	full := func() bool {
		return l.Limit > 0 && len(items) >= l.Skip+l.Limit
	}

	if search := strings.TrimSpace(l.Search); search != "" {
		results, err := b.source.Search(ctx, search, categories...)
		if err != nil {
			log.Errorf("Catalog search failed: %v", err)
		}
		for _, result := range results {
			add(result)
			if full() {
				break
			}
		}
	} else {
	terms:
		for _, term := range DefaultTerms {
			results, err := b.source.Search(ctx, term, categories...)
			if err != nil {
				log.Errorf("Catalog search for %q failed: %v", term, err)
				continue
			}
			for _, result := range lo.Slice(results, 0, perTerm) {
				add(result)
				if full() {
					break terms
				}
			}
		}
	}

	items = lo.Slice(items, l.Skip, len(items))
	if l.Limit > 0 {
		items = lo.Slice(items, 0, l.Limit)
	}

	return items
}

func (b *Bridge) episodeOf(ctx context.Context, kind source.Kind, id string) (string, bool) {
	if series, episode, ok := ParseID(id); ok {
		if episode != "" {
			return episode, true
		}
		return b.resolver.DefaultEpisode(ctx, series)
	}

	ref, ok := reconcile.ParseRef(id)
	if !ok {
		return "", false
	}

	match, ok := b.reconciler.Find(ctx, kind, ref).Get()
	if !ok {
		return "", false
	}

	return match.Episode.ID, true
}
