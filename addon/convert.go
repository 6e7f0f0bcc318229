package addon

import (
	"fmt"
	"math"
	"strings"

	"github.com/kissbridge/kissbridge/bridge"
	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/lang"
	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/lo"
)

var searchExtras = []Extra{
	{Name: "search"},
	{Name: "skip"},
}

func catalogID(c source.Category) string {
	return "kisskh-" + c.Slug
}

// NewManifest describes an addon serving categories with subtitles in language.
func NewManifest(categories []source.Category, language lang.Language) *Manifest {
	name := constant.AddonName
	if flag := language.Flag(); flag != "" {
		name += " " + flag
	}

	return &Manifest{
		ID:          constant.AddonID,
		Version:     constant.Version,
		Name:        name,
		Description: fmt.Sprintf(constant.AddonDescription, language.English),
		Logo:        constant.AddonLogo,
		Resources:   []string{"catalog", "meta", "stream", "subtitles"},
		Types:       []string{string(source.Movie), string(source.Series)},
		Catalogs: lo.Map(categories, func(c source.Category, _ int) Catalog {
			return Catalog{
				Type:  string(c.Kind),
				ID:    catalogID(c),
				Name:  constant.AddonName + " " + c.Name,
				Extra: searchExtras,
			}
		}),
		IDPrefixes: []string{constant.IDPrefix, constant.ExternalIDPrefix},
	}
}

// metaOf converts an item. Series get their videos when detailed.
func metaOf(item *source.Item, detailed bool) Meta {
	meta := Meta{
		ID:          bridge.ItemID(item.ID),
		Type:        string(item.Kind),
		Name:        item.Title,
		Poster:      item.Thumbnail,
		Background:  item.Thumbnail,
		Description: item.Description,
		ReleaseInfo: item.Year(),
		Genres:      lo.Ternary(item.Genres != nil, item.Genres, []string{}),
		Country:     item.Country,
	}

	if meta.Description == "" {
		meta.Description = strings.TrimSpace(item.Country + " " + item.Status)
	}

	if item.Rating != "" {
		meta.IMDbRating = &item.Rating
	}

	if detailed && item.Kind == source.Series {
		meta.Videos = lo.Map(item.SortedEpisodes(), func(e *source.Episode, _ int) Video {
			return Video{
				ID:       bridge.EpisodeID(item.ID, e.ID),
				Title:    e.String(),
				Season:   1,
				Episode:  int(math.Floor(e.Number)),
				Released: lo.Ternary(e.Created != "", e.Created, item.ReleaseDate),
			}
		})
	}

	return meta
}

func streamOf(s *source.Stream) Stream {
	hints := StreamHints{
		BingeGroup:        s.BingeGroup,
		NotWebReady:       s.NotWebReady(),
		AudioLanguages:    []string{s.Language},
		SubtitleLanguages: []string{s.Language},
	}
	if len(s.Headers) > 0 {
		hints.ProxyHeaders = &ProxyHeaders{Request: s.Headers}
	}

	return Stream{
		Name:          s.Name,
		Title:         s.Title,
		URL:           s.URL,
		Subtitles:     subtitlesOf(s.Subtitles),
		BehaviorHints: hints,
	}
}

func subtitlesOf(subs []*source.Subtitle) []Subtitle {
	return lo.Map(subs, func(s *source.Subtitle, _ int) Subtitle {
		return Subtitle{ID: s.ID, URL: s.URL, Lang: s.Lang}
	})
}
