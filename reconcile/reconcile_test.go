package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func episodes(numbers ...float64) []*source.Episode {
	eps := make([]*source.Episode, len(numbers))
	for i, n := range numbers {
		eps[i] = &source.Episode{ID: fmt.Sprintf("ep-%v", n), Number: n}
	}
	return eps
}

func TestParseRef(t *testing.T) {
	Convey("ParseRef", t, func() {
		Convey("Accepts the series form", func() {
			ref, ok := ParseRef("tt0000000:2:5")
			So(ok, ShouldBeTrue)
			So(ref.ID, ShouldEqual, "tt0000000")
			So(ref.Season.MustGet(), ShouldEqual, 2)
			So(ref.Episode.MustGet(), ShouldEqual, 5)
			So(ref.IsMovie(), ShouldBeFalse)
			So(ref.String(), ShouldEqual, "tt0000000:2:5")
		})

		Convey("Accepts the movie form", func() {
			ref, ok := ParseRef("tt1234567")
			So(ok, ShouldBeTrue)
			So(ref.IsMovie(), ShouldBeTrue)
			So(ref.Kind(), ShouldEqual, source.Movie)
		})

		Convey("Rejects everything else", func() {
			for _, id := range []string{"", "tt", "kisskh:1", "tt1:2", "tt1:0:3", "tt1:1:0", "tt1:a:b", " tt1"} {
				_, ok := ParseRef(id)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestTitleMatches(t *testing.T) {
	Convey("TitleMatches", t, func() {
		Convey("Accepts containment either way", func() {
			So(TitleMatches("My Love", "My Love Story"), ShouldBeTrue)
			So(TitleMatches("My Love Story (2024)", "my love story"), ShouldBeTrue)
		})

		Convey("Rejects titles without overlap", func() {
			So(TitleMatches("Zed", "My Love Story"), ShouldBeFalse)
		})

		Convey("Accepts two overlapping words", func() {
			So(TitleMatches("Love in the Moonlight", "Moonlight Drawn by Clouds Love"), ShouldBeTrue)
		})

		Convey("A single shared word is not enough for longer queries", func() {
			So(TitleMatches("Love Alarm", "Crash Landing on You Love"), ShouldBeFalse)
		})

		Convey("Empty titles never match", func() {
			So(TitleMatches("", "Anything"), ShouldBeFalse)
			So(TitleMatches("Anything", "  "), ShouldBeFalse)
		})
	})
}

func TestSelectEpisode(t *testing.T) {
	series := func(ref string) Ref {
		r, ok := ParseRef(ref)
		So(ok, ShouldBeTrue)
		return r
	}

	Convey("SelectEpisode", t, func() {
		item := &source.Item{Title: "Show", Episodes: episodes(7, 1, 3, 2, 1.5, 6)}

		Convey("Falls back to the sorted position when the number is missing", func() {
			ep := SelectEpisode(item, series("tt0000000:2:5"), source.Series)
			So(ep, ShouldNotBeNil)
			// sorted: 1, 1.5, 2, 3, 6, 7
			So(ep.Number, ShouldEqual, 6)
		})

		Convey("Prefers an exact number", func() {
			So(SelectEpisode(item, series("tt1:1:3"), source.Series).Number, ShouldEqual, 3)
		})

		Convey("Gives up past the end of the list", func() {
			So(SelectEpisode(item, series("tt1:1:40"), source.Series), ShouldBeNil)
		})

		Convey("Movie references take the smallest episode", func() {
			So(SelectEpisode(item, series("tt1"), source.Series).Number, ShouldEqual, 1)
			So(SelectEpisode(item, series("tt1:1:3"), source.Movie).Number, ShouldEqual, 1)
		})

		Convey("Items without episodes yield nothing", func() {
			So(SelectEpisode(&source.Item{}, series("tt1"), source.Movie), ShouldBeNil)
		})
	})
}

type stubTitles map[string]string

func (s stubTitles) Title(_ context.Context, _ source.Kind, id string) mo.Option[string] {
	if t, ok := s[id]; ok {
		return mo.Some(t)
	}
	return mo.None[string]()
}

type stubCatalog struct {
	results []*source.Item
	details map[string]*source.Item
	lookups []string
}

func (s *stubCatalog) Name() string { return "stub" }

func (s *stubCatalog) Search(context.Context, string, ...source.Category) ([]*source.Item, error) {
	return s.results, nil
}

func (s *stubCatalog) ItemOf(_ context.Context, id string) (*source.Item, error) {
	s.lookups = append(s.lookups, id)
	if d, ok := s.details[id]; ok {
		return d, nil
	}
	return nil, errors.New("not found")
}

func (s *stubCatalog) PlaybackOf(context.Context, string, string) (*source.Playback, error) {
	return nil, errors.New("unused")
}

func (s *stubCatalog) SubtitlesOf(context.Context, string, string) ([]*source.SubtitleEntry, error) {
	return nil, errors.New("unused")
}

func TestReconciler(t *testing.T) {
	ctx := context.Background()
	ref, _ := ParseRef("tt42:1:2")

	Convey("Given four search results", t, func() {
		catalog := &stubCatalog{
			results: []*source.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
			details: map[string]*source.Item{
				"a": {ID: "a", Title: "My Love Story"},
				"b": {ID: "b", Title: "Unrelated", Episodes: episodes(1, 2)},
				"c": {ID: "c", Title: "My Love Story", Episodes: episodes(1, 2, 3)},
				"d": {ID: "d", Title: "My Love Story 2", Episodes: episodes(1, 2)},
			},
		}
		r := New(catalog, stubTitles{"tt42": "My Love Story"})

		Convey("Find skips empty and mismatched items", func() {
			m, ok := r.Find(ctx, source.Series, ref).Get()
			So(ok, ShouldBeTrue)
			So(m.Item.ID, ShouldEqual, "c")
			So(m.Episode.Number, ShouldEqual, 2)
		})

		Convey("Only the first three candidates are considered", func() {
			var visited []string
			accepted := r.Each(ctx, source.Series, ref, func(m Match) bool {
				visited = append(visited, m.Item.ID)
				return false
			})

			So(accepted, ShouldBeFalse)
			So(visited, ShouldResemble, []string{"c"})
			So(catalog.lookups, ShouldResemble, []string{"a", "b", "c"})
		})
	})

	Convey("Given an id unknown to the metadata service", t, func() {
		r := New(&stubCatalog{}, stubTitles{})

		Convey("Nothing is found", func() {
			So(r.Find(ctx, source.Series, ref).IsAbsent(), ShouldBeTrue)
		})
	})
}
