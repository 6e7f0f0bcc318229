package source

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func episodes(numbers ...string) []*Episode {
	return lo.Map(numbers, func(n string, i int) *Episode {
		return &Episode{ID: n, Number: ParseEpisodeNumber(n)}
	})
}

func labels(eps []*Episode) []string {
	return lo.Map(eps, func(e *Episode, _ int) string { return e.Label() })
}

func TestSortEpisodes(t *testing.T) {
	Convey("SortEpisodes", t, func() {
		Convey("Orders numerically, not lexically", func() {
			sorted := SortEpisodes(episodes("2", "1", "10", "1.5"))
			So(labels(sorted), ShouldResemble, []string{"1", "1.5", "2", "10"})
		})

		Convey("Keeps upstream order for equal numbers", func() {
			in := []*Episode{{ID: "b", Number: 3}, {ID: "a", Number: 3}, {ID: "c", Number: 1}}
			sorted := SortEpisodes(in)
			So(lo.Map(sorted, func(e *Episode, _ int) string { return e.ID }), ShouldResemble, []string{"c", "b", "a"})
		})

		Convey("Does not reorder the input", func() {
			in := episodes("3", "1")
			_ = SortEpisodes(in)
			So(labels(in), ShouldResemble, []string{"3", "1"})
		})
	})
}

func TestParseEpisodeNumber(t *testing.T) {
	Convey("ParseEpisodeNumber", t, func() {
		So(ParseEpisodeNumber("12.5"), ShouldEqual, 12.5)
		So(ParseEpisodeNumber(" 7 "), ShouldEqual, 7)
		So(ParseEpisodeNumber("special"), ShouldEqual, 0)
	})
}

func TestItem(t *testing.T) {
	Convey("Item", t, func() {
		item := &Item{Title: "My Love Story", ReleaseDate: "2024-03-01T00:00:00", Episodes: episodes("2", "0.5", "1")}

		Convey("FirstEpisode is the numerically smallest", func() {
			So(item.FirstEpisode().Label(), ShouldEqual, "0.5")
			So((&Item{}).FirstEpisode(), ShouldBeNil)
		})

		Convey("Year", func() {
			So(item.Year(), ShouldEqual, "2024")
			So((&Item{}).Year(), ShouldEqual, "")
		})

		Convey("ClassifyKind", func() {
			So(ClassifyKind("Movie", 3), ShouldEqual, Movie)
			So(ClassifyKind("TVSeries", 1), ShouldEqual, Movie)
			So(ClassifyKind("TVSeries", 16), ShouldEqual, Series)
		})
	})
}

func TestStream(t *testing.T) {
	Convey("NotWebReady only flags direct HLS", t, func() {
		So((&Stream{Transport: HLS}).NotWebReady(), ShouldBeTrue)
		So((&Stream{Transport: HLS, Relayed: true}).NotWebReady(), ShouldBeFalse)
		So((&Stream{Transport: Direct}).NotWebReady(), ShouldBeFalse)
	})

	Convey("SubtitleEntry.Name falls back to language", t, func() {
		So((&SubtitleEntry{Label: "French"}).Name(), ShouldEqual, "French")
		So((&SubtitleEntry{Language: "English"}).Name(), ShouldEqual, "English")
	})
}
