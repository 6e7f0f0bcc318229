package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type catalog map[string]*source.Item

func (c catalog) Name() string { return "memory" }

func (c catalog) Search(_ context.Context, q string, _ ...source.Category) ([]*source.Item, error) {
	var out []*source.Item
	for _, id := range []string{"1", "2"} {
		if item, ok := c[id]; ok && strings.Contains(strings.ToLower(item.Title), q) {
			out = append(out, &source.Item{ID: item.ID, Title: item.Title})
		}
	}
	return out, nil
}

func (c catalog) ItemOf(_ context.Context, id string) (*source.Item, error) {
	if item, ok := c[id]; ok {
		return item, nil
	}
	return nil, errors.New("missing")
}

func (catalog) PlaybackOf(context.Context, string, string) (*source.Playback, error) {
	return nil, errors.New("unused")
}

func (catalog) SubtitlesOf(context.Context, string, string) ([]*source.SubtitleEntry, error) {
	return nil, errors.New("unused")
}

type resolver struct{}

func (resolver) Streams(_ context.Context, series, episode string) []*source.Stream {
	return []*source.Stream{{URL: "https://cdn/" + series + "/" + episode + ".m3u8"}}
}

func (resolver) Subtitles(_ context.Context, episode string) []*source.Subtitle {
	return []*source.Subtitle{{ID: "kisskh-fr", URL: "https://sub/" + episode + ".srt", Lang: "fr"}}
}

func fixture() catalog {
	return catalog{
		"1": {ID: "1", Title: "Moon Lovers", Episodes: []*source.Episode{
			{ID: "e3", Number: 3}, {ID: "e1", Number: 1}, {ID: "e2", Number: 2}, {ID: "e15", Number: 1.5},
		}},
		"2": {ID: "2", Title: "Moon River", Episodes: []*source.Episode{{ID: "m1", Number: 1}}},
	}
}

func TestWriteJson(t *testing.T) {
	Convey("asJson", t, func() {
		Convey("Should produce valid JSON for an empty result", func() {
			data, err := asJson("test", nil)
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(data, &output), ShouldBeNil)
			So(output.Query, ShouldEqual, "test")
			So(output.Result, ShouldHaveLength, 0)
			So(string(data), ShouldContainSubstring, `"result":[]`)
		})
	})
}

func TestParseItemPicker(t *testing.T) {
	items := []*source.Item{{Title: "Moon Lovers"}, {Title: "Moon River"}, {Title: "Star"}}

	Convey("ParseItemPicker", t, func() {
		Convey("first and last", func() {
			first, err := ParseItemPicker("first")
			So(err, ShouldBeNil)
			So(first(items).Title, ShouldEqual, "Moon Lovers")
			So(first(nil), ShouldBeNil)

			last, err := ParseItemPicker("last")
			So(err, ShouldBeNil)
			So(last(items).Title, ShouldEqual, "Star")
		})

		Convey("an index is clamped to the list", func() {
			pick, err := ParseItemPicker("9")
			So(err, ShouldBeNil)
			So(pick(items).Title, ShouldEqual, "Star")
		})

		Convey("a substring matches titles case-insensitively", func() {
			pick, err := ParseItemPicker("@river@")
			So(err, ShouldBeNil)
			So(pick(items).Title, ShouldEqual, "Moon River")
		})

		Convey("garbage is rejected", func() {
			_, err := ParseItemPicker("best")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseEpisodesFilter(t *testing.T) {
	episodes := []*source.Episode{{Number: 1}, {Number: 1.5}, {Number: 2}, {Number: 3}}

	Convey("ParseEpisodesFilter", t, func() {
		Convey("a range is inclusive on episode numbers", func() {
			filter, err := ParseEpisodesFilter("1-2")
			So(err, ShouldBeNil)
			So(filter(episodes), ShouldHaveLength, 3)
		})

		Convey("a single number selects that episode", func() {
			filter, err := ParseEpisodesFilter("1.5")
			So(err, ShouldBeNil)
			So(filter(episodes), ShouldHaveLength, 1)
			So(filter(episodes)[0].Number, ShouldEqual, 1.5)
		})

		Convey("first and last tolerate an empty list", func() {
			first, _ := ParseEpisodesFilter("first")
			last, _ := ParseEpisodesFilter("last")
			So(first(nil), ShouldBeEmpty)
			So(last(nil), ShouldBeEmpty)
			So(last(episodes)[0].Number, ShouldEqual, 3)
		})

		Convey("a reversed range is rejected", func() {
			_, err := ParseEpisodesFilter("5-2")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Run", t, func() {
		var buf bytes.Buffer
		pick, _ := ParseItemPicker("first")
		filter, _ := ParseEpisodesFilter("1-2")
		options := &Options{
			Out:            &buf,
			Query:          "moon",
			ItemPicker:     mo.Some(pick),
			EpisodesFilter: mo.Some(filter),
		}

		Convey("JSON output carries sorted, filtered episodes and their streams", func() {
			options.Json = true
			options.Streams = true
			So(Run(context.Background(), fixture(), resolver{}, options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 1)
			So(output.Result[0].Item.Title, ShouldEqual, "Moon Lovers")
			So(output.Result[0].Item.Episodes, ShouldBeEmpty)

			eps := output.Result[0].Episodes
			So(eps, ShouldHaveLength, 3)
			So(eps[0].ID, ShouldEqual, "e1")
			So(eps[1].ID, ShouldEqual, "e15")
			So(eps[2].Streams[0].URL, ShouldEqual, "https://cdn/1/e2.m3u8")
		})

		Convey("text output prints one stream URL per line", func() {
			options.Streams = true
			So(Run(context.Background(), fixture(), resolver{}, options), ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(lines, ShouldHaveLength, 3)
			So(lines[0], ShouldEqual, "https://cdn/1/e1.m3u8")
		})

		Convey("subtitle URLs are printed when streams are not requested", func() {
			options.Subtitles = true
			So(Run(context.Background(), fixture(), resolver{}, options), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "https://sub/e1.srt")
		})

		Convey("without a picker every match is prepared", func() {
			options.ItemPicker = mo.None[ItemPicker]()
			options.Json = true
			So(Run(context.Background(), fixture(), resolver{}, options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 2)
		})

		Convey("a details failure aborts the run", func() {
			gone := ItemPicker(func([]*source.Item) *source.Item { return &source.Item{ID: "404", Title: "Gone"} })
			options.ItemPicker = mo.Some(gone)
			So(Run(context.Background(), fixture(), resolver{}, options), ShouldNotBeNil)
		})
	})
}
