package addon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kissbridge/kissbridge/bridge"
	"github.com/kissbridge/kissbridge/lang"
	"github.com/kissbridge/kissbridge/provider/kisskh"
	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type stubService struct {
	listing bridge.Listing
	kind    source.Kind
	id      string
	ctxErr  error
}

func (s *stubService) Streams(ctx context.Context, kind source.Kind, id string) []*source.Stream {
	s.kind, s.id, s.ctxErr = kind, id, ctx.Err()
	if id != "kisskh:1:10" {
		return nil
	}
	return []*source.Stream{
		{
			Name: "KissKH", Title: "720p (HLS) - French Subs", URL: "https://proxy/x", Relayed: true,
			Transport: source.HLS, BingeGroup: "kisskh-1", Language: "fr",
			Subtitles: []*source.Subtitle{{ID: "0-fr", URL: "https://sub/fr.srt", Lang: "fr"}},
		},
		{
			Name: "KissKH Direct", URL: "https://cdn/x.m3u8", Transport: source.HLS, BingeGroup: "kisskh-1",
			Language: "fr", Headers: map[string]string{"Referer": "https://kisskh.ovh/"},
		},
	}
}

func (s *stubService) Subtitles(_ context.Context, kind source.Kind, id string) []*source.Subtitle {
	s.kind, s.id = kind, id
	return []*source.Subtitle{{ID: "kisskh-en", URL: "https://sub/en.srt", Lang: "en"}}
}

func (s *stubService) Item(_ context.Context, id string) mo.Option[*source.Item] {
	if id != "kisskh:1" {
		return mo.None[*source.Item]()
	}
	return mo.Some(&source.Item{
		ID: "1", Title: "Moonlight", Kind: source.Series, ReleaseDate: "2024-01-05", Country: "Korean", Status: "Ongoing",
		Episodes: []*source.Episode{{ID: "11", Number: 2}, {ID: "10", Number: 1.5, Created: "2024-01-06"}},
	})
}

func (s *stubService) Catalog(_ context.Context, l bridge.Listing) []*source.Item {
	s.listing = l
	return []*source.Item{{ID: "1", Title: "Moonlight", Kind: source.Series, Genres: []string{"Romance"}}}
}

func get(t *testing.T, h http.Handler, path string, v any) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if v != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return rec
}

func TestServer(t *testing.T) {
	fr, _ := lang.ByCode("fr")
	svc := &stubService{}
	srv := NewServer(svc, NewManifest(kisskh.Categories, fr), kisskh.Categories, 20)

	Convey("The manifest advertises four searchable catalogs", t, func() {
		var m Manifest
		rec := get(t, srv, "/manifest.json", &m)

		So(rec.Code, ShouldEqual, http.StatusOK)
		So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
		So(rec.Header().Get(RequestIDHeader), ShouldNotBeEmpty)
		So(m.ID, ShouldEqual, "community.kisskh.fr")
		So(m.Name, ShouldEqual, "KissKH 🇫🇷")
		So(m.IDPrefixes, ShouldResemble, []string{"kisskh:", "tt"})
		So(m.Catalogs, ShouldHaveLength, 4)
		So(m.Catalogs[1].ID, ShouldEqual, "kisskh-asian-movies")
		So(m.Catalogs[1].Type, ShouldEqual, "movie")
		So(m.Catalogs[0].Extra, ShouldHaveLength, 2)
	})

	Convey("Catalog extras reach the listing", t, func() {
		var body struct{ Metas []Meta }
		get(t, srv, "/catalog/series/kisskh-anime/search=my%20love&skip=20.json", &body)

		So(svc.listing.Search, ShouldEqual, "my love")
		So(svc.listing.Skip, ShouldEqual, 20)
		So(svc.listing.Limit, ShouldEqual, 20)
		So(svc.listing.Kind, ShouldEqual, source.Series)
		So(svc.listing.Category.MustGet().Code, ShouldEqual, 3)
		So(body.Metas, ShouldHaveLength, 1)
		So(body.Metas[0].ID, ShouldEqual, "kisskh:1")
		So(body.Metas[0].Videos, ShouldBeEmpty)
	})

	Convey("Meta carries sorted videos", t, func() {
		var body struct{ Meta *Meta }
		get(t, srv, "/meta/series/kisskh:1.json", &body)

		So(body.Meta, ShouldNotBeNil)
		So(body.Meta.Description, ShouldEqual, "Korean Ongoing")
		So(body.Meta.ReleaseInfo, ShouldEqual, "2024")
		So(body.Meta.Videos, ShouldResemble, []Video{
			{ID: "kisskh:1:10", Title: "Episode 1.5", Season: 1, Episode: 1, Released: "2024-01-06"},
			{ID: "kisskh:1:11", Title: "Episode 2", Season: 1, Episode: 2, Released: "2024-01-05"},
		})
	})

	Convey("Unknown metas are null", t, func() {
		rec := get(t, srv, "/meta/series/kisskh:404.json", nil)
		So(rec.Body.String(), ShouldContainSubstring, `"meta":null`)
	})

	Convey("Streams carry behavior hints", t, func() {
		var body struct{ Streams []Stream }
		get(t, srv, "/stream/series/kisskh%3A1%3A10.json", &body)

		So(svc.id, ShouldEqual, "kisskh:1:10")
		So(body.Streams, ShouldHaveLength, 2)
		So(body.Streams[0].BehaviorHints.NotWebReady, ShouldBeFalse)
		So(body.Streams[0].BehaviorHints.ProxyHeaders, ShouldBeNil)
		So(body.Streams[0].Subtitles[0].ID, ShouldEqual, "0-fr")
		So(body.Streams[1].BehaviorHints.NotWebReady, ShouldBeTrue)
		So(body.Streams[1].BehaviorHints.ProxyHeaders.Request["Referer"], ShouldEqual, "https://kisskh.ovh/")
		So(body.Streams[1].BehaviorHints.SubtitleLanguages, ShouldResemble, []string{"fr"})
	})

	Convey("Misses are empty lists, not errors", t, func() {
		rec := get(t, srv, "/stream/movie/tt0000001.json", nil)
		So(rec.Code, ShouldEqual, http.StatusOK)
		So(rec.Body.String(), ShouldContainSubstring, `"streams":[]`)
		So(svc.kind, ShouldEqual, source.Movie)
	})

	Convey("A disconnected client does not cancel resolution", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream/series/kisskh:1:10.json", nil).WithContext(ctx))

		So(rec.Code, ShouldEqual, http.StatusOK)
		So(svc.ctxErr, ShouldBeNil)
	})

	Convey("Subtitles accept an extra segment", t, func() {
		var body struct{ Subtitles []Subtitle }
		get(t, srv, "/subtitles/series/tt1:1:2/videoHash=abc.json", &body)

		So(svc.id, ShouldEqual, "tt1:1:2")
		So(body.Subtitles, ShouldResemble, []Subtitle{{ID: "kisskh-en", URL: "https://sub/en.srt", Lang: "en"}})
	})
}
