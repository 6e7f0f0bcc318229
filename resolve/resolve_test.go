package resolve

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/provider/kisskh"
	"github.com/kissbridge/kissbridge/relay"
	"github.com/kissbridge/kissbridge/source"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSource struct {
	playback *source.Playback
	entries  []*source.SubtitleEntry
	item     *source.Item
	err      error

	tokens []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Search(context.Context, string, ...source.Category) ([]*source.Item, error) {
	return nil, nil
}

func (f *fakeSource) ItemOf(context.Context, string) (*source.Item, error) {
	if f.item == nil {
		return nil, errors.New("not found")
	}
	return f.item, nil
}

func (f *fakeSource) PlaybackOf(_ context.Context, _ string, token string) (*source.Playback, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	return f.playback, nil
}

func (f *fakeSource) SubtitlesOf(_ context.Context, _ string, token string) ([]*source.SubtitleEntry, error) {
	f.tokens = append(f.tokens, token)
	return f.entries, nil
}

type fakeTokens struct {
	observed []bool
}

func (f *fakeTokens) Derive(_ context.Context, episodeID, uid string) string {
	return uid + "/" + episodeID
}

func (f *fakeTokens) Observe(ok bool) {
	f.observed = append(f.observed, ok)
}

func newResolver(src *fakeSource, tokens *fakeTokens) *Resolver {
	return New(src, tokens, relay.New("https://proxy.example/", "pw"), WithOrigin("https://kisskh.ovh"), WithLanguage("fr"))
}

func TestStreams(t *testing.T) {
	ctx := context.Background()

	french := []*source.SubtitleEntry{
		{Src: "https://sub/en.srt", Label: "English"},
		{Src: "https://sub/fr.srt", Label: "Français"},
	}

	Convey("Given an HLS episode with French subtitles", t, func() {
		src := &fakeSource{
			playback: &source.Playback{Video: "https://cdn/720/ep.m3u8"},
			entries:  french,
		}
		tokens := &fakeTokens{}
		streams := newResolver(src, tokens).Streams(ctx, "42", "9001")

		Convey("Exactly two descriptors share one binge group and subtitle set", func() {
			So(streams, ShouldHaveLength, 2)
			So(streams[0].BingeGroup, ShouldEqual, "kisskh-42")
			So(streams[1].BingeGroup, ShouldEqual, streams[0].BingeGroup)
			So(streams[1].Subtitles, ShouldResemble, streams[0].Subtitles)
		})

		Convey("Subtitles are normalized and indexed", func() {
			So(streams[0].Subtitles[0], ShouldResemble, &source.Subtitle{ID: "0-en", URL: "https://sub/en.srt", Lang: "en"})
			So(streams[0].Subtitles[1].ID, ShouldEqual, "1-fr")
		})

		Convey("The first descriptor is relayed through the manifest endpoint", func() {
			So(streams[0].Relayed, ShouldBeTrue)
			So(streams[0].URL, ShouldStartWith, "https://proxy.example/proxy/hls/manifest.m3u8?")
			So(streams[0].Name, ShouldEqual, "KissKH 🇫🇷")
			So(streams[0].Title, ShouldEqual, "720p (HLS) - French Subs")
			So(streams[0].NotWebReady(), ShouldBeFalse)
		})

		Convey("The second descriptor is direct with origin headers", func() {
			So(streams[1].URL, ShouldEqual, "https://cdn/720/ep.m3u8")
			So(streams[1].Name, ShouldEqual, "KissKH Direct 🇫🇷")
			So(streams[1].Headers, ShouldResemble, map[string]string{
				"Referer": "https://kisskh.ovh/",
				"Origin":  "https://kisskh.ovh",
			})
			So(streams[1].NotWebReady(), ShouldBeTrue)
		})

		Convey("Stream and subtitle tokens use their own uids", func() {
			So(src.tokens, ShouldResemble, []string{
				constant.StreamUID + "/9001",
				constant.SubtitleUID + "/9001",
			})
			So(tokens.observed, ShouldResemble, []bool{true})
		})
	})

	Convey("Given a countdown placeholder", t, func() {
		src := &fakeSource{
			playback: &source.Playback{Video: "https://www.tickcounter.com/countdown/123"},
			entries:  french,
		}

		Convey("No streams are returned whatever the subtitles", func() {
			So(newResolver(src, &fakeTokens{}).Streams(ctx, "42", "1"), ShouldBeEmpty)
		})
	})

	Convey("Given a valid video without French subtitles", t, func() {
		src := &fakeSource{
			playback: &source.Playback{Video: "https://cdn/1080/ep.mp4"},
			entries: []*source.SubtitleEntry{
				{Src: "https://sub/en.srt", Label: "English"},
				{Src: "https://sub/id.srt", Label: "Indonesia"},
			},
		}

		Convey("The stream is suppressed entirely", func() {
			So(newResolver(src, &fakeTokens{}).Streams(ctx, "42", "1"), ShouldBeEmpty)
		})
	})

	Convey("Given a failing stream endpoint", t, func() {
		src := &fakeSource{err: errors.New("exhausted")}
		tokens := &fakeTokens{}

		Convey("The result is empty and the failure observed", func() {
			So(newResolver(src, tokens).Streams(ctx, "42", "1"), ShouldBeEmpty)
			So(tokens.observed, ShouldResemble, []bool{false})
		})
	})

	Convey("Given a stream endpoint answering garbage", t, func() {
		var streamHits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/DramaList/Episode/1.png":
				atomic.AddInt32(&streamHits, 1)
				_, _ = io.WriteString(w, "not json")
			case "/api/Sub/1":
				_, _ = io.WriteString(w, `[{"src":"https://sub/fr.srt","label":"French"}]`)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()

		f := fetch.New(srv.Client(), fetch.WithAttempts(3), fetch.WithSleep(func(context.Context, time.Duration) error { return nil }))
		client := kisskh.New(f, srv.URL, time.Millisecond)
		tokens := &fakeTokens{}
		resolver := New(client, tokens, relay.New("https://proxy.example/", "pw"), WithLanguage("fr"))

		Convey("The payload is a terminal failure and nothing is resolved", func() {
			So(resolver.Streams(ctx, "42", "1"), ShouldBeEmpty)
			So(atomic.LoadInt32(&streamHits), ShouldEqual, 1)
			So(tokens.observed, ShouldResemble, []bool{false})
		})
	})

	Convey("Given a direct file matched on the language field", t, func() {
		src := &fakeSource{
			playback: &source.Playback{Video: "https://cdn/ep.mp4"},
			entries:  []*source.SubtitleEntry{{Src: "https://sub/x.srt", Language: "FR"}},
		}
		streams := newResolver(src, &fakeTokens{}).Streams(ctx, "7", "1")

		Convey("Quality defaults to HD and the relay uses the stream endpoint", func() {
			So(streams, ShouldHaveLength, 2)
			So(streams[0].Quality, ShouldEqual, "HD")
			So(streams[0].Title, ShouldEqual, "HD (MP4) - French Subs")
			So(streams[0].URL, ShouldStartWith, "https://proxy.example/proxy/stream?")
			So(streams[1].NotWebReady(), ShouldBeFalse)
		})
	})
}

func TestSubtitles(t *testing.T) {
	Convey("Subtitles returns every track with a language id", t, func() {
		src := &fakeSource{entries: []*source.SubtitleEntry{
			{Src: "https://sub/en.srt", Label: "English"},
			{Src: "https://sub/tl.srt", Label: "Tagalog"},
		}}

		subs := newResolver(src, &fakeTokens{}).Subtitles(context.Background(), "1")

		So(subs, ShouldResemble, []*source.Subtitle{
			{ID: "kisskh-en", URL: "https://sub/en.srt", Lang: "en"},
			{ID: "kisskh-ta", URL: "https://sub/tl.srt", Lang: "ta"},
		})
	})
}

func TestDefaultEpisode(t *testing.T) {
	Convey("DefaultEpisode picks the numerically smallest episode", t, func() {
		src := &fakeSource{item: &source.Item{ID: "1", Episodes: []*source.Episode{
			{ID: "b", Number: 10}, {ID: "a", Number: 2}, {ID: "c", Number: 1.5},
		}}}

		id, ok := newResolver(src, &fakeTokens{}).DefaultEpisode(context.Background(), "1")
		So(ok, ShouldBeTrue)
		So(id, ShouldEqual, "c")
	})

	Convey("DefaultEpisode fails softly", t, func() {
		_, ok := newResolver(&fakeSource{}, &fakeTokens{}).DefaultEpisode(context.Background(), "1")
		So(ok, ShouldBeFalse)
	})
}

func TestClassify(t *testing.T) {
	Convey("Quality prefers the highest marker", t, func() {
		So(Quality("https://x/1080/720.mp4"), ShouldEqual, "1080p")
		So(Quality("https://x/480.mp4"), ShouldEqual, "480p")
		So(Quality("https://x/v.mp4"), ShouldEqual, "HD")
	})

	Convey("Classify detects manifests", t, func() {
		So(Classify("https://x/v.m3u8?t=1"), ShouldEqual, source.HLS)
		So(Classify("https://x/v.mp4"), ShouldEqual, source.Direct)
	})
}
