// Package resolve turns catalog episodes into playable stream descriptors and subtitle tracks.
//
// Every operation returns a well-formed, possibly empty, result. Upstream trouble, missing
// tokens and missing subtitles are logged and reported as "nothing to play".
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/lang"
	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/relay"
	"github.com/kissbridge/kissbridge/source"
	"github.com/kissbridge/kissbridge/util"
	"github.com/samber/lo"
)

// Tokens derives upstream access tokens.
type Tokens interface {
	Derive(ctx context.Context, episodeID, uid string) string
	// Observe reports whether a request authorized with a derived token went through.
	Observe(ok bool)
}

// Resolver resolves episodes of one source.
type Resolver struct {
	source   source.Source
	tokens   Tokens
	relay    *relay.Relay
	origin   string
	language lang.Language
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLanguage sets the subtitle language a stream must offer. Unknown codes are matched
// literally.
func WithLanguage(code string) Option {
	return func(r *Resolver) {
		if l, ok := lang.ByCode(code); ok {
			r.language = l
			return
		}
		r.language = lang.Language{Code: strings.ToLower(code), English: strings.ToUpper(code)}
	}
}

// WithOrigin sets the catalog origin that direct players must present as Referer and Origin.
func WithOrigin(origin string) Option {
	return func(r *Resolver) {
		r.origin = strings.TrimRight(origin, "/")
	}
}

// New returns a resolver. The default subtitle language is French.
func New(src source.Source, tokens Tokens, rel *relay.Relay, opts ...Option) *Resolver {
	r := &Resolver{source: src, tokens: tokens, relay: rel}
	WithLanguage("fr")(r)

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Source returns the underlying catalog source.
func (r *Resolver) Source() source.Source {
	return r.source
}

// Language returns the subtitle language streams are gated on.
func (r *Resolver) Language() lang.Language {
	return r.language
}

// Streams resolves an episode of seriesID into exactly two descriptors, one relayed and one
// direct, or none at all.
func (r *Resolver) Streams(ctx context.Context, seriesID, episodeID string) []*source.Stream {
	video, ok := r.video(ctx, episodeID)
	if !ok {
		return nil
	}

	entries := r.entries(ctx, episodeID)
	if !lo.SomeBy(entries, func(e *source.SubtitleEntry) bool {
		return lang.Matches(e.Name(), r.language.Code)
	}) {
		log.Infof("No %s subtitles found for episode %s", r.language.English, episodeID)
		return nil
	}

	subtitles := lo.Map(entries, func(e *source.SubtitleEntry, i int) *source.Subtitle {
		code := lang.Code(e.Name())
		return &source.Subtitle{ID: fmt.Sprintf("%d-%s", i, code), URL: e.Src, Lang: code}
	})
	log.Infof("Found %s, including %s", util.Quantify(len(subtitles), "subtitle", "subtitles"), r.language.English)

	quality := Quality(video)
	transport := Classify(video)
	group := "kisskh-" + seriesID

	format := lo.Ternary(transport == source.HLS, "HLS", "MP4")
	subs := r.language.English + " Subs"

	relayed := &source.Stream{
		Name:       r.streamName(""),
		Title:      fmt.Sprintf("%s (%s) - %s", quality, format, subs),
		URL:        r.relay.URL(video, transport == source.HLS, r.relayHeaders()),
		Quality:    quality,
		Transport:  transport,
		Relayed:    true,
		BingeGroup: group,
		Language:   r.language.Code,
		Subtitles:  subtitles,
	}

	direct := &source.Stream{
		Name:       r.streamName("Direct"),
		Title:      fmt.Sprintf("%s (%s) Direct - %s", quality, format, subs),
		URL:        video,
		Quality:    quality,
		Transport:  transport,
		BingeGroup: group,
		Language:   r.language.Code,
		Headers: map[string]string{
			"Referer": r.origin + "/",
			"Origin":  r.origin,
		},
		Subtitles: subtitles,
	}

	return []*source.Stream{relayed, direct}
}

// Subtitles returns every subtitle track of an episode, whatever its language.
func (r *Resolver) Subtitles(ctx context.Context, episodeID string) []*source.Subtitle {
	return lo.Map(r.entries(ctx, episodeID), func(e *source.SubtitleEntry, _ int) *source.Subtitle {
		code := lang.Code(e.Name())
		return &source.Subtitle{ID: "kisskh-" + code, URL: e.Src, Lang: code}
	})
}

// DefaultEpisode returns the numerically smallest episode of seriesID.
func (r *Resolver) DefaultEpisode(ctx context.Context, seriesID string) (string, bool) {
	item, err := r.source.ItemOf(ctx, seriesID)
	if err != nil {
		log.Errorf("Error fetching series %s: %v", seriesID, err)
		return "", false
	}

	first := item.FirstEpisode()
	if first == nil {
		return "", false
	}

	return first.ID, true
}

func (r *Resolver) video(ctx context.Context, episodeID string) (string, bool) {
	token := r.tokens.Derive(ctx, episodeID, constant.StreamUID)

	playback, err := r.source.PlaybackOf(ctx, episodeID, token)
	r.tokens.Observe(err == nil)
	if err != nil {
		log.Errorf("Error fetching stream for episode %s: %v", episodeID, err)
		return "", false
	}

	if playback.Video == "" {
		log.Infof("No video for episode %s", episodeID)
		return "", false
	}

	if IsCountdown(playback.Video) {
		log.Infof("Episode %s not yet released (countdown found)", episodeID)
		return "", false
	}

	return playback.Video, true
}

func (r *Resolver) entries(ctx context.Context, episodeID string) []*source.SubtitleEntry {
	token := r.tokens.Derive(ctx, episodeID, constant.SubtitleUID)

	entries, err := r.source.SubtitlesOf(ctx, episodeID, token)
	if err != nil {
		log.Errorf("Error fetching subtitles for episode %s: %v", episodeID, err)
		return nil
	}

	return entries
}

func (r *Resolver) streamName(variant string) string {
	parts := []string{constant.AddonName}
	if variant != "" {
		parts = append(parts, variant)
	}
	if flag := r.language.Flag(); flag != "" {
		parts = append(parts, flag)
	}
	return strings.Join(parts, " ")
}

func (r *Resolver) relayHeaders() relay.Headers {
	return relay.Headers{
		Referer:   r.origin + "/",
		Origin:    r.origin,
		UserAgent: constant.UserAgent,
	}
}
