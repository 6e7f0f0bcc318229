// Package kisskh is the client of the KissKH catalog API.
package kisskh

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/lo"
)

// Name of the provider.
const Name = "KissKH"

// searchLimit caps the results kept per category.
const searchLimit = 20

// Categories are the search categories of the catalog, in upstream code order.
var Categories = []source.Category{
	{Code: 1, Slug: "asian-drama", Name: "Asian Drama", Kind: source.Series},
	{Code: 2, Slug: "asian-movies", Name: "Asian Movies", Kind: source.Movie},
	{Code: 3, Slug: "anime", Name: "Anime", Kind: source.Series},
	{Code: 4, Slug: "hollywood", Name: "Hollywood", Kind: source.Movie},
}

// CategoryBySlug finds a category by its slug.
func CategoryBySlug(slug string) (source.Category, bool) {
	return lo.Find(Categories, func(c source.Category) bool {
		return c.Slug == slug
	})
}

// Client talks to one catalog deployment.
type Client struct {
	fetcher       *fetch.Fetcher
	base          string
	streamBackoff time.Duration
}

// New returns a client for the deployment at base. streamBackoff is the retry base delay of
// the stream endpoint, which needs longer to settle than the rest of the API.
func New(fetcher *fetch.Fetcher, base string, streamBackoff time.Duration) *Client {
	return &Client{
		fetcher:       fetcher,
		base:          strings.TrimRight(base, "/"),
		streamBackoff: streamBackoff,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return Name
}

func (c *Client) api(path string) string {
	return c.base + "/api/DramaList/" + path
}

// Search queries each category in turn, all of them when none are given. A failing category
// is logged and skipped; an error is returned only when nothing could be searched.
func (c *Client) Search(ctx context.Context, query string, categories ...source.Category) ([]*source.Item, error) {
	if len(categories) == 0 {
		categories = Categories
	}

	var (
		items []*source.Item
		errs  []error
	)

	for _, category := range categories {
		endpoint := c.api(fmt.Sprintf("Search?q=%s&type=%d", url.QueryEscape(query), category.Code))
		log.Debugf("Searching: %s", endpoint)

		body, err := c.fetcher.Get(ctx, endpoint)
		if err != nil {
			log.Errorf("Search error for type %s: %v", category.Name, err)
			errs = append(errs, err)
			continue
		}

		var found []*dramaDTO
		if err := decode(body, &found); err != nil {
			log.Errorf("Search error for type %s: %v", category.Name, err)
			errs = append(errs, err)
			continue
		}

		for _, dto := range lo.Slice(found, 0, searchLimit) {
			if dto == nil || dto.ID == "" {
				continue
			}
			items = append(items, dto.item())
		}
	}

	if len(errs) == len(categories) {
		return nil, errors.Join(errs...)
	}

	return items, nil
}

// ItemOf returns the detailed record of an item.
func (c *Client) ItemOf(ctx context.Context, id string) (*source.Item, error) {
	body, err := c.fetcher.Get(ctx, c.api("Drama/"+url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("fetch series %s: %w", id, err)
	}

	var dto dramaDTO
	if err := decode(body, &dto); err != nil {
		return nil, fmt.Errorf("decode series %s: %w", id, err)
	}

	item := dto.item()
	if item.ID == "" {
		item.ID = id
	}

	return item, nil
}

// PlaybackOf returns the playback record of an episode.
func (c *Client) PlaybackOf(ctx context.Context, episodeID, token string) (*source.Playback, error) {
	endpoint := c.api(fmt.Sprintf("Episode/%s.png?kkey=%s", url.PathEscape(episodeID), url.QueryEscape(token)))
	log.Debugf("Fetching stream: %s", endpoint)

	body, err := c.fetcher.Get(ctx, endpoint, fetch.Backoff(c.streamBackoff))
	if err != nil {
		return nil, fmt.Errorf("fetch stream %s: %w", episodeID, err)
	}

	var playback source.Playback
	if err := decode(body, &playback); err != nil {
		return nil, fmt.Errorf("decode stream %s: %w", episodeID, err)
	}

	return &playback, nil
}

// SubtitlesOf returns the subtitle entries of an episode.
func (c *Client) SubtitlesOf(ctx context.Context, episodeID, token string) ([]*source.SubtitleEntry, error) {
	endpoint := fmt.Sprintf("%s/api/Sub/%s?kkey=%s", c.base, url.PathEscape(episodeID), url.QueryEscape(token))
	log.Debugf("Fetching subtitles: %s", endpoint)

	body, err := c.fetcher.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch subtitles %s: %w", episodeID, err)
	}

	var entries []*source.SubtitleEntry
	if err := decode(body, &entries); err != nil {
		return nil, fmt.Errorf("decode subtitles %s: %w", episodeID, err)
	}

	return lo.Filter(entries, func(e *source.SubtitleEntry, _ int) bool {
		return e != nil && e.Src != ""
	}), nil
}
