// Package cinemeta looks titles up in the Cinemeta metadata service by IMDb id.
package cinemeta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/network"
	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Meta is the subset of a Cinemeta record the resolver needs.
type Meta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	ReleaseInfo string `json:"releaseInfo"`
}

// Client queries one Cinemeta deployment.
type Client struct {
	fetcher *fetch.Fetcher
	base    string
}

// New returns a client for base.
func New(fetcher *fetch.Fetcher, base string) *Client {
	return &Client{fetcher: fetcher, base: strings.TrimRight(base, "/")}
}

// FromConfig returns a client for metadata.cinemeta_url with a single short attempt per lookup.
func FromConfig() *Client {
	f := fetch.New(
		network.NewClient(false),
		fetch.WithAttempts(1),
		fetch.WithTimeout(10*time.Second),
	)
	return New(f, viper.GetString(key.MetadataCinemetaURL))
}

// Meta fetches the record of id. Absent means Cinemeta does not know it or could not be reached.
func (c *Client) Meta(ctx context.Context, kind source.Kind, id string) mo.Option[Meta] {
	endpoint := fmt.Sprintf("%s/meta/%s/%s.json", c.base, url.PathEscape(string(kind)), url.PathEscape(id))
	log.Debugf("Fetching Cinemeta: %s", endpoint)

	body, err := c.fetcher.Get(ctx, endpoint)
	if err != nil {
		log.Errorf("Error fetching Cinemeta: %v", err)
		return mo.None[Meta]()
	}

	var payload struct {
		Meta *Meta `json:"meta"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Meta == nil {
		log.Warnf("Cinemeta has no record for %s %s", kind, id)
		return mo.None[Meta]()
	}

	return mo.Some(*payload.Meta)
}

// Title returns the display name of id.
func (c *Client) Title(ctx context.Context, kind source.Kind, id string) mo.Option[string] {
	meta, ok := c.Meta(ctx, kind, id).Get()
	if !ok || strings.TrimSpace(meta.Name) == "" {
		return mo.None[string]()
	}
	return mo.Some(meta.Name)
}
