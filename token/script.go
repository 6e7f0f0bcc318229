package token

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/log"
	"github.com/samber/mo"
	"golang.org/x/sync/singleflight"
)

// commonBundle matches the src of the bundle that carries the token function.
var commonBundle = regexp.MustCompile(`src="([^"]*common[^"]*\.js[^"]*)"`)

// ScriptCache lazily scrapes the token script from the landing page and keeps it for the
// life of the process. Concurrent first callers join one load, so they share one landing
// page fetch and one script fetch, and a failure reaches all of them at once.
type ScriptCache struct {
	fetcher *fetch.Fetcher
	baseURL string

	loads singleflight.Group

	mu     sync.RWMutex
	script mo.Option[string]
}

// NewScriptCache returns an empty cache scraping baseURL.
func NewScriptCache(fetcher *fetch.Fetcher, baseURL string) *ScriptCache {
	return &ScriptCache{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		script:  mo.None[string](),
	}
}

// Get returns the cached script, fetching it on first use. Absent means token derivation
// is unavailable right now; a later call tries again. A caller whose ctx ends stops waiting
// but the shared load carries on for the others.
func (c *ScriptCache) Get(ctx context.Context) mo.Option[string] {
	if script := c.cached(); script.IsPresent() {
		return script
	}

	loading := c.loads.DoChan("script", func() (any, error) {
		if script := c.cached(); script.IsPresent() {
			return script, nil
		}

		script, ok := c.load(context.WithoutCancel(ctx))
		if !ok {
			return mo.None[string](), nil
		}

		c.mu.Lock()
		c.script = mo.Some(script)
		c.mu.Unlock()
		return mo.Some(script), nil
	})

	select {
	case res := <-loading:
		return res.Val.(mo.Option[string])
	case <-ctx.Done():
		return mo.None[string]()
	}
}

func (c *ScriptCache) cached() mo.Option[string] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.script
}

// Invalidate drops the cached script so the next Get scrapes the landing page again.
func (c *ScriptCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.script = mo.None[string]()
}

func (c *ScriptCache) load(ctx context.Context) (string, bool) {
	html, err := c.fetcher.Get(ctx, c.baseURL)
	if err != nil {
		log.Errorf("Error fetching token generation code: %v", err)
		return "", false
	}

	src, ok := findBundle(html)
	if !ok {
		log.Error("Could not find common.js script")
		return "", false
	}

	url := c.resolve(src)
	log.Infof("Fetching token code from: %s", url)

	body, err := c.fetcher.Get(ctx, url)
	if err != nil || len(body) == 0 {
		log.Errorf("Error fetching token generation code: %v", err)
		return "", false
	}

	return string(body), true
}

// findBundle locates the common bundle among the page's script tags, falling back to a raw
// pattern search when the markup does not parse into usable script elements.
func findBundle(html []byte) (string, bool) {
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html)); err == nil {
		var found string
		doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src := s.AttrOr("src", "")
			if commonBundle.MatchString(`src="` + src + `"`) {
				found = src
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}

	if m := commonBundle.FindSubmatch(html); m != nil {
		return string(m[1]), true
	}

	return "", false
}

func (c *ScriptCache) resolve(src string) string {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return src
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "/"):
		return c.baseURL + src
	default:
		return c.baseURL + "/" + src
	}
}
