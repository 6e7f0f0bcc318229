// Package token derives the per-request access tokens the upstream API requires by running
// the site's own obfuscated bundle in a sandbox.
package token

import (
	"context"
	"sync"
	"time"

	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/log"
	"github.com/spf13/viper"
)

// Deriver turns (episode id, uid) pairs into tokens. It never fails: every error is logged and
// reported as an empty token, which callers treat as "resolution impossible right now".
type Deriver struct {
	scripts  *ScriptCache
	js       *JSEngine
	override *LuaEngine

	threshold int
	mu        sync.Mutex
	failures  int
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithOverride replaces the upstream bundle with a local Lua script.
func WithOverride(engine *LuaEngine) Option {
	return func(d *Deriver) {
		d.override = engine
	}
}

// WithInvalidateAfter drops the cached bundle after n consecutive downstream failures
// reported through Observe. Zero keeps it for the life of the process.
func WithInvalidateAfter(n int) Option {
	return func(d *Deriver) {
		d.threshold = max(n, 0)
	}
}

// New returns a deriver drawing scripts from scripts and running them with js.
func New(scripts *ScriptCache, js *JSEngine, opts ...Option) *Deriver {
	d := &Deriver{scripts: scripts, js: js}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// FromConfig builds a deriver from the token.* and upstream.* settings.
func FromConfig(fetcher *fetch.Fetcher) *Deriver {
	base := viper.GetString(key.UpstreamBaseURL)
	timeout := time.Duration(viper.GetInt(key.TokenTimeout)) * time.Millisecond

	opts := []Option{
		WithInvalidateAfter(viper.GetInt(key.TokenInvalidateAfter)),
	}
	if path := viper.GetString(key.TokenOverrideScript); path != "" {
		opts = append(opts, WithOverride(NewLuaEngine(path, timeout)))
	}

	return New(
		NewScriptCache(fetcher, base),
		NewJSEngine(viper.GetString(key.TokenFunction), base, timeout),
		opts...,
	)
}

// Derive returns the token for episodeID and uid, or "" when none can be produced.
func (d *Deriver) Derive(ctx context.Context, episodeID, uid string) string {
	call := Call{EpisodeID: episodeID, UID: uid}

	if d.override != nil {
		token, err := d.override.Eval(ctx, call)
		if err != nil {
			log.Errorf("Error generating token with %s: %v", d.override.Path(), err)
			return ""
		}
		return token
	}

	script, ok := d.scripts.Get(ctx).Get()
	if !ok {
		log.Error("No token generation code available")
		return ""
	}

	token, err := d.js.Eval(ctx, script, call)
	if err != nil {
		log.Errorf("Error generating token: %v", err)
		return ""
	}

	log.Debugf("Generated token for episode %s", episodeID)
	return token
}

// Observe records whether a request authorized by a derived token succeeded.
func (d *Deriver) Observe(ok bool) {
	if d.threshold == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if ok {
		d.failures = 0
		return
	}

	d.failures++
	if d.failures >= d.threshold {
		log.Warnf("%d consecutive stream failures, dropping cached token script", d.failures)
		d.failures = 0
		d.scripts.Invalidate()
	}
}

// Invalidate forgets the cached bundle.
func (d *Deriver) Invalidate() {
	d.scripts.Invalidate()
}
