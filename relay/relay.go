// Package relay builds MediaFlow proxy URLs. The proxy fetches a media URL with the headers the
// origin demands and re-serves it with permissive CORS, so browser players can open it.
package relay

import (
	"net/url"
	"strings"

	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/log"
	"github.com/spf13/viper"
)

const (
	hlsEndpoint    = "/proxy/hls/manifest.m3u8"
	streamEndpoint = "/proxy/stream"
)

// Headers are the request headers the proxy must send upstream.
type Headers struct {
	Referer   string
	Origin    string
	UserAgent string
}

// Relay is one MediaFlow deployment.
type Relay struct {
	base     string
	password string
}

// New returns a relay at base authenticated with password.
func New(base, password string) *Relay {
	return &Relay{
		base:     strings.TrimRight(base, "/"),
		password: password,
	}
}

// FromConfig reads relay.url and the password, preferring the keyring entry over relay.password.
func FromConfig() *Relay {
	password := viper.GetString(key.RelayPassword)
	if stored, err := GetPassword(); err == nil && stored != "" {
		password = stored
	}

	r := New(viper.GetString(key.RelayURL), password)
	if !r.Configured() {
		log.Warn("relay.url is not set, relayed streams will not play")
	}

	return r
}

// Configured reports whether a proxy base URL is set.
func (r *Relay) Configured() bool {
	return r.base != ""
}

// Base returns the proxy base URL without trailing slashes.
func (r *Relay) Base() string {
	return r.base
}

// URL wraps destination. HLS manifests go through the manifest endpoint so segment URLs are
// rewritten too; everything else is streamed as-is.
func (r *Relay) URL(destination string, hls bool, h Headers) string {
	endpoint := streamEndpoint
	if hls {
		endpoint = hlsEndpoint
	}

	params := url.Values{}
	params.Set("d", destination)
	params.Set("h_referer", h.Referer)
	params.Set("h_origin", h.Origin)
	params.Set("h_user-agent", h.UserAgent)
	params.Set("api_password", r.password)

	return r.base + endpoint + "?" + params.Encode()
}
