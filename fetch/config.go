package fetch

import (
	"net/http"
	"time"

	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/network"
	"github.com/spf13/viper"
)

// BrowserHeaders returns the headers the catalog expects from its own web player.
func BrowserHeaders(baseURL string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", constant.UserAgent)
	h.Set("Accept", "*/*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Referer", baseURL+"/")
	h.Set("Origin", baseURL)
	return h
}

// FromConfig builds a Fetcher from the fetch.* configuration keys.
func FromConfig() *Fetcher {
	return New(
		network.NewClient(viper.GetBool(key.FetchTLSFingerprint)),
		WithAttempts(viper.GetInt(key.FetchRetries)),
		WithTimeout(time.Duration(viper.GetInt(key.FetchTimeout))*time.Second),
		WithBackoff(APIBackoff()),
		WithHeaders(BrowserHeaders(viper.GetString(key.UpstreamBaseURL))),
	)
}

// APIBackoff is the configured base delay for catalog API calls.
func APIBackoff() time.Duration {
	return time.Duration(viper.GetInt(key.FetchAPIBackoff)) * time.Millisecond
}

// StreamBackoff is the configured base delay for the stream endpoint.
func StreamBackoff() time.Duration {
	return time.Duration(viper.GetInt(key.FetchStreamBackoff)) * time.Millisecond
}
