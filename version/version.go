// Package version provides application version tracking and update discovery.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/filesystem"
	"github.com/kissbridge/kissbridge/network"
	"github.com/kissbridge/kissbridge/where"
	"github.com/metafates/gache"
)

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// ReleasesURL is the GitHub endpoint describing the latest release.
var ReleasesURL = "https://api.github.com/repos/" + constant.Repository + "/releases/latest"

var fetcher = fetch.New(
	network.NewClient(false),
	fetch.WithAttempts(1),
	fetch.WithTimeout(5*time.Second),
)

// Latest returns the most recent stable release version, without the leading "v".
// The answer is cached for two days to stay clear of the GitHub rate limit.
func Latest(ctx context.Context) (string, error) {
	ver, expired, err := versionCacher.Get()
	if err == nil && !expired && ver != "" {
		return ver, nil
	}

	body, err := fetcher.Get(ctx, ReleasesURL, fetch.Header("Accept", "application/vnd.github+json"))
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	ver = strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(ver)
	return ver, nil
}
