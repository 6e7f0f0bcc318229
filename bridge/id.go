package bridge

import (
	"strings"

	"github.com/kissbridge/kissbridge/constant"
)

// ParseID splits "kisskh:<series>[:<episode>]". episode is "" when absent.
func ParseID(id string) (series, episode string, ok bool) {
	rest, found := strings.CutPrefix(id, constant.IDPrefix)
	if !found {
		return "", "", false
	}

	series, episode, _ = strings.Cut(rest, ":")
	if series == "" {
		return "", "", false
	}

	// Extra segments after the episode are ignored.
	episode, _, _ = strings.Cut(episode, ":")
	return series, episode, true
}

// ItemID formats the id of a catalog item.
func ItemID(series string) string {
	return constant.IDPrefix + series
}

// EpisodeID formats the id of one episode of a catalog item.
func EpisodeID(series, episode string) string {
	return constant.IDPrefix + series + ":" + episode
}
