package resolve

import (
	"strings"

	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/source"
)

var qualities = []struct {
	marker, label string
}{
	{"1080", "1080p"},
	{"720", "720p"},
	{"480", "480p"},
}

// Quality infers a coarse quality label from resolution markers in the URL.
func Quality(video string) string {
	for _, q := range qualities {
		if strings.Contains(video, q.marker) {
			return q.label
		}
	}
	return "HD"
}

// Classify tells HLS manifests from direct files.
func Classify(video string) source.Transport {
	if strings.Contains(video, ".m3u8") {
		return source.HLS
	}
	return source.Direct
}

// IsCountdown reports whether the URL is the placeholder of an unreleased episode.
func IsCountdown(video string) bool {
	return strings.Contains(video, constant.CountdownHost)
}
