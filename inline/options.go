package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type (
	ItemPicker     func([]*source.Item) *source.Item
	EpisodesFilter func([]*source.Episode) []*source.Episode
)

type Options struct {
	Out            io.Writer
	Query          string
	Categories     []source.Category
	Json           bool
	ItemPicker     mo.Option[ItemPicker]
	EpisodesFilter mo.Option[EpisodesFilter]
	Streams        bool
	Subtitles      bool
}

// ParseItemPicker parses an item selector:
// "first", "last", an index starting from 0, or "@substring@" matched against titles.
func ParseItemPicker(description string) (ItemPicker, error) {
	switch description {
	case "first":
		return func(items []*source.Item) *source.Item {
			return lo.FirstOr(items, nil)
		}, nil
	case "last":
		return func(items []*source.Item) *source.Item {
			return lo.LastOr(items, nil)
		}, nil
	}

	if sub, ok := substring(description); ok {
		return func(items []*source.Item) *source.Item {
			item, _ := lo.Find(items, func(i *source.Item) bool {
				return strings.Contains(strings.ToLower(i.Title), sub)
			})
			return item
		}, nil
	}

	idx, err := strconv.ParseUint(description, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid item selector: %s", description)
	}

	return func(items []*source.Item) *source.Item {
		if len(items) == 0 {
			return nil
		}
		return items[min(int(idx), len(items)-1)]
	}, nil
}

// ParseEpisodesFilter parses an episode selector over numerically sorted episodes:
// "first", "last", "all", an episode number such as "3" or "1.5", or an inclusive
// number range "1-5".
func ParseEpisodesFilter(description string) (EpisodesFilter, error) {
	switch description {
	case "first":
		return func(episodes []*source.Episode) []*source.Episode {
			return episodes[:min(1, len(episodes))]
		}, nil
	case "last":
		return func(episodes []*source.Episode) []*source.Episode {
			return episodes[max(0, len(episodes)-1):]
		}, nil
	case "all":
		return func(episodes []*source.Episode) []*source.Episode {
			return episodes
		}, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		lower, err1 := strconv.ParseFloat(from, 64)
		upper, err2 := strconv.ParseFloat(to, 64)
		if err1 != nil || err2 != nil || lower > upper {
			return nil, fmt.Errorf("invalid episode range: %s", description)
		}

		return between(lower, upper), nil
	}

	number, err := strconv.ParseFloat(description, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid episode filter: %s", description)
	}

	return between(number, number), nil
}

func between(lower, upper float64) EpisodesFilter {
	return func(episodes []*source.Episode) []*source.Episode {
		return lo.Filter(episodes, func(e *source.Episode, _ int) bool {
			return e.Number >= lower && e.Number <= upper
		})
	}
}

func substring(description string) (string, bool) {
	if len(description) < 2 || !strings.HasPrefix(description, "@") || !strings.HasSuffix(description, "@") {
		return "", false
	}
	return strings.ToLower(description[1 : len(description)-1]), true
}
