package inline

import (
	"encoding/json"

	"github.com/kissbridge/kissbridge/source"
)

type Episode struct {
	*source.Episode
	Streams   []*source.Stream   `json:"streams,omitempty"`
	Subtitles []*source.Subtitle `json:"subtitles,omitempty"`
}

type Item struct {
	// Source is the name of the catalog provider.
	Source string `json:"source"`
	// Item is the detailed catalog record, without its episode list.
	Item *source.Item `json:"item"`
	// Episodes are the selected episodes.
	Episodes []*Episode `json:"episodes"`
}

type Output struct {
	Query  string  `json:"query"`
	Result []*Item `json:"result"`
}

func asJson(query string, items []*Item) ([]byte, error) {
	if items == nil {
		items = []*Item{}
	}

	return json.Marshal(&Output{
		Query:  query,
		Result: items,
	})
}
