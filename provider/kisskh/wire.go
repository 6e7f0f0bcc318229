package kisskh

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/lo"
)

// ErrMalformed is returned for payloads that do not decode into the expected record.
var ErrMalformed = errors.New("malformed payload")

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	*f = flexString(n.String())
	return nil
}

// flexNumber accepts a JSON number or a numeric string. Garbage decodes as 0.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexNumber(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexNumber(source.ParseEpisodeNumber(s))
		return nil
	}

	*f = 0
	return nil
}

type genre struct {
	Name string
}

func (g *genre) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		g.Name = s
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}

	g.Name = obj.Name
	return nil
}

type episodeDTO struct {
	ID          flexString `json:"id"`
	Number      flexNumber `json:"number"`
	CreatedDate string     `json:"createdDate"`
}

type dramaDTO struct {
	ID            flexString    `json:"id"`
	Title         string        `json:"title"`
	Type          string        `json:"type"`
	ReleaseDate   string        `json:"releaseDate"`
	Description   string        `json:"description"`
	Country       string        `json:"country"`
	Status        string        `json:"status"`
	Thumbnail     string        `json:"thumbnail"`
	Poster        string        `json:"poster"`
	EpisodesCount int           `json:"episodesCount"`
	Rating        flexString    `json:"rating"`
	Genres        []genre       `json:"genres"`
	Episodes      []*episodeDTO `json:"episodes"`
}

func (d *dramaDTO) item() *source.Item {
	episodes := lo.FilterMap(d.Episodes, func(e *episodeDTO, _ int) (*source.Episode, bool) {
		if e == nil || e.ID == "" {
			return nil, false
		}
		return &source.Episode{
			ID:      string(e.ID),
			Number:  float64(e.Number),
			Created: e.CreatedDate,
		}, true
	})

	count := d.EpisodesCount
	if count == 0 {
		count = len(episodes)
	}

	return &source.Item{
		ID:            string(d.ID),
		Title:         d.Title,
		Kind:          source.ClassifyKind(d.Type, count),
		ReleaseDate:   d.ReleaseDate,
		Description:   d.Description,
		Country:       d.Country,
		Status:        d.Status,
		Thumbnail:     lo.Ternary(d.Thumbnail != "", d.Thumbnail, d.Poster),
		EpisodesCount: count,
		Rating:        string(d.Rating),
		Genres: lo.FilterMap(d.Genres, func(g genre, _ int) (string, bool) {
			return g.Name, g.Name != ""
		}),
		Episodes: episodes,
	}
}

// decode normalizes a raw transport payload to text and parses it. The stream and subtitle
// endpoints answer with an octet-stream body holding JSON, sometimes prefixed with a BOM; a
// serialized buffer envelope {"type":"Buffer","data":[...]} is unwrapped too.
func decode(body []byte, v any) error {
	text := strings.TrimSpace(strings.TrimPrefix(string(body), "\uFEFF"))
	if text == "" || !utf8.ValidString(text) {
		return ErrMalformed
	}

	var envelope struct {
		Type string `json:"type"`
		Data []int  `json:"data"`
	}
	if strings.HasPrefix(text, `{"type":"Buffer"`) && json.Unmarshal([]byte(text), &envelope) == nil && envelope.Type == "Buffer" {
		raw := make([]byte, len(envelope.Data))
		for i, b := range envelope.Data {
			raw[i] = byte(b)
		}
		return decode(raw, v)
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return errors.Join(ErrMalformed, err)
	}

	return nil
}
