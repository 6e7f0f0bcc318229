// Package inline implements the non-interactive, scriptable resolution mode: search, pick an
// item, select episodes and print their streams.
package inline

import (
	"context"
	"fmt"
	"os"

	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/source"
)

// Resolver resolves the playable streams and subtitle tracks of an episode.
type Resolver interface {
	Streams(ctx context.Context, seriesID, episodeID string) []*source.Stream
	Subtitles(ctx context.Context, episodeID string) []*source.Subtitle
}

func Run(ctx context.Context, src source.Source, resolver Resolver, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	found, err := src.Search(ctx, options.Query, options.Categories...)
	if err != nil {
		return fmt.Errorf("search failed for %s: %w", src.Name(), err)
	}

	selected := found
	if options.ItemPicker.IsPresent() {
		selected = nil
		if choice := options.ItemPicker.MustGet()(found); choice != nil {
			selected = []*source.Item{choice}
		}
	}

	var items []*Item
	for _, item := range selected {
		prepared, err := prepare(ctx, src, resolver, item, options)
		if err != nil {
			return err
		}
		items = append(items, prepared)
	}

	if options.Json {
		data, err := asJson(options.Query, items)
		if err != nil {
			return err
		}
		_, err = options.Out.Write(append(data, '\n'))
		return err
	}

	for _, item := range items {
		for _, ep := range item.Episodes {
			log.Infof("Found %s %s", item.Item.Title, ep.Episode)
			switch {
			case len(ep.Streams) > 0:
				for _, s := range ep.Streams {
					fmt.Fprintln(options.Out, s.URL)
				}
			case len(ep.Subtitles) > 0:
				for _, s := range ep.Subtitles {
					fmt.Fprintln(options.Out, s.URL)
				}
			default:
				fmt.Fprintf(options.Out, "%s\t%s\t%s\n", item.Item.ID, ep.ID, ep.Label())
			}
		}
	}

	return nil
}

func prepare(ctx context.Context, src source.Source, resolver Resolver, found *source.Item, options *Options) (*Item, error) {
	detailed, err := src.ItemOf(ctx, found.ID)
	if err != nil {
		return nil, fmt.Errorf("details of %s: %w", found.Title, err)
	}

	episodes := detailed.SortedEpisodes()
	if options.EpisodesFilter.IsPresent() {
		episodes = options.EpisodesFilter.MustGet()(episodes)
	}

	record := *detailed
	record.Episodes = nil
	item := &Item{Source: src.Name(), Item: &record, Episodes: make([]*Episode, 0, len(episodes))}

	for _, ep := range episodes {
		entry := &Episode{Episode: ep}
		if options.Streams {
			entry.Streams = resolver.Streams(ctx, detailed.ID, ep.ID)
		}
		if options.Subtitles {
			entry.Subtitles = resolver.Subtitles(ctx, ep.ID)
		}
		item.Episodes = append(item.Episodes, entry)
	}

	return item, nil
}
