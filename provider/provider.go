// Package provider lists the catalog providers kissbridge can resolve against.
package provider

import (
	"strings"

	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/provider/kisskh"
	"github.com/kissbridge/kissbridge/source"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Provider represents a catalog provider.
type Provider struct {
	ID           string
	Name         string
	Categories   []source.Category
	CreateSource func(fetcher *fetch.Fetcher) source.Source
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns the built-in providers.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:         "kisskh",
			Name:       kisskh.Name,
			Categories: kisskh.Categories,
			CreateSource: func(fetcher *fetch.Fetcher) source.Source {
				return kisskh.New(fetcher, viper.GetString(key.UpstreamBaseURL), fetch.StreamBackoff())
			},
		},
	}
}

// Default returns the provider served when none is named.
func Default() *Provider {
	return Builtins()[0]
}

// Get finds a provider by id or name, case-insensitively.
func Get(name string) (*Provider, bool) {
	return lo.Find(Builtins(), func(p *Provider) bool {
		return strings.EqualFold(p.ID, name) || strings.EqualFold(p.Name, name)
	})
}
