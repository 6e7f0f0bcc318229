package addon

import (
	"github.com/kissbridge/kissbridge/bridge"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/provider"
	"github.com/spf13/viper"
)

// FromConfig returns the server for b, listing the default provider's categories.
func FromConfig(b *bridge.Bridge) *Server {
	categories := provider.Default().Categories
	manifest := NewManifest(categories, b.Resolver().Language())

	return NewServer(b, manifest, categories, viper.GetInt(key.AddonCatalogLimit))
}
