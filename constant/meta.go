// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Kissbridge is the canonical application identifier used for filesystem paths and CLI branding.
	Kissbridge = "kissbridge"

	// Repository is the GitHub owner/name pair releases are published under.
	Repository = "kissbridge/kissbridge"

	// Version is the current application semantic version string.
	Version = "1.5.0"

	// UserAgent is the HTTP User-Agent string presented to the catalog and handed to the token script.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
