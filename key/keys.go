// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Upstream catalog.
const (
	UpstreamBaseURL = "upstream.base_url"
)

// Resilient fetcher - retry policy and transport behavior for every upstream call.
const (
	FetchRetries        = "fetch.retries"
	FetchTimeout        = "fetch.timeout"
	FetchAPIBackoff     = "fetch.api_backoff"
	FetchStreamBackoff  = "fetch.stream_backoff"
	FetchTLSFingerprint = "fetch.tls_fingerprint"
)

// Token derivation - sandbox limits and the upstream function contract.
const (
	TokenTimeout         = "token.timeout"
	TokenFunction        = "token.function"
	TokenOverrideScript  = "token.override_script"
	TokenInvalidateAfter = "token.invalidate_after"
)

// Subtitles.
const (
	SubtitlesLanguage = "subtitles.language"
)

// Relay proxy (MediaFlow).
const (
	RelayURL      = "relay.url"
	RelayPassword = "relay.password"
)

// Addon server.
const (
	AddonPort         = "addon.port"
	AddonCatalogLimit = "addon.catalog_limit"
)

// External metadata.
const (
	MetadataCinemetaURL = "metadata.cinemeta_url"
)

// Search interaction.
const (
	SearchRememberQueries = "search.remember_queries"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored      = "cli.colored"
	CliIcons        = "cli.icons"
	CliVersionCheck = "cli.version_check"
)
