package constant

// Token protocol constants. The token function signature is fixed by the upstream bundle;
// these values and their positions must not change independently of it.
const (
	TokenAppVersion      = "2.8.10"
	TokenPlatformVersion = 4830201
	TokenAppName         = "kisskh"

	// StreamUID and SubtitleUID are the caller identifiers baked into the web player.
	StreamUID   = "62f176f3bb1b5b8e70e39932ad34a0c7"
	SubtitleUID = "VgV52sWhwvBSf8BsM3BRY9weWiiCbtGp"
)

// Addon identity advertised in the manifest. AddonDescription takes the subtitle language name.
const (
	AddonID          = "community.kisskh.fr"
	AddonName        = "KissKH"
	AddonDescription = "Asian Dramas, Movies, Anime with %s subtitles from KissKH"
	AddonLogo        = "https://kisskh.ovh/favicon.ico"
)

// ID prefixes accepted by the stream and subtitle resources.
const (
	IDPrefix         = "kisskh:"
	ExternalIDPrefix = "tt"
)

// CountdownHost serves the placeholder "video" of episodes that are announced but not yet released.
const CountdownHost = "tickcounter.com"

// LuaTokenFn is the global function an operator override script must define.
const LuaTokenFn = "Token"
