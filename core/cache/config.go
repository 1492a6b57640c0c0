package cache

// Config holds configuration for the listing/search result cache.
type Config struct {
	// MaxEntries bounds how many results may be cached at once.
	MaxEntries int `mapstructure:"max_entries" default:"1024"`
	// ListTTLSeconds is the TTL for directory listing results.
	ListTTLSeconds int `mapstructure:"list_ttl_seconds" default:"120"`
	// SearchTTLSeconds is the TTL for search results. Shorter than listings
	// since queries fan out across the whole namespace.
	SearchTTLSeconds int `mapstructure:"search_ttl_seconds" default:"60"`
}
