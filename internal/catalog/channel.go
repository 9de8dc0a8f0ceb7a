package catalog

import "time"

// Transport is how a channel's stream is packaged.
type Transport string

const (
	TransportHLS  Transport = "hls"
	TransportDASH Transport = "dash"
)

// Category is one of the fixed set of catalog categories. The empty string
// means "not yet categorized"; the categorizer is the only writer and always
// normalizes to a member of Categories.
type Category string

const (
	CategorySports        Category = "Sports"
	CategoryNews          Category = "News"
	CategoryEntertainment Category = "Entertainment"
	CategoryMovies        Category = "Movies"
	CategoryMusic         Category = "Music"
	CategoryKids          Category = "Kids"
	CategoryDocumentary   Category = "Documentary"
	CategoryReligious     Category = "Religious"
	CategoryRegional      Category = "Regional"
	CategoryOther         Category = "Other"
)

// Categories lists all valid categories in declaration order. Keyword
// matching ties break in this order, so the order is part of the contract.
var Categories = []Category{
	CategorySports,
	CategoryNews,
	CategoryEntertainment,
	CategoryMovies,
	CategoryMusic,
	CategoryKids,
	CategoryDocumentary,
	CategoryReligious,
	CategoryRegional,
	CategoryOther,
}

// ParseCategory returns the Category matching s exactly, or false. Free-text
// group titles from playlists never reach a Channel through any other path.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Channel is the canonical unit of content. ID and StreamURL are always
// non-empty for channels inside a Store.
type Channel struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	LogoURL    string    `json:"logo_url,omitempty"`
	StreamURL  string    `json:"stream_url"`
	Category   Category  `json:"category,omitempty"` // "" while pending categorization
	Transport  Transport `json:"transport"`
	DrmScheme  string    `json:"drm_scheme,omitempty"`  // opaque pass-through
	DrmLicense string    `json:"drm_license,omitempty"` // opaque pass-through
	AuthCookie string    `json:"auth_cookie,omitempty"` // sent as Cookie on proxied fetches
	NeedsProxy bool      `json:"needs_proxy,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
