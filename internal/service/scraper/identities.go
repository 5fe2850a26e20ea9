package scraper

// ClientIdentity is one synthetic client the scraper fetches a page as.
// Video platforms serve different markup to different identities, so the
// scraper rotates through these in priority order until the metadata looks
// complete.
type ClientIdentity struct {
	Name      string
	UserAgent string
}

// DefaultIdentities returns the built-in rotation order: a mobile browser
// (platforms render the richest meta tags for phones), a desktop browser,
// and a link-preview crawler which often gets the cleanest Open Graph tags.
func DefaultIdentities() []ClientIdentity {
	return []ClientIdentity{
		{
			Name:      "mobile-safari",
			UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1",
		},
		{
			Name:      "desktop-chrome",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		{
			Name:      "facebook-crawler",
			UserAgent: "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)",
		},
	}
}

// baseHeaders are sent with every fetch regardless of identity.
// Accept-Encoding is left to the transport so response bodies arrive
// decompressed.
var baseHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"DNT":                       "1",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}
