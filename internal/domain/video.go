package domain

import (
	"regexp"
	"strings"
)

type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformUnknown   Platform = "unknown"
)

func (p Platform) String() string {
	return string(p)
}

func (p Platform) IsValid() bool {
	switch p {
	case PlatformTikTok, PlatformInstagram, PlatformUnknown:
		return true
	default:
		return false
	}
}

// VideoRef is a classified input URL. Platform is derived from substring
// matching only, so a VideoRef may carry PlatformUnknown for URLs that
// never pass the supported-pattern check.
type VideoRef struct {
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
}

// VideoMetadata is the best-effort title/description scraped from a video's
// public page. Fields are empty strings (never absent) when extraction fails.
type VideoMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Platform    Platform `json:"platform"`
}

var (
	tiktokURLPattern    = regexp.MustCompile(`^https?://(www\.)?(tiktok\.com|vm\.tiktok\.com)`)
	instagramURLPattern = regexp.MustCompile(`^https?://(www\.)?(instagram\.com|instagr\.am)`)
)

var platformMarkers = []struct {
	marker   string
	platform Platform
}{
	{"tiktok", PlatformTikTok},
	{"instagram", PlatformInstagram},
}

// ClassifyVideoURL tags a raw input string with its platform. Total function:
// anything that matches no marker classifies as unknown rather than erroring.
// First marker match wins.
func ClassifyVideoURL(raw string) VideoRef {
	lower := strings.ToLower(raw)
	for _, m := range platformMarkers {
		if strings.Contains(lower, m.marker) {
			return VideoRef{URL: raw, Platform: m.platform}
		}
	}
	return VideoRef{URL: raw, Platform: PlatformUnknown}
}

// IsSupportedVideoURL reports whether the URL matches one of the supported
// platform prefixes. The pipeline rejects anything else before touching the
// network.
func IsSupportedVideoURL(raw string) bool {
	return tiktokURLPattern.MatchString(raw) || instagramURLPattern.MatchString(raw)
}
