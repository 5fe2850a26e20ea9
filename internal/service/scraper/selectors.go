package scraper

import "github.com/tastify/tastify-backend-go/internal/domain"

// PlatformSelectors lists the platform-specific CSS selectors probed after
// the generic meta-tag sources. These track each platform's caption markup
// and will drift as the sites redesign; keeping them as data makes tests
// and updates cheap.
type PlatformSelectors struct {
	Title       []string
	Description []string
}

func DefaultSelectors() map[domain.Platform]PlatformSelectors {
	return map[domain.Platform]PlatformSelectors{
		domain.PlatformTikTok: {
			Title: []string{
				".video-meta-title",
				`[data-e2e="browse-video-desc"]`,
			},
			Description: []string{
				".video-meta-caption",
				`[data-e2e="video-desc"]`,
			},
		},
		domain.PlatformInstagram: {
			Title: []string{
				".media-desc",
			},
			Description: []string{
				".Caption",
			},
		},
	}
}
