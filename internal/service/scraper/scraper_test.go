package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastify/tastify-backend-go/internal/domain"
	"go.uber.org/zap"
)

func newTestScraper(t *testing.T, cfg Config) *Service {
	t.Helper()
	return NewService(cfg, zap.NewNop())
}

func serveHTML(html string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}))
}

func TestScrapeOpenGraphMetadata(t *testing.T) {
	server := serveHTML(`<html><head>
		<meta property="og:title" content="60 Second Pad Thai You Need To Try" />
		<meta property="og:description" content="Full ingredient list: rice noodles, tamarind paste, fish sauce, peanuts. Soak, fry, serve." />
		<title>TikTok</title>
	</head><body></body></html>`)
	defer server.Close()

	svc := newTestScraper(t, Config{})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformTikTok})

	assert.Equal(t, "60 Second Pad Thai You Need To Try", meta.Title)
	assert.Contains(t, meta.Description, "rice noodles")
	assert.Equal(t, domain.PlatformTikTok, meta.Platform)
}

func TestScrapeKeepsLongestCandidatePerField(t *testing.T) {
	server := serveHTML(`<html><head>
		<meta property="og:title" content="Short" />
		<meta name="twitter:title" content="A Much Longer And More Descriptive Title" />
		<meta name="description" content="tiny" />
		<meta property="og:description" content="This is the significantly longer description of the recipe video." />
	</head><body></body></html>`)
	defer server.Close()

	svc := newTestScraper(t, Config{})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformTikTok})

	assert.Equal(t, "A Much Longer And More Descriptive Title", meta.Title)
	assert.Equal(t, "This is the significantly longer description of the recipe video.", meta.Description)
}

func TestScrapeJSONLDOverridesMetaTags(t *testing.T) {
	server := serveHTML(`<html><head>
		<meta property="og:title" content="Some Page Title That Is Long Enough" />
		<meta property="og:description" content="short og description" />
		<script type="application/ld+json">
			{"name":"Grandma's Lasagna","description":"Layered pasta with ragu and bechamel, baked for 45 minutes. The complete walkthrough with every measurement included."}
		</script>
	</head><body></body></html>`)
	defer server.Close()

	svc := newTestScraper(t, Config{})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformInstagram})

	assert.Equal(t, "Grandma's Lasagna", meta.Title)
	assert.Contains(t, meta.Description, "bechamel")
}

func TestScrapeJSONLDArrayForm(t *testing.T) {
	server := serveHTML(`<html><head>
		<script type="application/ld+json">
			[{"headline":"Crispy Tofu Bowl","description":"Press the tofu, cube it, toss in cornstarch, then bake at 220C until golden and crispy all over."}]
		</script>
	</head><body></body></html>`)
	defer server.Close()

	svc := newTestScraper(t, Config{})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformTikTok})

	assert.Equal(t, "Crispy Tofu Bowl", meta.Title)
	assert.Contains(t, meta.Description, "cornstarch")
}

func TestScrapePlatformSelectors(t *testing.T) {
	server := serveHTML(`<html><head><title>x</title></head><body>
		<div data-e2e="browse-video-desc">Viral Birria Tacos Full Recipe Inside</div>
		<div data-e2e="video-desc">Beef chuck, guajillo chiles, consomme for dipping. Slow cook 3 hours then shred and crisp on the plancha.</div>
	</body></html>`)
	defer server.Close()

	svc := newTestScraper(t, Config{})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformTikTok})

	assert.Equal(t, "Viral Birria Tacos Full Recipe Inside", meta.Title)
	assert.Contains(t, meta.Description, "guajillo")
}

func TestScrapeRotatesIdentitiesAndMerges(t *testing.T) {
	// Only the crawler identity gets the rich page, and neither response
	// alone clears the early-exit thresholds.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if strings.Contains(r.UserAgent(), "facebookexternalhit") {
			w.Write([]byte(`<html><head><meta property="og:description" content="Whipped feta dip with honey and chili crisp." /></head></html>`))
			return
		}
		w.Write([]byte(`<html><head><meta property="og:title" content="Whipped Feta" /></head></html>`))
	}))
	defer server.Close()

	svc := newTestScraper(t, Config{})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformInstagram})

	assert.Equal(t, "Whipped Feta", meta.Title)
	assert.Equal(t, "Whipped feta dip with honey and chili crisp.", meta.Description)
}

func TestScrapeStopsEarlyOnGoodMetadata(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="The Ultimate Smash Burger Technique" />
			<meta property="og:description" content="80/20 beef, loosely packed balls, smashed hard for 10 seconds on a ripping hot griddle. Salt only after the smash." />
		</head></html>`))
	}))
	defer server.Close()

	svc := newTestScraper(t, Config{})
	svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformTikTok})

	assert.Equal(t, int32(1), requests.Load(), "rotation should stop after the first complete response")
}

func TestScrapeIgnoresBlockPages(t *testing.T) {
	// Block pages carry their own Open Graph tags; a non-2xx response must
	// count as an identity failure, not a metadata source.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="Access Denied - Please Verify You Are Human" />
			<meta property="og:description" content="Your request has been blocked. Complete the captcha challenge to continue browsing." />
		</head></html>`))
	}))
	defer server.Close()

	svc := newTestScraper(t, Config{})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformTikTok})

	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Description)
}

func TestScrapeRotatesPastBlockedIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if strings.Contains(r.UserAgent(), "iPhone") {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`<html><head><meta property="og:title" content="Rate limited, slow down and try again later" /></head></html>`))
			return
		}
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="One Pot Chicken Orzo Everyone Asks For" />
			<meta property="og:description" content="Sear thighs, toast the orzo in the drippings, simmer in stock with lemon and parmesan." />
		</head></html>`))
	}))
	defer server.Close()

	svc := newTestScraper(t, Config{})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformTikTok})

	assert.Equal(t, "One Pot Chicken Orzo Everyone Asks For", meta.Title)
	assert.Contains(t, meta.Description, "orzo")
}

func TestScrapeGivesUpOnRedirectLoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer server.Close()

	svc := newTestScraper(t, Config{MaxRedirects: 2})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformInstagram})

	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Description)
	assert.Equal(t, domain.PlatformInstagram, meta.Platform)
}

func TestScrapeNeverFails(t *testing.T) {
	server := serveHTML("<html></html>")
	url := server.URL
	server.Close()

	svc := newTestScraper(t, Config{})
	meta := svc.Scrape(context.Background(), domain.VideoRef{URL: url, Platform: domain.PlatformTikTok})

	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Description)
	assert.Equal(t, domain.PlatformTikTok, meta.Platform, "platform survives total scrape failure")
}

func TestScrapeSendsIdentityHeaders(t *testing.T) {
	var sawUA, sawLang atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() != "" {
			sawUA.Store(true)
		}
		if r.Header.Get("Accept-Language") != "" {
			sawLang.Store(true)
		}
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	svc := newTestScraper(t, Config{})
	svc.Scrape(context.Background(), domain.VideoRef{URL: server.URL, Platform: domain.PlatformTikTok})

	require.True(t, sawUA.Load(), "requests must carry a user agent")
	require.True(t, sawLang.Load(), "requests must carry browser-like headers")
}

func TestDefaultIdentities(t *testing.T) {
	identities := DefaultIdentities()
	require.GreaterOrEqual(t, len(identities), 3)

	joined := ""
	for _, id := range identities {
		joined += id.UserAgent + "\n"
	}
	assert.Contains(t, joined, "iPhone")
	assert.Contains(t, joined, "Chrome")
	assert.Contains(t, joined, "facebookexternalhit")
}
