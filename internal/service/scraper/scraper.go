package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tastify/tastify-backend-go/internal/constants"
	"github.com/tastify/tastify-backend-go/internal/domain"
	"github.com/tastify/tastify-backend-go/internal/util"
	"go.uber.org/zap"
)

// Service fetches a video's public page under rotating client identities and
// extracts the best available title/description. It never fails: total
// scrape failure yields empty-string metadata carrying the ref's platform.
type Service struct {
	httpClient *http.Client
	identities []ClientIdentity
	selectors  map[domain.Platform]PlatformSelectors
	logger     *zap.Logger
}

type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	Identities   []ClientIdentity                      // injectable for tests; nil means DefaultIdentities
	Selectors    map[domain.Platform]PlatformSelectors // injectable for tests; nil means DefaultSelectors
	Transport    http.RoundTripper                     // injectable for tests; nil means http.DefaultTransport
}

func NewService(cfg Config, logger *zap.Logger) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.ScraperConfig.RequestTimeout
	}

	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = constants.ScraperConfig.MaxRedirects
	}

	identities := cfg.Identities
	if identities == nil {
		identities = DefaultIdentities()
	}

	selectors := cfg.Selectors
	if selectors == nil {
		selectors = DefaultSelectors()
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: cfg.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &Service{
		httpClient: client,
		identities: identities,
		selectors:  selectors,
		logger:     logger,
	}
}

// Scrape rotates through the identity list, keeping the longest value seen
// per field, and stops early once both fields look complete. Identity
// failures are logged and skipped; they are never fatal to the scrape.
func (s *Service) Scrape(ctx context.Context, ref domain.VideoRef) domain.VideoMetadata {
	best := domain.VideoMetadata{Platform: ref.Platform}

	for _, identity := range s.identities {
		meta, err := s.fetchWithIdentity(ctx, ref, identity)
		if err != nil {
			s.logger.Debug("Identity fetch failed",
				zap.String("identity", identity.Name),
				zap.String("url", ref.URL),
				zap.Error(err))
			continue
		}

		best.Title = util.Longest(best.Title, meta.Title)
		best.Description = util.Longest(best.Description, meta.Description)

		if len(best.Title) > constants.ScraperConfig.GoodTitleLength &&
			len(best.Description) > constants.ScraperConfig.GoodDescLength {
			s.logger.Debug("Metadata good enough, stopping identity rotation",
				zap.String("identity", identity.Name))
			break
		}
	}

	s.logger.Info("Scrape finished",
		zap.String("url", ref.URL),
		zap.String("platform", ref.Platform.String()),
		zap.Int("title_len", len(best.Title)),
		zap.Int("description_len", len(best.Description)),
	)

	return best
}

func (s *Service) fetchWithIdentity(ctx context.Context, ref domain.VideoRef, identity ClientIdentity) (domain.VideoMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return domain.VideoMetadata{}, err
	}

	req.Header.Set("User-Agent", identity.UserAgent)
	for k, v := range baseHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.VideoMetadata{}, err
	}
	defer resp.Body.Close()

	// Block and captcha pages come back non-2xx with their own meta tags;
	// extracting those would poison the longest-wins merge.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.VideoMetadata{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.VideoMetadata{}, err
	}

	return s.extractMetadata(doc, ref.Platform), nil
}

// extractMetadata gathers title/description candidates from generic meta
// tags plus the platform's selector table and keeps the longest non-empty
// value per field. A JSON-LD block with a longer description overrides both.
func (s *Service) extractMetadata(doc *goquery.Document, platform domain.Platform) domain.VideoMetadata {
	titleCandidates := []string{
		metaContent(doc, `meta[property="og:title"]`),
		metaContent(doc, `meta[name="twitter:title"]`),
		metaContent(doc, `meta[property="og:site_name"]`),
		doc.Find("title").Text(),
	}
	descCandidates := []string{
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="twitter:description"]`),
		metaContent(doc, `meta[name="description"]`),
	}

	if sel, ok := s.selectors[platform]; ok {
		for _, q := range sel.Title {
			titleCandidates = append(titleCandidates, doc.Find(q).Text())
		}
		for _, q := range sel.Description {
			descCandidates = append(descCandidates, doc.Find(q).Text())
		}
	}

	title := longestCandidate(titleCandidates)
	description := longestCandidate(descCandidates)

	if ld, ok := parseJSONLD(doc); ok {
		if len(ld.Description) > len(description) {
			description = strings.TrimSpace(ld.Description)
			if name := ld.bestName(); name != "" {
				title = name
			}
		}
	}

	return domain.VideoMetadata{
		Title:       title,
		Description: description,
		Platform:    platform,
	}
}

type jsonLD struct {
	Name        string `json:"name"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
}

func (l jsonLD) bestName() string {
	if l.Name != "" {
		return strings.TrimSpace(l.Name)
	}
	return strings.TrimSpace(l.Headline)
}

func parseJSONLD(doc *goquery.Document) (jsonLD, bool) {
	raw := doc.Find(`script[type="application/ld+json"]`).First().Text()
	if strings.TrimSpace(raw) == "" {
		return jsonLD{}, false
	}

	var ld jsonLD
	if err := json.Unmarshal([]byte(raw), &ld); err == nil && ld.Description != "" {
		return ld, true
	}

	// Some pages wrap the structured data in a single-element array.
	var list []jsonLD
	if err := json.Unmarshal([]byte(raw), &list); err == nil && len(list) > 0 && list[0].Description != "" {
		return list[0], true
	}

	return jsonLD{}, false
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return content
}

func longestCandidate(candidates []string) string {
	best := ""
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}
