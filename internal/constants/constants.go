package constants

import "time"

var ScraperConfig = struct {
	RequestTimeout   time.Duration
	MaxRedirects     int
	GoodTitleLength  int
	GoodDescLength   int
	FallbackTitleMax int
}{
	RequestTimeout:   10 * time.Second,
	MaxRedirects:     5,
	GoodTitleLength:  20, // title longer than this counts as "good enough"
	GoodDescLength:   50, // same threshold for description
	FallbackTitleMax: 50, // fallback recipe titles truncate past this
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
}

var ShareConfig = struct {
	FreshnessWindow time.Duration
}{
	FreshnessWindow: 5 * time.Minute,
}

var BoardConfig = struct {
	PreviewCount       int
	PreviewConcurrency int
}{
	PreviewCount:       4,
	PreviewConcurrency: 4,
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}{
	ReadTimeout:     15 * time.Second,
	WriteTimeout:    60 * time.Second, // extraction can take a full scrape + model call
	ShutdownTimeout: 10 * time.Second,
}
