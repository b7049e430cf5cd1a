package artwork

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/desertthunder/clickwheel/internal/shared"
	"golang.org/x/time/rate"
)

// maxPageBytes bounds how much of a playlist page is scanned for metadata.
const maxPageBytes = 1 << 20

var (
	ogImagePropertyFirst = regexp.MustCompile(`(?is)<meta[^>]+property\s*=\s*["']og:image["'][^>]*content\s*=\s*["']([^"']+)["']`)
	ogImageContentFirst  = regexp.MustCompile(`(?is)<meta[^>]+content\s*=\s*["']([^"']+)["'][^>]*property\s*=\s*["']og:image["']`)
)

// Fetcher reads a playlist page and extracts its og:image, throttled by a token bucket.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// FetcherOpts configures a [Fetcher].
type FetcherOpts struct {
	Client        *http.Client
	RatePerSecond float64
	Burst         int
	Timeout       time.Duration
	UserAgent     string
}

// NewFetcher creates a fetcher. A non-positive rate means unlimited.
func NewFetcher(opts FetcherOpts) *Fetcher {
	if opts.Client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		opts.Client = &http.Client{Timeout: timeout}
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "clickwheel/1.0"
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	return &Fetcher{
		client:    opts.Client,
		limiter:   rate.NewLimiter(limit, opts.Burst),
		userAgent: opts.UserAgent,
	}
}

// Fetch returns the absolute og:image URL advertised by the page at pageURL.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	ref := ExtractOGImage(string(body))
	if ref == "" {
		return "", shared.ErrArtworkNotFound
	}

	return absolute(pageURL, ref)
}

// ExtractOGImage finds the og:image meta content in an HTML document, or returns "".
func ExtractOGImage(html string) string {
	for _, re := range []*regexp.Regexp{ogImagePropertyFirst, ogImageContentFirst} {
		if m := re.FindStringSubmatch(html); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func absolute(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return b.ResolveReference(r).String(), nil
}
