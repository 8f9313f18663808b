package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/scanner"
)

const (
	naverOrigin      = "https://news.naver.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Headline blocks come first; the general list follows.
var candidateSelectors = []string{
	"ul.type06_headline li",
	"ul.type06 li",
}

// NaverScanner extracts headline links from the Naver News section listing.
type NaverScanner struct {
	client    *http.Client
	origin    string
	userAgent string
	logger    *slog.Logger
}

// NaverOptions tunes the scanner; zero values fall back to Naver defaults.
type NaverOptions struct {
	Origin    string
	UserAgent string
	Timeout   time.Duration
}

// NewNaverScanner wires an HTTP client; a nil client gets one bounded by opts.Timeout (10s by default).
func NewNaverScanner(client *http.Client, opts NaverOptions, log *slog.Logger) *NaverScanner {
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	origin := strings.TrimSuffix(opts.Origin, "/")
	if origin == "" {
		origin = naverOrigin
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &NaverScanner{
		client:    client,
		origin:    origin,
		userAgent: userAgent,
		logger:    log,
	}
}

// Name identifies the strategy inside the registry.
func (n *NaverScanner) Name() string {
	return "naver"
}

// Scan downloads the listing page once and returns up to req.Limit articles.
func (n *NaverScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if req.Limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", req.Limit)
	}

	pageURL, err := buildListURL(req.URL, req.Query)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	doc, err := n.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	articles := n.extractArticles(doc, req.Limit)
	n.debug("listing parsed", "site", req.SiteName, "articles", len(articles))
	return articles, nil
}

func (n *NaverScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (n *NaverScanner) extractArticles(doc *goquery.Document, limit int) []domain.Article {
	collected := make([]domain.Article, 0, limit)

	for _, selector := range candidateSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
			article, ok := n.parseItem(item)
			if !ok {
				return true
			}
			collected = append(collected, article)
			return len(collected) < limit
		})
		if len(collected) >= limit {
			break
		}
	}

	return collected
}

func (n *NaverScanner) parseItem(item *goquery.Selection) (domain.Article, bool) {
	link := item.Find("dt:not(.photo) a").First()
	if link.Length() == 0 {
		link = item.Find("a").First()
	}
	if link.Length() == 0 {
		return domain.Article{}, false
	}

	title := strings.TrimSpace(link.Text())
	if title == "" {
		return domain.Article{}, false
	}

	href, _ := link.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return domain.Article{}, false
	}

	return domain.Article{
		Title: title,
		URL:   absoluteURL(n.origin, href),
	}, true
}

func (n *NaverScanner) debug(msg string, args ...interface{}) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}

// absoluteURL prefixes site-relative paths with origin; anything else passes through.
func absoluteURL(origin, href string) string {
	if strings.HasPrefix(href, "/") {
		return origin + href
	}
	return href
}

func buildListURL(base string, params map[string]string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %s: %w", base, err)
	}

	query := parsed.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
