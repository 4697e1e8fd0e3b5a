package ingest

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly/v2"

	"github.com/robobook/backend/internal/log"
)

const fetchUserAgent = "robobook-ingest/1.0"

// Extractor downloads pages and pulls their readable text.
type Extractor struct {
	collector *colly.Collector
	logger    log.Logger
}

// NewExtractor creates a page extractor.
func NewExtractor(logger log.Logger) *Extractor {
	if logger == nil {
		logger = log.NewNop()
	}
	c := colly.NewCollector(
		colly.UserAgent(fetchUserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(30 * time.Second)
	return &Extractor{collector: c, logger: logger}
}

// Extract fetches a page and returns its readable text. Article extraction
// runs first; when it yields nothing the page body is stripped of markup
// as a fallback. An empty result with a nil error means the page had no
// usable text.
func (e *Extractor) Extract(pageURL string) (string, error) {
	var (
		body     []byte
		fetchErr error
	)
	c := e.collector.Clone()
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return "", fmt.Errorf("fetching %q: %w", pageURL, err)
	}
	c.Wait()
	if fetchErr != nil {
		return "", fmt.Errorf("fetching %q: %w", pageURL, fetchErr)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parsing url %q: %w", pageURL, err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text, nil
		}
	}

	text, err := stripMarkup(body)
	if err != nil {
		return "", fmt.Errorf("extracting text from %q: %w", pageURL, err)
	}
	if text == "" {
		e.logger.Warn("no text extracted", "url", pageURL)
	}
	return text, nil
}

// stripMarkup is the fallback extraction: drop non-content elements and
// collapse the remaining body text.
func stripMarkup(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, nav, header, footer, noscript").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}
