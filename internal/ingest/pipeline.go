package ingest

import (
	"context"
	"fmt"

	"github.com/robobook/backend/internal/knowledge"
	"github.com/robobook/backend/internal/log"
)

// TextExtractor pulls readable text from a page URL.
type TextExtractor interface {
	Extract(pageURL string) (string, error)
}

// ChunkStore persists embedded chunks. *knowledge.Store satisfies it.
type ChunkStore interface {
	Add(ctx context.Context, chunk knowledge.Chunk) error
	DeleteByURL(ctx context.Context, url string) (int64, error)
}

// Report summarizes one pipeline run.
type Report struct {
	Pages       int `json:"pages"`
	PagesFailed int `json:"pages_failed"`
	PagesEmpty  int `json:"pages_empty"`
	Chunks      int `json:"chunks"`
}

// Pipeline runs sitemap discovery, extraction, chunking and storage.
type Pipeline struct {
	sitemapURL    string
	extractor     TextExtractor
	store         ChunkStore
	maxChunkChars int
	logger        log.Logger
}

// NewPipeline creates an ingestion pipeline reading from sitemapURL.
func NewPipeline(sitemapURL string, extractor TextExtractor, store ChunkStore, logger log.Logger) *Pipeline {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Pipeline{
		sitemapURL:    sitemapURL,
		extractor:     extractor,
		store:         store,
		maxChunkChars: DefaultMaxChunkChars,
		logger:        logger,
	}
}

// Run ingests every page listed in the sitemap. Per-page failures are
// logged and counted but do not abort the run; a sitemap failure or
// context cancellation does.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	var report Report

	urls, err := Sitemap(ctx, p.sitemapURL)
	if err != nil {
		return report, err
	}
	p.logger.Info("sitemap fetched", "url", p.sitemapURL, "pages", len(urls))

	for _, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Pages++

		text, err := p.extractor.Extract(pageURL)
		if err != nil {
			p.logger.Warn("page extraction failed", "url", pageURL, "error", err)
			report.PagesFailed++
			continue
		}
		if text == "" {
			report.PagesEmpty++
			continue
		}

		// Re-ingesting a page replaces its previous chunks.
		if _, err := p.store.DeleteByURL(ctx, pageURL); err != nil {
			p.logger.Warn("clearing previous chunks failed", "url", pageURL, "error", err)
			report.PagesFailed++
			continue
		}

		stored := 0
		for i, content := range ChunkText(text, p.maxChunkChars) {
			chunk := knowledge.Chunk{
				ID:      fmt.Sprintf("%s#%d", pageURL, i),
				URL:     pageURL,
				Index:   i,
				Content: content,
			}
			if err := p.store.Add(ctx, chunk); err != nil {
				p.logger.Warn("storing chunk failed", "url", pageURL, "index", i, "error", err)
				continue
			}
			stored++
		}
		report.Chunks += stored
		p.logger.Info("page ingested", "url", pageURL, "chunks", stored)
	}

	p.logger.Info("ingestion complete",
		"pages", report.Pages,
		"failed", report.PagesFailed,
		"empty", report.PagesEmpty,
		"chunks", report.Chunks)
	return report, nil
}
