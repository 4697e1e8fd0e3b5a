package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robobook/backend/internal/knowledge"
	"github.com/robobook/backend/internal/log"
)

const testSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://book.example.com/intro</loc></url>
  <url><loc>https://book.example.com/sensors</loc></url>
  <url><loc></loc></url>
  <url><loc>https://book.example.com/broken</loc></url>
</urlset>`

type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) Extract(pageURL string) (string, error) {
	if err := f.errs[pageURL]; err != nil {
		return "", err
	}
	return f.texts[pageURL], nil
}

type fakeStore struct {
	added   []knowledge.Chunk
	cleared []string
	addErr  error
}

func (f *fakeStore) Add(_ context.Context, chunk knowledge.Chunk) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, chunk)
	return nil
}

func (f *fakeStore) DeleteByURL(_ context.Context, url string) (int64, error) {
	f.cleared = append(f.cleared, url)
	return 0, nil
}

func TestParseSitemap(t *testing.T) {
	urls, err := parseSitemap([]byte(testSitemap))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://book.example.com/intro",
		"https://book.example.com/sensors",
		"https://book.example.com/broken",
	}, urls, "empty loc entries are skipped")
}

func TestParseSitemapInvalidXML(t *testing.T) {
	_, err := parseSitemap([]byte("not xml at all <"))
	assert.Error(t, err)
}

func TestSitemapFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testSitemap))
	}))
	defer srv.Close()

	urls, err := Sitemap(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, urls, 3)
}

func TestSitemapFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Sitemap(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "unexpected status")
}

func TestPipelineRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testSitemap))
	}))
	defer srv.Close()

	extractor := &fakeExtractor{
		texts: map[string]string{
			"https://book.example.com/intro":   "Welcome to the book. It covers AI and robotics.",
			"https://book.example.com/sensors": "",
		},
		errs: map[string]error{
			"https://book.example.com/broken": errors.New("connection refused"),
		},
	}
	store := &fakeStore{}
	pipeline := NewPipeline(srv.URL, extractor, store, log.NewNop())

	report, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Pages)
	assert.Equal(t, 1, report.PagesFailed)
	assert.Equal(t, 1, report.PagesEmpty)
	assert.Equal(t, 1, report.Chunks)

	require.Len(t, store.added, 1)
	chunk := store.added[0]
	assert.Equal(t, "https://book.example.com/intro#0", chunk.ID)
	assert.Equal(t, "https://book.example.com/intro", chunk.URL)
	assert.Equal(t, 0, chunk.Index)
	assert.Equal(t, []string{"https://book.example.com/intro"}, store.cleared,
		"only pages with text get their old chunks cleared")
}

func TestPipelineRunChunksLongPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
			<url><loc>https://book.example.com/long</loc></url></urlset>`))
	}))
	defer srv.Close()

	long := strings.Repeat("A sentence about robots. ", 200)
	extractor := &fakeExtractor{texts: map[string]string{"https://book.example.com/long": long}}
	store := &fakeStore{}

	report, err := NewPipeline(srv.URL, extractor, store, log.NewNop()).Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, report.Chunks, 1)
	for i, chunk := range store.added {
		assert.Equal(t, i, chunk.Index)
		assert.LessOrEqual(t, len(chunk.Content), DefaultMaxChunkChars)
	}
}

func TestPipelineRunSitemapFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewPipeline(srv.URL, &fakeExtractor{}, &fakeStore{}, log.NewNop()).Run(context.Background())
	assert.Error(t, err)
}

func TestPipelineRunCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testSitemap))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(srv.URL, &fakeExtractor{}, &fakeStore{}, log.NewNop()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStripMarkup(t *testing.T) {
	html := `<html><head><style>body{}</style></head><body>
		<nav>Menu</nav>
		<p>Robots   use sensors.</p>
		<script>alert(1)</script>
		<footer>Copyright</footer>
	</body></html>`

	text, err := stripMarkup([]byte(html))
	require.NoError(t, err)
	assert.Equal(t, "Robots use sensors.", text)
}
