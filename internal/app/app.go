package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagepeek/internal/cache"
	"github.com/hyperifyio/pagepeek/internal/extract"
	"github.com/hyperifyio/pagepeek/internal/fetch"
)

// ErrParse is returned when a fetched body cannot be parsed into a document
// tree at all.
var ErrParse = errors.New("could not parse document")

// App owns the fetch client and the result cache and exposes the three
// service operations: submit a URL for extraction, list cached records, and
// clear them.
type App struct {
	cfg     Config
	fetcher *fetch.Client
	results *cache.Results
}

func New(cfg Config) *App {
	return &App{
		cfg: cfg,
		fetcher: &fetch.Client{
			UserAgent:    cfg.UserAgent,
			Timeout:      cfg.FetchTimeout,
			MaxBodyBytes: cfg.MaxBodyBytes,
		},
		results: cache.NewResults(cfg.CacheCapacity),
	}
}

// SubmitURL returns the extraction record for rawURL, serving repeat
// requests from the cache keyed by the exact URL string. The returned bool
// reports whether the record came from the cache. force bypasses the lookup
// but the fresh result is still stored.
func (a *App) SubmitURL(ctx context.Context, rawURL string, force bool) (*extract.Record, bool, error) {
	if !force {
		if rec, ok := a.results.Get(rawURL); ok {
			log.Debug().Str("url", rawURL).Msg("cache hit")
			return rec, true, nil
		}
	}

	res, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, false, err
	}

	doc, err := extract.ParseHTML(res.Body, res.ContentType)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrParse, err)
	}

	// Resolution anchors on the final URL of the fetch (redirects followed);
	// the record and the cache key keep the URL as originally requested.
	rec := extract.Extract(doc, res.FinalURL, res.StatusCode, res.ContentType)
	rec.SourceURL = rawURL
	a.results.Put(rawURL, &rec)

	log.Info().
		Str("url", rawURL).
		Int("status", res.StatusCode).
		Int("links", len(rec.Links)).
		Int("images", len(rec.Images)).
		Msg("page extracted")
	return &rec, false, nil
}

// History returns cached records oldest first; consumers reverse for
// most-recent-first views.
func (a *App) History() []*extract.Record {
	return a.results.Values()
}

// ClearHistory drops every cached record.
func (a *App) ClearHistory() {
	a.results.Clear()
	log.Info().Msg("history cleared")
}
