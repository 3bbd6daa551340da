package readmodel

import (
	"context"
	"fmt"

	"github.com/aleister1102/autoaudit/internal/models"

	"github.com/rs/zerolog"
)

// urlListKey is the single key under which the URL listing is cached.
const urlListKey Key = "urls:list"

// LatestCheckKey returns the cache key for a URL's latest check.
func LatestCheckKey(urlID int64) Key {
	return Key(fmt.Sprintf("checks:latest:%d", urlID))
}

// Store aggregates the agent's read-model caches. It is an explicit,
// injected object: tests construct isolated instances per case instead of
// sharing ambient singletons.
type Store struct {
	urlList      *Cache[[]models.MonitoredURL]
	latestChecks *Cache[models.Check]
}

// NewStore creates a store with empty caches.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		urlList:      NewCache[[]models.MonitoredURL](logger),
		latestChecks: NewCache[models.Check](logger),
	}
}

// URLList returns the cached URL listing, refetching when stale or absent.
func (s *Store) URLList(ctx context.Context, fetch func(context.Context) ([]models.MonitoredURL, error)) ([]models.MonitoredURL, error) {
	return s.urlList.Get(ctx, urlListKey, fetch)
}

// LatestCheck returns the cached latest check for a URL, refetching when
// stale or absent.
func (s *Store) LatestCheck(ctx context.Context, urlID int64, fetch func(context.Context) (models.Check, error)) (models.Check, error) {
	return s.latestChecks.Get(ctx, LatestCheckKey(urlID), fetch)
}

// PeekLatestCheck returns the cached latest check without fetching.
func (s *Store) PeekLatestCheck(urlID int64) (models.Check, bool, bool) {
	return s.latestChecks.Peek(LatestCheckKey(urlID))
}

// InvalidateURLList marks the URL listing stale.
func (s *Store) InvalidateURLList() {
	s.urlList.Invalidate(urlListKey)
}

// InvalidateLatestCheck marks one URL's latest-check entry stale. Entries
// for other URL ids are untouched.
func (s *Store) InvalidateLatestCheck(urlID int64) {
	s.latestChecks.Invalidate(LatestCheckKey(urlID))
}
