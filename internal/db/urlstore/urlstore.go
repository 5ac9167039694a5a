// Package urlstore is the in-memory store of short-alias mappings. It owns
// the collection of URL records; ownership checks are deliberately left to
// the access package so the store stays testable in isolation.
package urlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/tinylink/internal/keygen"
	"github.com/patric-chuzhbe/tinylink/internal/models"
)

const triesToGenerateUniqueKey = 10

// URLStore keeps URL records in process memory, guarded for concurrent
// access. Insertion order is preserved for listings.
type URLStore struct {
	mu      sync.RWMutex
	records map[string]*models.URLRecord
	order   []string
}

// New creates an empty URLStore.
func New() *URLStore {
	return &URLStore{
		records: map[string]*models.URLRecord{},
	}
}

// Create stores a new record under a freshly generated short id,
// regenerating the id on collision.
func (s *URLStore) Create(ctx context.Context, longURL, ownerID string) (*models.URLRecord, error) {
	if longURL == "" {
		return nil, fmt.Errorf("%w: the URL to shorten is required", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shortID, err := s.generateUniqueShortID()
	if err != nil {
		return nil, err
	}

	record := &models.URLRecord{
		ShortID: shortID,
		LongURL: longURL,
		OwnerID: ownerID,
	}
	s.records[shortID] = record
	s.order = append(s.order, shortID)

	recordCopy := *record

	return &recordCopy, nil
}

// Get returns the record with the given short id or models.ErrNotFound.
func (s *URLStore) Get(ctx context.Context, shortID string) (*models.URLRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, found := s.records[shortID]
	if !found {
		return nil, fmt.Errorf("%w: no record for short id %q", models.ErrNotFound, shortID)
	}
	recordCopy := *record

	return &recordCopy, nil
}

// Exists reports whether a record with the given short id is stored.
func (s *URLStore) Exists(ctx context.Context, shortID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.records[shortID]

	return exists, nil
}

// ListForOwner returns every record whose owner matches ownerID, in
// insertion order. An unknown owner yields an empty slice.
func (s *URLStore) ListForOwner(ctx context.Context, ownerID string) ([]models.URLRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.URLRecord, 0, len(s.order))
	for _, shortID := range s.order {
		all = append(all, *s.records[shortID])
	}

	return funk.Filter(all, func(record models.URLRecord) bool {
		return record.OwnerID == ownerID
	}).([]models.URLRecord), nil
}

// Update replaces the long URL of an existing record. It returns
// models.ErrNotFound when the short id is absent; the caller authorizes
// separately.
func (s *URLStore) Update(ctx context.Context, shortID, newLongURL string) (*models.URLRecord, error) {
	if newLongURL == "" {
		return nil, fmt.Errorf("%w: the new URL is required", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, found := s.records[shortID]
	if !found {
		return nil, fmt.Errorf("%w: no record for short id %q", models.ErrNotFound, shortID)
	}
	record.LongURL = newLongURL

	recordCopy := *record

	return &recordCopy, nil
}

// Delete removes the record with the given short id. A second delete of
// the same id fails with models.ErrNotFound rather than silently
// succeeding.
func (s *URLStore) Delete(ctx context.Context, shortID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.records[shortID]; !found {
		return fmt.Errorf("%w: no record for short id %q", models.ErrNotFound, shortID)
	}
	delete(s.records, shortID)
	s.order = funk.FilterString(s.order, func(id string) bool {
		return id != shortID
	})

	return nil
}

// ResolveTarget returns the redirect target for the given short id. A
// stored URL without an http/https scheme gets an "http://" prefix at
// read time; the stored value is left as the user entered it.
func (s *URLStore) ResolveTarget(ctx context.Context, shortID string) (string, error) {
	record, err := s.Get(ctx, shortID)
	if err != nil {
		return "", err
	}

	target := strings.TrimSpace(record.LongURL)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "http://" + target
	}

	return target, nil
}

// NumberOfRecords returns the count of stored records.
func (s *URLStore) NumberOfRecords(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.records)), nil
}

// generateUniqueShortID must be called with the write lock held.
func (s *URLStore) generateUniqueShortID() (string, error) {
	for i := 0; i < triesToGenerateUniqueKey; i++ {
		shortID := keygen.Generate()
		if _, exists := s.records[shortID]; !exists {
			return shortID, nil
		}
	}

	return "", errors.New("the number of attempts to generate a unique short id has been exceeded")
}
