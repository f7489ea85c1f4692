package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"sync"
	"time"

	"github.com/job-connect/listings/internal/listing"
	"github.com/rs/zerolog"
)

// Source caches full collections of an underlying listing source. Searches
// always go to the underlying source.
//
// A fetch that started before an Invalidate of the same kind does not write
// its result back, so a write is never masked by an older collection.
type Source struct {
	next  listing.Source
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger

	mu  sync.Mutex
	gen map[listing.Kind]uint64
}

func NewSource(next listing.Source, c Cache, ttl time.Duration, log zerolog.Logger) *Source {
	return &Source{next: next, cache: c, ttl: ttl, log: log, gen: make(map[listing.Kind]uint64)}
}

func (s *Source) generation(kind listing.Kind) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen[kind]
}

func Key(kind listing.Kind) string {
	return "listings:" + kind.Plural()
}

func (s *Source) Fetch(ctx context.Context, kind listing.Kind) ([]listing.Listing, error) {
	key := Key(kind)
	buf, err := s.cache.Get(ctx, key)
	if err == nil {
		var out []listing.Listing
		decErr := gob.NewDecoder(bytes.NewReader(buf)).Decode(&out)
		if decErr == nil {
			return out, nil
		}
		s.log.Warn().Err(decErr).Str("key", key).Msg("unable to decode cached listings")
	} else if err != ErrNotFound {
		s.log.Warn().Err(err).Str("key", key).Msg("unable to read listing cache")
	}

	gen := s.generation(kind)
	out, err := s.next.Fetch(ctx, kind)
	if err != nil || len(out) == 0 {
		return out, err
	}
	var enc bytes.Buffer
	if err := gob.NewEncoder(&enc).Encode(out); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("unable to encode listings")
		return out, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[kind] != gen {
		s.log.Debug().Str("key", key).Msg("collection invalidated during fetch, not caching")
		return out, nil
	}
	if err := s.cache.Set(ctx, key, enc.Bytes(), s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("unable to write listing cache")
	}
	return out, nil
}

func (s *Source) Search(ctx context.Context, kind listing.Kind, c listing.Criteria) ([]listing.Listing, error) {
	return s.next.Search(ctx, kind, c)
}

// Invalidate drops the cached collection of kind. Fetches already in flight
// for kind will not cache their result.
func (s *Source) Invalidate(ctx context.Context, kind listing.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[kind]++
	return s.cache.Delete(ctx, Key(kind))
}
