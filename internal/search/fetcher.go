package search

import (
	"context"

	"github.com/job-connect/listings/internal/filter"
	"github.com/job-connect/listings/internal/listing"
	"github.com/pkg/errors"
)

// Fetcher is the data-fetch layer on top of a listing source. Every result
// is ordered newest first.
type Fetcher struct {
	src listing.Source
}

func NewFetcher(src listing.Source) *Fetcher {
	return &Fetcher{src: src}
}

func (f *Fetcher) FetchJobs(ctx context.Context) ([]listing.Listing, error) {
	return f.Fetch(ctx, listing.KindJob)
}

func (f *Fetcher) FetchInternships(ctx context.Context) ([]listing.Listing, error) {
	return f.Fetch(ctx, listing.KindInternship)
}

func (f *Fetcher) SearchJobs(ctx context.Context, query string, filters filter.State) ([]listing.Listing, error) {
	return f.Search(ctx, listing.KindJob, withQuery(filters, query))
}

func (f *Fetcher) SearchInternships(ctx context.Context, query string, filters filter.State) ([]listing.Listing, error) {
	return f.Search(ctx, listing.KindInternship, withQuery(filters, query))
}

func (f *Fetcher) Fetch(ctx context.Context, kind listing.Kind) ([]listing.Listing, error) {
	out, err := f.src.Fetch(ctx, kind)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to fetch %s", kind.Plural())
	}
	return out, nil
}

// Search runs the remote predicate for state, query included.
func (f *Fetcher) Search(ctx context.Context, kind listing.Kind, state filter.State) ([]listing.Listing, error) {
	out, err := f.src.Search(ctx, kind, filter.Criteria(state, kind))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to search %s", kind.Plural())
	}
	return out, nil
}

func withQuery(filters filter.State, query string) filter.State {
	s := filters.Clone()
	if query == "" {
		delete(s, filter.Query)
	} else {
		s[filter.Query] = query
	}
	return s
}
