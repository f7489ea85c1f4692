package listing

import "context"

// Source is a backend able to list and search listings, newest first.
type Source interface {
	Fetch(ctx context.Context, kind Kind) ([]Listing, error)
	Search(ctx context.Context, kind Kind, c Criteria) ([]Listing, error)
}
