package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	humanize "github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/job-connect/listings/internal/filter"
	"github.com/job-connect/listings/internal/listing"
	"github.com/job-connect/listings/internal/middleware"
	"github.com/job-connect/listings/internal/search"
	"github.com/job-connect/listings/internal/server"
	"github.com/pkg/errors"
)

const (
	modeCollection = "collection"
	modeSearch     = "search"
	modeLocal      = "local"
)

// ListingFinder looks a single listing up. Both the Postgres repository and
// the Supabase client satisfy it.
type ListingFinder interface {
	ByID(ctx context.Context, kind listing.Kind, id string) (listing.Listing, error)
}

type ListingStore interface {
	Save(ctx context.Context, kind listing.Kind, rq listing.ListingRq) (listing.Listing, error)
	Close(ctx context.Context, kind listing.Kind, id string) error
}

// Invalidator drops a cached collection after a write.
type Invalidator interface {
	Invalidate(ctx context.Context, kind listing.Kind) error
}

type listingsResponse struct {
	Kind    listing.Kind      `json:"kind"`
	Mode    string            `json:"mode"`
	Total   int               `json:"total"`
	Filters filter.State      `json:"filters"`
	Items   []listing.Listing `json:"items"`
}

// ListingsHandler serves the listings tab of kind. Without filters the full
// collection is returned; with at least one filter the remote search is
// used. mode=local evaluates the filters over the collection instead.
func ListingsHandler(svr server.Server, fetcher *search.Fetcher, kind listing.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := filter.FromValues(r.URL.Query().Get)
		mode := modeCollection
		if r.URL.Query().Get("mode") == modeLocal {
			mode = modeLocal
		} else if state.Active() {
			mode = modeSearch
		}

		var (
			items []listing.Listing
			err   error
		)
		switch mode {
		case modeSearch:
			items, err = fetcher.Search(r.Context(), kind, state)
		case modeLocal:
			items, err = fetcher.Fetch(r.Context(), kind)
			items = filter.Apply(items, state)
		default:
			items, err = fetcher.Fetch(r.Context(), kind)
		}
		if err != nil {
			verb := "fetch"
			if mode == modeSearch {
				verb = "search"
			}
			svr.Log(err, fmt.Sprintf("unable to %s %s", verb, kind.Plural()))
			svr.Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to %s %s", verb, kind.Plural()))
			return
		}
		items = withTimeAgo(items)
		svr.JSON(w, http.StatusOK, listingsResponse{
			Kind:    kind,
			Mode:    mode,
			Total:   len(items),
			Filters: state,
			Items:   items,
		})
	}
}

func withTimeAgo(items []listing.Listing) []listing.Listing {
	out := make([]listing.Listing, len(items))
	for i, l := range items {
		if !l.CreatedAt.IsZero() {
			l.TimeAgo = humanize.Time(l.CreatedAt)
		}
		out[i] = l
	}
	return out
}

func ListingHandler(svr server.Server, finder ListingFinder, kind listing.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, err := uuid.Parse(id); err != nil {
			svr.Error(w, http.StatusNotFound, fmt.Sprintf("%s not found", kind))
			return
		}
		l, err := finder.ByID(r.Context(), kind, id)
		if errors.Cause(err) == listing.ErrNotFound {
			svr.Error(w, http.StatusNotFound, fmt.Sprintf("%s not found", kind))
			return
		}
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to get %s %s", kind, id))
			svr.Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch %s", kind))
			return
		}
		svr.JSON(w, http.StatusOK, withTimeAgo([]listing.Listing{l})[0])
	}
}

// PostListingHandler publishes a new listing owned by the calling employer.
func PostListingHandler(svr server.Server, store ListingStore, inv Invalidator, kind listing.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := middleware.GetUserFromJWT(r)
		if err != nil {
			svr.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var rq listing.ListingRq
		if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
			svr.Error(w, http.StatusBadRequest, "request is invalid")
			return
		}
		rq.Normalize()
		if err := rq.Validate(kind); err != nil {
			svr.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		rq.PostedBy = user.UserID()
		l, err := store.Save(r.Context(), kind, rq)
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to save %s", kind))
			svr.Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to post %s", kind))
			return
		}
		invalidate(r.Context(), svr, inv, kind)
		svr.JSON(w, http.StatusCreated, l)
	}
}

// CloseListingHandler stops a listing from showing up and from accepting
// applications.
func CloseListingHandler(svr server.Server, store ListingStore, inv Invalidator, kind listing.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, err := uuid.Parse(id); err != nil {
			svr.Error(w, http.StatusNotFound, fmt.Sprintf("%s not found", kind))
			return
		}
		err := store.Close(r.Context(), kind, id)
		if errors.Cause(err) == listing.ErrNotFound {
			svr.Error(w, http.StatusNotFound, fmt.Sprintf("%s not found", kind))
			return
		}
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to close %s %s", kind, id))
			svr.Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to close %s", kind))
			return
		}
		invalidate(r.Context(), svr, inv, kind)
		svr.JSON(w, http.StatusOK, map[string]string{"status": listing.StatusClosed})
	}
}

func invalidate(ctx context.Context, svr server.Server, inv Invalidator, kind listing.Kind) {
	if inv == nil {
		return
	}
	if err := inv.Invalidate(ctx, kind); err != nil {
		svr.Log(err, fmt.Sprintf("unable to invalidate cached %s", kind.Plural()))
	}
}
