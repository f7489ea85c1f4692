package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/job-connect/listings/internal/filter"
	"github.com/job-connect/listings/internal/listing"
	"github.com/job-connect/listings/internal/search"
	"github.com/job-connect/listings/internal/server"
)

// FilterOptionsHandler serves the filter bar options of a tab. When the
// collection cannot be fetched only the fixed options are returned.
func FilterOptionsHandler(svr server.Server, fetcher *search.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := listing.ParseKind(mux.Vars(r)["kind"])
		if !ok {
			svr.Error(w, http.StatusNotFound, "unknown listing kind")
			return
		}
		collection, err := fetcher.Fetch(r.Context(), kind)
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to fetch %s for filter options", kind.Plural()))
			collection = nil
		}
		svr.JSON(w, http.StatusOK, filter.OptionsFor(kind, collection))
	}
}
