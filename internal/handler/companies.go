package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/job-connect/listings/internal/company"
	"github.com/job-connect/listings/internal/server"
	"github.com/pkg/errors"
)

type CompanyFinder interface {
	CompanyByID(ctx context.Context, id string) (company.Company, error)
}

func CompanyHandler(svr server.Server, finder CompanyFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, err := uuid.Parse(id); err != nil {
			svr.Error(w, http.StatusNotFound, "company not found")
			return
		}
		c, err := finder.CompanyByID(r.Context(), id)
		if errors.Cause(err) == company.ErrNotFound {
			svr.Error(w, http.StatusNotFound, "company not found")
			return
		}
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to get company %s", id))
			svr.Error(w, http.StatusInternalServerError, "Failed to fetch company")
			return
		}
		svr.JSON(w, http.StatusOK, c)
	}
}
