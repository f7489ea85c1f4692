package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/job-connect/listings/internal/application"
	"github.com/job-connect/listings/internal/listing"
	"github.com/job-connect/listings/internal/middleware"
	"github.com/job-connect/listings/internal/server"
	"github.com/pkg/errors"
)

type ApplicationStore interface {
	Create(ctx context.Context, userID string, rq application.ApplicationRq) (application.Application, error)
	ForListing(ctx context.Context, reviewerID string, kind listing.Kind, listingID string) ([]application.Application, error)
	UpdateStatus(ctx context.Context, reviewerID, id string, to application.Status) (application.Application, error)
}

// ApplyHandler records a pending application of the authenticated user.
func ApplyHandler(svr server.Server, store ApplicationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := middleware.GetUserFromJWT(r)
		if err != nil {
			svr.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var rq application.ApplicationRq
		if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
			svr.Error(w, http.StatusBadRequest, "request is invalid")
			return
		}
		rq.Normalize()
		if err := rq.Validate(); err != nil {
			svr.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		a, err := store.Create(r.Context(), user.UserID(), rq)
		switch errors.Cause(err) {
		case nil:
			svr.JSON(w, http.StatusCreated, a)
		case listing.ErrNotFound:
			svr.Error(w, http.StatusNotFound, fmt.Sprintf("%s not found", rq.Kind))
		case application.ErrInvalidRequest:
			svr.Error(w, http.StatusBadRequest, err.Error())
		case application.ErrListingClosed, application.ErrAlreadyApplied:
			svr.Error(w, http.StatusConflict, errors.Cause(err).Error())
		default:
			svr.Log(err, "unable to save application")
			svr.Error(w, http.StatusInternalServerError, "Failed to submit application")
		}
	}
}

type statusRq struct {
	Status string `json:"status"`
}

// UpdateApplicationStatusHandler moves an application along the review
// pipeline. Moves the pipeline does not allow answer 409; applications on
// another employer's listing answer 403.
func UpdateApplicationStatusHandler(svr server.Server, store ApplicationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := middleware.GetUserFromJWT(r)
		if err != nil {
			svr.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		id := mux.Vars(r)["id"]
		if _, err := uuid.Parse(id); err != nil {
			svr.Error(w, http.StatusNotFound, "application not found")
			return
		}
		var rq statusRq
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&rq); err != nil {
			svr.Error(w, http.StatusBadRequest, "request is invalid")
			return
		}
		to, err := application.ParseStatus(rq.Status)
		if err != nil {
			svr.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		a, err := store.UpdateStatus(r.Context(), user.UserID(), id, to)
		switch errors.Cause(err) {
		case nil:
			svr.JSON(w, http.StatusOK, a)
		case application.ErrNotFound, listing.ErrNotFound:
			svr.Error(w, http.StatusNotFound, "application not found")
		case application.ErrNotOwner:
			svr.Error(w, http.StatusForbidden, err.Error())
		case application.ErrInvalidTransition:
			svr.Error(w, http.StatusConflict, err.Error())
		default:
			svr.Log(err, fmt.Sprintf("unable to update application %s", id))
			svr.Error(w, http.StatusInternalServerError, "Failed to update application")
		}
	}
}

// ListingApplicationsHandler lists every application of a listing with
// per-status counts. Only the employer who posted the listing may read them.
func ListingApplicationsHandler(svr server.Server, store ApplicationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := middleware.GetUserFromJWT(r)
		if err != nil {
			svr.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		vars := mux.Vars(r)
		kind, ok := listing.ParseKind(vars["kind"])
		if !ok {
			svr.Error(w, http.StatusNotFound, "unknown listing kind")
			return
		}
		if _, err := uuid.Parse(vars["id"]); err != nil {
			svr.Error(w, http.StatusNotFound, fmt.Sprintf("%s not found", kind))
			return
		}
		apps, err := store.ForListing(r.Context(), user.UserID(), kind, vars["id"])
		switch errors.Cause(err) {
		case nil:
		case listing.ErrNotFound:
			svr.Error(w, http.StatusNotFound, fmt.Sprintf("%s not found", kind))
			return
		case application.ErrNotOwner:
			svr.Error(w, http.StatusForbidden, err.Error())
			return
		default:
			svr.Log(err, fmt.Sprintf("unable to list applications of %s %s", kind, vars["id"]))
			svr.Error(w, http.StatusInternalServerError, "Failed to fetch applications")
			return
		}
		svr.JSON(w, http.StatusOK, application.Summarize(apps))
	}
}
