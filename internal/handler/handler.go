package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/job-connect/listings/internal/server"
)

const maxBodyBytes = int64(65536)

// HealthzHandler answers 200 while ping succeeds.
func HealthzHandler(svr server.Server, ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if ping != nil {
			if err := ping(ctx); err != nil {
				svr.Log(err, "health check failed")
				svr.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
