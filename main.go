package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/job-connect/listings/internal/application"
	"github.com/job-connect/listings/internal/cache"
	"github.com/job-connect/listings/internal/company"
	"github.com/job-connect/listings/internal/config"
	"github.com/job-connect/listings/internal/database"
	"github.com/job-connect/listings/internal/handler"
	"github.com/job-connect/listings/internal/listing"
	"github.com/job-connect/listings/internal/middleware"
	"github.com/job-connect/listings/internal/search"
	"github.com/job-connect/listings/internal/server"
	"github.com/job-connect/listings/internal/supabase"
	"github.com/rs/zerolog"
)

func newLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("unable to load config")
	}
	log := newLogger(cfg.Env)

	conn, err := database.GetDbConn(cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName, cfg.DatabaseSSLMode)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to postgres")
	}
	defer database.CloseDbConn(conn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var listingCache cache.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(cfg.RedisURL, cfg.ListingCacheTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to configure redis")
		}
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("unable to reach redis")
		}
		listingCache = rc
	} else {
		lc, err := cache.NewLocal(cfg.ListingCacheTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to create listing cache")
		}
		listingCache = lc
	}
	defer listingCache.Close()

	listingRepo := listing.NewRepository(conn, log)
	applicationRepo := application.NewRepository(conn)
	companyRepo := company.NewRepository(conn)

	var origin listing.Source = listingRepo
	var finder handler.ListingFinder = listingRepo
	if cfg.DataSource == config.DataSourceSupabase {
		client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, log)
		origin = client
		finder = client
	}
	cached := cache.NewSource(origin, listingCache, cfg.ListingCacheTTL, log)
	fetcher := search.NewFetcher(cached)

	svr := server.NewServer(cfg, mux.NewRouter(), log)

	svr.RegisterRoute("/healthz", handler.HealthzHandler(svr, conn.PingContext), []string{"GET"})
	svr.RegisterRoute("/rss", handler.RSSHandler(svr, fetcher), []string{"GET"})
	svr.RegisterRoute("/api/filters/{kind}", handler.FilterOptionsHandler(svr, fetcher), []string{"GET"})
	svr.RegisterRoute("/api/companies/{id}", handler.CompanyHandler(svr, companyRepo), []string{"GET"})

	for _, kind := range []listing.Kind{listing.KindJob, listing.KindInternship} {
		base := "/api/" + kind.Plural()
		svr.RegisterRoute(base, handler.ListingsHandler(svr, fetcher, kind), []string{"GET"})
		svr.RegisterRoute(base+"/{id}", handler.ListingHandler(svr, finder, kind), []string{"GET"})

		// employers post and close listings
		svr.RegisterRoute(
			base,
			middleware.UserAuthenticatedMiddleware(cfg.SupabaseJWTSecret, handler.PostListingHandler(svr, listingRepo, cached, kind), middleware.RoleEmployer),
			[]string{"POST"},
		)
		svr.RegisterRoute(
			base+"/{id}",
			middleware.UserAuthenticatedMiddleware(cfg.SupabaseJWTSecret, handler.CloseListingHandler(svr, listingRepo, cached, kind), middleware.RoleEmployer),
			[]string{"DELETE"},
		)
	}

	// apply to a listing
	svr.RegisterRoute(
		"/api/applications",
		middleware.UserAuthenticatedMiddleware(cfg.SupabaseJWTSecret, handler.ApplyHandler(svr, applicationRepo), middleware.RoleJobseeker),
		[]string{"POST"},
	)

	// review applications
	svr.RegisterRoute(
		"/api/applications/{id}/status",
		middleware.UserAuthenticatedMiddleware(cfg.SupabaseJWTSecret, handler.UpdateApplicationStatusHandler(svr, applicationRepo), middleware.RoleEmployer),
		[]string{"PUT"},
	)
	svr.RegisterRoute(
		"/api/listings/{kind}/{id}/applications",
		middleware.UserAuthenticatedMiddleware(cfg.SupabaseJWTSecret, handler.ListingApplicationsHandler(svr, applicationRepo), middleware.RoleEmployer),
		[]string{"GET"},
	)

	log.Info().Str("data_source", cfg.DataSource).Msg("starting server")
	if err := svr.Run(ctx); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
