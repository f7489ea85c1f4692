package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/job-connect/listings/internal/company"
	"github.com/job-connect/listings/internal/config"
	"github.com/job-connect/listings/internal/database"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// refresh companies whose metadata is older than this
const staleAfter = 7 * 24 * time.Hour

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	log.Info().Msg("refreshing company metadata")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load config")
	}
	conn, err := database.GetDbConn(cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName, cfg.DatabaseSSLMode)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to postgres")
	}
	defer database.CloseDbConn(conn)

	ctx := context.Background()
	companyRepo := company.NewRepository(conn)
	cs, err := companyRepo.CompaniesWithWebsite(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		log.Fatal().Err(err).Msg("unable to list companies")
	}
	log.Info().Int("companies", len(cs)).Msg("fetching websites")

	client := &http.Client{Timeout: 10 * time.Second}
	p := pool.New().WithMaxGoroutines(4)
	for _, c := range cs {
		c := c
		p.Go(func() {
			m, err := company.FetchMeta(ctx, client, c.Website)
			if err != nil {
				log.Warn().Err(err).Str("company", c.Name).Msg("unable to fetch website")
				return
			}
			if err := companyRepo.UpdateMeta(ctx, c.ID, m); err != nil {
				log.Error().Err(err).Str("company", c.Name).Msg("unable to save metadata")
				return
			}
			log.Info().Str("company", c.Name).Str("logo", m.LogoURL).Msg("updated")
		})
	}
	p.Wait()
}
