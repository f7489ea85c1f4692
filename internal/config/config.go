package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DataSourcePostgres = "postgres"
	DataSourceSupabase = "supabase"
)

type Config struct {
	Port              string
	Env               string // either prod or dev, will disable https and few other bits
	DataSource        string // where listings are read from: postgres or supabase
	DatabaseUser      string
	DatabasePassword  string
	DatabaseHost      string
	DatabasePort      string
	DatabaseName      string
	DatabaseSSLMode   string
	SupabaseURL       string
	SupabaseKey       string // anon or service key sent as apikey to the REST API
	SupabaseJWTSecret []byte // HS256 secret the Supabase auth server signs access tokens with
	RedisURL          string // optional, shared listing cache instead of the in-process one
	ListingCacheTTL   time.Duration
	SearchDebounce    time.Duration
	SentryDSN         string
	SiteName          string
	SiteHost          string
	URLProtocol       string
	FeedSize          int // number of listings per kind in the rss feed
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the environment win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return Config{}, errors.Wrap(err, "unable to load .env file")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	port := getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	env := strings.ToLower(getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	dataSource := strings.ToLower(getenv("DATA_SOURCE"))
	if dataSource == "" {
		dataSource = DataSourcePostgres
	}
	if dataSource != DataSourcePostgres && dataSource != DataSourceSupabase {
		return Config{}, fmt.Errorf("DATA_SOURCE must be %s or %s, got %q", DataSourcePostgres, DataSourceSupabase, dataSource)
	}
	databaseUser := getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseHost := getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseName := getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	supabaseURL := getenv("SUPABASE_URL")
	supabaseKey := getenv("SUPABASE_KEY")
	if dataSource == DataSourceSupabase {
		if supabaseURL == "" {
			return Config{}, fmt.Errorf("SUPABASE_URL cannot be empty")
		}
		if supabaseKey == "" {
			return Config{}, fmt.Errorf("SUPABASE_KEY cannot be empty")
		}
	}
	supabaseJWTSecret := getenv("SUPABASE_JWT_SECRET")
	if supabaseJWTSecret == "" {
		return Config{}, fmt.Errorf("SUPABASE_JWT_SECRET cannot be empty")
	}
	listingCacheTTL, err := durationOr(getenv("LISTING_CACHE_TTL"), 5*time.Minute)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to parse LISTING_CACHE_TTL")
	}
	searchDebounce, err := durationOr(getenv("SEARCH_DEBOUNCE"), 300*time.Millisecond)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to parse SEARCH_DEBOUNCE")
	}
	siteName := getenv("SITE_NAME")
	if siteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	siteHost := getenv("SITE_HOST")
	if siteHost == "" {
		return Config{}, fmt.Errorf("SITE_HOST cannot be empty")
	}
	urlProtocol := "https"
	if env == "dev" {
		urlProtocol = "http"
	}

	return Config{
		Port:              port,
		Env:               env,
		DataSource:        dataSource,
		DatabaseUser:      databaseUser,
		DatabasePassword:  databasePassword,
		DatabaseHost:      databaseHost,
		DatabasePort:      databasePort,
		DatabaseName:      databaseName,
		DatabaseSSLMode:   databaseSSLMode,
		SupabaseURL:       supabaseURL,
		SupabaseKey:       supabaseKey,
		SupabaseJWTSecret: []byte(supabaseJWTSecret),
		RedisURL:          getenv("REDIS_URL"),
		ListingCacheTTL:   listingCacheTTL,
		SearchDebounce:    searchDebounce,
		SentryDSN:         getenv("SENTRY_DSN"),
		SiteName:          siteName,
		SiteHost:          siteHost,
		URLProtocol:       urlProtocol,
		FeedSize:          20,
	}, nil
}

func durationOr(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}
