package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/klauspost/compress/gzhttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

const (
	RoleJobseeker = "jobseeker"
	RoleEmployer  = "employer"

	RequestIDHeader = "X-Request-Id"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

func HTTPSMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" && r.Header.Get("X-Forwarded-Proto") != "https" {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware tags every request with an id and logs it once the
// handler returns.
func LoggingMiddleware(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = ksuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		logger.Info().
			Str("request_id", id).
			Str("Host", r.Host).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Str("x-forwarded-for", r.Header.Get("x-forwarded-for")).
			Msg("req")
	})
}

// RequestID returns the id LoggingMiddleware assigned to the request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func HeadersMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" {
			w.Header().Set("Content-Security-Policy", "upgrade-insecure-requests")
			w.Header().Set("X-Frame-Options", "deny")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			w.Header().Set("Referrer-Policy", "origin")
		}
		next.ServeHTTP(w, r)
	})
}

func GzipMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// UserJWT are the claims of a Supabase access token.
type UserJWT struct {
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.StandardClaims
}

type UserMetadata struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (u *UserJWT) UserID() string {
	return u.Subject
}

// AppRole is the application role stored in the user metadata. Users
// without one are jobseekers.
func (u *UserJWT) AppRole() string {
	if u.UserMetadata.Role == "" {
		return RoleJobseeker
	}
	return u.UserMetadata.Role
}

// ParseUserJWT verifies an HS256 token signed with secret.
func ParseUserJWT(tk string, secret []byte) (*UserJWT, error) {
	token, err := jwt.ParseWithClaims(tk, &UserJWT{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}
	claims, ok := token.Claims.(*UserJWT)
	if !ok || !token.Valid {
		return nil, errors.New("could not convert jwt claims to UserJWT")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// UserAuthenticatedMiddleware accepts requests carrying a valid Supabase
// access token. When roles are given the user must hold one of them.
func UserAuthenticatedMiddleware(jwtKey []byte, next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tk := bearerToken(r)
		if tk == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		claims, err := ParseUserJWT(tk, jwtKey)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if len(roles) > 0 && !hasRole(claims, roles) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, claims)))
	})
}

func hasRole(claims *UserJWT, roles []string) bool {
	for _, role := range roles {
		if claims.AppRole() == role {
			return true
		}
	}
	return false
}

func GetUserFromJWT(r *http.Request) (*UserJWT, error) {
	claims, ok := r.Context().Value(userKey).(*UserJWT)
	if !ok {
		return nil, errors.New("could not find jwt in request")
	}
	return claims, nil
}
