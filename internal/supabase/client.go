// Package supabase reads listings through the Supabase REST (PostgREST) API.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/job-connect/listings/internal/listing"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	companyEmbed  = "company:companies(id,name,logo_url)"
	locationEmbed = "locations(id,city,area)"
)

type Client struct {
	baseURL string
	key     string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL, key string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// WithHTTPClient replaces the underlying http client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// APIError is the error body PostgREST answers with.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
}

func (c *Client) Fetch(ctx context.Context, kind listing.Kind) ([]listing.Listing, error) {
	return c.Search(ctx, kind, listing.Criteria{})
}

// Search translates the criteria into PostgREST filters. The location embed
// becomes an inner join when the city is constrained so the filter applies
// to the listing rows and not only to the embedded resource.
func (c *Client) Search(ctx context.Context, kind listing.Kind, cr listing.Criteria) ([]listing.Listing, error) {
	q := searchValues(kind, cr)
	var rows []listing.Row
	if err := c.get(ctx, kind.Plural(), q, &rows); err != nil {
		return nil, err
	}
	listings, rejected := listing.FromRows(kind, rows)
	for _, rej := range rejected {
		c.log.Warn().Str("kind", string(kind)).Str("id", rej.ID).Err(rej.Err).Msg("dropping invalid row")
	}
	return listings, nil
}

func (c *Client) ByID(ctx context.Context, kind listing.Kind, id string) (listing.Listing, error) {
	q := url.Values{}
	q.Set("select", selectColumns(false))
	q.Set("id", "eq."+id)
	var rows []listing.Row
	if err := c.get(ctx, kind.Plural(), q, &rows); err != nil {
		return listing.Listing{}, err
	}
	if len(rows) == 0 {
		return listing.Listing{}, listing.ErrNotFound
	}
	return rows[0].Listing(kind)
}

func selectColumns(innerLocation bool) string {
	loc := "location:" + locationEmbed
	if innerLocation {
		loc = "location:locations!inner(id,city,area)"
	}
	return "*," + companyEmbed + "," + loc
}

func searchValues(kind listing.Kind, cr listing.Criteria) url.Values {
	q := url.Values{}
	q.Set("select", selectColumns(cr.City != ""))
	q.Set("order", "created_at.desc")

	category, payType := "job_type", "pay_type"
	if kind == listing.KindInternship {
		category, payType = "internship_type", "stipend_type"
	}
	and := []string{"or(status.eq.active,status.is.null)"}
	if cr.Query != "" {
		p := quote("*" + cr.Query + "*")
		and = append(and, fmt.Sprintf("or(title.ilike.%s,company.name.ilike.%s)", p, p))
	}
	if cr.Min != nil {
		and = append(and, amountBound(payType, "min_amount", "gte", *cr.Min))
	}
	if cr.Max != nil {
		and = append(and, amountBound(payType, "max_amount", "lte", *cr.Max))
	}
	q.Set("and", "("+strings.Join(and, ",")+")")

	if cr.Category != "" {
		q.Set(category, "eq."+cr.Category)
	}
	if cr.City != "" {
		q.Set("location.city", "ilike."+cr.City)
	}
	if cr.Duration != "" && kind == listing.KindInternship {
		q.Set("duration", "eq."+cr.Duration)
	}
	return q
}

// amountBound compares the fixed amount for fixed pay and the range column
// otherwise.
func amountBound(payType, rangeColumn, op string, v float64) string {
	n := number(v)
	return fmt.Sprintf("or(and(%[1]s.eq.fixed,amount.%[3]s.%[4]s),and(%[1]s.neq.fixed,%[2]s.%[3]s.%[4]s),and(%[1]s.is.null,%[2]s.%[3]s.%[4]s))", payType, rangeColumn, op, n)
}

// quote wraps a value in double quotes so PostgREST reserved characters
// inside it are taken literally.
func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (c *Client) get(ctx context.Context, table string, q url.Values, out interface{}) error {
	u := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "unable to build supabase request")
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "unable to query %s", table)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "unable to read %s response", table)
	}
	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: res.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "unable to decode %s response", table)
	}
	return nil
}
