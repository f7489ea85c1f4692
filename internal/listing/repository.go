package listing

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("listing not found")

// Criteria are the remote search predicates. Empty strings and nil bounds
// mean no constraint.
type Criteria struct {
	Query    string
	Category string
	City     string
	Duration string
	Min      *float64
	Max      *float64
}

// Empty reports whether no predicate is set.
func (c Criteria) Empty() bool {
	return c.Query == "" && c.Category == "" && c.City == "" && c.Duration == "" && c.Min == nil && c.Max == nil
}

type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

type columns struct {
	table, category, payType string
}

func columnsFor(kind Kind) columns {
	if kind == KindInternship {
		return columns{table: "internships", category: "internship_type", payType: "stipend_type"}
	}
	return columns{table: "jobs", category: "job_type", payType: "pay_type"}
}

func selectQuery(kind Kind) string {
	c := columnsFor(kind)
	extra := `'' AS duration, NULL::timestamptz, NULL::timestamptz, NULL::timestamptz`
	if kind == KindInternship {
		extra = `COALESCE(l.duration, ''), l.application_deadline, l.start_date, l.end_date`
	}
	return fmt.Sprintf(`
	SELECT l.id, l.title, COALESCE(l.description, ''), COALESCE(l.slug, ''), l.company_id, c.id, c.name, c.logo_url, loc.id, loc.city, loc.area,
	COALESCE(l.%[2]s, ''), COALESCE(l.%[3]s, ''), l.min_amount, l.max_amount, l.amount, COALESCE(l.pay_rate, ''), l.requirements, l.responsibilities, COALESCE(l.status, ''), l.created_at, COALESCE(l.updated_at, l.created_at), %[4]s
	FROM %[1]s l
	LEFT JOIN companies c ON c.id = l.company_id
	LEFT JOIN locations loc ON loc.id = l.location_id`, c.table, c.category, c.payType, extra)
}

func (r *Repository) scanRows(kind Kind, rows *sql.Rows) ([]Listing, error) {
	defer rows.Close()
	var raw []Row
	for rows.Next() {
		row, err := scanRow(kind, rows)
		if err != nil {
			return nil, err
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	listings, rejected := FromRows(kind, raw)
	for _, rej := range rejected {
		r.log.Warn().Str("kind", string(kind)).Str("id", rej.ID).Err(rej.Err).Msg("dropping invalid row")
	}
	return listings, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(kind Kind, s scanner) (Row, error) {
	var (
		row                            Row
		companyID, companyName         sql.NullString
		logoURL, locationID            sql.NullString
		city, area                     sql.NullString
		category, payType              string
		minAmount, maxAmount, amount   sql.NullFloat64
		deadline, startDate, endDate   pq.NullTime
		requirements, responsibilities pq.StringArray
	)
	err := s.Scan(
		&row.ID,
		&row.Title,
		&row.Description,
		&row.Slug,
		&row.CompanyID,
		&companyID,
		&companyName,
		&logoURL,
		&locationID,
		&city,
		&area,
		&category,
		&payType,
		&minAmount,
		&maxAmount,
		&amount,
		&row.PayRate,
		&requirements,
		&responsibilities,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.Duration,
		&deadline,
		&startDate,
		&endDate,
	)
	if err != nil {
		return row, err
	}
	if companyID.Valid {
		row.Company = &Company{ID: companyID.String, Name: companyName.String, LogoURL: logoURL.String}
	}
	if locationID.Valid {
		row.Location = &Location{ID: locationID.String, City: city.String, Area: area.String}
	}
	if kind == KindInternship {
		row.InternshipType, row.StipendType = category, payType
	} else {
		row.JobType, row.PayType = category, payType
	}
	row.MinAmount = nullFloat(minAmount)
	row.MaxAmount = nullFloat(maxAmount)
	row.Amount = nullFloat(amount)
	row.Requirements = StringList(requirements)
	row.Responsibilities = StringList(responsibilities)
	row.ApplicationDeadline = nullTime(deadline)
	row.StartDate = nullTime(startDate)
	row.EndDate = nullTime(endDate)
	return row, nil
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t pq.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Fetch returns every active listing of the kind, newest first.
func (r *Repository) Fetch(ctx context.Context, kind Kind) ([]Listing, error) {
	return r.Search(ctx, kind, Criteria{})
}

// Search runs the remote equivalent of the in-memory predicate.
func (r *Repository) Search(ctx context.Context, kind Kind, c Criteria) ([]Listing, error) {
	query, args := searchQuery(kind, c)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to query %s", kind.Plural())
	}
	return r.scanRows(kind, rows)
}

func searchQuery(kind Kind, c Criteria) (string, []interface{}) {
	cols := columnsFor(kind)
	where := []string{"(l.status = 'active' OR l.status IS NULL)"}
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if c.Query != "" {
		p := arg(escapeLike(c.Query))
		where = append(where, fmt.Sprintf("(l.title ILIKE '%%' || %[1]s || '%%' OR c.name ILIKE '%%' || %[1]s || '%%')", p))
	}
	if c.Category != "" {
		where = append(where, fmt.Sprintf("l.%s = %s", cols.category, arg(c.Category)))
	}
	if c.City != "" {
		where = append(where, fmt.Sprintf("lower(loc.city) = lower(%s)", arg(c.City)))
	}
	if c.Duration != "" && kind == KindInternship {
		where = append(where, fmt.Sprintf("l.duration = %s", arg(c.Duration)))
	}
	if c.Min != nil {
		where = append(where, fmt.Sprintf("(CASE WHEN l.%[1]s = 'fixed' THEN l.amount ELSE COALESCE(l.min_amount, l.amount) END) >= %[2]s", cols.payType, arg(*c.Min)))
	}
	if c.Max != nil {
		where = append(where, fmt.Sprintf("(CASE WHEN l.%[1]s = 'fixed' THEN l.amount ELSE COALESCE(l.max_amount, l.amount) END) <= %[2]s", cols.payType, arg(*c.Max)))
	}
	return selectQuery(kind) + "\n\tWHERE " + strings.Join(where, " AND ") + "\n\tORDER BY l.created_at DESC", args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repository) ByID(ctx context.Context, kind Kind, id string) (Listing, error) {
	row := r.db.QueryRowContext(ctx, selectQuery(kind)+"\n\tWHERE l.id = $1", id)
	raw, err := scanRow(kind, row)
	if err == sql.ErrNoRows {
		return Listing{}, ErrNotFound
	}
	if err != nil {
		return Listing{}, errors.Wrapf(err, "unable to get %s %s", kind, id)
	}
	return raw.Listing(kind)
}

// Save inserts a validated request as an active listing and returns it.
func (r *Repository) Save(ctx context.Context, kind Kind, rq ListingRq) (Listing, error) {
	cols := columnsFor(kind)
	id := uuid.New().String()
	now := time.Now().UTC()
	slugTitle := slug.Make(fmt.Sprintf("%s %s", rq.Title, id[:8]))
	stmt := fmt.Sprintf(`INSERT INTO %s (id, title, description, slug, company_id, location_id, %s, %s, min_amount, max_amount, amount, pay_rate, requirements, responsibilities, status, created_at, updated_at, posted_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16, $17)`, cols.table, cols.category, cols.payType)
	args := []interface{}{
		id,
		rq.Title,
		rq.Description,
		slugTitle,
		rq.CompanyID,
		rq.LocationID,
		rq.Category,
		string(rq.PayType),
		rq.MinAmount,
		rq.MaxAmount,
		rq.Amount,
		rq.PayRate,
		pq.Array(rq.Requirements),
		pq.Array(rq.Responsibilities),
		StatusActive,
		now,
		nullString(rq.PostedBy),
	}
	if kind == KindInternship {
		stmt = fmt.Sprintf(`INSERT INTO %s (id, title, description, slug, company_id, location_id, %s, %s, min_amount, max_amount, amount, pay_rate, requirements, responsibilities, status, created_at, updated_at, posted_by, duration, application_deadline, start_date, end_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16, $17, $18, $19, $20, $21)`, cols.table, cols.category, cols.payType)
		args = append(args, rq.Duration, rq.ApplicationDeadline, rq.StartDate, rq.EndDate)
	}
	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		return Listing{}, errors.Wrapf(err, "unable to save %s", kind)
	}
	return r.ByID(ctx, kind, id)
}

// Close marks a listing as closed; closed listings are hidden from search.
func (r *Repository) Close(ctx context.Context, kind Kind, id string) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2`, columnsFor(kind).table), StatusClosed, id)
	if err != nil {
		return errors.Wrapf(err, "unable to close %s %s", kind, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
