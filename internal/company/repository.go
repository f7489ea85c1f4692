package company

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("company not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const selectCompany = `SELECT id, name, COALESCE(slug, ''), COALESCE(website, ''), COALESCE(logo_url, ''), description, twitter, linkedin, meta_fetched_at FROM companies`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCompany(s scanner) (Company, error) {
	var (
		c                              Company
		description, twitter, linkedin sql.NullString
		fetched                        pq.NullTime
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Slug, &c.Website, &c.LogoURL, &description, &twitter, &linkedin, &fetched); err != nil {
		return c, err
	}
	c.Description = nullString(description)
	c.Twitter = nullString(twitter)
	c.Linkedin = nullString(linkedin)
	if fetched.Valid {
		t := fetched.Time
		c.MetaFetched = &t
	}
	return c, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

func (r *Repository) CompanyByID(ctx context.Context, id string) (Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx, selectCompany+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	if err != nil {
		return c, errors.Wrapf(err, "unable to get company %s", id)
	}
	return c, nil
}

// CompaniesWithWebsite returns companies whose metadata was never fetched or
// was fetched before staleBefore.
func (r *Repository) CompaniesWithWebsite(ctx context.Context, staleBefore time.Time) ([]Company, error) {
	rows, err := r.db.QueryContext(ctx, selectCompany+`
	WHERE website IS NOT NULL AND website <> ''
	AND (meta_fetched_at IS NULL OR meta_fetched_at < $1)
	ORDER BY name`, staleBefore)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list companies")
	}
	defer rows.Close()
	res := make([]Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return res, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// UpdateMeta stores scraped metadata. Empty fields keep the stored value.
func (r *Repository) UpdateMeta(ctx context.Context, id string, m Meta) error {
	stmt := `UPDATE companies SET
	description = COALESCE(NULLIF($2, ''), description),
	logo_url = COALESCE(NULLIF($3, ''), logo_url),
	twitter = COALESCE(NULLIF($4, ''), twitter),
	linkedin = COALESCE(NULLIF($5, ''), linkedin),
	meta_fetched_at = NOW()
	WHERE id = $1`
	res, err := r.db.ExecContext(ctx, stmt, id, m.Description, m.LogoURL, m.Twitter, m.Linkedin)
	if err != nil {
		return errors.Wrapf(err, "unable to update company %s", id)
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
