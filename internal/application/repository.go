package application

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/job-connect/listings/internal/listing"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var ErrAlreadyApplied = errors.New("already applied to this listing")

const uniqueViolation = "23505"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectApplication = `SELECT id, listing_kind, listing_id, user_id, applicant_name, email, COALESCE(phone, ''), COALESCE(experience, ''), COALESCE(education, ''), skills, COALESCE(resume_url, ''), COALESCE(cover_letter, ''), status, created_at, updated_at FROM applications`

type scanner interface {
	Scan(dest ...interface{}) error
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// checkOwner fails unless reviewerID posted the listing.
func checkOwner(ctx context.Context, q queryer, kind listing.Kind, listingID, reviewerID string) error {
	var postedBy sql.NullString
	err := q.QueryRowContext(ctx, `SELECT posted_by FROM `+kind.Plural()+` WHERE id = $1`, listingID).Scan(&postedBy)
	if err == sql.ErrNoRows {
		return listing.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "unable to look up %s %s", kind, listingID)
	}
	return CheckOwner(postedBy.String, reviewerID)
}

func scanApplication(s scanner) (Application, error) {
	var (
		a      Application
		kind   string
		status string
		skills pq.StringArray
	)
	err := s.Scan(&a.ID, &kind, &a.ListingID, &a.UserID, &a.ApplicantName, &a.Email, &a.Phone, &a.Experience, &a.Education, &skills, &a.ResumeURL, &a.CoverLetter, &status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	a.Kind = listing.Kind(kind)
	a.Status = Status(status)
	a.Skills = []string(skills)
	return a, nil
}

// Create stores a pending application for an active listing.
func (r *Repository) Create(ctx context.Context, userID string, rq ApplicationRq) (Application, error) {
	kind, ok := listing.ParseKind(rq.Kind)
	if !ok {
		return Application{}, errors.Wrapf(ErrInvalidRequest, "unknown kind %q", rq.Kind)
	}
	var status sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT status FROM `+kind.Plural()+` WHERE id = $1`, rq.ListingID).Scan(&status)
	if err == sql.ErrNoRows {
		return Application{}, listing.ErrNotFound
	}
	if err != nil {
		return Application{}, errors.Wrapf(err, "unable to look up %s %s", kind, rq.ListingID)
	}
	if status.Valid && status.String != listing.StatusActive {
		return Application{}, ErrListingClosed
	}

	now := time.Now().UTC()
	a := Application{
		ID:            uuid.New().String(),
		Kind:          kind,
		ListingID:     rq.ListingID,
		UserID:        userID,
		ApplicantName: rq.ApplicantName,
		Email:         rq.Email,
		Phone:         rq.Phone,
		Experience:    rq.Experience,
		Education:     rq.Education,
		Skills:        rq.Skills,
		ResumeURL:     rq.ResumeURL,
		CoverLetter:   rq.CoverLetter,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO applications (id, listing_kind, listing_id, user_id, applicant_name, email, phone, experience, education, skills, resume_url, cover_letter, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)`,
		a.ID,
		string(a.Kind),
		a.ListingID,
		a.UserID,
		a.ApplicantName,
		a.Email,
		a.Phone,
		a.Experience,
		a.Education,
		pq.Array(a.Skills),
		a.ResumeURL,
		a.CoverLetter,
		string(a.Status),
		now,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return Application{}, ErrAlreadyApplied
	}
	if err != nil {
		return Application{}, errors.Wrap(err, "unable to save application")
	}
	return a, nil
}

func (r *Repository) ByID(ctx context.Context, id string) (Application, error) {
	a, err := scanApplication(r.db.QueryRowContext(ctx, selectApplication+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	if err != nil {
		return a, errors.Wrapf(err, "unable to get application %s", id)
	}
	return a, nil
}

// ForListing returns the applications of a listing posted by reviewerID,
// newest first.
func (r *Repository) ForListing(ctx context.Context, reviewerID string, kind listing.Kind, listingID string) ([]Application, error) {
	if err := checkOwner(ctx, r.db, kind, listingID, reviewerID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, selectApplication+` WHERE listing_kind = $1 AND listing_id = $2 ORDER BY created_at DESC`, string(kind), listingID)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list applications for %s %s", kind, listingID)
	}
	defer rows.Close()
	res := make([]Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// UpdateStatus moves an application on a listing posted by reviewerID to
// status, locking the row so two reviewers cannot race each other past the
// transition check.
func (r *Repository) UpdateStatus(ctx context.Context, reviewerID, id string, to Status) (Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Application{}, err
	}
	defer tx.Rollback()

	a, err := scanApplication(tx.QueryRowContext(ctx, selectApplication+` WHERE id = $1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, errors.Wrapf(err, "unable to get application %s", id)
	}
	if err := checkOwner(ctx, tx, a.Kind, a.ListingID, reviewerID); err != nil {
		return Application{}, err
	}
	if !CanTransition(a.Status, to) {
		return Application{}, errors.Wrapf(ErrInvalidTransition, "%s -> %s", a.Status, to)
	}
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`, string(to), now, id); err != nil {
		return Application{}, errors.Wrapf(err, "unable to update application %s", id)
	}
	if err := tx.Commit(); err != nil {
		return Application{}, err
	}
	a.Status = to
	a.UpdatedAt = now
	return a, nil
}
