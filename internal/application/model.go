package application

import (
	"time"

	"github.com/job-connect/listings/internal/listing"
	"github.com/pkg/errors"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusReviewed    Status = "reviewed"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusReviewed, StatusShortlisted, StatusRejected}

var (
	ErrNotFound          = errors.New("application not found")
	ErrInvalidTransition = errors.New("invalid application status transition")
	ErrInvalidStatus     = errors.New("invalid application status")
	ErrListingClosed     = errors.New("listing is not accepting applications")
	ErrNotOwner          = errors.New("listing belongs to another employer")
)

// transitions lists the statuses each status may move to. Rejected is
// terminal.
var transitions = map[Status][]Status{
	StatusPending:     {StatusReviewed, StatusShortlisted, StatusRejected},
	StatusReviewed:    {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusRejected},
}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidStatus, "%q", s)
}

// CanTransition reports whether an application in from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckOwner allows a reviewer to see and move applications only on listings
// they posted. Listings without a recorded poster are not reviewable.
func CheckOwner(postedBy, reviewerID string) error {
	if postedBy == "" || postedBy != reviewerID {
		return ErrNotOwner
	}
	return nil
}

type Application struct {
	ID            string       `json:"id"`
	Kind          listing.Kind `json:"kind"`
	ListingID     string       `json:"listing_id"`
	UserID        string       `json:"user_id"`
	ApplicantName string       `json:"applicant_name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	Experience    string       `json:"experience,omitempty"`
	Education     string       `json:"education,omitempty"`
	Skills        []string     `json:"skills,omitempty"`
	ResumeURL     string       `json:"resume_url,omitempty"`
	CoverLetter   string       `json:"cover_letter,omitempty"`
	Status        Status       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ApplicationRq is the body of an apply request. The applicant comes from
// the verified token, not from the body.
type ApplicationRq struct {
	Kind          string   `json:"kind" validate:"required,oneof=job internship"`
	ListingID     string   `json:"listing_id" validate:"required"`
	ApplicantName string   `json:"applicant_name" validate:"required,max=200"`
	Email         string   `json:"email" validate:"required,email"`
	Phone         string   `json:"phone" validate:"max=40"`
	Experience    string   `json:"experience"`
	Education     string   `json:"education"`
	Skills        []string `json:"skills"`
	ResumeURL     string   `json:"resume_url" validate:"omitempty,url"`
	CoverLetter   string   `json:"cover_letter" validate:"max=5000"`
}

// Summary is every application of a listing with per-status counts.
type Summary struct {
	Total        int            `json:"total"`
	Counts       map[Status]int `json:"counts"`
	Applications []Application  `json:"applications"`
}

func Summarize(apps []Application) Summary {
	s := Summary{Total: len(apps), Counts: make(map[Status]int, len(Statuses)), Applications: apps}
	for _, st := range Statuses {
		s.Counts[st] = 0
	}
	for _, a := range apps {
		s.Counts[a.Status]++
	}
	return s
}
