package listing

import (
	"time"
)

// Kind tags a Listing as a job or an internship. Both variants share one
// struct; fields that only make sense for internships are left zero on jobs.
type Kind string

const (
	KindJob        Kind = "job"
	KindInternship Kind = "internship"
)

const (
	StatusActive = "active"
	StatusClosed = "closed"
)

type PayType string

const (
	PayRange PayType = "range"
	PayFixed PayType = "fixed"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindJob, KindInternship:
		return Kind(s), true
	}
	switch s {
	case "jobs":
		return KindJob, true
	case "internships":
		return KindInternship, true
	}
	return "", false
}

// Plural returns the table / route name for the kind.
func (k Kind) Plural() string {
	if k == KindInternship {
		return "internships"
	}
	return "jobs"
}

type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

type Location struct {
	ID   string `json:"id"`
	City string `json:"city"`
	Area string `json:"area,omitempty"`
}

// Compensation is either a fixed Amount or a Min..Max range, never both.
type Compensation struct {
	Type   PayType `json:"type"`
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
	Amount float64 `json:"amount,omitempty"`
	Rate   string  `json:"rate,omitempty"`
}

// Known reports whether the listing carries any compensation at all.
func (c Compensation) Known() bool {
	return c.Type == PayRange || c.Type == PayFixed
}

// Floor is the lowest amount the listing pays.
func (c Compensation) Floor() float64 {
	if c.Type == PayRange {
		return c.Min
	}
	return c.Amount
}

// Ceiling is the highest amount the listing pays.
func (c Compensation) Ceiling() float64 {
	if c.Type == PayRange {
		return c.Max
	}
	return c.Amount
}

type Listing struct {
	Kind             Kind         `json:"kind"`
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Slug             string       `json:"slug,omitempty"`
	CompanyID        string       `json:"company_id"`
	Company          *Company     `json:"company,omitempty"`
	Location         *Location    `json:"location,omitempty"`
	Category         string       `json:"category"`
	Compensation     Compensation `json:"compensation"`
	CompensationText string       `json:"compensation_text,omitempty"`
	Duration         string       `json:"duration,omitempty"`
	Requirements     []string     `json:"requirements,omitempty"`
	Responsibilities []string     `json:"responsibilities,omitempty"`
	Status           string       `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	TimeAgo          string       `json:"time_ago,omitempty"`

	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	EndDate             *time.Time `json:"end_date,omitempty"`
}

// City returns the listing city or "" when the listing has no location.
func (l Listing) City() string {
	if l.Location == nil {
		return ""
	}
	return l.Location.City
}

// CompanyName returns the embedded company name or "".
func (l Listing) CompanyName() string {
	if l.Company == nil {
		return ""
	}
	return l.Company.Name
}

// ListingRq is the body of a post-a-listing request.
type ListingRq struct {
	Title               string     `json:"title" validate:"required,max=200"`
	Description         string     `json:"description" validate:"required"`
	CompanyID           string     `json:"company_id" validate:"required,uuid"`
	LocationID          string     `json:"location_id" validate:"required,uuid"`
	Category            string     `json:"type" validate:"required"`
	PayType             PayType    `json:"pay_type" validate:"required,oneof=range fixed"`
	MinAmount           *float64   `json:"min_amount" validate:"omitempty,gte=0"`
	MaxAmount           *float64   `json:"max_amount" validate:"omitempty,gte=0"`
	Amount              *float64   `json:"amount" validate:"omitempty,gte=0"`
	PayRate             string     `json:"pay_rate"`
	Duration            string     `json:"duration"`
	Requirements        []string   `json:"requirements"`
	Responsibilities    []string   `json:"responsibilities"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	// PostedBy is the employer user id, taken from the caller's token.
	PostedBy            string     `json:"-"`
}
