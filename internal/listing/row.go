package listing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// ErrInvalidCompensation is returned for rows and requests whose pay type
// and amounts disagree.
var ErrInvalidCompensation = errors.New("invalid compensation")

// StringList decodes either a JSON array of strings or a JSON string holding
// an encoded array, which is how some rows store requirements.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return errors.Wrap(err, "string list is neither an array nor a string")
	}
	if strings.TrimSpace(encoded) == "" {
		*s = nil
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &list); err != nil {
		*s = StringList{encoded}
		return nil
	}
	*s = list
	return nil
}

// Row is a listing as the backend returns it, before validation. Job rows use
// job_type/pay_type, internship rows internship_type/stipend_type.
type Row struct {
	ID                  string     `json:"id" validate:"required"`
	Title               string     `json:"title" validate:"required"`
	Description         string     `json:"description"`
	Slug                string     `json:"slug"`
	CompanyID           string     `json:"company_id" validate:"required"`
	Company             *Company   `json:"company"`
	Location            *Location  `json:"location"`
	JobType             string     `json:"job_type"`
	InternshipType      string     `json:"internship_type"`
	PayType             string     `json:"pay_type"`
	StipendType         string     `json:"stipend_type"`
	MinAmount           *float64   `json:"min_amount"`
	MaxAmount           *float64   `json:"max_amount"`
	Amount              *float64   `json:"amount"`
	PayRate             string     `json:"pay_rate"`
	Duration            string     `json:"duration"`
	Requirements        StringList `json:"requirements"`
	Responsibilities    StringList `json:"responsibilities"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at" validate:"required"`
	UpdatedAt           time.Time  `json:"updated_at"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
}

// RowError reports a row rejected at the fetch boundary.
type RowError struct {
	ID  string
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %q: %v", e.ID, e.Err)
}

// Listing validates the row and converts it into the closed Listing schema.
func (r Row) Listing(kind Kind) (Listing, error) {
	if err := validate.Struct(r); err != nil {
		return Listing{}, errors.Wrap(err, "row failed validation")
	}
	payType, category := r.PayType, r.JobType
	if kind == KindInternship {
		payType, category = r.StipendType, r.InternshipType
	}
	comp, err := compensationFromColumns(PayType(payType), r.MinAmount, r.MaxAmount, r.Amount, r.PayRate)
	if err != nil {
		return Listing{}, err
	}
	var loc *Location
	if r.Location != nil && strings.TrimSpace(r.Location.City) != "" {
		loc = r.Location
	}
	l := Listing{
		Kind:                kind,
		ID:                  r.ID,
		Title:               r.Title,
		Description:         r.Description,
		Slug:                r.Slug,
		CompanyID:           r.CompanyID,
		Company:             r.Company,
		Location:            loc,
		Category:            category,
		Compensation:        comp,
		Requirements:        []string(r.Requirements),
		Responsibilities:    []string(r.Responsibilities),
		Status:              r.Status,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		ApplicationDeadline: r.ApplicationDeadline,
		StartDate:           r.StartDate,
		EndDate:             r.EndDate,
	}
	if kind == KindInternship {
		l.Duration = r.Duration
	}
	l.CompensationText = comp.String()
	return l, nil
}

// FromRows converts rows in order, dropping the ones that fail validation.
func FromRows(kind Kind, rows []Row) ([]Listing, []RowError) {
	listings := make([]Listing, 0, len(rows))
	var rejected []RowError
	for _, r := range rows {
		l, err := r.Listing(kind)
		if err != nil {
			rejected = append(rejected, RowError{ID: r.ID, Err: err})
			continue
		}
		listings = append(listings, l)
	}
	return listings, rejected
}

// compensationFromColumns infers the pay type when the column is missing and
// enforces: range has min and max, fixed has amount.
func compensationFromColumns(payType PayType, min, max, amount *float64, rate string) (Compensation, error) {
	if payType == "" {
		switch {
		case min != nil && max != nil:
			payType = PayRange
		case amount != nil:
			payType = PayFixed
		default:
			return Compensation{}, nil
		}
	}
	switch payType {
	case PayRange:
		if min == nil || max == nil {
			return Compensation{}, errors.Wrap(ErrInvalidCompensation, "range requires min and max")
		}
		if *min > *max {
			return Compensation{}, errors.Wrapf(ErrInvalidCompensation, "min %v above max %v", *min, *max)
		}
		return Compensation{Type: PayRange, Min: *min, Max: *max, Rate: rate}, nil
	case PayFixed:
		if amount == nil {
			return Compensation{}, errors.Wrap(ErrInvalidCompensation, "fixed requires amount")
		}
		return Compensation{Type: PayFixed, Amount: *amount, Rate: rate}, nil
	}
	return Compensation{}, errors.Wrapf(ErrInvalidCompensation, "unknown pay type %q", payType)
}
