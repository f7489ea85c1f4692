package listing

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
)

var ErrInvalidRequest = errors.New("invalid listing request")

var descriptionPolicy = bluemonday.UGCPolicy()

// Normalize trims the request, drops blank list entries and sanitizes the
// description before it is stored.
func (rq *ListingRq) Normalize() {
	rq.Title = strings.TrimSpace(rq.Title)
	rq.Description = strings.TrimSpace(descriptionPolicy.Sanitize(rq.Description))
	rq.Category = strings.TrimSpace(rq.Category)
	rq.PayRate = strings.TrimSpace(rq.PayRate)
	rq.Duration = strings.TrimSpace(rq.Duration)
	rq.Requirements = nonBlank(rq.Requirements)
	rq.Responsibilities = nonBlank(rq.Responsibilities)
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks a normalized request for the given kind.
func (rq ListingRq) Validate(kind Kind) error {
	if err := validate.Struct(rq); err != nil {
		return errors.Wrap(ErrInvalidRequest, err.Error())
	}
	if _, err := compensationFromColumns(rq.PayType, rq.MinAmount, rq.MaxAmount, rq.Amount, rq.PayRate); err != nil {
		return errors.Wrap(ErrInvalidRequest, err.Error())
	}
	if kind != KindInternship {
		return nil
	}
	if rq.Duration == "" {
		return errors.Wrap(ErrInvalidRequest, "duration cannot be empty")
	}
	if rq.StartDate != nil && rq.EndDate != nil && !rq.EndDate.After(*rq.StartDate) {
		return errors.Wrap(ErrInvalidRequest, "end date must be after start date")
	}
	if rq.ApplicationDeadline != nil && rq.StartDate != nil && rq.StartDate.Before(*rq.ApplicationDeadline) {
		return errors.Wrap(ErrInvalidRequest, "start date must be after application deadline")
	}
	return nil
}
