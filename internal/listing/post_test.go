package listing

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func validRq() ListingRq {
	return ListingRq{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		CompanyID:   "2f1c5e0a-8a0e-4f59-9b38-5d2b7c3f6a11",
		LocationID:  "7d3f0b1e-1c2a-4e5f-8a9b-0c1d2e3f4a5b",
		Category:    "full-time",
		PayType:     PayRange,
		MinAmount:   f(50000),
		MaxAmount:   f(70000),
	}
}

func TestListingRqNormalize(t *testing.T) {
	rq := validRq()
	rq.Title = "  Backend Engineer \n"
	rq.Description = `<p>Build APIs</p><script>alert(1)</script>`
	rq.Requirements = []string{"go", " ", "", " sql "}
	rq.Normalize()

	assert.Equal(t, "Backend Engineer", rq.Title)
	assert.Equal(t, "<p>Build APIs</p>", rq.Description)
	assert.Equal(t, []string{"go", "sql"}, rq.Requirements)
	assert.Equal(t, []string{}, rq.Responsibilities)
}

func TestListingRqValidate(t *testing.T) {
	deadline := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	start := deadline.AddDate(0, 1, 0)
	end := start.AddDate(0, 3, 0)

	tests := []struct {
		name    string
		kind    Kind
		mutate  func(rq *ListingRq)
		wantErr bool
	}{
		{name: "valid job", kind: KindJob, mutate: func(rq *ListingRq) {}},
		{name: "missing title", kind: KindJob, mutate: func(rq *ListingRq) { rq.Title = "" }, wantErr: true},
		{name: "bad company id", kind: KindJob, mutate: func(rq *ListingRq) { rq.CompanyID = "acme" }, wantErr: true},
		{name: "unknown pay type", kind: KindJob, mutate: func(rq *ListingRq) { rq.PayType = "hourly" }, wantErr: true},
		{name: "range missing max", kind: KindJob, mutate: func(rq *ListingRq) { rq.MaxAmount = nil }, wantErr: true},
		{name: "fixed with amount", kind: KindJob, mutate: func(rq *ListingRq) { rq.PayType = PayFixed; rq.Amount = f(40000) }},
		{name: "negative amount", kind: KindJob, mutate: func(rq *ListingRq) { rq.PayType = PayFixed; rq.Amount = f(-1) }, wantErr: true},
		{name: "internship needs duration", kind: KindInternship, mutate: func(rq *ListingRq) {}, wantErr: true},
		{
			name: "internship valid dates",
			kind: KindInternship,
			mutate: func(rq *ListingRq) {
				rq.Duration = "3 months"
				rq.ApplicationDeadline, rq.StartDate, rq.EndDate = &deadline, &start, &end
			},
		},
		{
			name: "end before start",
			kind: KindInternship,
			mutate: func(rq *ListingRq) {
				rq.Duration = "3 months"
				rq.StartDate, rq.EndDate = &end, &start
			},
			wantErr: true,
		},
		{
			name: "start before deadline",
			kind: KindInternship,
			mutate: func(rq *ListingRq) {
				rq.Duration = "3 months"
				rq.ApplicationDeadline, rq.StartDate = &start, &deadline
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := validRq()
			tt.mutate(&rq)
			err := rq.Validate(tt.kind)
			if tt.wantErr {
				assert.Equal(t, ErrInvalidRequest, errors.Cause(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}
