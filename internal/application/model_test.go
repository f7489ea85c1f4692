package application

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusReviewed, true},
		{StatusPending, StatusShortlisted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusReviewed, StatusShortlisted, true},
		{StatusReviewed, StatusRejected, true},
		{StatusReviewed, StatusPending, false},
		{StatusShortlisted, StatusRejected, true},
		{StatusShortlisted, StatusReviewed, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusShortlisted, false},
		{StatusRejected, StatusRejected, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCheckOwner(t *testing.T) {
	tests := []struct {
		postedBy, reviewer string
		want               error
	}{
		{"e1", "e1", nil},
		{"e1", "e2", ErrNotOwner},
		{"", "e1", ErrNotOwner},
		{"", "", ErrNotOwner},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckOwner(tt.postedBy, tt.reviewer), "%q/%q", tt.postedBy, tt.reviewer)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("shortlisted")
	require.NoError(t, err)
	assert.Equal(t, StatusShortlisted, st)

	_, err = ParseStatus("hired")
	assert.Equal(t, ErrInvalidStatus, errors.Cause(err))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Application{
		{ID: "1", Status: StatusPending},
		{ID: "2", Status: StatusPending},
		{ID: "3", Status: StatusRejected},
	})
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, map[Status]int{StatusPending: 2, StatusReviewed: 0, StatusShortlisted: 0, StatusRejected: 1}, s.Counts)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Len(t, empty.Counts, 4)
}

func TestApplicationRqValidate(t *testing.T) {
	valid := func() ApplicationRq {
		return ApplicationRq{
			Kind:          "job",
			ListingID:     "j1",
			ApplicantName: "Jane Doe",
			Email:         "jane@example.com",
		}
	}
	tests := []struct {
		name    string
		mutate  func(rq *ApplicationRq)
		wantErr bool
	}{
		{name: "valid", mutate: func(rq *ApplicationRq) {}},
		{name: "bad kind", mutate: func(rq *ApplicationRq) { rq.Kind = "gig" }, wantErr: true},
		{name: "missing listing", mutate: func(rq *ApplicationRq) { rq.ListingID = "" }, wantErr: true},
		{name: "bad email", mutate: func(rq *ApplicationRq) { rq.Email = "jane" }, wantErr: true},
		{name: "bad resume url", mutate: func(rq *ApplicationRq) { rq.ResumeURL = "not a url" }, wantErr: true},
		{name: "resume url", mutate: func(rq *ApplicationRq) { rq.ResumeURL = "https://cdn.example.com/cv.pdf" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := valid()
			tt.mutate(&rq)
			err := rq.Validate()
			if tt.wantErr {
				assert.Equal(t, ErrInvalidRequest, errors.Cause(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestApplicationRqNormalize(t *testing.T) {
	rq := ApplicationRq{
		ApplicantName: " <b>Jane</b> Doe ",
		Email:         " Jane@Example.COM ",
		CoverLetter:   "<script>x</script>Hello",
		Skills:        []string{" go ", ""},
	}
	rq.Normalize()
	assert.Equal(t, "Jane Doe", rq.ApplicantName)
	assert.Equal(t, "jane@example.com", rq.Email)
	assert.Equal(t, "Hello", rq.CoverLetter)
	assert.Equal(t, []string{"go"}, rq.Skills)
}
