package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/job-connect/listings/internal/debounce"
	"github.com/job-connect/listings/internal/listing"
	"github.com/job-connect/listings/internal/search"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	jobs     []listing.Listing
	criteria []listing.Criteria
}

func (s *staticSource) Fetch(ctx context.Context, kind listing.Kind) ([]listing.Listing, error) {
	if kind == listing.KindJob {
		return s.jobs, nil
	}
	return nil, nil
}

func (s *staticSource) Search(ctx context.Context, kind listing.Kind, c listing.Criteria) ([]listing.Listing, error) {
	s.criteria = append(s.criteria, c)
	var out []listing.Listing
	for _, l := range s.jobs {
		if l.City() == c.City {
			out = append(out, l)
		}
	}
	return out, nil
}

func TestRun(t *testing.T) {
	src := &staticSource{jobs: []listing.Listing{
		{Kind: listing.KindJob, ID: "1", Title: "Backend Engineer", Location: &listing.Location{City: "Bangalore"}, Company: &listing.Company{Name: "Acme"}},
		{Kind: listing.KindJob, ID: "2", Title: "Frontend Engineer", Location: &listing.Location{City: "Mumbai"}},
	}}
	clock := debounce.NewManualClock(time.Unix(0, 0))
	s := search.NewSession(search.NewFetcher(src), debounce.New(300*time.Millisecond, clock), zerolog.Nop())
	s.Load(context.Background())

	in := strings.NewReader(strings.Join([]string{
		"show",
		"q engineer",
		"set location Bangalore",
		"set salary 10",
		"flush",
		"show",
		"local",
		"tab internships",
		"quit",
		"show",
	}, "\n"))
	var out bytes.Buffer
	run(context.Background(), in, &out, s)

	require.Len(t, src.criteria, 1)
	assert.Equal(t, "engineer", src.criteria[0].Query)
	assert.Equal(t, "Bangalore", src.criteria[0].City)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"2 jobs",
		"  Backend Engineer @ Acme (Bangalore)",
		"  Frontend Engineer (Mumbai)",
		`"salary": unknown filter`,
		"1 jobs",
		"  Backend Engineer @ Acme (Bangalore)",
		"1 jobs",
		"  Backend Engineer @ Acme (Bangalore)",
		"0 internships",
	}, lines)
	assert.Equal(t, 0, clock.Pending())
}

func TestSplit(t *testing.T) {
	tests := []struct {
		line      string
		cmd, rest string
	}{
		{"", "", ""},
		{"show", "show", ""},
		{"  q   senior go ", "q", "senior go"},
		{"set duration 3 months", "set", "duration 3 months"},
	}
	for _, tt := range tests {
		cmd, rest := split(tt.line)
		assert.Equal(t, tt.cmd, cmd, tt.line)
		assert.Equal(t, tt.rest, rest, tt.line)
	}
}
