package filter

import (
	"testing"

	"github.com/job-connect/listings/internal/listing"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func job(title, city, category string, comp listing.Compensation) listing.Listing {
	l := listing.Listing{
		Kind:         listing.KindJob,
		ID:           title,
		Title:        title,
		Company:      &listing.Company{ID: "c1", Name: "Acme Corp"},
		Category:     category,
		Compensation: comp,
	}
	if city != "" {
		l.Location = &listing.Location{ID: city, City: city}
	}
	return l
}

func internship(title, city, category, duration string, comp listing.Compensation) listing.Listing {
	l := job(title, city, category, comp)
	l.Kind = listing.KindInternship
	l.Duration = duration
	return l
}

func rng(min, max float64) listing.Compensation {
	return listing.Compensation{Type: listing.PayRange, Min: min, Max: max}
}

func fixed(amount float64) listing.Compensation {
	return listing.Compensation{Type: listing.PayFixed, Amount: amount}
}

func titles(ls []listing.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Title)
	}
	return out
}

func TestEmptyStateMatchesEverything(t *testing.T) {
	all := []listing.Listing{
		job("Backend Engineer", "Bangalore", "full-time", rng(50000, 70000)),
		job("No location", "", "", listing.Compensation{}),
		internship("Summer Intern", "Delhi", "summer", "3 months", fixed(10000)),
	}
	for _, l := range all {
		assert.True(t, Matches(l, New()), l.Title)
		assert.True(t, Matches(l, nil), l.Title)
	}
	assert.Equal(t, titles(all), titles(Apply(all, New())))
}

func TestMatches(t *testing.T) {
	backend := job("Backend Engineer", "Bangalore", "full-time", rng(50000, 70000))
	frontend := job("Frontend Engineer", "Mumbai", "part-time", fixed(40000))
	summer := internship("Summer Intern", "Delhi", "summer", "3 months", fixed(10000))
	nowhere := job("Remote Engineer", "", "contract", listing.Compensation{})

	tests := []struct {
		name  string
		l     listing.Listing
		state State
		want  bool
	}{
		{name: "title substring any case", l: backend, state: State{Query: "ENGINEER"}, want: true},
		{name: "company name substring", l: backend, state: State{Query: "acme"}, want: true},
		{name: "query not present", l: backend, state: State{Query: "designer"}, want: false},
		{name: "location case insensitive", l: backend, state: State{Location: "bangalore"}, want: true},
		{name: "location is exact", l: backend, state: State{Location: "Bang"}, want: false},
		{name: "missing location never matches a location filter", l: nowhere, state: State{Location: "Mumbai"}, want: false},
		{name: "job type", l: frontend, state: State{JobType: "part-time"}, want: true},
		{name: "job type mismatch", l: frontend, state: State{JobType: "full-time"}, want: false},
		{name: "range min above floor", l: job("x", "", "", rng(50, 100)), state: State{MinSalary: "60"}, want: false},
		{name: "range min below floor", l: job("x", "", "", rng(50, 100)), state: State{MinSalary: "40"}, want: true},
		{name: "range max above ceiling", l: job("x", "", "", rng(50, 100)), state: State{MaxSalary: "120"}, want: true},
		{name: "range max below ceiling", l: job("x", "", "", rng(50, 100)), state: State{MaxSalary: "90"}, want: false},
		{name: "fixed amount within bounds", l: frontend, state: State{MinSalary: "30000", MaxSalary: "40000"}, want: true},
		{name: "unparseable min is ignored", l: backend, state: State{MinSalary: "lots"}, want: true},
		{name: "unparseable max is ignored", l: backend, state: State{MaxSalary: "1e"}, want: true},
		{name: "NaN min is ignored", l: job("x", "", "", rng(50, 100)), state: State{MinSalary: "NaN"}, want: true},
		{name: "Inf min is ignored", l: job("x", "", "", rng(50, 100)), state: State{MinSalary: "Inf"}, want: true},
		{name: "-Inf max is ignored", l: job("x", "", "", rng(50, 100)), state: State{MaxSalary: "-Inf"}, want: true},
		{name: "NaN stipend max is ignored", l: summer, state: State{MaxStipend: "nan"}, want: true},
		{name: "no compensation with bound set", l: nowhere, state: State{MinSalary: "1"}, want: false},
		{name: "stipend filters ignored for jobs", l: backend, state: State{MinStipend: "999999", InternshipType: "summer", Duration: "1 month"}, want: true},
		{name: "salary filters ignored for internships", l: summer, state: State{MinSalary: "999999", JobType: "full-time"}, want: true},
		{name: "internship type", l: summer, state: State{InternshipType: "summer"}, want: true},
		{name: "internship type mismatch", l: summer, state: State{InternshipType: "winter"}, want: false},
		{name: "duration", l: summer, state: State{Duration: "3 months"}, want: true},
		{name: "duration mismatch", l: summer, state: State{Duration: "6 months"}, want: false},
		{name: "stipend bounds", l: summer, state: State{MinStipend: "5000", MaxStipend: "15000"}, want: true},
		{name: "stipend below min", l: summer, state: State{MinStipend: "12000"}, want: false},
		{name: "all criteria combined", l: backend, state: State{Query: "backend", Location: "Bangalore", JobType: "full-time", MinSalary: "50000", MaxSalary: "70000"}, want: true},
		{name: "one failing criterion", l: backend, state: State{Query: "backend", Location: "Mumbai"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.l, tt.state))
		})
	}
}

func TestApplyEngineersInBangalore(t *testing.T) {
	collection := []listing.Listing{
		job("Backend Engineer", "Bangalore", "full-time", rng(50000, 70000)),
		job("Frontend Engineer", "Mumbai", "part-time", fixed(40000)),
	}
	got := Apply(collection, State{Query: "engineer", Location: "Bangalore"})
	assert.Equal(t, []string{"Backend Engineer"}, titles(got))
}

func TestApplyPreservesOrder(t *testing.T) {
	collection := []listing.Listing{
		job("C Engineer", "Delhi", "", listing.Compensation{}),
		job("A Designer", "Delhi", "", listing.Compensation{}),
		job("B Engineer", "Delhi", "", listing.Compensation{}),
		job("D Engineer", "Delhi", "", listing.Compensation{}),
	}
	got := Apply(collection, State{Query: "engineer"})
	assert.Equal(t, []string{"C Engineer", "B Engineer", "D Engineer"}, titles(got))
	assert.Empty(t, Apply(nil, State{Query: "engineer"}))
}

func TestStateSet(t *testing.T) {
	s := New()
	assert.False(t, s.Active())

	require.NoError(t, s.Set(Location, "Delhi"))
	assert.Equal(t, "Delhi", s.Get(Location))
	assert.True(t, s.Active())

	require.NoError(t, s.Set(Location, ""))
	assert.Empty(t, s.Get(Location))
	assert.False(t, s.Active())

	err := s.Set("salary", "10")
	assert.Equal(t, ErrUnknownFilter, errors.Cause(err))
	assert.Empty(t, s)
}

func TestStateClone(t *testing.T) {
	s := State{Query: "go"}
	c := s.Clone()
	require.NoError(t, c.Set(Query, "rust"))
	assert.Equal(t, "go", s.Get(Query))
}

func TestCriteria(t *testing.T) {
	s := State{
		Query:          "engineer",
		Location:       "Mumbai",
		JobType:        "full-time",
		MinSalary:      "50000",
		MaxSalary:      "n/a",
		InternshipType: "summer",
		Duration:       "3 months",
		MinStipend:     "1000",
	}

	jobs := Criteria(s, listing.KindJob)
	assert.Equal(t, "engineer", jobs.Query)
	assert.Equal(t, "Mumbai", jobs.City)
	assert.Equal(t, "full-time", jobs.Category)
	assert.Empty(t, jobs.Duration)
	require.NotNil(t, jobs.Min)
	assert.Equal(t, 50000.0, *jobs.Min)
	assert.Nil(t, jobs.Max)

	internships := Criteria(s, listing.KindInternship)
	assert.Equal(t, "summer", internships.Category)
	assert.Equal(t, "3 months", internships.Duration)
	require.NotNil(t, internships.Min)
	assert.Equal(t, 1000.0, *internships.Min)

	assert.True(t, Criteria(New(), listing.KindJob).Empty())
}

func TestCriteriaNonFiniteBounds(t *testing.T) {
	tests := []struct {
		name  string
		state State
		kind  listing.Kind
	}{
		{name: "NaN min salary", state: State{MinSalary: "NaN"}, kind: listing.KindJob},
		{name: "Inf max salary", state: State{MaxSalary: "Inf"}, kind: listing.KindJob},
		{name: "-Inf min salary", state: State{MinSalary: "-Inf"}, kind: listing.KindJob},
		{name: "+Infinity max stipend", state: State{MaxStipend: "+Infinity"}, kind: listing.KindInternship},
		{name: "nan min stipend", state: State{MinStipend: "nan"}, kind: listing.KindInternship},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Criteria(tt.state, tt.kind)
			assert.Nil(t, c.Min)
			assert.Nil(t, c.Max)
			assert.True(t, c.Empty())
		})
	}
}

func TestFromValues(t *testing.T) {
	values := map[string]string{
		"q":          " engineer ",
		"location":   "Delhi",
		"minSalary":  "",
		"unexpected": "x",
	}
	s := FromValues(func(k string) string { return values[k] })
	assert.Equal(t, State{Query: "engineer", Location: "Delhi"}, s)
}

func TestNames(t *testing.T) {
	n := Names()
	assert.Len(t, n, 9)
	assert.Contains(t, n, MaxStipend)
	assert.IsIncreasing(t, n)
}
