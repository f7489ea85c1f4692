package filter

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/job-connect/listings/internal/listing"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
)

const (
	Query          = "query"
	JobType        = "jobType"
	Location       = "location"
	MinSalary      = "minSalary"
	MaxSalary      = "maxSalary"
	InternshipType = "internshipType"
	Duration       = "duration"
	MinStipend     = "minStipend"
	MaxStipend     = "maxStipend"
)

var ErrUnknownFilter = errors.New("unknown filter")

var names = map[string]bool{
	Query:          true,
	JobType:        true,
	Location:       true,
	MinSalary:      true,
	MaxSalary:      true,
	InternshipType: true,
	Duration:       true,
	MinStipend:     true,
	MaxStipend:     true,
}

// Names returns every filter name, sorted.
func Names() []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// State maps a filter name to the selected value. A missing or empty value
// means the filter is not applied.
type State map[string]string

// New returns the default state with every filter unset.
func New() State {
	return State{}
}

// Set updates one filter. Unknown names are rejected.
func (s State) Set(name, value string) error {
	if !names[name] {
		return errors.Wrapf(ErrUnknownFilter, "%q", name)
	}
	if value == "" {
		delete(s, name)
		return nil
	}
	s[name] = value
	return nil
}

func (s State) Get(name string) string {
	return s[name]
}

// Active reports whether the query or any filter is non-empty.
func (s State) Active() bool {
	for _, v := range s {
		if v != "" {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// bounds holds the filter names that apply to a kind.
type bounds struct {
	category, min, max string
}

func boundsFor(kind listing.Kind) bounds {
	if kind == listing.KindInternship {
		return bounds{category: InternshipType, min: MinStipend, max: MaxStipend}
	}
	return bounds{category: JobType, min: MinSalary, max: MaxSalary}
}

// parseAmount treats absent, unparseable or non-finite input as no
// constraint.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// folded case-folds s. Casers hold state, so each call gets its own.
func folded(s string) string {
	return cases.Fold().String(s)
}

func containsFold(s, substr string) bool {
	return strings.Contains(folded(s), folded(substr))
}

// Matches reports whether the listing satisfies every active filter that
// applies to its kind. Filters of the other kind are ignored.
func Matches(l listing.Listing, s State) bool {
	if q := s[Query]; q != "" {
		if !containsFold(l.Title, q) && !containsFold(l.CompanyName(), q) {
			return false
		}
	}
	if loc := s[Location]; loc != "" {
		city := l.City()
		if city == "" || folded(city) != folded(loc) {
			return false
		}
	}
	b := boundsFor(l.Kind)
	if cat := s[b.category]; cat != "" && l.Category != cat {
		return false
	}
	if l.Kind == listing.KindInternship {
		if d := s[Duration]; d != "" && l.Duration != d {
			return false
		}
	}
	if min, ok := parseAmount(s[b.min]); ok {
		if !l.Compensation.Known() || l.Compensation.Floor() < min {
			return false
		}
	}
	if max, ok := parseAmount(s[b.max]); ok {
		if !l.Compensation.Known() || l.Compensation.Ceiling() > max {
			return false
		}
	}
	return true
}

// Apply returns the listings matching s, in input order.
func Apply(listings []listing.Listing, s State) []listing.Listing {
	out := make([]listing.Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, s) {
			out = append(out, l)
		}
	}
	return out
}

// Criteria converts the state into the remote search predicates for kind.
func Criteria(s State, kind listing.Kind) listing.Criteria {
	b := boundsFor(kind)
	c := listing.Criteria{
		Query:    s[Query],
		Category: s[b.category],
		City:     s[Location],
	}
	if kind == listing.KindInternship {
		c.Duration = s[Duration]
	}
	if v, ok := parseAmount(s[b.min]); ok {
		c.Min = &v
	}
	if v, ok := parseAmount(s[b.max]); ok {
		c.Max = &v
	}
	return c
}

// FromValues reads a state from request query values. Unknown keys are
// ignored and "q" is accepted as an alias of the query.
func FromValues(get func(string) string) State {
	s := State{}
	for n := range names {
		if v := strings.TrimSpace(get(n)); v != "" {
			s[n] = v
		}
	}
	if v := strings.TrimSpace(get("q")); v != "" {
		s[Query] = v
	}
	return s
}
