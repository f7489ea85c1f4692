package filter

import (
	"sort"

	"github.com/aclements/go-moremath/stats"
	humanize "github.com/dustin/go-humanize"
	"github.com/job-connect/listings/internal/listing"
)

var (
	jobTypes        = []string{"full-time", "part-time", "contract"}
	internshipTypes = []string{"summer", "winter", "part-time"}
	cities          = []string{"Mumbai", "Delhi", "Bangalore"}
	durations       = []string{"1 month", "2 months", "3 months", "6 months"}
)

// Options are the values a filter bar offers for one tab.
type Options struct {
	Kind         listing.Kind `json:"kind"`
	Types        []string     `json:"types"`
	Cities       []string     `json:"cities"`
	Durations    []string     `json:"durations,omitempty"`
	Compensation *Stats       `json:"compensation,omitempty"`
}

// Stats summarises the compensation of a collection. Floors and ceilings
// are sampled separately so a 50,000 - 70,000 range counts once in each.
type Stats struct {
	Count       int     `json:"count"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Mean        float64 `json:"mean"`
	Q1          float64 `json:"q1"`
	Median      float64 `json:"median"`
	Q3          float64 `json:"q3"`
	MinLabel    string  `json:"min_label"`
	MaxLabel    string  `json:"max_label"`
	MedianLabel string  `json:"median_label"`
}

// OptionsFor returns the fixed options of kind extended with the values
// found in the collection.
func OptionsFor(kind listing.Kind, collection []listing.Listing) Options {
	o := Options{Kind: kind, Types: jobTypes, Cities: cities}
	if kind == listing.KindInternship {
		o.Types = internshipTypes
		o.Durations = durations
	}
	var types, places, lengths []string
	for _, l := range collection {
		if l.Kind != kind {
			continue
		}
		types = append(types, l.Category)
		places = append(places, l.City())
		lengths = append(lengths, l.Duration)
	}
	o.Types = merge(o.Types, types)
	o.Cities = merge(o.Cities, places)
	if kind == listing.KindInternship {
		o.Durations = merge(o.Durations, lengths)
	}
	o.Compensation = CompensationStats(kind, collection)
	return o
}

// merge keeps fixed in order and appends the unseen extras sorted.
func merge(fixed, extra []string) []string {
	seen := make(map[string]bool, len(fixed))
	out := make([]string, 0, len(fixed))
	for _, v := range fixed {
		seen[folded(v)] = true
		out = append(out, v)
	}
	var added []string
	for _, v := range extra {
		if v == "" || seen[folded(v)] {
			continue
		}
		seen[folded(v)] = true
		added = append(added, v)
	}
	sort.Strings(added)
	return append(out, added...)
}

// CompensationStats returns nil when no listing of kind states its pay.
func CompensationStats(kind listing.Kind, collection []listing.Listing) *Stats {
	var xs []float64
	for _, l := range collection {
		if l.Kind != kind || !l.Compensation.Known() {
			continue
		}
		xs = append(xs, l.Compensation.Floor())
		if l.Compensation.Type == listing.PayRange {
			xs = append(xs, l.Compensation.Ceiling())
		}
	}
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)
	sample := stats.Sample{Xs: xs, Sorted: true}
	min, max := sample.Bounds()
	median := sample.Quantile(0.5)
	return &Stats{
		Count:       len(xs),
		Min:         min,
		Max:         max,
		Mean:        sample.Mean(),
		Q1:          sample.Quantile(0.25),
		Median:      median,
		Q3:          sample.Quantile(0.75),
		MinLabel:    humanize.Commaf(min),
		MaxLabel:    humanize.Commaf(max),
		MedianLabel: humanize.Commaf(median),
	}
}
