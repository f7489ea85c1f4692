package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/job-connect/listings/internal/debounce"
	"github.com/job-connect/listings/internal/filter"
	"github.com/job-connect/listings/internal/listing"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
)

// Session holds the state of one search screen: the active tab, the filter
// state, the fetched collections and the last remote result. Mutations
// schedule a debounced remote search; responses to stale searches are
// dropped.
type Session struct {
	fetcher  *Fetcher
	debounce *debounce.Debouncer
	log      zerolog.Logger

	mu          sync.Mutex
	tab         listing.Kind
	state       filter.State
	collections map[listing.Kind][]listing.Listing
	results     []listing.Listing
	searching   bool
	loading     bool
	seq         uint64
	err         string
	onChange    func()
}

func NewSession(fetcher *Fetcher, d *debounce.Debouncer, log zerolog.Logger) *Session {
	return &Session{
		fetcher:     fetcher,
		debounce:    d,
		log:         log,
		tab:         listing.KindJob,
		state:       filter.New(),
		collections: map[listing.Kind][]listing.Listing{},
	}
}

// OnChange registers fn to be called after a search result is applied.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load fetches both collections concurrently. A failed fetch leaves its
// collection empty and is reported through Err.
func (s *Session) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	kinds := []listing.Kind{listing.KindJob, listing.KindInternship}
	results := make([][]listing.Listing, len(kinds))
	errs := make([]error, len(kinds))
	var wg conc.WaitGroup
	for i, kind := range kinds {
		i, kind := i, kind
		wg.Go(func() {
			results[i], errs[i] = s.fetcher.Fetch(ctx, kind)
		})
	}
	wg.Wait()

	var msgs []string
	s.mu.Lock()
	for i, kind := range kinds {
		if errs[i] != nil {
			s.log.Error().Err(errs[i]).Str("kind", string(kind)).Msg("unable to load listings")
			msgs = append(msgs, fmt.Sprintf("Failed to fetch %s", kind.Plural()))
			s.collections[kind] = []listing.Listing{}
			continue
		}
		s.collections[kind] = results[i]
	}
	s.err = strings.Join(msgs, "; ")
	s.loading = false
	s.mu.Unlock()
}

// SwitchTab makes kind the active tab and resets the query, the filters and
// the remote results. Any pending or in-flight search is abandoned.
func (s *Session) SwitchTab(kind listing.Kind) {
	s.debounce.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = kind
	s.state = filter.New()
	s.results = nil
	s.searching = false
	s.seq++
}

func (s *Session) SetQuery(ctx context.Context, q string) {
	s.mu.Lock()
	_ = s.state.Set(filter.Query, q)
	s.mu.Unlock()
	s.schedule(ctx)
}

func (s *Session) SetFilter(ctx context.Context, name, value string) error {
	s.mu.Lock()
	err := s.state.Set(name, value)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.schedule(ctx)
	return nil
}

// schedule snapshots the current state and tab and debounces a search on it.
func (s *Session) schedule(ctx context.Context) {
	s.mu.Lock()
	tab, state := s.tab, s.state.Clone()
	s.mu.Unlock()
	s.debounce.Trigger(func() { s.run(ctx, tab, state) })
}

// Flush runs a pending search now.
func (s *Session) Flush() bool {
	return s.debounce.Flush()
}

func (s *Session) run(ctx context.Context, tab listing.Kind, state filter.State) {
	seq, ok := s.begin(tab, state)
	if !ok {
		return
	}
	res, err := s.fetcher.Search(ctx, tab, state)
	s.finish(seq, tab, res, err)
}

// begin issues a sequence number for a search on tab. It reports false when
// there is nothing to search or the tab changed since the search was
// scheduled.
func (s *Session) begin(tab listing.Kind, state filter.State) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tab != s.tab {
		return 0, false
	}
	s.seq++
	if !state.Active() {
		s.results = nil
		s.searching = false
		return s.seq, false
	}
	s.searching = true
	return s.seq, true
}

// finish applies a search response if it is still the latest one issued.
func (s *Session) finish(seq uint64, tab listing.Kind, res []listing.Listing, err error) {
	s.mu.Lock()
	if seq != s.seq || tab != s.tab {
		s.mu.Unlock()
		s.log.Debug().Uint64("seq", seq).Str("kind", string(tab)).Msg("dropping stale search response")
		return
	}
	s.searching = false
	if err != nil {
		s.log.Error().Err(err).Str("kind", string(tab)).Msg("search failed")
		s.err = fmt.Sprintf("Failed to search %s", tab.Plural())
		s.results = []listing.Listing{}
	} else {
		s.err = ""
		s.results = res
	}
	onChange := s.onChange
	s.mu.Unlock()
	if onChange != nil {
		onChange()
	}
}

// Visible is what the screen shows: the remote results while a query or
// filter is active, otherwise the full collection of the active tab.
func (s *Session) Visible() []listing.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Active() {
		return append([]listing.Listing{}, s.results...)
	}
	return append([]listing.Listing{}, s.collections[s.tab]...)
}

// LocalVisible evaluates the filters in memory over the fetched collection.
func (s *Session) LocalVisible() []listing.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.collections[s.tab], s.state)
}

func (s *Session) Tab() listing.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// State returns a copy of the current filter state.
func (s *Session) State() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
