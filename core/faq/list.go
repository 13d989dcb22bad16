package faq

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
)

// LoadFailureMessage is shown above the table when the FAQs could not be fetched.
const LoadFailureMessage = "Failed to load FAQs. Please try again."

// ErrSuperseded is returned by Refresh when a later refresh replaced it.
var ErrSuperseded = errors.New("refresh superseded by a newer one")

// Lister fetches the full FAQ collection.
type Lister interface {
	List(ctx context.Context) core.Result[[]FAQ]
}

// Filter returns the FAQs whose question contains term, ignoring case.
// The input order is kept; an empty term matches everything.
func Filter(faqs []FAQ, term string) []FAQ {
	needle := strings.ToLower(term)
	out := make([]FAQ, 0, len(faqs))
	for _, f := range faqs {
		if strings.Contains(strings.ToLower(f.Question), needle) {
			out = append(out, f)
		}
	}
	return out
}

// ListView is what the FAQ table renders.
type ListView struct {
	Items   []FAQ
	Term    string
	Loading bool
	Empty   bool // nothing to show: render the empty-state marker instead of rows
	Error   string
	Total   int
	Loaded  bool // a fetch has succeeded at least once
}

// ListController holds the full FAQ collection, the search term and the
// filtered view derived from both.
type ListController struct {
	lister Lister
	logger core.Logger

	mu      sync.Mutex
	all     []FAQ
	term    string
	loading bool
	err     string
	loaded  bool
	current *fetch // in flight, nil once settled
}

// fetch is one List call. A fetch replaced by a newer one points to it.
type fetch struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	err    error
	next   *fetch
}

func NewListController(lister Lister, logger core.Logger) *ListController {
	return &ListController{lister: lister, logger: logger}
}

// start begins a new fetch, superseding the one in flight. lc.mu must be held.
func (lc *ListController) start(ctx context.Context) *fetch {
	f := &fetch{done: make(chan struct{})}
	f.ctx, f.cancel = context.WithCancel(ctx)
	if lc.current != nil {
		lc.current.next = f
		lc.current.cancel()
	}
	lc.current = f
	lc.loading = true
	return f
}

func (lc *ListController) run(f *fetch) error {
	res := lc.lister.List(f.ctx)

	lc.mu.Lock()
	defer lc.mu.Unlock()
	defer close(f.done)
	f.cancel()
	if f.next != nil {
		f.err = ErrSuperseded
		return f.err
	}
	lc.current = nil
	lc.loading = false
	if !res.Ok() {
		lc.err = LoadFailureMessage
		if lc.logger != nil {
			lc.logger.Error("fetching faqs", res.Failure())
		}
		f.err = res.Err()
		return f.err
	}
	lc.err = ""
	lc.all = res.Value()
	lc.loaded = true
	return nil
}

// Refresh fetches the collection again. A refresh started while another is in
// flight cancels the older one, whose result is discarded.
// On failure the previous collection is kept.
func (lc *ListController) Refresh(ctx context.Context) error {
	lc.mu.Lock()
	f := lc.start(ctx)
	lc.mu.Unlock()
	return lc.run(f)
}

// Load waits for the collection to settle. It joins the fetch in flight, or
// starts one when there is none, and follows superseded fetches to the ones
// that replaced them without issuing requests of its own.
func (lc *ListController) Load(ctx context.Context) error {
	lc.mu.Lock()
	f := lc.current
	if f == nil {
		f = lc.start(ctx)
		lc.mu.Unlock()
		_ = lc.run(f)
	} else {
		lc.mu.Unlock()
	}

	for {
		select {
		case <-f.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if f.next == nil {
			return f.err
		}
		f = f.next
	}
}

// Search sets the term the view is filtered with.
func (lc *ListController) Search(term string) {
	lc.mu.Lock()
	lc.term = term
	lc.mu.Unlock()
}

// Fail records a message shown above the table, e.g. after a failed deletion.
func (lc *ListController) Fail(msg string) {
	lc.mu.Lock()
	lc.err = msg
	lc.mu.Unlock()
}

// View recomputes the filtered view from the full collection.
func (lc *ListController) View() ListView {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	items := Filter(lc.all, lc.term)
	return ListView{
		Items:   items,
		Term:    lc.term,
		Loading: lc.loading,
		Empty:   len(items) == 0,
		Error:   lc.err,
		Total:   len(lc.all),
		Loaded:  lc.loaded,
	}
}
