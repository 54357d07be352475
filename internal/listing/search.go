package listing

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/beesaferoot/seatctl/internal/models"
)

// Result is delivered after a debounced search completes.
type Result struct {
	Term    string
	Items   []models.Employee
	Total   int
	HasMore bool
	Err     error
}

// Search wires typed input to a Pager: each settled input resets the
// pager and loads its first page.
type Search struct {
	ctx       context.Context
	pager     *Pager
	debouncer *Debouncer
	onResult  func(Result)
}

func NewSearch(ctx context.Context, pager *Pager, clock clockwork.Clock, delay time.Duration, onResult func(Result)) *Search {
	s := &Search{ctx: ctx, pager: pager, onResult: onResult}
	s.debouncer = NewDebouncer(clock, delay, s.run)
	return s
}

// Input records the current text of the search box.
func (s *Search) Input(text string) {
	s.debouncer.Input(strings.TrimSpace(text))
}

// Flush runs a pending search now and waits for any search in progress.
func (s *Search) Flush() {
	s.debouncer.Flush()
}

// Stop drops any pending search.
func (s *Search) Stop() {
	s.debouncer.Stop()
}

func (s *Search) Pager() *Pager {
	return s.pager
}

func (s *Search) run(term string) {
	s.pager.Reset(term)
	_, err := s.pager.NextPage(s.ctx)
	if err != nil {
		s.pager.logger.Warn("search failed", zap.String("search", term), zap.Error(err))
	}
	s.onResult(Result{
		Term:    term,
		Items:   s.pager.Items(),
		Total:   s.pager.Total(),
		HasMore: s.pager.HasMore(),
		Err:     err,
	})
}
