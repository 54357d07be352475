package listing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/beesaferoot/seatctl/internal/models"
)

const DefaultPageSize = 20

// EmployeeSearcher runs a server-side employee search.
type EmployeeSearcher interface {
	SearchEmployees(ctx context.Context, search string, page, size int) (*models.Page[models.Employee], error)
}

// Pager accumulates search results one page at a time. Concurrent NextPage
// calls for the same page share a single request, and no request is made
// once the server reports the last page.
type Pager struct {
	source EmployeeSearcher
	size   int
	logger *zap.Logger

	group   singleflight.Group
	loading atomic.Bool

	mu         sync.Mutex
	term       string
	items      []models.Employee
	next       int
	hasMore    bool
	total      int
	generation uint64
}

func NewPager(source EmployeeSearcher, size int, logger *zap.Logger) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pager{source: source, size: size, logger: logger, hasMore: true, items: []models.Employee{}}
}

// Reset starts a new search for term. Results of requests still in flight
// for the previous term are dropped.
func (p *Pager) Reset(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.term = term
	p.items = []models.Employee{}
	p.next = 0
	p.hasMore = true
	p.total = 0
	p.generation++
}

type pageResult struct {
	added int
}

// NextPage loads the next page and returns how many items it added.
func (p *Pager) NextPage(ctx context.Context) (int, error) {
	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return 0, nil
	}
	term, page, gen := p.term, p.next, p.generation
	p.mu.Unlock()

	key := fmt.Sprintf("%d/%d", gen, page)
	v, err, shared := p.group.Do(key, func() (any, error) {
		p.loading.Store(true)
		defer p.loading.Store(false)
		return p.load(ctx, term, page, gen)
	})
	if shared {
		p.logger.Debug("joined in-flight page load", zap.String("search", term), zap.Int("page", page))
	}
	if err != nil {
		return 0, err
	}
	return v.(pageResult).added, nil
}

func (p *Pager) load(ctx context.Context, term string, page int, gen uint64) (pageResult, error) {
	res, err := p.source.SearchEmployees(ctx, term, page, p.size)
	if err != nil {
		p.logger.Error("failed to load employee page", zap.String("search", term), zap.Int("page", page), zap.Error(err))
		return pageResult{}, fmt.Errorf("failed to load page %d: %w", page, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation || page != p.next {
		return pageResult{}, nil
	}
	p.items = append(p.items, res.Content...)
	p.next = page + 1
	p.total = res.TotalElements
	p.hasMore = res.HasMore() && len(res.Content) > 0
	return pageResult{added: len(res.Content)}, nil
}

// Items returns the results loaded so far.
func (p *Pager) Items() []models.Employee {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Employee, len(p.items))
	copy(out, p.items)
	return out
}

func (p *Pager) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Total is the server's count of matches for the current term.
func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

func (p *Pager) Term() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.term
}

func (p *Pager) Loading() bool {
	return p.loading.Load()
}

// ShouldLoadMore reports whether the view needs another page: more pages
// exist, none is loading, and v is near its bottom or not yet full.
func (p *Pager) ShouldLoadMore(v Viewport) bool {
	if p.Loading() || !p.HasMore() {
		return false
	}
	return v.NeedsMore()
}

// Fill loads pages until v is full or the results run out.
func (p *Pager) Fill(ctx context.Context, v func() Viewport) error {
	for p.ShouldLoadMore(v()) {
		added, err := p.NextPage(ctx)
		if err != nil {
			return err
		}
		if added == 0 {
			return nil
		}
	}
	return nil
}
