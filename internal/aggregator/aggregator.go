// Package aggregator fans a search out across marketplaces and merges
// the normalized offers into one deduplicated, discount-sorted,
// paginated result.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mfreitas/promo-radar/internal/metrics"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// ErrInvalidFilters is returned for structurally invalid input. It is
// the only hard error SearchOffers produces; every upstream failure
// degrades to the fallback catalogue instead.
var ErrInvalidFilters = errors.New("invalid search filters")

// Marketplace is the contract every marketplace adapter implements.
type Marketplace interface {
	Name() domain.Marketplace
	Search(ctx context.Context, filters domain.SearchFilters) ([]domain.Offer, error)
}

// Fallback serves static offers when no marketplace call succeeds.
type Fallback interface {
	Search(filters domain.SearchFilters) *domain.SearchResult
}

// Default browse-mode term list, in merge order.
var defaultTerms = []string{
	"smartphone",
	"notebook",
	"smart tv",
	"gaming console",
	"book",
	"sporting goods",
	"camera",
	"headphones",
	"watch",
	"tablet",
}

const (
	defaultConcurrency     = 4
	defaultPerTermQuota    = 15
	defaultOverfetchFactor = 2
	defaultFirstPageTerms  = 4
)

// Service merges offers from all configured marketplaces.
type Service struct {
	marketplaces []Marketplace
	fallback     Fallback

	terms           []string
	firstPageTerms  int
	perTermQuota    int
	overfetchFactor int
	concurrency     int
	log             *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithTerms overrides the browse-mode term list.
func WithTerms(terms []string) Option {
	return func(s *Service) {
		if len(terms) > 0 {
			s.terms = terms
		}
	}
}

// WithFirstPageTerms sets how many terms page 1 fans out over. Later
// pages use the full term list.
func WithFirstPageTerms(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.firstPageTerms = n
		}
	}
}

// WithPerTermQuota sets the minimum number of offers requested per term.
func WithPerTermQuota(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.perTermQuota = n
		}
	}
}

// WithOverfetchFactor sets the query-mode fetch multiplier that absorbs
// offers lost to the zero-discount filter.
func WithOverfetchFactor(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.overfetchFactor = n
		}
	}
}

// WithConcurrency bounds the fan-out worker pool.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// New creates an aggregator over the given marketplaces.
func New(marketplaces []Marketplace, fb Fallback, opts ...Option) *Service {
	s := &Service{
		marketplaces:    marketplaces,
		fallback:        fb,
		terms:           defaultTerms,
		firstPageTerms:  defaultFirstPageTerms,
		perTermQuota:    defaultPerTermQuota,
		overfetchFactor: defaultOverfetchFactor,
		concurrency:     defaultConcurrency,
		log:             slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.firstPageTerms > len(s.terms) {
		s.firstPageTerms = len(s.terms)
	}
	return s
}

// task is one (marketplace, query) upstream call.
type task struct {
	marketplace Marketplace
	filters     domain.SearchFilters
}

// SearchOffers runs the full pipeline: fan out, normalize, merge,
// dedup, filter, sort, paginate. With a query it searches that term on
// every marketplace; without one it browses the fixed term list. When
// not a single upstream call succeeds the static catalogue is served
// with a warning, so the result is always usable.
func (s *Service) SearchOffers(
	ctx context.Context,
	filters domain.SearchFilters,
) (*domain.SearchResult, error) {
	if err := validate(filters); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	tasks := s.buildTasks(filters)
	results, succeeded := s.run(ctx, tasks)

	if succeeded == 0 {
		s.log.Warn("no marketplace reachable, serving fallback catalogue",
			"query", filters.Query,
			"tasks", len(tasks),
		)
		metrics.FallbackResponsesTotal.Inc()
		return s.fallback.Search(filters), nil
	}

	merged := mergeAndFilter(results, filters)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DiscountPercent > merged[j].DiscountPercent
	})

	offers := window(merged, filters.Offset(), filters.PerPage)
	metrics.OffersReturned.Observe(float64(len(offers)))

	return &domain.SearchResult{
		Success: true,
		Page:    filters.Page,
		PerPage: filters.PerPage,
		Total:   len(offers),
		Offers:  offers,
	}, nil
}

func validate(filters domain.SearchFilters) error {
	if filters.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidFilters)
	}
	if filters.PerPage < 1 {
		return fmt.Errorf("%w: per_page must be >= 1", ErrInvalidFilters)
	}
	if filters.PriceMax > 0 && filters.PriceMin > filters.PriceMax {
		return fmt.Errorf(
			"%w: price_min %.2f exceeds price_max %.2f",
			ErrInvalidFilters,
			filters.PriceMin,
			filters.PriceMax,
		)
	}
	return nil
}

// buildTasks decides the upstream calls. Task order is fixed so the
// merged sequence is deterministic no matter when each call returns.
func (s *Service) buildTasks(filters domain.SearchFilters) []task {
	if filters.Query != "" {
		// Overfetch to absorb offers the zero-discount filter drops.
		perCall := filters.PerPage * s.overfetchFactor
		tasks := make([]task, 0, len(s.marketplaces))
		for _, m := range s.marketplaces {
			f := filters
			f.PerPage = perCall
			tasks = append(tasks, task{marketplace: m, filters: f})
		}
		return tasks
	}

	terms := s.terms
	if filters.Page == 1 {
		terms = terms[:s.firstPageTerms]
	}

	quota := s.perTermQuota
	if need := (filters.Offset() + filters.PerPage) / len(terms); need >= quota {
		quota = need + 1
	}

	tasks := make([]task, 0, len(terms)*len(s.marketplaces))
	for _, term := range terms {
		for _, m := range s.marketplaces {
			f := filters
			f.Query = term
			f.PerPage = quota
			tasks = append(tasks, task{marketplace: m, filters: f})
		}
	}
	return tasks
}

// run executes the tasks on a bounded pool. Results keep their task
// index, so collection order is deterministic. Per-call failures are
// logged and isolated; cancellation abandons undispatched tasks.
func (s *Service) run(
	ctx context.Context,
	tasks []task,
) (results [][]domain.Offer, succeeded int) {
	results = make([][]domain.Offer, len(tasks))
	errs := make([]error, len(tasks))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, t := range tasks {
		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, t task) {
			defer wg.Done()
			defer func() { <-sem }()

			offers, err := t.marketplace.Search(ctx, t.filters)
			if err != nil {
				errs[i] = err
				s.log.Warn("marketplace call failed",
					"marketplace", t.marketplace.Name(),
					"query", t.filters.Query,
					"error", err,
				)
				return
			}
			results[i] = offers
		}(i, t)
	}

	wg.Wait()

	for i := range tasks {
		if errs[i] == nil {
			succeeded++
		}
	}
	return results, succeeded
}

// mergeAndFilter concatenates the positional results, dedups on the
// marketplace-qualified key keeping the first occurrence, and applies
// the query, discount, category and price filters.
func mergeAndFilter(
	results [][]domain.Offer,
	filters domain.SearchFilters,
) []domain.Offer {
	seen := make(map[string]struct{})
	var merged []domain.Offer

	for _, batch := range results {
		for _, o := range batch {
			if _, dup := seen[o.Key()]; dup {
				continue
			}
			seen[o.Key()] = struct{}{}

			if !keep(&o, filters) {
				continue
			}
			merged = append(merged, o)
		}
	}
	return merged
}

func keep(o *domain.Offer, filters domain.SearchFilters) bool {
	if o.DiscountPercent <= 0 {
		return false
	}
	if !o.MatchesQuery(filters.Query) {
		return false
	}
	if filters.MinDiscount > 0 && o.DiscountPercent < filters.MinDiscount {
		return false
	}
	if filters.CategoryID != "" && o.CategoryID != filters.CategoryID {
		return false
	}
	if filters.PriceMin > 0 && o.CurrentPrice < filters.PriceMin {
		return false
	}
	if filters.PriceMax > 0 && o.CurrentPrice > filters.PriceMax {
		return false
	}
	return true
}

func window(offers []domain.Offer, offset, perPage int) []domain.Offer {
	if offset >= len(offers) {
		return []domain.Offer{}
	}
	end := offset + perPage
	if end > len(offers) {
		end = len(offers)
	}
	return offers[offset:end]
}
