package classifier

import (
	"time"

	"github.com/robaho/go-combinations/pkg/combinations"
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/rs/zerolog"
)

// Result is the outcome of classifying one set of legs
type Result struct {
	Name    string        `json:"name"`
	Order   []int         `json:"order"`
	Legs    []string      `json:"legs"`
	Elapsed time.Duration `json:"elapsed"`
}

func (r Result) Classified() bool {
	return r.Name != combinations.Unclassified
}

// Service classifies legs against a shared library and records statistics. It is safe
// for concurrent use, the library is never modified.
type Service struct {
	library *combinations.Combinations
	stats   *Stats
	metrics *Metrics
	log     zerolog.Logger
}

// NewService creates a service, metrics may be nil
func NewService(library *combinations.Combinations, metrics *Metrics, log zerolog.Logger) *Service {
	return &Service{
		library: library,
		stats:   NewStats(),
		metrics: metrics,
		log:     log.With().Str("component", "classifier").Logger(),
	}
}

func (s *Service) Classify(components []common.Component) Result {
	start := time.Now()
	name, order := s.library.Classify(components)
	elapsed := time.Since(start)

	r := Result{Name: name, Order: order, Elapsed: elapsed}
	for _, c := range components {
		r.Legs = append(r.Legs, c.String())
	}

	s.stats.Record(name, elapsed)
	if s.metrics != nil {
		s.metrics.observe(r)
	}
	s.log.Debug().
		Str("pattern", name).
		Int("legs", len(components)).
		Ints("order", order).
		Dur("elapsed", elapsed).
		Msg("classified")
	return r
}

// ClassifyLines parses one leg per entry and classifies them
func (s *Service) ClassifyLines(lines []string) (Result, error) {
	components, err := common.ParseComponents(lines)
	if err != nil {
		if s.metrics != nil {
			s.metrics.Rejects.WithLabelValues("parse").Inc()
		}
		return Result{}, err
	}
	return s.Classify(components), nil
}

func (s *Service) Patterns() []string {
	return s.library.Names()
}

func (s *Service) Lookup(name string) (combinations.Combination, bool) {
	return s.library.Lookup(name)
}

func (s *Service) Stats() *Stats {
	return s.stats
}
