package classifier

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/VividCortex/gohistogram"
)

// Stats keeps classification counts and a latency histogram
type Stats struct {
	sync.Mutex
	total  uint64
	byName map[string]uint64
	h      *gohistogram.NumericHistogram
}

type Snapshot struct {
	Total      uint64
	ByName     map[string]uint64
	MeanMicros float64
	P10Micros  float64
	P99Micros  float64
}

func NewStats() *Stats {
	return &Stats{byName: make(map[string]uint64), h: gohistogram.NewHistogram(50)}
}

func (s *Stats) Record(name string, elapsed time.Duration) {
	s.Lock()
	defer s.Unlock()

	s.total++
	s.byName[name]++
	s.h.Add(float64(elapsed.Nanoseconds()))
}

func (s *Stats) Snapshot() Snapshot {
	s.Lock()
	defer s.Unlock()

	snap := Snapshot{Total: s.total, ByName: make(map[string]uint64, len(s.byName))}
	for k, v := range s.byName {
		snap.ByName[k] = v
	}
	if s.total > 0 {
		snap.MeanMicros = s.h.Mean() / 1000.0
		snap.P10Micros = s.h.Quantile(.10) / 1000.0
		snap.P99Micros = s.h.Quantile(.99) / 1000.0
	}
	return snap
}

func (s *Stats) Reset() {
	s.Lock()
	defer s.Unlock()

	s.total = 0
	s.byName = make(map[string]uint64)
	s.h = gohistogram.NewHistogram(50)
}

func (snap Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "classifications %d, avg %.1fus, 10%% %.1fus, 99%% %.1fus", snap.Total, snap.MeanMicros, snap.P10Micros, snap.P99Micros)

	names := make([]string, 0, len(snap.ByName))
	for name := range snap.ByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n  %-24s %d", name, snap.ByName[name])
	}
	return sb.String()
}
