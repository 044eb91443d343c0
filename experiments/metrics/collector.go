package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarises one solver run.
type SearchMetric struct {
	Duration        time.Duration
	Expansions      int
	MemoHits        int
	MemoSize        int
	PrunedDivisions int
}

// SolveRecord is one surveyed puzzle and how the search went.
type SolveRecord struct {
	Dice       []int
	Target     int
	Found      bool
	Expression string
	SearchMetric
}

// Collector counts search events. It satisfies solver.Collector.
type Collector interface {
	Start()
	AddExpansion()
	AddMemoHit()
	AddPrunedDivision()
	SetMemoSize(n int)
	Complete() SearchMetric
}

type collector struct {
	startTime       time.Time
	expansions      atomic.Int32
	memoHits        atomic.Int32
	memoSize        atomic.Int32
	prunedDivisions atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.expansions.Store(0)
	m.memoHits.Store(0)
	m.memoSize.Store(0)
	m.prunedDivisions.Store(0)
}

func (m *collector) AddExpansion() {
	m.expansions.Add(1)
}

func (m *collector) AddMemoHit() {
	m.memoHits.Add(1)
}

func (m *collector) AddPrunedDivision() {
	m.prunedDivisions.Add(1)
}

func (m *collector) SetMemoSize(n int) {
	m.memoSize.Store(int32(n))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:        time.Since(m.startTime),
		Expansions:      int(m.expansions.Load()),
		MemoHits:        int(m.memoHits.Load()),
		MemoSize:        int(m.memoSize.Load()),
		PrunedDivisions: int(m.prunedDivisions.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                 {}
func (m *dummyCollector) AddExpansion()          {}
func (m *dummyCollector) AddMemoHit()            {}
func (m *dummyCollector) AddPrunedDivision()     {}
func (m *dummyCollector) SetMemoSize(n int)      {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
