// Package optimizer sweeps a parameter grid across independent backtest runs
// and picks the best-scoring parameter set.
package optimizer

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/your-org/tradesim/internal/analytics"
	"github.com/your-org/tradesim/pkg/logger"
)

// RunFunc executes one full backtest for a parameter set. Implementations
// must build their own engine instance per call; nothing is shared between
// concurrent invocations.
type RunFunc func(params map[string]float64) (analytics.Summary, error)

// Result pairs one parameter set with its run summary and metric score.
type Result struct {
	Params  map[string]float64
	Summary analytics.Summary
	Score   float64
}

// Optimizer fans a parameter grid out over a bounded worker pool.
type Optimizer struct {
	Metric    string
	Ascending bool // true when a lower score is better
	Workers   int
	Run       RunFunc
}

// Grid expands a parameter space into the cartesian product of all values.
// Keys are iterated in sorted order so the expansion is deterministic.
func Grid(space map[string][]float64) []map[string]float64 {
	keys := make([]string, 0, len(space))
	for k := range space {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	combos := []map[string]float64{{}}
	for _, k := range keys {
		next := make([]map[string]float64, 0, len(combos)*len(space[k]))
		for _, combo := range combos {
			for _, v := range space[k] {
				merged := make(map[string]float64, len(combo)+1)
				for ck, cv := range combo {
					merged[ck] = cv
				}
				merged[k] = v
				next = append(next, merged)
			}
		}
		combos = next
	}
	return combos
}

// Optimize runs every parameter set and returns all scored results plus the
// best one. Failed or NaN-scoring runs are logged and excluded from ranking.
func (o *Optimizer) Optimize(space map[string][]float64) ([]Result, *Result, error) {
	combos := Grid(space)
	if len(combos) == 0 {
		return nil, nil, fmt.Errorf("empty parameter space")
	}

	workers := o.Workers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan map[string]float64)
	resultCh := make(chan Result, len(combos))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				summary, err := o.Run(params)
				if err != nil {
					logger.Warnf("Skipping parameter set %v: %v", params, err)
					continue
				}
				score, err := analytics.Metric(summary, o.Metric)
				if err != nil {
					logger.Warnf("Skipping parameter set %v: %v", params, err)
					continue
				}
				resultCh <- Result{Params: params, Summary: summary, Score: score}
			}
		}()
	}

	for _, params := range combos {
		jobs <- params
	}
	close(jobs)
	wg.Wait()
	close(resultCh)

	results := make([]Result, 0, len(combos))
	for r := range resultCh {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return o.better(results[i].Score, results[j].Score)
	})

	best := o.pickBest(results)
	if best == nil {
		return results, nil, fmt.Errorf("no parameter set produced a usable %s score", o.Metric)
	}
	return results, best, nil
}

func (o *Optimizer) better(a, b float64) bool {
	// NaN scores sort last regardless of direction.
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	if o.Ascending {
		return a < b
	}
	return a > b
}

func (o *Optimizer) pickBest(results []Result) *Result {
	for i := range results {
		if !math.IsNaN(results[i].Score) {
			return &results[i]
		}
	}
	return nil
}
