package generator

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/willfong/sample-data-generator/internal/models"
	"github.com/willfong/sample-data-generator/internal/utils"
)

// WorkUnit is one independent piece of generation: a solo definition, or a
// group driven by its main definition.
type WorkUnit struct {
	Index    int // position in processing order
	Main     models.Definition
	Siblings []models.Definition // nil for solos
	Group    string
	RNG      *utils.Random
}

// IsGroup reports whether the unit produces split transactions.
func (u WorkUnit) IsGroup() bool {
	return u.Group != ""
}

// WorkerResult contains the output of one completed unit
type WorkerResult struct {
	Unit         int
	Transactions []models.Transaction
	Duration     time.Duration
}

// GetWorkerCount returns the number of workers to use.
// If configured workers is 0, auto-detects using runtime.NumCPU().
func GetWorkerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	cpus := runtime.NumCPU()
	if cpus < 1 {
		return 1
	}
	return cpus
}

// BuildWorkUnits lays out solos first, then groups, and hands every unit its
// own RNG forked from rng in that order. Forking happens here, before any
// worker starts, so the output of a seeded run does not depend on scheduling.
func BuildWorkUnits(p Partitions, rng *utils.Random) []WorkUnit {
	rngs := rng.ForkN(p.UnitCount())
	units := make([]WorkUnit, 0, p.UnitCount())

	for _, def := range p.Solos {
		units = append(units, WorkUnit{Index: len(units), Main: def, RNG: rngs[len(units)]})
	}
	for _, g := range p.Groups {
		units = append(units, WorkUnit{
			Index:    len(units),
			Main:     g.Main,
			Siblings: g.Members,
			Group:    g.Key,
			RNG:      rngs[len(units)],
		})
	}

	return units
}

// RunWorkUnits generates every unit on a pool of workers and returns results
// indexed by unit. When several units fail, the error of the earliest unit is
// returned. onDone, if set, is called after each unit completes.
func RunWorkUnits(units []WorkUnit, year, workers int, onDone func(done, total int)) ([]WorkerResult, error) {
	workerCount := GetWorkerCount(workers)
	if workerCount > len(units) {
		workerCount = len(units)
	}

	results := make([]WorkerResult, len(units))
	errs := make([]error, len(units))
	jobs := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				unit := units[i]
				start := time.Now()

				txs, err := NewDefinitionGenerator(unit.RNG, year).Generate(unit.Main, unit.Siblings)
				if err != nil {
					// ConfigurationError already names the definition
					if unit.IsGroup() {
						err = fmt.Errorf("group %q: %w", unit.Group, err)
					}
					errs[i] = err
				} else {
					results[i] = WorkerResult{Unit: i, Transactions: txs, Duration: time.Since(start)}
				}

				if onDone != nil {
					mu.Lock()
					done++
					onDone(done, len(units))
					mu.Unlock()
				}
			}
		}()
	}

	for i := range units {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
