/*
bulk.go - Full-population recalculation sweep

PURPOSE:
  Iterates every person and unit and re-derives all profiles. Subjects are
  independent (disjoint read/write sets), so the sweep runs them on a
  small worker pool. Per-subject failures are collected and reported, not
  fatal: the sweep always visits the whole population.
*/
package dispatch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/meritdesk/awards-engine/metrics"
)

// bulkWorkers bounds sweep concurrency. Recalculations are cheap CPU-bound
// scans over small histories; a handful of workers keeps the store busy
// without flooding it.
const bulkWorkers = 4

// BulkResult reports a sweep's per-subject outcomes.
type BulkResult struct {
	Persons   int
	Units     int
	Succeeded int
	Failed    int
	Errors    []string
}

// RecalculateAll sweeps the full population. The returned error only
// reflects enumeration failures; per-subject recalculation failures are
// reported inside the result.
func (d *Dispatcher) RecalculateAll(ctx context.Context) (BulkResult, error) {
	metrics.BulkRun()

	personIDs, err := d.Person.Store.ListPersonIDs(ctx)
	if err != nil {
		return BulkResult{}, err
	}
	unitIDs, err := d.Unit.Store.ListUnitIDs(ctx)
	if err != nil {
		return BulkResult{}, err
	}

	res := BulkResult{Persons: len(personIDs), Units: len(unitIDs)}

	type job struct {
		run  func() error
		name string
	}
	jobs := make(chan job)

	var mu sync.Mutex
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, name+": "+err.Error())
			return
		}
		res.Succeeded++
	}

	var wg sync.WaitGroup
	for i := 0; i < bulkWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				record(j.name, j.run())
			}
		}()
	}

	for _, id := range personIDs {
		id := id
		jobs <- job{name: "person " + string(id), run: func() error {
			return d.RecalculatePerson(ctx, id)
		}}
	}
	for _, id := range unitIDs {
		id := id
		jobs <- job{name: "unit " + string(id), run: func() error {
			return d.RecalculateUnit(ctx, id)
		}}
	}
	close(jobs)
	wg.Wait()

	d.Log.Info("bulk recalculation finished",
		zap.Int("persons", res.Persons),
		zap.Int("units", res.Units),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed))
	return res, nil
}
