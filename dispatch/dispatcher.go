package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/meritdesk/awards-engine/eligibility"
	"github.com/meritdesk/awards-engine/metrics"
	"github.com/meritdesk/awards-engine/person"
	"github.com/meritdesk/awards-engine/unit"
)

// =============================================================================
// DISPATCHER - The single recompute-or-log consumer
// =============================================================================

// Dispatcher consumes RecordChanged events and invokes the owning
// calculators synchronously. One instance serves the whole application.
type Dispatcher struct {
	Person *person.Calculator
	Unit   *unit.Calculator
	Log    *zap.Logger
}

func NewDispatcher(p *person.Calculator, u *unit.Calculator, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{Person: p, Unit: u, Log: log}
}

// Publish reacts to a committed raw-record mutation. Recalculation
// failures are swallowed: they are logged and counted, and the triggering
// write stands. The returned error is always nil today; the signature
// leaves room for a dead-letter policy.
func (d *Dispatcher) Publish(ctx context.Context, ev RecordChanged) error {
	switch ev.Kind {
	case KindAnnualAward, KindAchievement:
		d.recomputeOrLog(ctx, "annual", string(ev.PersonID), func() error {
			_, err := d.Person.RecalcAnnual(ctx, ev.PersonID)
			return err
		})
	case KindAssignment:
		d.recomputeOrLog(ctx, "contribution", string(ev.PersonID), func() error {
			_, err := d.Person.RecalcContribution(ctx, ev.PersonID)
			return err
		})
	case KindPersonFacts:
		// Enlistment/separation dates feed both tier calculators.
		d.recomputeOrLog(ctx, "service", string(ev.PersonID), func() error {
			_, err := d.Person.RecalcService(ctx, ev.PersonID)
			return err
		})
		d.recomputeOrLog(ctx, "contribution", string(ev.PersonID), func() error {
			_, err := d.Person.RecalcContribution(ctx, ev.PersonID)
			return err
		})
	case KindUnitAward:
		d.recomputeOrLog(ctx, "unit", string(ev.UnitID), func() error {
			_, err := d.Unit.Recalc(ctx, ev.UnitID)
			return err
		})
	default:
		d.Log.Warn("unknown record kind", zap.String("kind", string(ev.Kind)))
	}
	return nil
}

// recomputeOrLog is the one place the swallow-and-log pattern lives.
func (d *Dispatcher) recomputeOrLog(ctx context.Context, calculator, subject string, fn func() error) {
	start := time.Now()
	if err := fn(); err != nil {
		metrics.RecalcFailed(calculator)
		recalcErr := &eligibility.RecalcError{Calculator: calculator, Subject: subject, Err: err}
		d.Log.Warn("recalculation failed; raw record remains committed",
			zap.String("calculator", calculator),
			zap.String("subject", subject),
			zap.Error(recalcErr))
		return
	}
	metrics.RecalcSucceeded(calculator, time.Since(start))
}

// =============================================================================
// USER-INITIATED RECALCULATION - Errors propagate
// =============================================================================

// RecalculatePerson runs all three individual calculators for one person.
// Unlike Publish, errors propagate: a user asked for this run and gets the
// outcome.
func (d *Dispatcher) RecalculatePerson(ctx context.Context, id eligibility.PersonID) error {
	if _, err := d.Person.RecalcAnnual(ctx, id); err != nil {
		return &eligibility.RecalcError{Calculator: "annual", Subject: string(id), Err: err}
	}
	if _, err := d.Person.RecalcService(ctx, id); err != nil {
		return &eligibility.RecalcError{Calculator: "service", Subject: string(id), Err: err}
	}
	if _, err := d.Person.RecalcContribution(ctx, id); err != nil {
		return &eligibility.RecalcError{Calculator: "contribution", Subject: string(id), Err: err}
	}
	return nil
}

// RecalculateUnit recomputes one unit's profile, propagating errors.
func (d *Dispatcher) RecalculateUnit(ctx context.Context, id eligibility.UnitID) error {
	if _, err := d.Unit.Recalc(ctx, id); err != nil {
		return &eligibility.RecalcError{Calculator: "unit", Subject: string(id), Err: err}
	}
	return nil
}
