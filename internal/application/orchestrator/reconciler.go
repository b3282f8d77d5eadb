package orchestrator

import (
	"context"
	"fmt"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/service"
	"github.com/kompoln/bind9-ctl/internal/domain/valueobject"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/logger"
)

// TransferClient acquires the live record set for a zone.
type TransferClient interface {
	FetchZone(ctx context.Context, zone *entity.ZoneContext) (*entity.RecordSet, error)
}

// DynamicApplier applies a plan through signed update transactions.
type DynamicApplier interface {
	Apply(ctx context.Context, zone *entity.ZoneContext, plan *valueobject.Plan) (*valueobject.ApplyResult, error)
}

// ZoneFileApplier applies by regenerating, validating and activating
// the zone file.
type ZoneFileApplier interface {
	Apply(ctx context.Context, zone *entity.ZoneContext, desired, live *entity.RecordSet, plan *valueobject.Plan) (*valueobject.ApplyResult, error)
}

type Options struct {
	Strategy entity.ApplyStrategy
	PlanOnly bool

	// MaxRemovalRatio guards against a thin desired document emptying
	// a populated zone. 1 disables the guard.
	MaxRemovalRatio  float64
	AllowMassRemoval bool

	Diff service.DiffOptions
}

// Result is the structured outcome of one reconciliation run.
type Result struct {
	Zone       *entity.ZoneContext
	Desired    *entity.RecordSet
	Live       *entity.RecordSet
	LiveSerial uint32
	Plan       *valueobject.Plan
	Apply      *valueobject.ApplyResult

	// Managed counts the live records eligible for reconciliation,
	// after ignore filtering and SOA/apex-NS exclusion. The removal
	// guard measures the plan against this population.
	Managed int
}

// Reconciler drives one run: fetch live, diff, and optionally apply
// through exactly one strategy.
type Reconciler struct {
	transfer TransferClient
	dynamic  DynamicApplier
	zonefile ZoneFileApplier
}

func NewReconciler(transfer TransferClient, dynamic DynamicApplier, zonefile ZoneFileApplier) *Reconciler {
	return &Reconciler{transfer: transfer, dynamic: dynamic, zonefile: zonefile}
}

// Plan computes the change plan without touching anything. Desired
// declarations are validated before the network is involved, so a bad
// document never costs a transfer.
func (r *Reconciler) Plan(ctx context.Context, zone *entity.ZoneContext, desired *entity.RecordSet, opts Options) (*Result, error) {
	if err := zone.Validate(); err != nil {
		return nil, err
	}
	if err := service.ValidateSet(desired); err != nil {
		return nil, err
	}

	live, err := r.transfer.FetchZone(ctx, zone)
	if err != nil {
		return nil, err
	}

	liveSerial := uint32(0)
	if soa, ok := live.SOA(); ok {
		if data, ok := soa.Data.(entity.SOARData); ok {
			liveSerial = data.Serial
		}
	}

	filtered := service.FilterIgnored(live, zone.Ignore)
	plan, err := service.ComputePlan(zone, desired, filtered, opts.Diff)
	if err != nil {
		return nil, err
	}

	logger.Info("plan computed", "zone", zone.Origin,
		"adds", len(plan.Adds()), "removes", len(plan.Removes()),
		"ttl_updates", len(plan.TTLUpdates()), "excluded", len(plan.Excluded()))

	return &Result{
		Zone:       zone,
		Desired:    desired,
		Live:       live,
		LiveSerial: liveSerial,
		Plan:       plan,
		Managed:    filtered.Len() - len(plan.Excluded()),
	}, nil
}

// Reconcile runs plan and, unless opts.PlanOnly, applies through the
// selected strategy. Exactly one strategy applies per run.
func (r *Reconciler) Reconcile(ctx context.Context, zone *entity.ZoneContext, desired *entity.RecordSet, opts Options) (*Result, error) {
	result, err := r.Plan(ctx, zone, desired, opts)
	if err != nil {
		return nil, err
	}
	return r.Apply(ctx, result, opts)
}

// Apply runs the removal guard and the selected strategy against an
// already-computed result. Callers that showed the plan to an operator
// use this to apply exactly the plan that was confirmed, without a
// second transfer.
func (r *Reconciler) Apply(ctx context.Context, result *Result, opts Options) (*Result, error) {
	if opts.PlanOnly || !result.Plan.HasChanges() {
		return result, nil
	}

	if err := r.checkRemovalGuard(result, opts); err != nil {
		return result, err
	}

	applyResult, err := r.apply(ctx, result, opts)
	result.Apply = applyResult
	if err != nil {
		return result, err
	}
	return result, nil
}

func (r *Reconciler) apply(ctx context.Context, result *Result, opts Options) (*valueobject.ApplyResult, error) {
	switch opts.Strategy {
	case entity.StrategyDynamic:
		return r.dynamic.Apply(ctx, result.Zone, result.Plan)
	case entity.StrategyZoneFile:
		return r.zonefile.Apply(ctx, result.Zone, result.Desired, result.Live, result.Plan)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrStrategyConflict, opts.Strategy)
	}
}

// checkRemovalGuard refuses plans that would strip too much of a
// populated zone in one shot. An explicit override is required to
// proceed past the guard.
func (r *Reconciler) checkRemovalGuard(result *Result, opts Options) error {
	if opts.AllowMassRemoval || opts.MaxRemovalRatio >= 1 {
		return nil
	}

	removals := len(result.Plan.Removes())
	if removals == 0 || result.Managed == 0 {
		return nil
	}

	ratio := float64(removals) / float64(result.Managed)
	if ratio > opts.MaxRemovalRatio {
		return fmt.Errorf("%w: plan removes %d of %d live records (%.0f%%), pass the override to proceed",
			domain.ErrRemovalGuard, removals, result.Managed, ratio*100)
	}
	return nil
}
