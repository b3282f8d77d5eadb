package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/valueobject"
)

type DiffOptions struct {
	// ExcludeApexNS keeps NS records at the zone apex out of the plan.
	// Delegation NS below the apex is always reconciled.
	ExcludeApexNS bool
}

func DefaultDiffOptions() DiffOptions {
	return DiffOptions{ExcludeApexNS: true}
}

// ComputePlan diffs desired against live and produces the minimal
// ordered change set. SOA never appears in a plan; excluded live
// records are reported on the plan itself. The result is stable across
// calls for equal inputs.
func ComputePlan(zone *entity.ZoneContext, desired, live *entity.RecordSet, opts DiffOptions) (*valueobject.Plan, error) {
	if err := checkConflicts(desired); err != nil {
		return nil, err
	}

	plan := valueobject.NewPlan(zone.Origin)

	reconcilable := func(r entity.Record) bool {
		if r.Type == entity.RecordTypeSOA {
			return false
		}
		if opts.ExcludeApexNS && r.Type == entity.RecordTypeNS && r.Name == zone.Origin {
			return false
		}
		return true
	}

	desiredManaged := entity.NewRecordSet()
	for _, r := range desired.Records() {
		if reconcilable(r) {
			desiredManaged.Add(r)
		}
	}
	liveManaged := entity.NewRecordSet()
	for _, r := range live.Records() {
		if reconcilable(r) {
			liveManaged.Add(r)
		} else {
			plan.AddExcluded(r)
		}
	}

	for _, d := range desiredManaged.Records() {
		l, ok := liveManaged.Get(d.Key())
		switch {
		case !ok:
			plan.AddChange(valueobject.NewAdd(d))
		case l.TTL != d.TTL:
			plan.AddChange(valueobject.NewUpdateTTL(d, l.TTL))
		}
	}

	for _, l := range liveManaged.Records() {
		if !desiredManaged.Contains(l) {
			plan.AddChange(valueobject.NewRemove(l))
		}
	}

	plan.Sort()
	return plan, nil
}

// checkConflicts rejects a desired set declaring two different values
// for the same (name, type). This is a caller configuration error and
// is never silently resolved by picking one.
func checkConflicts(desired *entity.RecordSet) error {
	values := make(map[string]map[string]bool)
	for _, r := range desired.Records() {
		pair := r.PairKey()
		if values[pair] == nil {
			values[pair] = make(map[string]bool)
		}
		values[pair][r.Data.String()] = true
	}

	var conflicted []string
	for pair, vals := range values {
		if len(vals) > 1 {
			conflicted = append(conflicted, pair)
		}
	}
	if len(conflicted) == 0 {
		return nil
	}
	sort.Strings(conflicted)

	errs := make([]error, 0, len(conflicted))
	for _, pair := range conflicted {
		errs = append(errs, fmt.Errorf("%w: multiple values declared for %s", domain.ErrConflict, pair))
	}
	return errors.Join(errs...)
}
