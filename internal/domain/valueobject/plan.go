package valueobject

import (
	"sort"

	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

// Plan is the ordered set of mutations reconciling live state to
// desired state, plus the live records that were excluded from
// reconciliation (SOA, optionally apex NS, ignore patterns).
type Plan struct {
	zone     string
	changes  []*Change
	excluded []entity.Record
}

func NewPlan(zone string) *Plan {
	return &Plan{zone: zone}
}

func (p *Plan) Zone() string               { return p.zone }
func (p *Plan) Changes() []*Change         { return p.changes }
func (p *Plan) Excluded() []entity.Record  { return p.excluded }
func (p *Plan) HasChanges() bool           { return len(p.changes) > 0 }

func (p *Plan) AddChange(c *Change) {
	p.changes = append(p.changes, c)
}

func (p *Plan) AddExcluded(r entity.Record) {
	p.excluded = append(p.excluded, r)
}

func (p *Plan) FilterByOp(op Operation) []*Change {
	var out []*Change
	for _, c := range p.changes {
		if c.Op() == op {
			out = append(out, c)
		}
	}
	return out
}

func (p *Plan) Adds() []*Change       { return p.FilterByOp(OperationAdd) }
func (p *Plan) Removes() []*Change    { return p.FilterByOp(OperationRemove) }
func (p *Plan) TTLUpdates() []*Change { return p.FilterByOp(OperationUpdateTTL) }

// Sort fixes the plan order: record sort order first, operation as the
// tie break. Two plans computed from equal inputs sort identically
// regardless of input iteration order.
func (p *Plan) Sort() {
	sort.SliceStable(p.changes, func(i, j int) bool {
		a, b := p.changes[i].Record(), p.changes[j].Record()
		if a.Key() != b.Key() {
			return a.Less(b)
		}
		return p.changes[i].Op() < p.changes[j].Op()
	})
	sort.Slice(p.excluded, func(i, j int) bool {
		return p.excluded[i].Less(p.excluded[j])
	})
}

func (p *Plan) Equals(other *Plan) bool {
	if other == nil || p.zone != other.zone || len(p.changes) != len(other.changes) {
		return false
	}
	for i, c := range p.changes {
		if !c.Equals(other.changes[i]) {
			return false
		}
	}
	return true
}
