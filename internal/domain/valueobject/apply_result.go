package valueobject

import "github.com/kompoln/bind9-ctl/internal/domain/entity"

type ChangeStatus int

const (
	StatusNotAttempted ChangeStatus = iota
	StatusApplied
	StatusFailed
)

func (s ChangeStatus) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusFailed:
		return "failed"
	default:
		return "not attempted"
	}
}

// Outcome records what happened to one planned change during apply.
// Batch identifies the update transaction the change was part of,
// zero-based; zone-file applies use a single batch.
type Outcome struct {
	Change *Change
	Status ChangeStatus
	Batch  int
	Err    error
}

// ApplyResult is the per-change account of an apply. It must let the
// caller distinguish "nothing changed" from "partially changed" from
// "fully changed but reload not confirmed".
type ApplyResult struct {
	Strategy entity.ApplyStrategy
	Outcomes []Outcome

	// Zone-file strategy only.
	Serial          uint32
	ZoneFilePath    string
	ReloadConfirmed bool
}

func NewApplyResult(strategy entity.ApplyStrategy) *ApplyResult {
	return &ApplyResult{Strategy: strategy}
}

func (r *ApplyResult) Record(c *Change, status ChangeStatus, batch int, err error) {
	r.Outcomes = append(r.Outcomes, Outcome{Change: c, Status: status, Batch: batch, Err: err})
}

func (r *ApplyResult) CountByStatus(status ChangeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (r *ApplyResult) Applied() int      { return r.CountByStatus(StatusApplied) }
func (r *ApplyResult) Failed() int       { return r.CountByStatus(StatusFailed) }
func (r *ApplyResult) NotAttempted() int { return r.CountByStatus(StatusNotAttempted) }

// FullyApplied reports every planned change landed.
func (r *ApplyResult) FullyApplied() bool {
	return len(r.Outcomes) > 0 && r.Applied() == len(r.Outcomes)
}

// Partial reports a mixed outcome: some changes landed, some did not.
func (r *ApplyResult) Partial() bool {
	applied := r.Applied()
	return applied > 0 && applied < len(r.Outcomes)
}

// Unapplied returns the changes that failed or were never attempted.
func (r *ApplyResult) Unapplied() []*Change {
	var out []*Change
	for _, o := range r.Outcomes {
		if o.Status != StatusApplied {
			out = append(out, o.Change)
		}
	}
	return out
}
