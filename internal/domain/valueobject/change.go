package valueobject

import (
	"fmt"

	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

type Operation int

const (
	OperationAdd Operation = iota
	OperationRemove
	OperationUpdateTTL
)

func (op Operation) String() string {
	switch op {
	case OperationAdd:
		return "add"
	case OperationRemove:
		return "remove"
	case OperationUpdateTTL:
		return "update-ttl"
	default:
		return "unknown"
	}
}

type Reason string

const (
	ReasonNewDeclaration     Reason = "new declaration"
	ReasonRemovedDeclaration Reason = "removed declaration"
	ReasonTTLDrift           Reason = "ttl drift"
)

// Change is a single planned mutation. The record is the post-state
// for add and update-ttl and the pre-state for remove. prevTTL is only
// meaningful for update-ttl.
type Change struct {
	op      Operation
	record  entity.Record
	prevTTL int
	reason  Reason
}

func NewAdd(r entity.Record) *Change {
	return &Change{op: OperationAdd, record: r, reason: ReasonNewDeclaration}
}

func NewRemove(r entity.Record) *Change {
	return &Change{op: OperationRemove, record: r, reason: ReasonRemovedDeclaration}
}

func NewUpdateTTL(r entity.Record, prevTTL int) *Change {
	return &Change{op: OperationUpdateTTL, record: r, prevTTL: prevTTL, reason: ReasonTTLDrift}
}

func (c *Change) Op() Operation         { return c.op }
func (c *Change) Record() entity.Record { return c.record }
func (c *Change) PrevTTL() int          { return c.prevTTL }
func (c *Change) Reason() Reason        { return c.reason }

func (c *Change) String() string {
	switch c.op {
	case OperationUpdateTTL:
		return fmt.Sprintf("%s %s %s %s (%d -> %d)",
			c.op, c.record.Type, c.record.Name, c.record.Data, c.prevTTL, c.record.TTL)
	default:
		return fmt.Sprintf("%s %s %s %s (ttl %d)",
			c.op, c.record.Type, c.record.Name, c.record.Data, c.record.TTL)
	}
}

func (c *Change) Equals(other *Change) bool {
	if other == nil {
		return false
	}
	return c.op == other.op &&
		c.record.Key() == other.record.Key() &&
		c.record.TTL == other.record.TTL &&
		c.prevTTL == other.prevTTL &&
		c.reason == other.reason
}
