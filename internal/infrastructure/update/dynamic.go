package update

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/kompoln/bind9-ctl/internal/config"
	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/valueobject"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/logger"
)

// maxMsgBytes keeps signed update messages comfortably below the
// 64 KiB wire limit, TSIG and header included.
const maxMsgBytes = 48 * 1024

// Exchanger sends one signed update transaction. Narrowed out of
// dns.Client so tests can fake the server side.
type Exchanger interface {
	Exchange(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, error)
}

type dnsExchanger struct {
	client *dns.Client
}

func (e *dnsExchanger) Exchange(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, error) {
	r, _, err := e.client.ExchangeContext(ctx, m, addr)
	return r, err
}

// Applier translates a plan into TSIG-signed dynamic update
// transactions. All directives for the zone go into a single
// transaction when they fit, so the server applies them atomically;
// oversized plans are split into sequential transactions with
// per-change completion tracking.
type Applier struct {
	addr     string
	key      config.TSIGKey
	timeout  time.Duration
	exchange Exchanger
	maxBytes int
}

func NewApplier(cfg *config.Config) *Applier {
	keyName := dns.Fqdn(cfg.TSIG.Name)
	client := &dns.Client{
		Net:        "tcp",
		Timeout:    cfg.AXFRTimeout,
		TsigSecret: map[string]string{keyName: cfg.TSIG.Secret},
	}
	return &Applier{
		addr:     cfg.Addr(),
		key:      cfg.TSIG,
		timeout:  cfg.AXFRTimeout,
		exchange: &dnsExchanger{client: client},
		maxBytes: maxMsgBytes,
	}
}

// Apply sends the plan. The returned result always carries an outcome
// per change; on a mid-sequence failure the error wraps
// domain.ErrApplyPartial and the result says exactly which changes
// landed, which failed, and which were never attempted.
func (a *Applier) Apply(ctx context.Context, zone *entity.ZoneContext, plan *valueobject.Plan) (*valueobject.ApplyResult, error) {
	result := valueobject.NewApplyResult(entity.StrategyDynamic)
	changes := plan.Changes()
	if len(changes) == 0 {
		return result, nil
	}

	batches, err := a.splitBatches(zone, changes)
	if err != nil {
		return result, err
	}

	logger.Info("sending dynamic updates",
		"zone", zone.Origin, "changes", len(changes), "transactions", len(batches))

	for i, batch := range batches {
		if err := a.sendBatch(ctx, zone, batch, i); err != nil {
			for _, c := range batch {
				result.Record(c, valueobject.StatusFailed, i, err)
			}
			for j := i + 1; j < len(batches); j++ {
				for _, c := range batches[j] {
					result.Record(c, valueobject.StatusNotAttempted, j, nil)
				}
			}
			if i > 0 {
				return result, fmt.Errorf("%w: transaction %d of %d: %v",
					domain.ErrApplyPartial, i+1, len(batches), err)
			}
			return result, err
		}
		for _, c := range batch {
			result.Record(c, valueobject.StatusApplied, i, nil)
		}
	}

	return result, nil
}

func (a *Applier) sendBatch(ctx context.Context, zone *entity.ZoneContext, batch []*valueobject.Change, idx int) error {
	m, err := a.buildMsg(zone, batch)
	if err != nil {
		return err
	}

	r, err := a.exchange.Exchange(ctx, m, a.addr)
	if err != nil {
		return classifyUpdateErr(err)
	}
	if r == nil {
		return fmt.Errorf("%w: empty response", domain.ErrUpdateTransport)
	}

	switch r.Rcode {
	case dns.RcodeSuccess:
		logger.Debug("update transaction accepted", "zone", zone.Origin, "transaction", idx)
		return nil
	case dns.RcodeNotAuth, dns.RcodeBadSig, dns.RcodeBadKey, dns.RcodeBadTime:
		return fmt.Errorf("%w: rcode %s", domain.ErrUpdateAuth, dns.RcodeToString[r.Rcode])
	default:
		return fmt.Errorf("%w: rcode %s", domain.ErrUpdateRefused, dns.RcodeToString[r.Rcode])
	}
}

// buildMsg assembles one signed update transaction. update-ttl has no
// in-place form in the update protocol, so it becomes delete-then-add
// within the same transaction.
func (a *Applier) buildMsg(zone *entity.ZoneContext, batch []*valueobject.Change) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetUpdate(zone.Origin)

	for _, c := range batch {
		record := c.Record()
		switch c.Op() {
		case valueobject.OperationRemove:
			rr, err := toRR(record)
			if err != nil {
				return nil, err
			}
			m.Remove([]dns.RR{rr})
		case valueobject.OperationAdd:
			rr, err := toRR(record)
			if err != nil {
				return nil, err
			}
			m.Insert([]dns.RR{rr})
		case valueobject.OperationUpdateTTL:
			prev := record
			prev.TTL = c.PrevTTL()
			oldRR, err := toRR(prev)
			if err != nil {
				return nil, err
			}
			newRR, err := toRR(record)
			if err != nil {
				return nil, err
			}
			m.Remove([]dns.RR{oldRR})
			m.Insert([]dns.RR{newRR})
		}
	}

	keyName := dns.Fqdn(a.key.Name)
	m.SetTsig(keyName, dns.Fqdn(strings.ToLower(a.key.Algorithm)), 300, time.Now().Unix())
	return m, nil
}

// splitBatches walks the plan in order, cutting a new transaction
// whenever the pending message would cross the size threshold.
func (a *Applier) splitBatches(zone *entity.ZoneContext, changes []*valueobject.Change) ([][]*valueobject.Change, error) {
	var batches [][]*valueobject.Change
	var current []*valueobject.Change

	for _, c := range changes {
		candidate := append(current, c)
		m, err := a.buildMsg(zone, candidate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
		}
		if m.Len() > a.maxBytes && len(current) > 0 {
			batches = append(batches, current)
			current = []*valueobject.Change{c}
			continue
		}
		current = candidate
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches, nil
}

func toRR(r entity.Record) (dns.RR, error) {
	rr, err := dns.NewRR(fmt.Sprintf("%s %d IN %s %s", r.Name, r.TTL, r.Type, r.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRenderFailed, r.Key(), err)
	}
	return rr, nil
}

func classifyUpdateErr(err error) error {
	switch {
	case errors.Is(err, dns.ErrAuth), errors.Is(err, dns.ErrSig), errors.Is(err, dns.ErrSecret):
		return fmt.Errorf("%w: %v", domain.ErrUpdateAuth, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrUpdateTransport, err)
	}
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"connection refused", "connection reset", "i/o timeout", "timeout", "broken pipe", "no such host"} {
		if strings.Contains(msg, p) {
			return fmt.Errorf("%w: %v", domain.ErrUpdateTransport, err)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrUpdateTransport, err)
}
