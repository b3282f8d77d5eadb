package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/kompoln/bind9-ctl/internal/config"
	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/retry"
	"github.com/kompoln/bind9-ctl/internal/domain/service"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/logger"
)

// Client pulls the live record set from the authoritative server over
// a TSIG-signed AXFR. Nothing is cached across invocations.
type Client struct {
	addr        string
	key         config.TSIGKey
	timeout     time.Duration
	maxAttempts int
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		addr:        cfg.Addr(),
		key:         cfg.TSIG,
		timeout:     cfg.AXFRTimeout,
		maxAttempts: 3,
	}
}

// FetchZone transfers the zone and returns its normalized record set.
// Transient transport failures are retried with backoff; auth
// rejections and transfer refusals are surfaced immediately.
func (c *Client) FetchZone(ctx context.Context, zone *entity.ZoneContext) (*entity.RecordSet, error) {
	set, err := retry.DoWithResult(ctx, func() (*entity.RecordSet, error) {
		return c.transferOnce(zone)
	},
		retry.WithMaxAttempts(c.maxAttempts),
		retry.WithIsRetryable(IsTransient),
	)
	if err != nil {
		return nil, domain.WrapOp(fmt.Sprintf("AXFR %s from %s", zone.Origin, c.addr), err)
	}
	return set, nil
}

func (c *Client) transferOnce(zone *entity.ZoneContext) (*entity.RecordSet, error) {
	keyName := dns.Fqdn(c.key.Name)
	algo := dns.Fqdn(strings.ToLower(c.key.Algorithm))

	tr := &dns.Transfer{
		DialTimeout:  c.timeout,
		ReadTimeout:  c.timeout,
		WriteTimeout: c.timeout,
		TsigSecret:   map[string]string{keyName: c.key.Secret},
	}

	m := new(dns.Msg)
	m.SetAxfr(zone.Origin)
	m.SetTsig(keyName, algo, 300, time.Now().Unix())

	envelopes, err := tr.In(m, c.addr)
	if err != nil {
		return nil, Classify(err)
	}

	set, err := collectEnvelopes(envelopes, zone)
	if err != nil {
		return nil, err
	}

	if _, ok := set.SOA(); !ok {
		return nil, fmt.Errorf("%w: transfer contained no SOA", domain.ErrTransferMalformed)
	}

	logger.Debug("zone transfer complete", "zone", zone.Origin, "records", set.Len())
	return set, nil
}

// collectEnvelopes parses the transfer stream into a normalized record
// set. On error the remaining envelopes are drained so the sender
// goroutine inside dns.Transfer can finish; the channel is unbuffered
// and abandoning it mid-stream would leak the sender.
func collectEnvelopes(envelopes <-chan *dns.Envelope, zone *entity.ZoneContext) (*entity.RecordSet, error) {
	set := entity.NewRecordSet()
	for envelope := range envelopes {
		if envelope.Error != nil {
			drainEnvelopes(envelopes)
			return nil, Classify(envelope.Error)
		}
		for _, rr := range envelope.RR {
			raw, ok := rawFromRR(rr)
			if !ok {
				logger.Debug("skipping unmanaged record type",
					"zone", zone.Origin, "name", rr.Header().Name,
					"type", dns.TypeToString[rr.Header().Rrtype])
				continue
			}
			record, err := service.Normalize(raw, zone)
			if err != nil {
				drainEnvelopes(envelopes)
				return nil, fmt.Errorf("%w: %v", domain.ErrTransferMalformed, err)
			}
			set.Add(record)
		}
	}
	return set, nil
}

func drainEnvelopes(envelopes <-chan *dns.Envelope) {
	for range envelopes {
	}
}

// LiveSerial extracts the SOA serial from a transferred record set.
func LiveSerial(set *entity.RecordSet) (uint32, bool) {
	soa, ok := set.SOA()
	if !ok {
		return 0, false
	}
	data, ok := soa.Data.(entity.SOARData)
	if !ok {
		return 0, false
	}
	return data.Serial, true
}
