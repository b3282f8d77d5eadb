package transfer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/miekg/dns"

	"github.com/kompoln/bind9-ctl/internal/domain"
)

type fakeNetError struct{ msg string }

func (e *fakeNetError) Error() string   { return e.msg }
func (e *fakeNetError) Timeout() bool   { return true }
func (e *fakeNetError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"tsig auth", dns.ErrAuth, domain.ErrTransferAuth},
		{"tsig bad signature", dns.ErrSig, domain.ErrTransferAuth},
		{"tsig missing secret", dns.ErrSecret, domain.ErrTransferAuth},
		{"tsig bad key", dns.ErrKey, domain.ErrTransferAuth},
		{"tsig bad algorithm", dns.ErrKeyAlg, domain.ErrTransferAuth},
		{"tsig time skew", dns.ErrTime, domain.ErrTransferAuth},
		{"wrapped tsig error", fmt.Errorf("transfer: %w", dns.ErrSig), domain.ErrTransferAuth},
		{"notauth rcode", fmt.Errorf("dns: bad xfr rcode: %d", dns.RcodeNotAuth), domain.ErrTransferAuth},
		{"refused rcode", fmt.Errorf("dns: bad xfr rcode: %d", dns.RcodeRefused), domain.ErrTransferRefused},
		{"servfail rcode", fmt.Errorf("dns: bad xfr rcode: %d", dns.RcodeServerFailure), domain.ErrTransferRefused},
		{"net.Error", &fakeNetError{msg: "read tcp: deadline exceeded"}, domain.ErrTransferTransport},
		{"connection refused text", errors.New("dial tcp 192.0.2.1:53: connect: connection refused"), domain.ErrTransferTransport},
		{"timeout text", errors.New("read tcp: i/o timeout"), domain.ErrTransferTransport},
		{"no such host", errors.New("lookup ns1.example.com: no such host"), domain.ErrTransferTransport},
		{"anything else is malformed", errors.New("dns: bad rdata"), domain.ErrTransferMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("Classify(nil) = %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(Classify(errors.New("connection reset by peer"))) {
		t.Error("transport failure should be transient")
	}
	if IsTransient(Classify(dns.ErrAuth)) {
		t.Error("auth failure should not be transient")
	}
	if IsTransient(Classify(fmt.Errorf("dns: bad xfr rcode: %d", dns.RcodeRefused))) {
		t.Error("refusal should not be transient")
	}
}
