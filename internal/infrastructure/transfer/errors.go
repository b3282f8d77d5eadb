package transfer

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"

	"github.com/kompoln/bind9-ctl/internal/domain"
)

// Classify maps a raw transfer failure onto the domain error taxonomy
// so callers can tell an auth rejection from a server refusal from a
// flaky network. Only transport failures are worth retrying.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, dns.ErrAuth),
		errors.Is(err, dns.ErrSig),
		errors.Is(err, dns.ErrSecret),
		errors.Is(err, dns.ErrKey),
		errors.Is(err, dns.ErrKeyAlg),
		errors.Is(err, dns.ErrTime):
		return fmt.Errorf("%w: %v", domain.ErrTransferAuth, err)
	}

	msg := strings.ToLower(err.Error())

	// The transfer surfaces a non-NOERROR response as "bad xfr rcode: N".
	if strings.Contains(msg, "bad xfr rcode") {
		switch {
		case strings.Contains(msg, fmt.Sprintf("rcode: %d", dns.RcodeNotAuth)):
			return fmt.Errorf("%w: %v", domain.ErrTransferAuth, err)
		default:
			return fmt.Errorf("%w: %v", domain.ErrTransferRefused, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrTransferTransport, err)
	}

	transportPatterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"timeout",
		"broken pipe",
	}
	for _, p := range transportPatterns {
		if strings.Contains(msg, p) {
			return fmt.Errorf("%w: %v", domain.ErrTransferTransport, err)
		}
	}

	return fmt.Errorf("%w: %v", domain.ErrTransferMalformed, err)
}

// IsTransient reports whether a classified error is a transport
// failure, the only transfer failure class that retrying can fix.
func IsTransient(err error) bool {
	return errors.Is(err, domain.ErrTransferTransport)
}
