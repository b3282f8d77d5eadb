package transfer

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"

	"github.com/kompoln/bind9-ctl/internal/domain/service"
)

// rawFromRR converts a wire-format resource record into the raw form
// the normalizer accepts. Types outside the managed set (DNSSEC
// material, OPT, TSIG) report ok=false and are skipped by the caller.
func rawFromRR(rr dns.RR) (service.RawRecord, bool) {
	hdr := rr.Header()
	ttl := int(hdr.Ttl)

	raw := service.RawRecord{
		Name: hdr.Name,
		Type: dns.TypeToString[hdr.Rrtype],
		TTL:  &ttl,
	}

	switch v := rr.(type) {
	case *dns.A:
		raw.Value = v.A.String()
	case *dns.AAAA:
		raw.Value = v.AAAA.String()
	case *dns.CNAME:
		raw.Value = v.Target
	case *dns.NS:
		raw.Value = v.Ns
	case *dns.PTR:
		raw.Value = v.Ptr
	case *dns.MX:
		raw.Value = fmt.Sprintf("%d %s", v.Preference, v.Mx)
	case *dns.TXT:
		raw.Value = quoteTXTChunks(v.Txt)
	case *dns.SRV:
		raw.Value = fmt.Sprintf("%d %d %d %s", v.Priority, v.Weight, v.Port, v.Target)
	case *dns.CAA:
		raw.Value = fmt.Sprintf("%d %s %q", v.Flag, v.Tag, v.Value)
	case *dns.SOA:
		raw.Value = fmt.Sprintf("%s %s %d %d %d %d %d",
			v.Ns, v.Mbox, v.Serial, v.Refresh, v.Retry, v.Expire, v.Minttl)
	default:
		return service.RawRecord{}, false
	}

	return raw, true
}

func quoteTXTChunks(chunks []string) string {
	quoted := make([]string, len(chunks))
	for i, c := range chunks {
		escaped := strings.ReplaceAll(c, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		quoted[i] = `"` + escaped + `"`
	}
	return strings.Join(quoted, " ")
}
