package service

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

// RawRecord is a record as it arrives from either source, declared
// state or zone transfer, before canonicalization.
type RawRecord struct {
	Name     string
	Type     string
	TTL      *int // nil means inherit the zone default
	Value    string
	Priority *uint16 // MX preference / SRV priority when declared separately
}

// Normalize canonicalizes one raw record against the zone context.
// It is pure and idempotent: feeding a normalized record back through
// produces the identical result.
func Normalize(raw RawRecord, zone *entity.ZoneContext) (entity.Record, error) {
	rtype := entity.RecordType(strings.ToUpper(strings.TrimSpace(raw.Type)))
	if !rtype.Supported() {
		return entity.Record{}, domain.WrapRecord(raw.Name, raw.Type, domain.ErrInvalidType)
	}

	name := normalizeOwner(raw.Name, zone.Origin)
	if !entity.InZone(name, zone.Origin) {
		return entity.Record{}, domain.WrapRecord(raw.Name, raw.Type,
			fmt.Errorf("%w: %s is outside %s", domain.ErrNotInZone, name, zone.Origin))
	}

	ttl := zone.DefaultTTL
	if raw.TTL != nil {
		ttl = *raw.TTL
	}
	if ttl < 0 {
		return entity.Record{}, domain.WrapRecord(raw.Name, raw.Type, domain.ErrInvalidTTL)
	}

	data, err := parseRData(rtype, raw.Value, raw.Priority, zone.Origin)
	if err != nil {
		return entity.Record{}, domain.WrapRecord(raw.Name, raw.Type, err)
	}

	return entity.Record{Name: name, Type: rtype, TTL: ttl, Data: data}, nil
}

func normalizeOwner(name, origin string) string {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	switch trimmed {
	case "", "@", ".":
		return origin
	}
	if strings.HasSuffix(trimmed, ".") {
		return trimmed
	}
	return trimmed + "." + origin
}

func normalizeTarget(value, origin string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty target", domain.ErrInvalidRData)
	}
	if trimmed == "@" {
		return origin, nil
	}
	if strings.HasSuffix(trimmed, ".") {
		return trimmed, nil
	}
	return trimmed + "." + origin, nil
}

func parseRData(rtype entity.RecordType, value string, priority *uint16, origin string) (entity.RData, error) {
	value = strings.TrimSpace(value)
	switch rtype {
	case entity.RecordTypeA:
		return parseA(value)
	case entity.RecordTypeAAAA:
		return parseAAAA(value)
	case entity.RecordTypeCNAME:
		target, err := normalizeTarget(value, origin)
		if err != nil {
			return nil, err
		}
		return entity.CNAMERData{Target: target}, nil
	case entity.RecordTypeNS:
		target, err := normalizeTarget(value, origin)
		if err != nil {
			return nil, err
		}
		return entity.NSRData{Target: target}, nil
	case entity.RecordTypePTR:
		target, err := normalizeTarget(value, origin)
		if err != nil {
			return nil, err
		}
		return entity.PTRRData{Target: target}, nil
	case entity.RecordTypeMX:
		return parseMX(value, priority, origin)
	case entity.RecordTypeTXT:
		return entity.TXTRData{Text: unquoteTXT(value)}, nil
	case entity.RecordTypeSRV:
		return parseSRV(value, priority, origin)
	case entity.RecordTypeCAA:
		return parseCAA(value)
	case entity.RecordTypeSOA:
		return parseSOA(value, origin)
	}
	return nil, domain.ErrInvalidType
}

func parseA(value string) (entity.RData, error) {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an IP address", domain.ErrInvalidRData, value)
	}
	addr = addr.Unmap()
	if !addr.Is4() {
		return nil, fmt.Errorf("%w: %q is not an IPv4 address", domain.ErrInvalidRData, value)
	}
	return entity.ARData{Addr: addr.String()}, nil
}

func parseAAAA(value string) (entity.RData, error) {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an IP address", domain.ErrInvalidRData, value)
	}
	if addr.Is4() {
		return nil, fmt.Errorf("%w: %q is not an IPv6 address", domain.ErrInvalidRData, value)
	}
	return entity.AAAARData{Addr: addr.String()}, nil
}

func parseMX(value string, priority *uint16, origin string) (entity.RData, error) {
	pref := uint16(0)
	exchange := value
	if priority != nil {
		pref = *priority
	} else {
		fields := strings.Fields(value)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: MX value needs preference and exchange", domain.ErrInvalidRData)
		}
		n, err := parseUint16(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: MX preference %q", domain.ErrInvalidRData, fields[0])
		}
		pref = n
		exchange = fields[1]
	}
	target, err := normalizeTarget(exchange, origin)
	if err != nil {
		return nil, err
	}
	return entity.MXRData{Preference: pref, Exchange: target}, nil
}

func parseSRV(value string, priority *uint16, origin string) (entity.RData, error) {
	fields := strings.Fields(value)
	var prio uint16
	if priority != nil {
		prio = *priority
	} else {
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: SRV value needs priority, weight, port and target", domain.ErrInvalidRData)
		}
		n, err := parseUint16(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: SRV priority %q", domain.ErrInvalidRData, fields[0])
		}
		prio = n
		fields = fields[1:]
	}
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: SRV value needs weight, port and target", domain.ErrInvalidRData)
	}
	weight, err := parseUint16(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: SRV weight %q", domain.ErrInvalidRData, fields[0])
	}
	port, err := parseUint16(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: SRV port %q", domain.ErrInvalidRData, fields[1])
	}
	target, err := normalizeTarget(fields[2], origin)
	if err != nil {
		return nil, err
	}
	return entity.SRVRData{Priority: prio, Weight: weight, Port: port, Target: target}, nil
}

func parseCAA(value string) (entity.RData, error) {
	fields := strings.SplitN(value, " ", 3)
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: CAA value needs flag, tag and value", domain.ErrInvalidRData)
	}
	flag, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: CAA flag %q", domain.ErrInvalidRData, fields[0])
	}
	tag := strings.ToLower(strings.TrimSpace(fields[1]))
	val := strings.TrimSpace(fields[2])
	val = strings.Trim(val, `"`)
	return entity.CAARData{Flag: uint8(flag), Tag: tag, Value: val}, nil
}

func parseSOA(value, origin string) (entity.RData, error) {
	fields := strings.Fields(value)
	if len(fields) != 7 {
		return nil, fmt.Errorf("%w: SOA value needs 7 fields", domain.ErrInvalidRData)
	}
	primary, err := normalizeTarget(fields[0], origin)
	if err != nil {
		return nil, err
	}
	mbox, err := normalizeTarget(fields[1], origin)
	if err != nil {
		return nil, err
	}
	nums := make([]uint32, 5)
	for i, f := range fields[2:] {
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: SOA field %q", domain.ErrInvalidRData, f)
		}
		nums[i] = uint32(n)
	}
	return entity.SOARData{
		PrimaryNS:  primary,
		AdminEmail: mbox,
		Serial:     nums[0],
		Refresh:    nums[1],
		Retry:      nums[2],
		Expire:     nums[3],
		Minimum:    nums[4],
	}, nil
}

func parseUint16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	return uint16(n), err
}

// unquoteTXT collapses the equivalent quoted forms of a TXT payload
// into one unquoted string. "foo" "bar" becomes foobar, escaped quotes
// and backslashes are unescaped, bare strings pass through.
func unquoteTXT(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, `"`) {
		return trimmed
	}
	var b strings.Builder
	inQuote := false
	escaped := false
	for _, r := range trimmed {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
			b.WriteRune(r)
		}
	}
	return b.String()
}
