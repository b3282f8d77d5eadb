package zonefile

import (
	"time"

	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

const (
	defaultRefresh = 3600
	defaultRetry   = 600
	defaultExpire  = 604800
	defaultMinimum = 86400
)

// NextSerial picks the serial for a regenerated zone. The "date"
// strategy produces YYYYMMDDnn, "epoch" the current unix time; either
// way the result is always greater than the live serial, never reused
// or decreased.
func NextSerial(strategy string, current uint32, now time.Time) uint32 {
	var candidate uint32
	switch strategy {
	case "epoch":
		candidate = uint32(now.UTC().Unix())
	default:
		date := now.UTC()
		candidate = uint32(date.Year())*1000000 + uint32(date.Month())*10000 + uint32(date.Day())*100
	}
	for candidate <= current {
		candidate++
	}
	return candidate
}

// ResolveSOA merges declared overrides over the live SOA over
// defaults, and derives the new serial.
func ResolveSOA(zone *entity.ZoneContext, live *entity.RecordSet, strategy string, now time.Time) entity.SOAFields {
	var base entity.SOARData
	if live != nil {
		if soa, ok := live.SOA(); ok {
			if data, ok := soa.Data.(entity.SOARData); ok {
				base = data
			}
		}
	}

	overrides := zone.SOA
	resolved := entity.SOAFields{
		PrimaryNS:  firstNonEmpty(overrides.PrimaryNS, base.PrimaryNS, "ns."+zone.Origin),
		AdminEmail: firstNonEmpty(overrides.AdminEmail, base.AdminEmail, "hostmaster."+zone.Origin),
		Refresh:    firstNonZero(overrides.Refresh, base.Refresh, defaultRefresh),
		Retry:      firstNonZero(overrides.Retry, base.Retry, defaultRetry),
		Expire:     firstNonZero(overrides.Expire, base.Expire, defaultExpire),
		Minimum:    firstNonZero(overrides.Minimum, base.Minimum, defaultMinimum),
	}

	if overrides.Serial != 0 {
		resolved.Serial = overrides.Serial
	} else {
		resolved.Serial = NextSerial(strategy, base.Serial, now)
	}
	return resolved
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...uint32) uint32 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
