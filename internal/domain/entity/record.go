package entity

import (
	"fmt"
	"strings"
)

type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeMX    RecordType = "MX"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeNS    RecordType = "NS"
	RecordTypeSOA   RecordType = "SOA"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypePTR   RecordType = "PTR"
	RecordTypeCAA   RecordType = "CAA"
)

var supportedTypes = map[RecordType]bool{
	RecordTypeA:     true,
	RecordTypeAAAA:  true,
	RecordTypeCNAME: true,
	RecordTypeMX:    true,
	RecordTypeTXT:   true,
	RecordTypeNS:    true,
	RecordTypeSOA:   true,
	RecordTypeSRV:   true,
	RecordTypePTR:   true,
	RecordTypeCAA:   true,
}

func (t RecordType) Supported() bool {
	return supportedTypes[t]
}

// Record is the canonical, comparable form of a DNS resource record.
// Name is fully qualified and lower-cased, Data is normalized per type.
// Records are never mutated after normalization.
type Record struct {
	Name string
	Type RecordType
	TTL  int
	Data RData
}

// Key identifies a record for set membership. TTL is deliberately not
// part of the identity; it is compared separately by the differ.
func (r Record) Key() string {
	return r.Name + "|" + string(r.Type) + "|" + r.Data.String()
}

// PairKey identifies the (owner, type) pair, used for conflict and
// CNAME exclusivity checks.
func (r Record) PairKey() string {
	return r.Name + "|" + string(r.Type)
}

func (r Record) Less(other Record) bool {
	if r.Name != other.Name {
		return r.Name < other.Name
	}
	if r.Type != other.Type {
		return r.Type < other.Type
	}
	return r.Data.String() < other.Data.String()
}

func (r Record) String() string {
	return fmt.Sprintf("%s %d IN %s %s", r.Name, r.TTL, r.Type, r.Data)
}

// Owner returns the owner label relative to origin, "@" at the apex.
func (r Record) Owner(origin string) string {
	return OwnerForZone(r.Name, origin)
}

func OwnerForZone(name, origin string) string {
	origin = Fqdn(strings.ToLower(origin))
	name = Fqdn(strings.ToLower(name))
	if name == origin {
		return "@"
	}
	if strings.HasSuffix(name, "."+origin) {
		return strings.TrimSuffix(name, "."+origin)
	}
	return name
}

// Fqdn appends the trailing dot when missing. Empty names and "@" map
// to the root, callers resolve those against the zone origin first.
func Fqdn(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed == "@" {
		return "."
	}
	if strings.HasSuffix(trimmed, ".") {
		return trimmed
	}
	return trimmed + "."
}

// InZone reports whether name sits at or below origin.
func InZone(name, origin string) bool {
	name = Fqdn(strings.ToLower(name))
	origin = Fqdn(strings.ToLower(origin))
	if name == origin {
		return true
	}
	return strings.HasSuffix(name, "."+origin)
}
