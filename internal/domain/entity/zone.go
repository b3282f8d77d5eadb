package entity

import (
	"fmt"
	"strings"

	"github.com/kompoln/bind9-ctl/internal/domain"
)

type ApplyStrategy string

const (
	StrategyDynamic  ApplyStrategy = "dynamic"
	StrategyZoneFile ApplyStrategy = "zone"
)

func ParseStrategy(s string) (ApplyStrategy, error) {
	switch ApplyStrategy(strings.ToLower(s)) {
	case StrategyDynamic:
		return StrategyDynamic, nil
	case StrategyZoneFile:
		return StrategyZoneFile, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrStrategyConflict, s)
}

// SOAFields are the operator-controlled SOA values used when
// regenerating a zone file. The serial is derived at render time and
// never taken from declared state unless explicitly overridden.
type SOAFields struct {
	PrimaryNS  string `yaml:"primary_ns,omitempty"`
	AdminEmail string `yaml:"admin_email,omitempty"`
	Serial     uint32 `yaml:"serial,omitempty"`
	Refresh    uint32 `yaml:"refresh,omitempty"`
	Retry      uint32 `yaml:"retry,omitempty"`
	Expire     uint32 `yaml:"expire,omitempty"`
	Minimum    uint32 `yaml:"minimum,omitempty"`
}

// ZoneContext carries the immutable per-run parameters of one
// reconciliation: which zone, its defaults, and which live records are
// outside our management.
type ZoneContext struct {
	Origin     string
	DefaultTTL int
	SOA        SOAFields
	Ignore     []string
}

func NewZoneContext(origin string, defaultTTL int) (*ZoneContext, error) {
	origin = strings.ToLower(strings.TrimSpace(origin))
	if origin == "" || origin == "." || origin == "@" {
		return nil, fmt.Errorf("%w: zone origin", domain.ErrRequired)
	}
	if defaultTTL < 0 {
		return nil, fmt.Errorf("%w: default TTL must be non-negative", domain.ErrInvalidTTL)
	}
	return &ZoneContext{
		Origin:     Fqdn(origin),
		DefaultTTL: defaultTTL,
	}, nil
}

func (z *ZoneContext) Validate() error {
	if z.Origin == "" || z.Origin == "." {
		return fmt.Errorf("%w: zone origin", domain.ErrRequired)
	}
	if !strings.HasSuffix(z.Origin, ".") {
		return fmt.Errorf("%w: origin must be fully qualified", domain.ErrInvalidName)
	}
	if z.DefaultTTL < 0 {
		return fmt.Errorf("%w: default TTL", domain.ErrInvalidTTL)
	}
	return nil
}
