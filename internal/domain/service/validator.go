package service

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

// ValidateSet enforces the structural rules a desired record set has
// to satisfy before planning. Violations are aggregated so the caller
// sees every bad declaration in one pass.
func ValidateSet(set *entity.RecordSet) error {
	var errs []error

	byName := make(map[string][]entity.Record)
	for _, r := range set.Records() {
		byName[r.Name] = append(byName[r.Name], r)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		records := byName[name]
		hasCNAME := false
		others := 0
		for _, r := range records {
			if r.Type == entity.RecordTypeCNAME {
				hasCNAME = true
			} else {
				others++
			}
		}
		if hasCNAME && others > 0 {
			errs = append(errs, fmt.Errorf("%w: %s", domain.ErrCNAMEExclusive, name))
		}
	}

	return errors.Join(errs...)
}

// MatchesIgnore reports whether a record name matches any of the
// configured ignore patterns. Patterns use shell glob syntax and are
// matched case-insensitively against the fully qualified name with and
// without the trailing dot.
func MatchesIgnore(name string, patterns []string) bool {
	lowered := strings.ToLower(name)
	bare := strings.TrimSuffix(lowered, ".")
	for _, p := range patterns {
		p = strings.ToLower(p)
		if ok, err := path.Match(p, lowered); err == nil && ok {
			return true
		}
		if ok, err := path.Match(p, bare); err == nil && ok {
			return true
		}
	}
	return false
}

// FilterIgnored drops live records matching the ignore patterns. SOA
// is never filtered, the serial is read from it later.
func FilterIgnored(set *entity.RecordSet, patterns []string) *entity.RecordSet {
	if len(patterns) == 0 {
		return set
	}
	return set.Filter(func(r entity.Record) bool {
		if r.Type == entity.RecordTypeSOA {
			return true
		}
		return !MatchesIgnore(r.Name, patterns)
	})
}
