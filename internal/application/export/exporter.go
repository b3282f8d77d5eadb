package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

// Document is the declarative form of a zone, the same shape the
// desired-state loader consumes, so a pulled zone can be committed
// and re-applied as-is.
type Document struct {
	Zone       string            `yaml:"zone" json:"zone"`
	DefaultTTL int               `yaml:"default_ttl,omitempty" json:"default_ttl,omitempty"`
	SOA        *entity.SOAFields `yaml:"soa,omitempty" json:"soa,omitempty"`
	Records    []RecordEntry     `yaml:"records" json:"records"`
}

type RecordEntry struct {
	Name  string `yaml:"name" json:"name"`
	Type  string `yaml:"type" json:"type"`
	TTL   int    `yaml:"ttl" json:"ttl"`
	Value string `yaml:"value" json:"value"`
}

// FromRecordSet builds an export document from a live record set.
// Records come out in the deterministic sort order; the SOA becomes
// the soa block rather than a record entry.
func FromRecordSet(zone *entity.ZoneContext, set *entity.RecordSet) *Document {
	doc := &Document{
		Zone:       zone.Origin,
		DefaultTTL: zone.DefaultTTL,
	}

	for _, r := range set.Records() {
		if r.Type == entity.RecordTypeSOA {
			if data, ok := r.Data.(entity.SOARData); ok {
				doc.SOA = &entity.SOAFields{
					PrimaryNS:  data.PrimaryNS,
					AdminEmail: data.AdminEmail,
					Serial:     data.Serial,
					Refresh:    data.Refresh,
					Retry:      data.Retry,
					Expire:     data.Expire,
					Minimum:    data.Minimum,
				}
			}
			continue
		}
		doc.Records = append(doc.Records, RecordEntry{
			Name:  r.Owner(zone.Origin),
			Type:  string(r.Type),
			TTL:   r.TTL,
			Value: r.Data.String(),
		})
	}

	return doc
}

func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Write persists content to path, creating parent directories.
func Write(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.WrapOp("create export dir", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return domain.WrapOp("write export file", err)
	}
	return nil
}
