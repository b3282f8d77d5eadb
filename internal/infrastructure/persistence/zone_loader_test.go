package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kompoln/bind9-ctl/internal/domain"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zone.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestZoneLoader_Load(t *testing.T) {
	doc := `
zone: example.com
default_ttl: 600
soa:
  primary_ns: ns1.example.com.
  refresh: 7200
ignore:
  - "_acme-challenge.*"
records:
  - name: www
    type: A
    value: 192.0.2.1
  - name: "@"
    type: MX
    priority: 10
    value: mail
  - name: api
    type: A
    ttl: 60
    value: 192.0.2.2
`
	zone, set, err := NewZoneLoader(3600).Load(writeDoc(t, doc), "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if zone.Origin != "example.com." {
		t.Errorf("origin = %q", zone.Origin)
	}
	if zone.DefaultTTL != 600 {
		t.Errorf("default ttl = %d, want the document value", zone.DefaultTTL)
	}
	if zone.SOA.PrimaryNS != "ns1.example.com." || zone.SOA.Refresh != 7200 {
		t.Errorf("soa overrides not loaded: %+v", zone.SOA)
	}
	if len(zone.Ignore) != 1 || zone.Ignore[0] != "_acme-challenge.*" {
		t.Errorf("ignore patterns not loaded: %v", zone.Ignore)
	}

	if set.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", set.Len())
	}

	www, ok := set.Get("www.example.com.|A|192.0.2.1")
	if !ok {
		t.Fatal("www record missing")
	}
	if www.TTL != 600 {
		t.Errorf("www ttl = %d, want the zone default", www.TTL)
	}

	api, ok := set.Get("api.example.com.|A|192.0.2.2")
	if !ok {
		t.Fatal("api record missing")
	}
	if api.TTL != 60 {
		t.Errorf("api ttl = %d, want the explicit value", api.TTL)
	}

	if _, ok := set.Get("example.com.|MX|10 mail.example.com."); !ok {
		t.Error("MX record with separate priority field missing")
	}
}

func TestZoneLoader_ZoneHint(t *testing.T) {
	doc := `
records:
  - name: www
    type: A
    value: 192.0.2.1
`
	t.Run("hint fills an absent zone field", func(t *testing.T) {
		zone, _, err := NewZoneLoader(3600).Load(writeDoc(t, doc), "example.com", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if zone.Origin != "example.com." {
			t.Errorf("origin = %q", zone.Origin)
		}
	})

	t.Run("no zone anywhere is an error", func(t *testing.T) {
		_, _, err := NewZoneLoader(3600).Load(writeDoc(t, doc), "", nil)
		if !errors.Is(err, domain.ErrRequired) {
			t.Errorf("expected required error, got %v", err)
		}
	})

	t.Run("document zone wins over the hint", func(t *testing.T) {
		zone, _, err := NewZoneLoader(3600).Load(writeDoc(t, "zone: example.com\n"+doc), "other.net", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if zone.Origin != "example.com." {
			t.Errorf("origin = %q", zone.Origin)
		}
	})
}

func TestZoneLoader_TemplateExpansion(t *testing.T) {
	doc := `
zone: example.com
records:
  - name: www
    type: A
    value: '{{ var "web_ip" }}'
  - name: build
    type: TXT
    value: '{{ env "ZONE_LOADER_TEST_BUILD" }}'
`
	t.Setenv("ZONE_LOADER_TEST_BUILD", "release-42")

	_, set, err := NewZoneLoader(3600).Load(writeDoc(t, doc), "", map[string]string{"web_ip": "192.0.2.7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := set.Get("www.example.com.|A|192.0.2.7"); !ok {
		t.Error("var expansion did not apply")
	}
	if _, ok := set.Get(`build.example.com.|TXT|"release-42"`); !ok {
		t.Error("env expansion did not apply")
	}
}

func TestZoneLoader_UndefinedTemplateVar(t *testing.T) {
	doc := `
zone: example.com
records:
  - name: www
    type: A
    value: '{{ var "missing" }}'
`
	_, _, err := NewZoneLoader(3600).Load(writeDoc(t, doc), "", nil)
	if !errors.Is(err, domain.ErrConfigParseFailed) {
		t.Fatalf("expected parse failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestZoneLoader_AggregatesRecordErrors(t *testing.T) {
	doc := `
zone: example.com
records:
  - name: one
    type: A
    value: not-an-ip
  - name: two
    type: SRV
    value: "10 60"
  - name: ok
    type: A
    value: 192.0.2.1
`
	_, _, err := NewZoneLoader(3600).Load(writeDoc(t, doc), "", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "one") || !strings.Contains(msg, "two") {
		t.Errorf("expected both bad declarations reported, got %q", msg)
	}
}

func TestZoneLoader_CNAMEExclusivity(t *testing.T) {
	doc := `
zone: example.com
records:
  - name: dual
    type: CNAME
    value: www
  - name: dual
    type: A
    value: 192.0.2.1
`
	_, _, err := NewZoneLoader(3600).Load(writeDoc(t, doc), "", nil)
	if !errors.Is(err, domain.ErrCNAMEExclusive) {
		t.Fatalf("expected CNAME exclusivity error, got %v", err)
	}
}

func TestZoneLoader_MissingFile(t *testing.T) {
	_, _, err := NewZoneLoader(3600).Load(filepath.Join(t.TempDir(), "nope.yaml"), "example.com", nil)
	if !errors.Is(err, domain.ErrConfigReadFailed) {
		t.Errorf("expected read failure, got %v", err)
	}
}

func TestZoneLoader_MalformedYAML(t *testing.T) {
	_, _, err := NewZoneLoader(3600).Load(writeDoc(t, "records: [oops"), "example.com", nil)
	if !errors.Is(err, domain.ErrConfigParseFailed) {
		t.Errorf("expected parse failure, got %v", err)
	}
}
