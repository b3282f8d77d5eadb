package zonefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

func renderZone(t *testing.T) *entity.ZoneContext {
	t.Helper()
	zone, err := entity.NewZoneContext("example.com", 3600)
	if err != nil {
		t.Fatalf("zone context: %v", err)
	}
	return zone
}

func renderSOA() entity.SOAFields {
	return entity.SOAFields{
		PrimaryNS:  "ns1.example.com.",
		AdminEmail: "hostmaster.example.com.",
		Serial:     2026082901,
		Refresh:    3600,
		Retry:      600,
		Expire:     604800,
		Minimum:    86400,
	}
}

func TestRenderer_Render(t *testing.T) {
	zone := renderZone(t)
	desired := entity.NewRecordSet(
		entity.Record{Name: "www.example.com.", Type: entity.RecordTypeA, TTL: 300, Data: entity.ARData{Addr: "192.0.2.1"}},
		entity.Record{Name: "example.com.", Type: entity.RecordTypeMX, TTL: 3600, Data: entity.MXRData{Preference: 10, Exchange: "mail.example.com."}},
		entity.Record{Name: "example.com.", Type: entity.RecordTypeTXT, TTL: 3600, Data: entity.TXTRData{Text: "v=spf1 -all"}},
	)

	text, err := NewRenderer("").Render(zone, desired, renderSOA())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"$ORIGIN example.com.",
		"$TTL 3600",
		"ns1.example.com. hostmaster.example.com.",
		"2026082901",
		"www\t300\tIN\tA\t192.0.2.1",
		"@\t3600\tIN\tMX\t10 mail.example.com.",
		"@\t3600\tIN\tTXT\t\"v=spf1 -all\"",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered file missing %q:\n%s", want, text)
		}
	}

	if !strings.HasSuffix(text, "\n") {
		t.Error("rendered file must end with a newline")
	}
}

func TestRenderer_SOARecordExcludedFromBody(t *testing.T) {
	zone := renderZone(t)
	desired := entity.NewRecordSet(
		entity.Record{
			Name: "example.com.",
			Type: entity.RecordTypeSOA,
			TTL:  3600,
			Data: entity.SOARData{PrimaryNS: "stale.example.com.", AdminEmail: "stale.example.com.", Serial: 1},
		},
		entity.Record{Name: "www.example.com.", Type: entity.RecordTypeA, TTL: 300, Data: entity.ARData{Addr: "192.0.2.1"}},
	)

	text, err := NewRenderer("").Render(zone, desired, renderSOA())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(text, "stale.example.com.") {
		t.Errorf("declared SOA leaked into the body:\n%s", text)
	}
	if strings.Count(text, "SOA") != 1 {
		t.Errorf("expected exactly one SOA stanza:\n%s", text)
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	zone := renderZone(t)
	desired := entity.NewRecordSet(
		entity.Record{Name: "b.example.com.", Type: entity.RecordTypeA, TTL: 300, Data: entity.ARData{Addr: "192.0.2.2"}},
		entity.Record{Name: "a.example.com.", Type: entity.RecordTypeA, TTL: 300, Data: entity.ARData{Addr: "192.0.2.1"}},
		entity.Record{Name: "c.example.com.", Type: entity.RecordTypeA, TTL: 300, Data: entity.ARData{Addr: "192.0.2.3"}},
	)

	r := NewRenderer("")
	first, err := r.Render(zone, desired, renderSOA())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Render(zone, desired.Clone(), renderSOA())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatal("render output unstable across runs")
		}
	}

	aIdx := strings.Index(first, "a\t")
	bIdx := strings.Index(first, "b\t")
	cIdx := strings.Index(first, "c\t")
	if !(aIdx < bIdx && bIdx < cIdx) {
		t.Errorf("records not in sorted order:\n%s", first)
	}
}

func TestRenderer_CustomTemplateOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "; custom for {{ .Origin }}\n"
	if err := os.WriteFile(filepath.Join(dir, "zone.tmpl"), []byte(custom), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	zone := renderZone(t)
	text, err := NewRenderer(dir).Render(zone, entity.NewRecordSet(), renderSOA())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "; custom for example.com.") {
		t.Errorf("custom template not used:\n%s", text)
	}
}
