package cli

import (
	"strings"
	"testing"

	"github.com/kompoln/bind9-ctl/internal/application/orchestrator"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/valueobject"
)

func renderFixture(t *testing.T) *orchestrator.Result {
	t.Helper()
	zone, err := entity.NewZoneContext("example.com", 3600)
	if err != nil {
		t.Fatalf("zone context: %v", err)
	}
	return &orchestrator.Result{Zone: zone, Plan: valueobject.NewPlan(zone.Origin)}
}

func TestRenderChange(t *testing.T) {
	result := renderFixture(t)
	record := entity.Record{Name: "www.example.com.", Type: entity.RecordTypeA, TTL: 300, Data: entity.ARData{Addr: "192.0.2.1"}}

	t.Run("add shows the relative owner", func(t *testing.T) {
		line := renderChange(result, valueobject.NewAdd(record))
		if !strings.Contains(line, "www") || strings.Contains(line, "www.example.com.") {
			t.Errorf("owner not relativized: %q", line)
		}
		if !strings.Contains(line, "(ttl: 300)") {
			t.Errorf("ttl missing: %q", line)
		}
	})

	t.Run("apex owner renders as @", func(t *testing.T) {
		apex := entity.Record{Name: "example.com.", Type: entity.RecordTypeMX, TTL: 3600, Data: entity.MXRData{Preference: 10, Exchange: "mail.example.com."}}
		line := renderChange(result, valueobject.NewAdd(apex))
		if !strings.Contains(line, "@") {
			t.Errorf("apex owner not rendered as @: %q", line)
		}
	})

	t.Run("ttl update shows both values", func(t *testing.T) {
		updated := record
		updated.TTL = 60
		line := renderChange(result, valueobject.NewUpdateTTL(updated, 300))
		if !strings.Contains(line, "(ttl: 300 -> 60)") {
			t.Errorf("ttl transition missing: %q", line)
		}
	})
}
