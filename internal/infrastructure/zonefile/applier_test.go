package zonefile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/valueobject"
)

type fakeChecker struct {
	err   error
	calls int
	path  string
}

func (c *fakeChecker) Check(ctx context.Context, zone, path string) error {
	c.calls++
	c.path = path
	return c.err
}

type fakeReloader struct {
	err   error
	calls int
}

func (r *fakeReloader) Reload(ctx context.Context, zone string) error {
	r.calls++
	return r.err
}

func newTestApplier(t *testing.T, checker Checker, reloader Reloader) *Applier {
	t.Helper()
	return &Applier{
		outputDir:      t.TempDir(),
		serialStrategy: "date",
		renderer:       NewRenderer(""),
		checker:        checker,
		reloader:       reloader,
		now:            func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) },
	}
}

func applierFixtures(t *testing.T) (*entity.ZoneContext, *entity.RecordSet, *entity.RecordSet, *valueobject.Plan) {
	t.Helper()
	zone, err := entity.NewZoneContext("example.com", 3600)
	if err != nil {
		t.Fatalf("zone context: %v", err)
	}

	desired := entity.NewRecordSet(
		entity.Record{Name: "www.example.com.", Type: entity.RecordTypeA, TTL: 300, Data: entity.ARData{Addr: "192.0.2.1"}},
	)
	live := entity.NewRecordSet(
		entity.Record{
			Name: "example.com.",
			Type: entity.RecordTypeSOA,
			TTL:  3600,
			Data: entity.SOARData{PrimaryNS: "ns1.example.com.", AdminEmail: "hostmaster.example.com.", Serial: 2026082902},
		},
	)

	plan := valueobject.NewPlan(zone.Origin)
	plan.AddChange(valueobject.NewAdd(desired.Records()[0]))
	return zone, desired, live, plan
}

func TestApplier_Apply(t *testing.T) {
	zone, desired, live, plan := applierFixtures(t)
	checker := &fakeChecker{}
	reloader := &fakeReloader{}
	applier := newTestApplier(t, checker, reloader)

	result, err := applier.Apply(context.Background(), zone, desired, live, plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if checker.calls != 1 {
		t.Errorf("checker called %d times, want 1", checker.calls)
	}
	if reloader.calls != 1 {
		t.Errorf("reloader called %d times, want 1", reloader.calls)
	}
	if !result.FullyApplied() || !result.ReloadConfirmed {
		t.Errorf("expected confirmed full apply, got %+v", result)
	}
	if result.Serial <= 2026082902 {
		t.Errorf("serial %d did not advance past the live serial", result.Serial)
	}

	content, err := os.ReadFile(result.ZoneFilePath)
	if err != nil {
		t.Fatalf("zone file not written: %v", err)
	}
	if !strings.Contains(string(content), "www\t300\tIN\tA\t192.0.2.1") {
		t.Errorf("zone file missing the desired record:\n%s", content)
	}
	if !strings.Contains(string(content), fmt.Sprintf("%d", result.Serial)) {
		t.Errorf("zone file missing the new serial %d:\n%s", result.Serial, content)
	}
}

func TestApplier_ValidationFailureLeavesPreviousFile(t *testing.T) {
	zone, desired, live, plan := applierFixtures(t)
	checker := &fakeChecker{err: fmt.Errorf("%w: bad zone", domain.ErrZoneValidation)}
	reloader := &fakeReloader{}
	applier := newTestApplier(t, checker, reloader)

	// A previous good file is in place.
	path := applier.Path(zone.Origin)
	if err := os.MkdirAll(applier.outputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	previous := "; previous good zone\n"
	if err := os.WriteFile(path, []byte(previous), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := applier.Apply(context.Background(), zone, desired, live, plan)
	if !errors.Is(err, domain.ErrZoneValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if reloader.calls != 0 {
		t.Error("reload must not run after a failed validation")
	}
	if result.Applied() != 0 || result.NotAttempted() != 1 {
		t.Errorf("expected all changes not attempted, got applied=%d skipped=%d",
			result.Applied(), result.NotAttempted())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("previous file gone: %v", err)
	}
	if string(content) != previous {
		t.Errorf("previous file was modified:\n%s", content)
	}

	// Validation ran against the candidate, not the live file.
	if checker.path == path {
		t.Error("checker must validate the temp file, not the active one")
	}
	if _, err := os.Stat(checker.path); !os.IsNotExist(err) {
		t.Errorf("temp file %s not cleaned up", checker.path)
	}
}

func TestApplier_ReloadFailureStillActivatesFile(t *testing.T) {
	zone, desired, live, plan := applierFixtures(t)
	checker := &fakeChecker{}
	reloader := &fakeReloader{err: fmt.Errorf("%w: rndc: connect failed", domain.ErrReloadSignal)}
	applier := newTestApplier(t, checker, reloader)

	result, err := applier.Apply(context.Background(), zone, desired, live, plan)
	if !errors.Is(err, domain.ErrReloadSignal) {
		t.Fatalf("expected reload error, got %v", err)
	}

	if !result.FullyApplied() {
		t.Error("file changes landed, outcomes must say applied")
	}
	if result.ReloadConfirmed {
		t.Error("reload was not confirmed")
	}
	if _, statErr := os.Stat(result.ZoneFilePath); statErr != nil {
		t.Errorf("activated file missing: %v", statErr)
	}
}

func TestApplier_Path(t *testing.T) {
	applier := &Applier{outputDir: "/var/named/zones"}
	if got := applier.Path("example.com."); got != "/var/named/zones/example.com.zone" {
		t.Errorf("Path = %q", got)
	}
}
