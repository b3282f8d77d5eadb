package zonefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/kompoln/bind9-ctl/internal/config"
	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/valueobject"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/logger"
)

// Applier implements the file-regeneration strategy: render the whole
// desired zone, validate it externally, then activate by atomic
// replace plus a reload signal. Validation failing leaves the previous
// file and the server untouched.
type Applier struct {
	outputDir      string
	serialStrategy string
	renderer       *Renderer
	checker        Checker
	reloader       Reloader
	now            func() time.Time
}

func NewApplier(cfg *config.Config) *Applier {
	return &Applier{
		outputDir:      cfg.ZoneOutputDir,
		serialStrategy: cfg.SerialStrategy,
		renderer:       NewRenderer(cfg.TemplatesDir),
		checker:        &ExecChecker{Bin: cfg.NamedCheckzoneBin},
		reloader:       &RNDCReloader{Bin: cfg.RNDCBin, Server: cfg.RNDCServer, View: cfg.View},
		now:            time.Now,
	}
}

// Path returns where the zone file for origin lands.
func (a *Applier) Path(origin string) string {
	return filepath.Join(a.outputDir, strings.TrimSuffix(origin, ".")+".zone")
}

// Apply runs render -> validate -> activate. desired must be the full
// desired record set, not the diff: this strategy replaces the file
// wholesale. live supplies the previous SOA so the new serial is
// strictly greater.
func (a *Applier) Apply(ctx context.Context, zone *entity.ZoneContext, desired, live *entity.RecordSet, plan *valueobject.Plan) (*valueobject.ApplyResult, error) {
	result := valueobject.NewApplyResult(entity.StrategyZoneFile)

	soa := ResolveSOA(zone, live, a.serialStrategy, a.now())
	result.Serial = soa.Serial

	text, err := a.renderer.Render(zone, desired, soa)
	if err != nil {
		a.markAll(result, plan, valueobject.StatusNotAttempted, nil)
		return result, err
	}

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		a.markAll(result, plan, valueobject.StatusNotAttempted, nil)
		return result, domain.WrapOp("create zone output dir", err)
	}

	path := a.Path(zone.Origin)
	result.ZoneFilePath = path
	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")

	if err := os.WriteFile(tmpPath, []byte(text), 0o644); err != nil {
		a.markAll(result, plan, valueobject.StatusNotAttempted, nil)
		return result, fmt.Errorf("%w: %v", domain.ErrStateWriteFailed, err)
	}

	if err := a.checker.Check(ctx, zone.Origin, tmpPath); err != nil {
		os.Remove(tmpPath)
		a.markAll(result, plan, valueobject.StatusNotAttempted, err)
		return result, err
	}

	if err := a.activate(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		a.markAll(result, plan, valueobject.StatusNotAttempted, nil)
		return result, err
	}
	a.markAll(result, plan, valueobject.StatusApplied, nil)
	logger.Info("zone file activated", "zone", zone.Origin, "path", path, "serial", soa.Serial)

	if err := a.reloader.Reload(ctx, zone.Origin); err != nil {
		// The file on disk is correct; the server just has not picked
		// it up. Callers need to know a manual reload may be required.
		result.ReloadConfirmed = false
		return result, err
	}
	result.ReloadConfirmed = true

	return result, nil
}

// activate swaps the new file in under an advisory lock. The rename
// is atomic on the same filesystem, so readers never observe a
// half-written zone.
func (a *Applier) activate(tmpPath, path string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return domain.WrapOp("acquiring zone file lock", err)
	}
	defer lock.Unlock()

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStateWriteFailed, err)
	}
	return nil
}

func (a *Applier) markAll(result *valueobject.ApplyResult, plan *valueobject.Plan, status valueobject.ChangeStatus, err error) {
	for _, c := range plan.Changes() {
		result.Record(c, status, 0, err)
	}
}
