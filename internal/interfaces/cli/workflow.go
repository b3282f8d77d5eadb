package cli

import (
	"fmt"
	"strings"

	"github.com/kompoln/bind9-ctl/internal/application/orchestrator"
	"github.com/kompoln/bind9-ctl/internal/config"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/service"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/persistence"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/transfer"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/update"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/zonefile"
)

func newReconciler(cfg *config.Config) *orchestrator.Reconciler {
	return orchestrator.NewReconciler(
		transfer.NewClient(cfg),
		update.NewApplier(cfg),
		zonefile.NewApplier(cfg),
	)
}

func reconcileOptions(cfg *config.Config, planOnly, allowMassRemoval bool) orchestrator.Options {
	return orchestrator.Options{
		Strategy:         cfg.ApplyStrategy,
		PlanOnly:         planOnly,
		MaxRemovalRatio:  cfg.MaxRemovalRatio,
		AllowMassRemoval: allowMassRemoval,
		Diff:             service.DefaultDiffOptions(),
	}
}

func loadDesired(cfg *config.Config, path, zoneHint string, rawVars []string) (*entity.ZoneContext, *entity.RecordSet, error) {
	vars, err := parseVars(rawVars)
	if err != nil {
		return nil, nil, err
	}
	loader := persistence.NewZoneLoader(cfg.DefaultTTL)
	return loader.Load(path, zoneHint, vars)
}

func parseVars(values []string) (map[string]string, error) {
	vars := make(map[string]string, len(values))
	for _, v := range values {
		key, val, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid template var %q, expected KEY=VALUE", v)
		}
		vars[key] = val
	}
	return vars, nil
}
