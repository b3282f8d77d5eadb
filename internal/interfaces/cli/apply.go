package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kompoln/bind9-ctl/internal/application/orchestrator"
	"github.com/kompoln/bind9-ctl/internal/config"
	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/gitops"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/logger"
)

func newApplyCommand() *cobra.Command {
	var (
		desiredPath      string
		zoneName         string
		templVars        []string
		autoApprove      bool
		allowMassRemoval bool
	)

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the live zone to the declared state",
		Long:  "Compute the change plan and apply it through the configured strategy, either signed dynamic updates or zone file regeneration with validation and reload.",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fatal(err)
			}

			zone, desired, err := loadDesired(cfg, desiredPath, zoneName, templVars)
			if err != nil {
				fatal(err)
			}

			reconciler := newReconciler(cfg)
			opts := reconcileOptions(cfg, false, allowMassRemoval)
			ctx := context.Background()

			result, err := reconciler.Plan(ctx, zone, desired, opts)
			if err != nil {
				fatal(err)
			}

			renderPlan(result)
			if !result.Plan.HasChanges() {
				return
			}

			if !autoApprove {
				if !Confirm(fmt.Sprintf("Apply these %d change(s) to %s?", len(result.Plan.Changes()), zone.Origin), false) {
					fmt.Println("Apply cancelled.")
					return
				}
			}

			// Apply the confirmed plan as-is, no replanning.
			result, err = reconciler.Apply(ctx, result, opts)
			if result != nil {
				renderApply(result)
			}
			if err != nil {
				if errors.Is(err, domain.ErrRemovalGuard) {
					fmt.Println(changeUpdateStyle.Render("Pass --allow-mass-removal to override the removal guard."))
				}
				fatal(err)
			}

			maybeAutoCommit(ctx, cfg, result)
		},
	}

	applyCmd.Flags().StringVarP(&desiredPath, "desired", "d", "", "Path to the declared zone YAML document (required)")
	applyCmd.Flags().StringVarP(&zoneName, "zone", "z", "", "Zone origin, overrides the document's zone field")
	applyCmd.Flags().StringArrayVarP(&templVars, "var", "e", nil, "Template variable as KEY=VALUE (repeatable)")
	applyCmd.Flags().BoolVarP(&autoApprove, "yes", "y", false, "Skip the confirmation prompt")
	applyCmd.Flags().BoolVar(&allowMassRemoval, "allow-mass-removal", false, "Proceed even when the plan removes most of the zone")
	_ = applyCmd.MarkFlagRequired("desired")

	return applyCmd
}

// maybeAutoCommit commits the regenerated zone file when gitops mode is
// on. Dynamic updates leave no file to commit.
func maybeAutoCommit(ctx context.Context, cfg *config.Config, result *orchestrator.Result) {
	if !cfg.GitAutoCommit || result.Apply == nil {
		return
	}
	if result.Apply.Strategy != entity.StrategyZoneFile || result.Apply.ZoneFilePath == "" {
		return
	}
	if !gitops.IsRepo(ctx, cfg.ZoneOutputDir) {
		logger.Warn("git auto-commit enabled but output dir is not a repository", "dir", cfg.ZoneOutputDir)
		return
	}

	msg := gitops.CommitMessage(cfg.GitCommitTemplate, result.Zone.Origin)
	if err := gitops.AutoCommit(ctx, cfg.ZoneOutputDir, []string{result.Apply.ZoneFilePath}, msg); err != nil {
		logger.Warn("git auto-commit failed", "error", err)
		return
	}
	fmt.Printf("Committed zone file: %s\n", msg)
}
