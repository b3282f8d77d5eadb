package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kompoln/bind9-ctl/internal/config"
)

func newPlanCommand() *cobra.Command {
	var (
		desiredPath string
		zoneName    string
		templVars   []string
		jsonPath    string
	)

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what would change without touching the zone",
		Long:  "Load the declared zone document, transfer the live zone over TSIG-signed AXFR, and print the change plan. Nothing is modified.",
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
			result, err := reconciler.Plan(context.Background(), zone, desired, reconcileOptions(cfg, true, false))
			if err != nil {
				fatal(err)
			}

			if jsonPath != "" {
				if err := writePlanJSON(result, jsonPath); err != nil {
					fatal(err)
				}
				return
			}

			renderPlan(result)
		},
	}

	planCmd.Flags().StringVarP(&desiredPath, "desired", "d", "", "Path to the declared zone YAML document (required)")
	planCmd.Flags().StringVarP(&zoneName, "zone", "z", "", "Zone origin, overrides the document's zone field")
	planCmd.Flags().StringArrayVarP(&templVars, "var", "e", nil, "Template variable as KEY=VALUE (repeatable)")
	planCmd.Flags().StringVar(&jsonPath, "json", "", "Write the plan as JSON to this path (- for stdout)")
	_ = planCmd.MarkFlagRequired("desired")

	return planCmd
}
