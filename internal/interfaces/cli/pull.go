package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kompoln/bind9-ctl/internal/application/export"
	"github.com/kompoln/bind9-ctl/internal/config"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/infrastructure/transfer"
)

func newPullCommand() *cobra.Command {
	var (
		zoneName   string
		outputPath string
		format     string
	)

	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Export the live zone as a declarative document",
		Long:  "Transfer the live zone over TSIG-signed AXFR and write it out in the same YAML shape the plan and apply commands consume, ready to commit as declared state.",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fatal(err)
			}

			zone, err := entity.NewZoneContext(zoneName, cfg.DefaultTTL)
			if err != nil {
				fatal(err)
			}

			client := transfer.NewClient(cfg)
			live, err := client.FetchZone(context.Background(), zone)
			if err != nil {
				fatal(err)
			}

			doc := export.FromRecordSet(zone, live)

			var data []byte
			switch format {
			case "yaml":
				data, err = doc.YAML()
			case "json":
				data, err = doc.JSON()
			default:
				fatal(fmt.Errorf("unsupported format %q, expected yaml or json", format))
			}
			if err != nil {
				fatal(err)
			}

			if outputPath == "" || outputPath == "-" {
				if _, err := os.Stdout.Write(data); err != nil {
					fatal(err)
				}
				return
			}
			if err := export.Write(outputPath, data); err != nil {
				fatal(err)
			}
			fmt.Printf("Exported %d record(s) from %s to %s\n", len(doc.Records), zone.Origin, outputPath)
		},
	}

	pullCmd.Flags().StringVarP(&zoneName, "zone", "z", "", "Zone origin to export (required)")
	pullCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination path (default stdout)")
	pullCmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format, yaml or json")
	_ = pullCmd.MarkFlagRequired("zone")

	return pullCmd
}
