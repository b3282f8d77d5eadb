package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

var showVersion bool

var rootCmd = &cobra.Command{
	Use:   "bind9ctl",
	Short: "Declarative BIND9 zone management",
	Long:  "bind9ctl reconciles declared zone state against the live zone served by BIND9, via TSIG-signed AXFR, dynamic updates and zone file regeneration.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(Version)
			os.Exit(0)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newPullCommand())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
