package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reqtrace/reqtrace/internal/trace"
)

var (
	coverageMin     float64
	coverageOffline bool
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Print coverage percentages",
	Long: `Prints the four coverage relations. With --min set, exits non-zero
when overall requirement coverage falls below the threshold, for use as a
CI gate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := loadIssues(cmd.Context(), coverageOffline)
		if err != nil {
			return err
		}

		metrics := trace.ComputeMetrics(trace.BuildGraph(issues))

		row := func(name string, c trace.Coverage) {
			fmt.Printf("%-24s %5.1f%%  (%d/%d)\n", name, c.CoveragePct, c.Linked, c.Total)
		}
		row("requirement", metrics.Requirement)
		row("requirement_to_ADR", metrics.RequirementToADR)
		row("requirement_to_scenario", metrics.RequirementToScenario)
		row("requirement_to_test", metrics.RequirementToTest)

		if coverageMin > 0 && metrics.Requirement.CoveragePct < coverageMin {
			return fmt.Errorf("requirement coverage %.1f%% below threshold %.1f%%",
				metrics.Requirement.CoveragePct, coverageMin)
		}
		return nil
	},
}

func init() {
	coverageCmd.Flags().Float64Var(&coverageMin, "min", 0, "fail when requirement coverage is below this percentage")
	coverageCmd.Flags().BoolVar(&coverageOffline, "offline", false, "use cached issues instead of fetching")
}
