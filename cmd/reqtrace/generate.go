package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/reqtrace/reqtrace/internal/output"
	"github.com/reqtrace/reqtrace/internal/trace"
)

var (
	generateOut     string
	generateOffline bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the traceability.json artifact",
	Long: `Fetches requirement issues, builds the traceability graph, computes
coverage metrics, and writes the traceability.json artifact.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := loadIssues(cmd.Context(), generateOffline)
		if err != nil {
			return err
		}

		graph := trace.BuildGraph(issues)
		metrics := trace.ComputeMetrics(graph)
		artifact := output.NewArtifact(cfg.Repository, graph, metrics)

		if generateOut == "-" {
			return artifact.WriteJSON(os.Stdout)
		}
		if err := artifact.WriteFile(generateOut); err != nil {
			return err
		}

		logger.Infof("Generated %s", generateOut)
		logger.Infof("  Total items: %d", len(artifact.Items))
		logger.Infof("  Requirements: %d", metrics.Requirement.Total)
		if metrics.Requirement.Total > 0 {
			logger.Infof("  Overall coverage: %.1f%%", metrics.Requirement.CoveragePct)
			logger.Infof("  ADR linkage: %.1f%%", metrics.RequirementToADR.CoveragePct)
			logger.Infof("  Scenario linkage: %.1f%%", metrics.RequirementToScenario.CoveragePct)
			logger.Infof("  Test linkage: %.1f%%", metrics.RequirementToTest.CoveragePct)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "output path, - for stdout (default: from config)")
	generateCmd.Flags().BoolVar(&generateOffline, "offline", false, "use cached issues instead of fetching")
	generateCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if generateOut == "" {
			generateOut = cfg.Output.Path
		}
	}
}
