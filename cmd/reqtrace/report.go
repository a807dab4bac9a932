package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reqtrace/reqtrace/internal/report"
	"github.com/reqtrace/reqtrace/internal/trace"
)

var (
	reportOut     string
	reportOffline bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the Markdown traceability matrix",
	Long: `Renders the requirements traceability matrix as Markdown: summary,
coverage table, link matrix, orphaned requirements, and requirements
without test coverage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := loadIssues(cmd.Context(), reportOffline)
		if err != nil {
			return err
		}

		graph := trace.BuildGraph(issues)
		metrics := trace.ComputeMetrics(graph)

		w := os.Stdout
		badges := term.IsTerminal(int(os.Stdout.Fd()))
		if reportOut != "" {
			if dir := filepath.Dir(reportOut); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create report directory: %w", err)
				}
			}
			f, err := os.Create(reportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", reportOut, err)
			}
			defer f.Close()
			w = f
			badges = false
		}

		return report.NewRenderer(badges).Render(w, cfg.Repository, graph, metrics)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "write report to file instead of stdout")
	reportCmd.Flags().BoolVar(&reportOffline, "offline", false, "use cached issues instead of fetching")
}
