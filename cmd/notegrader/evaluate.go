package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notegrader/internal/assetmatch"
	"notegrader/internal/codes"
	"notegrader/internal/config"
	"notegrader/internal/dataset"
	"notegrader/internal/eval"
	"notegrader/internal/runner"
	"notegrader/internal/schema"
)

var (
	evalExpectedPath  string
	evalGeneratedPath string
	evalCatalogPath   string
	evalOutRoot       string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score generated outputs against the expected dataset and write a run report",
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evalExpectedPath, "expected", "", "expected-output dataset (yaml or json)")
	evaluateCmd.Flags().StringVar(&evalGeneratedPath, "generated", "", "generated-output dataset (yaml or json)")
	evaluateCmd.Flags().StringVar(&evalCatalogPath, "catalog", "", "asset catalog file")
	evaluateCmd.Flags().StringVar(&evalOutRoot, "out", "", "output root for run artifacts")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if evalExpectedPath != "" {
		cfg.ExpectedPath = evalExpectedPath
	}
	if evalGeneratedPath != "" {
		cfg.GeneratedPath = evalGeneratedPath
	}
	if evalCatalogPath != "" {
		cfg.CatalogPath = evalCatalogPath
	}
	if evalOutRoot != "" {
		cfg.OutRoot = evalOutRoot
	}
	if cfg.ExpectedPath == "" || cfg.GeneratedPath == "" {
		return codes.New(codes.ErrUsage, "both --expected and --generated are required (or set expected_path/generated_path in the config)")
	}

	var matcher *assetmatch.Matcher
	if cfg.CatalogPath != "" {
		catalog, err := assetmatch.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}
		matcher = assetmatch.NewMatcher(catalog, cfg.AssetSimilarityThreshold)
	}

	expected, err := dataset.ParseFile(cfg.ExpectedPath)
	if err != nil {
		return err
	}
	generated, err := dataset.ParseFile(cfg.GeneratedPath)
	if err != nil {
		return err
	}

	evaluator := eval.New(matcher, eval.Options{DowntimeToleranceHours: cfg.DowntimeToleranceHours})
	run := runner.New(logger, evaluator, cfg.Parallelism)

	now := time.Now().UTC()
	report := schema.RunReportV1{
		SchemaVersion: schema.RunReportSchemaV1,
		RunID:         runner.NewRunID(now),
		CreatedAt:     now.Format(time.RFC3339),
		Provider:      cfg.Provider,
		Model:         cfg.Model,
	}
	logger.Info("run started", zap.String("runId", report.RunID))

	var results []schema.CaseResultV1
	for _, w := range []schema.Workflow{schema.WorkflowWorkTriaging, schema.WorkflowClosingComment} {
		cases, err := dataset.BuildCases(expected, generated, w)
		if err != nil {
			return err
		}
		if len(cases) == 0 {
			continue
		}
		wfResults, agg, err := run.EvaluateAll(cmd.Context(), w, cases)
		if err != nil {
			return err
		}
		results = append(results, wfResults...)
		switch w {
		case schema.WorkflowWorkTriaging:
			report.WorkTriaging = &agg
		case schema.WorkflowClosingComment:
			report.ClosingComment = &agg
		}
	}

	dir, err := runner.WriteArtifacts(cfg.OutRoot, report, results)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s\n", report.RunID)
	printAggregate(out, report.WorkTriaging)
	printAggregate(out, report.ClosingComment)
	fmt.Fprintf(out, "artifacts: %s\n", dir)
	return nil
}

func printAggregate(out io.Writer, agg *schema.AggregateReportV1) {
	if agg == nil {
		return
	}
	fmt.Fprintf(out, "\n%s: %d cases\n", agg.Workflow, agg.TotalCases)
	fmt.Fprintf(out, "  schema compliance:  %5.1f%% (%d/%d)\n", agg.SchemaComplianceRate*100, agg.SchemaCompliantCount, agg.TotalCases)
	fmt.Fprintf(out, "  processing success: %5.1f%% (%d/%d)\n", agg.ProcessingSuccessRate*100, agg.ProcessingSuccessCount, agg.TotalCases)
	fmt.Fprintf(out, "  overall accuracy:   %5.1f\n", agg.OverallAccuracy)
	for _, field := range schema.FieldsFor(agg.Workflow) {
		fmt.Fprintf(out, "    %-20s %5.1f\n", field, agg.PerFieldAccuracy[field])
	}
}
