package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"notegrader/internal/codes"
	"notegrader/internal/config"
	"notegrader/internal/dataset"
	"notegrader/internal/providers"
	"notegrader/internal/runner"
	"notegrader/internal/schema"
	"notegrader/internal/store"
)

var (
	genInputPath string
	genOutPath   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the configured AI provider over a dataset's transcripts and write the generated outputs",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genInputPath, "input", "", "dataset with voice-note transcripts (yaml or json)")
	generateCmd.Flags().StringVar(&genOutPath, "out", "", "file to write the generated-output document to (yaml or json by extension)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if genInputPath == "" {
		genInputPath = cfg.ExpectedPath
	}
	if genInputPath == "" || genOutPath == "" {
		return codes.New(codes.ErrUsage, "both --input and --out are required")
	}

	apiKey, err := config.APIKey(cfg.Provider)
	if err != nil {
		return err
	}
	provider, err := providers.New(cmd.Context(), cfg.Provider, apiKey, cfg.Model)
	if err != nil {
		return err
	}

	doc, err := dataset.ParseFile(genInputPath)
	if err != nil {
		return err
	}

	run := runner.New(logger, nil, cfg.Parallelism)
	out := dataset.DocumentV1{}
	for _, w := range []schema.Workflow{schema.WorkflowWorkTriaging, schema.WorkflowClosingComment} {
		entries, err := doc.Entries(w)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			continue
		}
		logger.Info("generating outputs",
			zap.String("workflow", string(w)),
			zap.String("provider", provider.Name()),
			zap.Int("entries", len(entries)))
		generated, err := run.GenerateAll(cmd.Context(), provider, w, entries, cfg.Temperature)
		if err != nil {
			return err
		}
		// The generated document carries no ground truth.
		for i := range generated {
			generated[i].ExpectedOutput = nil
		}
		switch w {
		case schema.WorkflowWorkTriaging:
			out.WorkItemTriaging = generated
		case schema.WorkflowClosingComment:
			out.ClosingComment = generated
		}
	}

	if err := writeDocument(genOutPath, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generated outputs written to %s\n", genOutPath)
	return nil
}

func writeDocument(path string, doc dataset.DocumentV1) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		return os.WriteFile(path, raw, 0o644)
	default:
		return store.WriteJSONAtomic(path, doc)
	}
}
