// Package runner fans evaluation and generation work across workers and
// writes the run artifacts.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"notegrader/internal/aggregate"
	"notegrader/internal/dataset"
	"notegrader/internal/eval"
	"notegrader/internal/providers"
	"notegrader/internal/schema"
	"notegrader/internal/store"
)

// NewRunID mints a sortable run id: YYYYMMDD-HHMMSSZ-<hex8>.
func NewRunID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return now.UTC().Format("20060102-150405Z") + "-" + suffix
}

type Runner struct {
	log         *zap.Logger
	evaluator   *eval.Evaluator
	parallelism int
}

func New(log *zap.Logger, evaluator *eval.Evaluator, parallelism int) *Runner {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Runner{log: log, evaluator: evaluator, parallelism: parallelism}
}

// EvaluateAll scores every case and folds the results into one aggregate.
// Cases are sharded across workers; each worker folds its own accumulator
// and the partials are merged at fan-in, so the aggregate is identical no
// matter how the cases were split.
func (r *Runner) EvaluateAll(ctx context.Context, workflow schema.Workflow, cases []schema.EvaluationCaseV1) ([]schema.CaseResultV1, schema.AggregateReportV1, error) {
	results := make([]schema.CaseResultV1, len(cases))
	partials := make([]*aggregate.Accumulator, r.parallelism)

	g, ctx := errgroup.WithContext(ctx)
	for shard := 0; shard < r.parallelism; shard++ {
		shard := shard
		acc := aggregate.New(workflow)
		partials[shard] = acc
		g.Go(func() error {
			for i := shard; i < len(cases); i += r.parallelism {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := r.evaluator.Evaluate(cases[i])
				if err != nil {
					return fmt.Errorf("case %s: %w", cases[i].CaseID, err)
				}
				results[i] = res
				acc.Fold(res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, schema.AggregateReportV1{}, err
	}

	total := partials[0]
	for _, p := range partials[1:] {
		total.Merge(p)
	}
	report := total.Finalize()
	r.log.Info("workflow evaluated",
		zap.String("workflow", string(workflow)),
		zap.Int("cases", report.TotalCases),
		zap.Float64("overallAccuracy", report.OverallAccuracy))
	return results, report, nil
}

// GenerateAll produces a system output for every entry's transcript. A
// provider failure leaves that entry's system_output nil, which the
// evaluation later counts as a processing failure rather than aborting
// the whole run.
func (r *Runner) GenerateAll(ctx context.Context, p providers.Provider, workflow schema.Workflow, entries []dataset.EntryV1, temperature float64) ([]dataset.EntryV1, error) {
	out := make([]dataset.EntryV1, len(entries))
	copy(out, entries)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i := range out {
		i := i
		g.Go(func() error {
			req, err := providers.BuildPrompt(workflow, out[i].Input, temperature)
			if err != nil {
				return err
			}
			raw, err := p.Generate(ctx, req)
			if err != nil {
				r.log.Warn("generation failed",
					zap.String("workflow", string(workflow)),
					zap.String("id", out[i].ID),
					zap.Error(err))
				out[i].SystemOutput = nil
				return nil
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				out[i].SystemOutput = nil
				return nil
			}
			out[i].SystemOutput = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RunDir is where a run's artifacts live under the output root.
func RunDir(outRoot, runID string) string {
	return filepath.Join(outRoot, "runs", runID)
}

// WriteArtifacts persists report.json plus one cases.jsonl line per case
// result under the run directory.
func WriteArtifacts(outRoot string, report schema.RunReportV1, results []schema.CaseResultV1) (string, error) {
	dir := RunDir(outRoot, report.RunID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := store.WriteJSONAtomic(filepath.Join(dir, "report.json"), report); err != nil {
		return "", err
	}
	casesPath := filepath.Join(dir, "cases.jsonl")
	for _, res := range results {
		if err := store.AppendJSONL(casesPath, res); err != nil {
			return "", err
		}
	}
	return dir, nil
}
