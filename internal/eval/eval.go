// Package eval evaluates one case end to end: processing success, schema
// compliance, field scores, case accuracy.
package eval

import (
	"bytes"
	"encoding/json"

	"notegrader/internal/assetmatch"
	"notegrader/internal/codes"
	"notegrader/internal/compare"
	"notegrader/internal/schema"
	"notegrader/internal/wfvalidate"
)

// Options carry the scoring policy knobs. Zero values fall back to the
// package defaults so a bare Options{} is usable.
type Options struct {
	DowntimeToleranceHours float64
}

// Evaluator is stateless per case and safe for concurrent use.
type Evaluator struct {
	triage  *compare.WorkTriagingComparator
	closing *compare.ClosingCommentComparator
}

func New(assets *assetmatch.Matcher, opts Options) *Evaluator {
	return &Evaluator{
		triage:  compare.NewWorkTriaging(assets),
		closing: compare.NewClosingComment(opts.DowntimeToleranceHours),
	}
}

// Evaluate produces the CaseResult for one case. Per-case anomalies
// (missing output, unparseable output, wrong shape) become scores and
// details; only caller contract violations (unknown workflow, malformed
// expected output) return an error.
func (e *Evaluator) Evaluate(c schema.EvaluationCaseV1) (schema.CaseResultV1, error) {
	if !schema.IsValidWorkflow(c.Workflow) {
		return schema.CaseResultV1{}, codes.Newf(codes.ErrWorkflowUnknown, "case %s has unknown workflow %q", c.CaseID, string(c.Workflow))
	}

	result := schema.CaseResultV1{
		SchemaVersion: schema.CaseResultSchemaV1,
		CaseID:        c.CaseID,
		Workflow:      c.Workflow,
	}

	generated, ok := parseObject(c.Generated)
	if !ok {
		// Upstream produced nothing or something that is not a JSON
		// object. Counted, never scored.
		return result, nil
	}
	result.ProcessingSuccess = true

	validation, err := wfvalidate.Validate(generated, c.Workflow)
	if err != nil {
		return schema.CaseResultV1{}, err
	}
	result.SchemaCompliant = validation.Compliant
	for _, f := range validation.Findings {
		msg := f.Message
		if f.Field != "" {
			msg = f.Field + ": " + msg
		}
		result.SchemaFindings = append(result.SchemaFindings, msg)
	}

	scores, err := e.score(generated, c)
	if err != nil {
		return schema.CaseResultV1{}, err
	}
	result.FieldScores = scores
	accuracy := compare.Accuracy(scores)
	result.Accuracy = &accuracy
	return result, nil
}

func (e *Evaluator) score(generated map[string]any, c schema.EvaluationCaseV1) ([]schema.FieldScoreV1, error) {
	switch c.Workflow {
	case schema.WorkflowWorkTriaging:
		var expected schema.WorkTriagingOutputV1
		if err := json.Unmarshal(c.Expected, &expected); err != nil {
			return nil, codes.Newf(codes.ErrDatasetInvalid, "case %s: expected output is not a valid work-triaging object: %v", c.CaseID, err)
		}
		return e.triage.Score(schema.DecodeWorkTriaging(generated), expected), nil
	case schema.WorkflowClosingComment:
		var expected schema.ClosingCommentOutputV1
		if err := json.Unmarshal(c.Expected, &expected); err != nil {
			return nil, codes.Newf(codes.ErrDatasetInvalid, "case %s: expected output is not a valid closing-comment object: %v", c.CaseID, err)
		}
		return e.closing.Score(schema.DecodeClosingComment(generated), expected), nil
	default:
		return nil, codes.Newf(codes.ErrWorkflowUnknown, "unknown workflow %q", string(c.Workflow))
	}
}

// parseObject reports whether raw holds a JSON object, the bar for
// processing success. JSON null, non-object JSON, and unparseable bytes all
// fail it.
func parseObject(raw json.RawMessage) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
