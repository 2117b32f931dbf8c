// Package dataset loads expected-output and generated-output documents and
// pairs them into evaluation cases. Documents parse as YAML or JSON by
// file extension, JSON being the default.
package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"notegrader/internal/codes"
	"notegrader/internal/schema"
)

// DocumentV1 mirrors the reference dataset layout: one entry list per
// workflow, entries keyed by case id.
type DocumentV1 struct {
	WorkItemTriaging []EntryV1 `yaml:"work_item_triaging" json:"work_item_triaging"`
	ClosingComment   []EntryV1 `yaml:"closing_comment" json:"closing_comment"`
}

// EntryV1 is one dataset row. ExpectedOutput is set in reference documents,
// SystemOutput in generated documents; both stay generic values so a
// generated payload of the wrong JSON kind still loads and is scored as a
// processing failure rather than rejected here.
type EntryV1 struct {
	ID             string `yaml:"id" json:"id"`
	Input          string `yaml:"input" json:"input"`
	TestFocus      string `yaml:"test_focus" json:"test_focus,omitempty"`
	ExpectedOutput any    `yaml:"expected_output" json:"expected_output,omitempty"`
	SystemOutput   any    `yaml:"system_output" json:"system_output,omitempty"`
}

// ParseFile loads and structurally checks one document: every entry needs a
// unique, non-empty id within its workflow section.
func ParseFile(path string) (DocumentV1, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return DocumentV1{}, err
	}

	var doc DocumentV1
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return DocumentV1{}, codes.Newf(codes.ErrDatasetInvalid, "invalid dataset yaml %s: %v", path, err)
		}
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return DocumentV1{}, codes.Newf(codes.ErrDatasetInvalid, "invalid dataset json %s: %v", path, err)
		}
	}

	for _, section := range []struct {
		name    string
		entries []EntryV1
	}{
		{string(schema.WorkflowWorkTriaging), doc.WorkItemTriaging},
		{string(schema.WorkflowClosingComment), doc.ClosingComment},
	} {
		seen := map[string]bool{}
		for _, e := range section.entries {
			id := strings.TrimSpace(e.ID)
			if id == "" {
				return DocumentV1{}, codes.Newf(codes.ErrDatasetInvalid, "%s: %s entry with empty id", path, section.name)
			}
			if seen[id] {
				return DocumentV1{}, codes.Newf(codes.ErrDatasetInvalid, "%s: duplicate %s id %q", path, section.name, id)
			}
			seen[id] = true
		}
	}
	return doc, nil
}

// Entries returns the section for a workflow.
func (d DocumentV1) Entries(w schema.Workflow) ([]EntryV1, error) {
	switch w {
	case schema.WorkflowWorkTriaging:
		return d.WorkItemTriaging, nil
	case schema.WorkflowClosingComment:
		return d.ClosingComment, nil
	default:
		return nil, codes.Newf(codes.ErrWorkflowUnknown, "unknown workflow %q", string(w))
	}
}

// BuildCases pairs expected entries with generated entries by case id. An
// expected entry with no generated counterpart, or one whose counterpart
// carries no system output, becomes a case with nil Generated: the
// processing-failure path, counted, not skipped. Generated entries with no
// expected counterpart are ignored: without ground truth there is nothing
// to score.
func BuildCases(expected DocumentV1, generated DocumentV1, w schema.Workflow) ([]schema.EvaluationCaseV1, error) {
	expEntries, err := expected.Entries(w)
	if err != nil {
		return nil, err
	}
	genEntries, err := generated.Entries(w)
	if err != nil {
		return nil, err
	}

	genByID := make(map[string]EntryV1, len(genEntries))
	for _, e := range genEntries {
		genByID[strings.TrimSpace(e.ID)] = e
	}

	cases := make([]schema.EvaluationCaseV1, 0, len(expEntries))
	for _, exp := range expEntries {
		id := strings.TrimSpace(exp.ID)
		if exp.ExpectedOutput == nil {
			return nil, codes.Newf(codes.ErrDatasetInvalid, "case %s has no expected output", id)
		}
		expRaw, err := toJSON(exp.ExpectedOutput)
		if err != nil {
			return nil, codes.Newf(codes.ErrDatasetInvalid, "case %s: expected output not representable as json: %v", id, err)
		}

		c := schema.EvaluationCaseV1{
			CaseID:   id,
			Workflow: w,
			Input:    exp.Input,
			Expected: expRaw,
		}
		if gen, ok := genByID[id]; ok && gen.SystemOutput != nil {
			genRaw, err := toJSON(gen.SystemOutput)
			if err != nil {
				return nil, codes.Newf(codes.ErrDatasetInvalid, "case %s: system output not representable as json: %v", id, err)
			}
			c.Generated = genRaw
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func toJSON(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
