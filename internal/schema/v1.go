package schema

import "encoding/json"

// Version constants for v1 artifacts.
const (
	CaseResultSchemaV1 = 1
	RunReportSchemaV1  = 1
)

// Workflow identifies which parsing workflow produced an output.
type Workflow string

const (
	WorkflowWorkTriaging   Workflow = "work_triaging"
	WorkflowClosingComment Workflow = "closing_comment"
)

func IsValidWorkflow(w Workflow) bool {
	return w == WorkflowWorkTriaging || w == WorkflowClosingComment
}

// Canonical field names. Scoring output order follows these lists exactly;
// downstream consumers key on the names.
const (
	FieldCategory          = "category"
	FieldAsset             = "asset"
	FieldStatus            = "status"
	FieldWorkType          = "work_type"
	FieldAssignment        = "assignment"
	FieldDowntime          = "downtime"
	FieldCommentPopulation = "comment_population"
)

func WorkTriagingFields() []string {
	return []string{FieldCategory, FieldAsset, FieldStatus, FieldWorkType, FieldAssignment}
}

func ClosingCommentFields() []string {
	return []string{FieldDowntime, FieldCommentPopulation}
}

// FieldsFor returns the canonical field order for a workflow, nil when the
// workflow is unknown.
func FieldsFor(w Workflow) []string {
	switch w {
	case WorkflowWorkTriaging:
		return WorkTriagingFields()
	case WorkflowClosingComment:
		return ClosingCommentFields()
	default:
		return nil
	}
}

// EvaluationCaseV1 pairs one generated output with its ground truth.
//
// Generated is nil when the upstream pipeline produced no output for the
// case; Expected is always present and pre-validated by the dataset loader.
type EvaluationCaseV1 struct {
	CaseID    string          `json:"caseId"`
	Workflow  Workflow        `json:"workflow"`
	Input     string          `json:"input,omitempty"`
	Generated json.RawMessage `json:"generated,omitempty"`
	Expected  json.RawMessage `json:"expected"`
}

// FieldScoreV1 is a single 0/100 field comparison outcome.
type FieldScoreV1 struct {
	Field  string  `json:"field"`
	Score  float64 `json:"score"`
	Detail string  `json:"detail,omitempty"`
}

// CaseResultV1 is written per case to: <outRoot>/runs/<runId>/cases.jsonl
//
// Accuracy is nil when ProcessingSuccess is false; such cases count in
// totals but never in accuracy means.
type CaseResultV1 struct {
	SchemaVersion     int            `json:"schemaVersion"`
	CaseID            string         `json:"caseId"`
	Workflow          Workflow       `json:"workflow"`
	SchemaCompliant   bool           `json:"schemaCompliant"`
	ProcessingSuccess bool           `json:"processingSuccess"`
	SchemaFindings    []string       `json:"schemaFindings,omitempty"`
	FieldScores       []FieldScoreV1 `json:"fieldScores,omitempty"`
	Accuracy          *float64       `json:"accuracy,omitempty"`
}

// AggregateReportV1 is the terminal artifact of one (run, workflow) pair.
// Rates are in [0,1]; accuracies are in [0,100]. A zero TotalCases run
// reports all rates and accuracies as 0.
type AggregateReportV1 struct {
	Workflow               Workflow           `json:"workflow"`
	TotalCases             int                `json:"totalCases"`
	SchemaCompliantCount   int                `json:"schemaCompliantCount"`
	ProcessingSuccessCount int                `json:"processingSuccessCount"`
	SchemaComplianceRate   float64            `json:"schemaComplianceRate"`
	ProcessingSuccessRate  float64            `json:"processingSuccessRate"`
	OverallAccuracy        float64            `json:"overallAccuracy"`
	PerFieldAccuracy       map[string]float64 `json:"perFieldAccuracy"`
}

// RunReportV1 is written to: <outRoot>/runs/<runId>/report.json
type RunReportV1 struct {
	SchemaVersion  int                `json:"schemaVersion"`
	RunID          string             `json:"runId"`
	CreatedAt      string             `json:"createdAt"` // RFC3339 UTC
	Provider       string             `json:"provider,omitempty"`
	Model          string             `json:"model,omitempty"`
	WorkTriaging   *AggregateReportV1 `json:"workTriaging,omitempty"`
	ClosingComment *AggregateReportV1 `json:"closingComment,omitempty"`
}
