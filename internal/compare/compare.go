// Package compare scores generated workflow outputs against expected
// outputs field by field. Every score is 0 or 100; mismatch reasons are
// carried as human-readable detail, never as errors.
package compare

import (
	"fmt"
	"math"
	"strings"

	"notegrader/internal/assetmatch"
	"notegrader/internal/schema"
)

// DefaultDowntimeToleranceHours bounds the allowed drift between two
// tracked downtime durations.
const DefaultDowntimeToleranceHours = 0.01

// WorkTriagingComparator scores the five triage fields in canonical order:
// category, asset, status, work_type, assignment.
type WorkTriagingComparator struct {
	assets *assetmatch.Matcher
}

func NewWorkTriaging(assets *assetmatch.Matcher) *WorkTriagingComparator {
	return &WorkTriagingComparator{assets: assets}
}

func (c *WorkTriagingComparator) Score(generated schema.WorkTriagingOutputV1, expected schema.WorkTriagingOutputV1) []schema.FieldScoreV1 {
	genItem := generated.FirstItem()
	expItem := expected.FirstItem()

	scores := make([]schema.FieldScoreV1, 0, 5)
	scores = append(scores, scoreCategory(generated.Category(), expected.Category()))
	scores = append(scores, c.scoreAsset(itemField(genItem, func(i *schema.WorkItemV1) *string { return i.AssetID }),
		itemField(expItem, func(i *schema.WorkItemV1) *string { return i.AssetID })))
	scores = append(scores, scoreStringField(schema.FieldStatus,
		itemStatus(genItem), itemStatus(expItem)))
	scores = append(scores, scoreStringField(schema.FieldWorkType,
		itemField(genItem, func(i *schema.WorkItemV1) *string { return i.WorkTypeID }),
		itemField(expItem, func(i *schema.WorkItemV1) *string { return i.WorkTypeID })))
	scores = append(scores, scoreStringField(schema.FieldAssignment,
		itemField(genItem, func(i *schema.WorkItemV1) *string { return i.AssignedTo }),
		itemField(expItem, func(i *schema.WorkItemV1) *string { return i.AssignedTo })))
	return scores
}

func scoreCategory(generated string, expected string) schema.FieldScoreV1 {
	if strings.EqualFold(strings.TrimSpace(generated), strings.TrimSpace(expected)) {
		detail := "category matched"
		if expected != "" {
			detail = fmt.Sprintf("category matched (%s)", expected)
		}
		return schema.FieldScoreV1{Field: schema.FieldCategory, Score: 100, Detail: detail}
	}
	return schema.FieldScoreV1{
		Field:  schema.FieldCategory,
		Detail: fmt.Sprintf("category mismatch: got %s, want %s", orNone(generated), orNone(expected)),
	}
}

func (c *WorkTriagingComparator) scoreAsset(generated *string, expected *string) schema.FieldScoreV1 {
	ok, detail := c.assets.Match(deref(generated), deref(expected))
	score := schema.FieldScoreV1{Field: schema.FieldAsset, Detail: detail}
	if ok {
		score.Score = 100
	}
	return score
}

// scoreStringField applies the shared null-symmetric rule: both absent is a
// match, one-sided absence is not, and present values compare trimmed and
// case-insensitive.
func scoreStringField(field string, generated *string, expected *string) schema.FieldScoreV1 {
	switch {
	case generated == nil && expected == nil:
		return schema.FieldScoreV1{Field: field, Score: 100, Detail: "both outputs leave " + field + " unset"}
	case generated == nil:
		return schema.FieldScoreV1{Field: field, Detail: fmt.Sprintf("%s missing: want %q", field, *expected)}
	case expected == nil:
		return schema.FieldScoreV1{Field: field, Detail: fmt.Sprintf("%s unexpected: got %q, want none", field, *generated)}
	}
	if strings.EqualFold(strings.TrimSpace(*generated), strings.TrimSpace(*expected)) {
		return schema.FieldScoreV1{Field: field, Score: 100, Detail: fmt.Sprintf("%s matched (%s)", field, strings.TrimSpace(*expected))}
	}
	return schema.FieldScoreV1{Field: field, Detail: fmt.Sprintf("%s mismatch: got %q, want %q", field, *generated, *expected)}
}

// ClosingCommentComparator scores downtime and comment population in
// canonical order.
type ClosingCommentComparator struct {
	toleranceHours float64
}

func NewClosingComment(toleranceHours float64) *ClosingCommentComparator {
	if toleranceHours <= 0 {
		toleranceHours = DefaultDowntimeToleranceHours
	}
	return &ClosingCommentComparator{toleranceHours: toleranceHours}
}

func (c *ClosingCommentComparator) Score(generated schema.ClosingCommentOutputV1, expected schema.ClosingCommentOutputV1) []schema.FieldScoreV1 {
	return []schema.FieldScoreV1{
		c.scoreDowntime(generated.ActualDowntimeHours, expected.ActualDowntimeHours),
		scoreCommentPopulation(generated, expected),
	}
}

// scoreDowntime disambiguates applicability from value: "downtime not
// tracked" (null) and "zero downtime" (0) are different answers and never
// match each other.
func (c *ClosingCommentComparator) scoreDowntime(generated *float64, expected *float64) schema.FieldScoreV1 {
	switch {
	case generated == nil && expected == nil:
		return schema.FieldScoreV1{Field: schema.FieldDowntime, Score: 100, Detail: "downtime not applicable in both outputs"}
	case generated == nil:
		return schema.FieldScoreV1{Field: schema.FieldDowntime, Detail: fmt.Sprintf("downtime missing: want %.2fh", *expected)}
	case expected == nil:
		return schema.FieldScoreV1{Field: schema.FieldDowntime, Detail: fmt.Sprintf("downtime not applicable, got %.2fh", *generated)}
	}
	if math.Abs(*generated-*expected) <= c.toleranceHours {
		return schema.FieldScoreV1{Field: schema.FieldDowntime, Score: 100, Detail: fmt.Sprintf("downtime matched (%.2fh)", *expected)}
	}
	return schema.FieldScoreV1{
		Field:  schema.FieldDowntime,
		Detail: fmt.Sprintf("downtime mismatch: got %.2fh, want %.2fh (tolerance %.2fh)", *generated, *expected, c.toleranceHours),
	}
}

// scoreCommentPopulation is a binary completeness check: every narrative
// field the expected output populates must be populated in the generated
// output. Partial presence scores 0.
func scoreCommentPopulation(generated schema.ClosingCommentOutputV1, expected schema.ClosingCommentOutputV1) schema.FieldScoreV1 {
	type narrative struct {
		name     string
		expected string
		got      string
	}
	fields := []narrative{
		{"closing_comment", expected.ClosingComment, generated.ClosingComment},
		{"work_performed", expected.WorkPerformed, generated.WorkPerformed},
		{"parts_used", expected.PartsUsed, generated.PartsUsed},
		{"verification", expected.Verification, generated.Verification},
	}

	var required, missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.expected) == "" {
			continue
		}
		required = append(required, f.name)
		if strings.TrimSpace(f.got) == "" {
			missing = append(missing, f.name)
		}
	}

	switch {
	case len(required) == 0:
		return schema.FieldScoreV1{Field: schema.FieldCommentPopulation, Score: 100, Detail: "no narrative fields required"}
	case len(missing) == 0:
		return schema.FieldScoreV1{
			Field:  schema.FieldCommentPopulation,
			Score:  100,
			Detail: fmt.Sprintf("all required narrative fields populated (%s)", strings.Join(required, ", ")),
		}
	default:
		return schema.FieldScoreV1{
			Field:  schema.FieldCommentPopulation,
			Detail: fmt.Sprintf("narrative fields missing or empty: %s", strings.Join(missing, ", ")),
		}
	}
}

// Accuracy is the unweighted mean of a case's field scores.
func Accuracy(scores []schema.FieldScoreV1) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s.Score
	}
	return sum / float64(len(scores))
}

func itemField(item *schema.WorkItemV1, get func(*schema.WorkItemV1) *string) *string {
	if item == nil {
		return nil
	}
	return get(item)
}

// itemStatus lifts the non-nullable status string into the shared nullable
// comparison: a missing item or blank status counts as absent.
func itemStatus(item *schema.WorkItemV1) *string {
	if item == nil || strings.TrimSpace(item.Status) == "" {
		return nil
	}
	return &item.Status
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return fmt.Sprintf("%q", s)
}
