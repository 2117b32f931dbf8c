// Package wfvalidate checks generated outputs for structural compliance
// with their workflow's required shape. It never judges whether values are
// correct; that is the comparators' job.
package wfvalidate

import (
	"fmt"
	"strings"

	"notegrader/internal/codes"
	"notegrader/internal/schema"
)

// Value shapes a descriptor can require.
const (
	ShapeString         = "string"
	ShapeNullableString = "nullable_string"
	ShapeNumber         = "number"
	ShapeNullableNumber = "nullable_number"
	ShapeBool           = "bool"
	ShapeEnum           = "enum"
	ShapeItemArray      = "item_array"
)

// FieldDescriptor declares one field of a workflow output. New workflows
// extend the tables below; the walk itself is shape-generic.
type FieldDescriptor struct {
	Name     string
	Required bool
	Shape    string
	Enum     []string          // allowed values when Shape == ShapeEnum
	Items    []FieldDescriptor // element fields when Shape == ShapeItemArray
}

type Finding struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	Compliant bool      `json:"compliant"`
	Findings  []Finding `json:"findings,omitempty"`
}

func workItemDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "title", Required: true, Shape: ShapeString},
		{Name: "description", Required: true, Shape: ShapeString},
		{Name: "status", Required: true, Shape: ShapeString},
		{Name: "asset_id", Shape: ShapeNullableString},
		{Name: "work_type_id", Shape: ShapeNullableString},
		{Name: "assigned_to", Shape: ShapeNullableString},
		{Name: "comment", Shape: ShapeNullableString},
		{Name: "user_query", Shape: ShapeNullableString},
	}
}

func WorkTriagingDescriptors() []FieldDescriptor {
	items := workItemDescriptors()
	return []FieldDescriptor{
		{Name: "work_requests", Shape: ShapeItemArray, Items: items},
		{Name: "work_orders", Shape: ShapeItemArray, Items: items},
		{Name: "inspection_tasks", Shape: ShapeItemArray, Items: items},
		{Name: "general_tasks", Shape: ShapeItemArray, Items: items},
	}
}

func ClosingCommentDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "closing_comment", Required: true, Shape: ShapeString},
		{Name: "actual_downtime_hours", Shape: ShapeNullableNumber},
		{Name: "work_performed", Shape: ShapeNullableString},
		{Name: "parts_used", Shape: ShapeNullableString},
		{Name: "verification", Shape: ShapeNullableString},
	}
}

// DescriptorsFor returns the descriptor table for a workflow. An unknown
// workflow is a caller contract violation, not a scoring outcome.
func DescriptorsFor(w schema.Workflow) ([]FieldDescriptor, error) {
	switch w {
	case schema.WorkflowWorkTriaging:
		return WorkTriagingDescriptors(), nil
	case schema.WorkflowClosingComment:
		return ClosingCommentDescriptors(), nil
	default:
		return nil, codes.Newf(codes.ErrWorkflowUnknown, "unknown workflow %q", string(w))
	}
}

// Validate checks one generated object against the workflow's descriptor
// table. A nil object is non-compliant, never an error; unknown extra
// fields are ignored.
func Validate(generated map[string]any, w schema.Workflow) (Result, error) {
	descriptors, err := DescriptorsFor(w)
	if err != nil {
		return Result{}, err
	}
	if generated == nil {
		return Result{Findings: []Finding{{Message: "no generated output"}}}, nil
	}

	var findings []Finding
	for _, d := range descriptors {
		findings = append(findings, checkField("", d, generated)...)
	}
	return Result{Compliant: len(findings) == 0, Findings: findings}, nil
}

func checkField(prefix string, d FieldDescriptor, obj map[string]any) []Finding {
	path := d.Name
	if prefix != "" {
		path = prefix + "." + d.Name
	}
	value, present := obj[d.Name]
	if !present {
		if d.Required {
			return []Finding{{Field: path, Message: "missing required field"}}
		}
		return nil
	}
	return checkValue(path, d, value)
}

func checkValue(path string, d FieldDescriptor, value any) []Finding {
	switch d.Shape {
	case ShapeString:
		if _, ok := value.(string); !ok {
			return []Finding{{Field: path, Message: wrongType("string", value)}}
		}
	case ShapeNullableString:
		if value == nil {
			return nil
		}
		if _, ok := value.(string); !ok {
			return []Finding{{Field: path, Message: wrongType("string or null", value)}}
		}
	case ShapeNumber:
		if !isNumber(value) {
			return []Finding{{Field: path, Message: wrongType("number", value)}}
		}
	case ShapeNullableNumber:
		if value == nil {
			return nil
		}
		if !isNumber(value) {
			return []Finding{{Field: path, Message: wrongType("number or null", value)}}
		}
	case ShapeBool:
		if _, ok := value.(bool); !ok {
			return []Finding{{Field: path, Message: wrongType("bool", value)}}
		}
	case ShapeEnum:
		s, ok := value.(string)
		if !ok {
			return []Finding{{Field: path, Message: wrongType("string", value)}}
		}
		for _, allowed := range d.Enum {
			if strings.EqualFold(strings.TrimSpace(s), allowed) {
				return nil
			}
		}
		return []Finding{{Field: path, Message: fmt.Sprintf("value %q not in {%s}", s, strings.Join(d.Enum, ", "))}}
	case ShapeItemArray:
		arr, ok := value.([]any)
		if !ok {
			return []Finding{{Field: path, Message: wrongType("array", value)}}
		}
		var findings []Finding
		for i, elem := range arr {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			item, ok := elem.(map[string]any)
			if !ok {
				findings = append(findings, Finding{Field: elemPath, Message: wrongType("object", elem)})
				continue
			}
			for _, id := range d.Items {
				findings = append(findings, checkField(elemPath, id, item)...)
			}
		}
		return findings
	}
	return nil
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32:
		return true
	default:
		return false
	}
}

func wrongType(want string, got any) string {
	return fmt.Sprintf("expected %s, got %s", want, typeName(got))
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, float32, int, int64, int32:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
