package schema

import "strings"

// Work-item category labels derived from the triage buckets.
const (
	CategoryWorkRequest    = "work_request"
	CategoryWorkOrder      = "work_order"
	CategoryInspectionTask = "inspection_task"
	CategoryGeneralTask    = "general_task"
)

// WorkItemV1 is one triaged work item. The nullable identifier fields stay
// pointers: absent and empty are different answers ("no asset" vs "asset
// left blank") and the comparators treat them differently from a value.
type WorkItemV1 struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	AssetID     *string `json:"asset_id"`
	WorkTypeID  *string `json:"work_type_id"`
	AssignedTo  *string `json:"assigned_to"`
	Comment     *string `json:"comment,omitempty"`
	UserQuery   *string `json:"user_query,omitempty"`
}

// WorkTriagingOutputV1 is the generated/expected shape for the work-item
// triaging workflow. A voice note routes to exactly one bucket in practice;
// Category and FirstItem read the buckets in the canonical priority order.
type WorkTriagingOutputV1 struct {
	WorkRequests    []WorkItemV1 `json:"work_requests"`
	WorkOrders      []WorkItemV1 `json:"work_orders"`
	InspectionTasks []WorkItemV1 `json:"inspection_tasks"`
	GeneralTasks    []WorkItemV1 `json:"general_tasks"`
}

// Category returns the label of the first populated bucket, "" when the
// output triaged nothing.
func (o WorkTriagingOutputV1) Category() string {
	switch {
	case len(o.WorkRequests) > 0:
		return CategoryWorkRequest
	case len(o.WorkOrders) > 0:
		return CategoryWorkOrder
	case len(o.InspectionTasks) > 0:
		return CategoryInspectionTask
	case len(o.GeneralTasks) > 0:
		return CategoryGeneralTask
	default:
		return ""
	}
}

// FirstItem returns the leading item of the first populated bucket, nil when
// the output triaged nothing.
func (o WorkTriagingOutputV1) FirstItem() *WorkItemV1 {
	for _, bucket := range [][]WorkItemV1{o.WorkRequests, o.WorkOrders, o.InspectionTasks, o.GeneralTasks} {
		if len(bucket) > 0 {
			return &bucket[0]
		}
	}
	return nil
}

// ClosingCommentOutputV1 is the generated/expected shape for the closing
// comment workflow. ActualDowntimeHours nil means "downtime not tracked",
// which is distinct from a zero duration. The narrative fields are the
// completeness sub-fields checked by the comment-population score.
type ClosingCommentOutputV1 struct {
	ClosingComment      string   `json:"closing_comment"`
	ActualDowntimeHours *float64 `json:"actual_downtime_hours"`
	WorkPerformed       string   `json:"work_performed,omitempty"`
	PartsUsed           string   `json:"parts_used,omitempty"`
	Verification        string   `json:"verification,omitempty"`
}

// DecodeWorkTriaging reads a triaging output from a generic JSON object,
// keeping whatever is well-typed and dropping the rest. Structural problems
// are the validator's to report; scoring still wants the usable fields.
func DecodeWorkTriaging(m map[string]any) WorkTriagingOutputV1 {
	return WorkTriagingOutputV1{
		WorkRequests:    decodeItems(m["work_requests"]),
		WorkOrders:      decodeItems(m["work_orders"]),
		InspectionTasks: decodeItems(m["inspection_tasks"]),
		GeneralTasks:    decodeItems(m["general_tasks"]),
	}
}

// DecodeClosingComment reads a closing-comment output from a generic JSON
// object with the same drop-malformed tolerance as DecodeWorkTriaging.
func DecodeClosingComment(m map[string]any) ClosingCommentOutputV1 {
	return ClosingCommentOutputV1{
		ClosingComment:      stringAt(m, "closing_comment"),
		ActualDowntimeHours: numberAt(m, "actual_downtime_hours"),
		WorkPerformed:       stringAt(m, "work_performed"),
		PartsUsed:           stringAt(m, "parts_used"),
		Verification:        stringAt(m, "verification"),
	}
}

func decodeItems(v any) []WorkItemV1 {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]WorkItemV1, 0, len(arr))
	for _, raw := range arr {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, WorkItemV1{
			Title:       stringAt(obj, "title"),
			Description: stringAt(obj, "description"),
			Status:      stringAt(obj, "status"),
			AssetID:     stringPtrAt(obj, "asset_id"),
			WorkTypeID:  stringPtrAt(obj, "work_type_id"),
			AssignedTo:  stringPtrAt(obj, "assigned_to"),
			Comment:     stringPtrAt(obj, "comment"),
			UserQuery:   stringPtrAt(obj, "user_query"),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringPtrAt(m map[string]any, key string) *string {
	v, present := m[key]
	if !present || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func numberAt(m map[string]any, key string) *float64 {
	v, present := m[key]
	if !present || v == nil {
		return nil
	}
	switch x := v.(type) {
	case float64:
		return &x
	case int:
		f := float64(x)
		return &f
	case int64:
		f := float64(x)
		return &f
	default:
		return nil
	}
}
