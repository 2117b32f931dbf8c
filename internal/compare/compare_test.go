package compare

import (
	"testing"

	"notegrader/internal/assetmatch"
	"notegrader/internal/schema"
)

func ptr[T any](v T) *T { return &v }

func triageOutput(bucket string, item schema.WorkItemV1) schema.WorkTriagingOutputV1 {
	var out schema.WorkTriagingOutputV1
	switch bucket {
	case schema.CategoryWorkRequest:
		out.WorkRequests = []schema.WorkItemV1{item}
	case schema.CategoryWorkOrder:
		out.WorkOrders = []schema.WorkItemV1{item}
	case schema.CategoryInspectionTask:
		out.InspectionTasks = []schema.WorkItemV1{item}
	case schema.CategoryGeneralTask:
		out.GeneralTasks = []schema.WorkItemV1{item}
	}
	return out
}

func scoreByField(t *testing.T, scores []schema.FieldScoreV1, field string) schema.FieldScoreV1 {
	t.Helper()
	for _, s := range scores {
		if s.Field == field {
			return s
		}
	}
	t.Fatalf("no score for field %s in %+v", field, scores)
	return schema.FieldScoreV1{}
}

func TestWorkTriaging_AllFieldsMatch(t *testing.T) {
	c := NewWorkTriaging(nil)
	item := schema.WorkItemV1{
		Title:      "Fix pump",
		Status:     "open",
		AssetID:    ptr("PUMP-001"),
		WorkTypeID: ptr("WT-REPAIR"),
		AssignedTo: ptr("jordan"),
	}
	scores := c.Score(triageOutput(schema.CategoryWorkRequest, item), triageOutput(schema.CategoryWorkRequest, item))
	if len(scores) != 5 {
		t.Fatalf("expected 5 scores, got %d", len(scores))
	}
	if got := Accuracy(scores); got != 100 {
		t.Fatalf("expected accuracy 100, got %v: %+v", got, scores)
	}
}

func TestWorkTriaging_CategoryMismatchOnly(t *testing.T) {
	c := NewWorkTriaging(nil)
	item := schema.WorkItemV1{Title: "Inspect belt", Status: "open"}
	scores := c.Score(triageOutput(schema.CategoryWorkOrder, item), triageOutput(schema.CategoryWorkRequest, item))
	if s := scoreByField(t, scores, schema.FieldCategory); s.Score != 0 {
		t.Fatalf("category must score 0: %+v", s)
	}
	if got := Accuracy(scores); got != 80 {
		t.Fatalf("expected accuracy 80, got %v: %+v", got, scores)
	}
}

func TestWorkTriaging_NullSymmetry(t *testing.T) {
	c := NewWorkTriaging(nil)
	gen := schema.WorkItemV1{Title: "t", Status: "open"}
	exp := schema.WorkItemV1{Title: "t", Status: "open", AssignedTo: ptr("sam")}

	scores := c.Score(triageOutput(schema.CategoryGeneralTask, gen), triageOutput(schema.CategoryGeneralTask, exp))
	if s := scoreByField(t, scores, schema.FieldAsset); s.Score != 100 {
		t.Fatalf("both-nil asset must score 100: %+v", s)
	}
	if s := scoreByField(t, scores, schema.FieldAssignment); s.Score != 0 {
		t.Fatalf("one-sided assignment must score 0: %+v", s)
	}
}

func TestWorkTriaging_FuzzyAssetViaCatalog(t *testing.T) {
	matcher := assetmatch.NewMatcher(assetmatch.Catalog{
		"PUMP-001": {"Main Water Pump", "Pump A-1"},
	}, assetmatch.DefaultThreshold)
	c := NewWorkTriaging(matcher)

	gen := schema.WorkItemV1{Title: "t", Status: "open", AssetID: ptr("Pump A-1")}
	exp := schema.WorkItemV1{Title: "t", Status: "open", AssetID: ptr("PUMP-001")}
	scores := c.Score(triageOutput(schema.CategoryWorkRequest, gen), triageOutput(schema.CategoryWorkRequest, exp))
	if s := scoreByField(t, scores, schema.FieldAsset); s.Score != 100 {
		t.Fatalf("catalog name must match its id: %+v", s)
	}
}

func TestWorkTriaging_EmptyGenerated(t *testing.T) {
	c := NewWorkTriaging(nil)
	exp := schema.WorkItemV1{Title: "t", Status: "open", AssignedTo: ptr("sam")}
	scores := c.Score(schema.WorkTriagingOutputV1{}, triageOutput(schema.CategoryWorkRequest, exp))
	if s := scoreByField(t, scores, schema.FieldCategory); s.Score != 0 {
		t.Fatalf("missing category must score 0: %+v", s)
	}
	// Fields absent on both sides still match under the null rule.
	if s := scoreByField(t, scores, schema.FieldWorkType); s.Score != 100 {
		t.Fatalf("both-absent work type must score 100: %+v", s)
	}
}

func TestDowntime_NullIsNotZero(t *testing.T) {
	c := NewClosingComment(0)
	gen := schema.ClosingCommentOutputV1{ClosingComment: "Done.", ActualDowntimeHours: ptr(0.0)}
	exp := schema.ClosingCommentOutputV1{ClosingComment: "Done."}
	scores := c.Score(gen, exp)
	if s := scoreByField(t, scores, schema.FieldDowntime); s.Score != 0 {
		t.Fatalf("zero hours must not match untracked downtime: %+v", s)
	}
}

func TestDowntime_BothNull(t *testing.T) {
	c := NewClosingComment(0)
	out := schema.ClosingCommentOutputV1{ClosingComment: "Done."}
	scores := c.Score(out, out)
	if s := scoreByField(t, scores, schema.FieldDowntime); s.Score != 100 {
		t.Fatalf("both untracked must match: %+v", s)
	}
}

func TestDowntime_Tolerance(t *testing.T) {
	c := NewClosingComment(0.01)
	within := c.Score(
		schema.ClosingCommentOutputV1{ClosingComment: "x", ActualDowntimeHours: ptr(2.005)},
		schema.ClosingCommentOutputV1{ClosingComment: "x", ActualDowntimeHours: ptr(2.0)},
	)
	if s := scoreByField(t, within, schema.FieldDowntime); s.Score != 100 {
		t.Fatalf("drift within tolerance must match: %+v", s)
	}
	outside := c.Score(
		schema.ClosingCommentOutputV1{ClosingComment: "x", ActualDowntimeHours: ptr(2.5)},
		schema.ClosingCommentOutputV1{ClosingComment: "x", ActualDowntimeHours: ptr(2.0)},
	)
	if s := scoreByField(t, outside, schema.FieldDowntime); s.Score != 0 {
		t.Fatalf("drift beyond tolerance must not match: %+v", s)
	}
}

func TestCommentPopulation_RequiredFieldsFollowExpected(t *testing.T) {
	c := NewClosingComment(0)
	exp := schema.ClosingCommentOutputV1{
		ClosingComment: "Replaced bearing.",
		PartsUsed:      "1x SKF 6205",
	}

	full := schema.ClosingCommentOutputV1{ClosingComment: "Swapped the bearing out.", PartsUsed: "bearing 6205"}
	if s := scoreByField(t, c.Score(full, exp), schema.FieldCommentPopulation); s.Score != 100 {
		t.Fatalf("all required fields populated must score 100: %+v", s)
	}

	partial := schema.ClosingCommentOutputV1{ClosingComment: "Swapped the bearing out."}
	if s := scoreByField(t, c.Score(partial, exp), schema.FieldCommentPopulation); s.Score != 0 {
		t.Fatalf("missing parts_used must score 0: %+v", s)
	}
}

func TestCommentPopulation_NothingRequired(t *testing.T) {
	c := NewClosingComment(0)
	scores := c.Score(schema.ClosingCommentOutputV1{}, schema.ClosingCommentOutputV1{})
	if s := scoreByField(t, scores, schema.FieldCommentPopulation); s.Score != 100 {
		t.Fatalf("no required narrative fields must score 100: %+v", s)
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy(nil); got != 0 {
		t.Fatalf("empty scores must yield 0, got %v", got)
	}
	scores := []schema.FieldScoreV1{{Score: 100}, {Score: 0}, {Score: 100}, {Score: 100}}
	if got := Accuracy(scores); got != 75 {
		t.Fatalf("expected 75, got %v", got)
	}
}
