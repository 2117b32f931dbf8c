package providers

import (
	"fmt"

	"notegrader/internal/codes"
	"notegrader/internal/schema"
)

const workTriagingSystem = `You triage transcribed maintenance voice notes into work items.
Respond with a single JSON object and nothing else. The object has four
arrays: "work_requests", "work_orders", "inspection_tasks" and
"general_tasks". Route the note into exactly one of them; leave the others
empty. Each item has "title", "description" and "status" strings plus
"asset_id", "work_type_id" and "assigned_to", each a string or null when
the note does not say.`

const closingCommentSystem = `You write closing comments for completed maintenance work from
transcribed voice notes. Respond with a single JSON object and nothing
else: "closing_comment" (string), "actual_downtime_hours" (number, or null
when the note does not mention equipment downtime; never substitute 0 for
untracked downtime), and when the note covers them, "work_performed",
"parts_used" and "verification" strings.`

// BuildPrompt assembles the request for one transcript under a workflow.
func BuildPrompt(w schema.Workflow, transcript string, temperature float64) (GenerateRequest, error) {
	var system string
	switch w {
	case schema.WorkflowWorkTriaging:
		system = workTriagingSystem
	case schema.WorkflowClosingComment:
		system = closingCommentSystem
	default:
		return GenerateRequest{}, codes.Newf(codes.ErrWorkflowUnknown, "unknown workflow %q", string(w))
	}
	return GenerateRequest{
		System:      system,
		Prompt:      fmt.Sprintf("Voice note transcript:\n\n%s", transcript),
		Temperature: temperature,
	}, nil
}
