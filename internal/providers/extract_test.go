package providers

import (
	"strings"
	"testing"

	"notegrader/internal/codes"
)

func TestExtractJSONObject_Bare(t *testing.T) {
	raw, err := ExtractJSONObject(`{"closing_comment":"Done.","actual_downtime_hours":null}`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if string(raw) != `{"closing_comment":"Done.","actual_downtime_hours":null}` {
		t.Fatalf("unexpected extraction: %s", raw)
	}
}

func TestExtractJSONObject_Fenced(t *testing.T) {
	raw, err := ExtractJSONObject("```json\n{\"closing_comment\":\"Done.\"}\n```")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if string(raw) != `{"closing_comment":"Done."}` {
		t.Fatalf("unexpected extraction: %s", raw)
	}
}

func TestExtractJSONObject_ProseAround(t *testing.T) {
	raw, err := ExtractJSONObject(`Here is the result: {"work_requests":[]} hope that helps!`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if string(raw) != `{"work_requests":[]}` {
		t.Fatalf("unexpected extraction: %s", raw)
	}
}

func TestExtractJSONObject_BracesInStrings(t *testing.T) {
	raw, err := ExtractJSONObject(`{"closing_comment":"used part {A-1} and \"quoted\" text"}`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if string(raw) != `{"closing_comment":"used part {A-1} and \"quoted\" text"}` {
		t.Fatalf("unexpected extraction: %s", raw)
	}
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	_, err := ExtractJSONObject("I could not produce any output for this note.")
	if !codes.Is(err, codes.ErrInvalidJSON) {
		t.Fatalf("expected %s, got: %v", codes.ErrInvalidJSON, err)
	}
}

func TestExtractJSONObject_Unterminated(t *testing.T) {
	_, err := ExtractJSONObject(`{"closing_comment": "never closed`)
	if !codes.Is(err, codes.ErrInvalidJSON) {
		t.Fatalf("expected %s, got: %v", codes.ErrInvalidJSON, err)
	}
}

func TestExtractJSONObject_BalancedButInvalid(t *testing.T) {
	_, err := ExtractJSONObject(`{closing_comment: Done}`)
	if !codes.Is(err, codes.ErrInvalidJSON) {
		t.Fatalf("expected %s, got: %v", codes.ErrInvalidJSON, err)
	}
}

func TestBuildPrompt(t *testing.T) {
	req, err := BuildPrompt("work_triaging", "The pump is leaking.", 0.2)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if req.System == "" {
		t.Fatalf("missing system prompt")
	}
	if req.Temperature != 0.2 {
		t.Fatalf("temperature lost: %v", req.Temperature)
	}
	if want := "The pump is leaking."; !strings.Contains(req.Prompt, want) {
		t.Fatalf("prompt must carry the transcript, got: %s", req.Prompt)
	}

	if _, err := BuildPrompt("sentiment", "x", 0); !codes.Is(err, codes.ErrWorkflowUnknown) {
		t.Fatalf("expected %s, got: %v", codes.ErrWorkflowUnknown, err)
	}
}
