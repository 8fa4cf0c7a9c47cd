package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/uibridge/uibridge-go/core"
)

func TestClickSendsActionRequest(t *testing.T) {
	var got ActionRequest
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ui-bridge/control/element/btn-save/action" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		respondEnvelope(w, ActionResponse{Success: true})
	}))
	defer done()

	resp, err := client.Click(context.Background(), "btn-save", DefaultActionOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Error("expected success")
	}
	if got.Action != ActionClick {
		t.Errorf("unexpected action %q", got.Action)
	}
	if got.RequestID == "" {
		t.Error("expected a generated request id")
	}
	if got.WaitOptions == nil || !got.WaitOptions.Visible || !got.WaitOptions.Enabled {
		t.Errorf("expected default wait options, got %+v", got.WaitOptions)
	}
}

func TestTypeSendsTextParams(t *testing.T) {
	var got ActionRequest
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		respondEnvelope(w, ActionResponse{Success: true})
	}))
	defer done()

	_, err := client.Type(context.Background(), "input-email", "a@b.c", &TypeOptions{Clear: true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != ActionType {
		t.Errorf("unexpected action %q", got.Action)
	}
	if got.Params["text"] != "a@b.c" {
		t.Errorf("unexpected text param %v", got.Params["text"])
	}
	if got.Params["clear"] != true {
		t.Errorf("expected clear param, got %v", got.Params)
	}
}

func TestExecuteActionLogicalFailure(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondEnvelope(w, ActionResponse{
			Success: false,
			Error:   "element not visible",
			FailureDetails: &FailureDetails{
				ErrorCode:        CodeElementNotVisible,
				Message:          "element not visible",
				RetryRecommended: true,
				SuggestedActions: []RecoveryAction{
					{Suggestion: "scroll the element into view", Confidence: 0.9, Retryable: true},
				},
			},
		})
	}))
	defer done()

	resp, err := client.Click(context.Background(), "btn-save", nil)
	if err == nil {
		t.Fatal("expected an error for a failed action")
	}
	if !errors.Is(err, core.ErrActionFailed) {
		t.Errorf("expected ErrActionFailed, got %v", err)
	}
	if resp == nil {
		t.Fatal("failed action must still return the response")
	}
	if resp.FailureDetails == nil || !resp.FailureDetails.RetryRecommended {
		t.Errorf("unexpected failure details: %+v", resp.FailureDetails)
	}
	if best := resp.FailureDetails.BestSuggestion(); best == nil || best.Confidence != 0.9 {
		t.Errorf("unexpected best suggestion: %+v", best)
	}
}

func TestLastActionRecorded(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondEnvelope(w, ActionResponse{Success: true})
	}))
	defer done()

	ctx := context.Background()
	if _, err := client.Hover(ctx, "menu-item"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	action, ok := client.LastAction(ctx, "menu-item")
	if !ok {
		t.Fatal("expected a recorded action")
	}
	if action != ActionHover {
		t.Errorf("expected hover, got %q", action)
	}
	if _, ok := client.LastAction(ctx, "never-touched"); ok {
		t.Error("expected no history for untouched element")
	}
}

func TestFind(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ui-bridge/control/discover" {
			http.NotFound(w, r)
			return
		}
		respondEnvelope(w, FindResponse{
			Elements: []DiscoveredElement{{ID: "btn-save", Type: "button", Label: "Save"}},
			Total:    1,
		})
	}))
	defer done()

	resp, err := client.Find(context.Background(), FindRequest{InteractiveOnly: true, Types: []string{"button"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 1 || resp.Elements[0].ID != "btn-save" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestActionHistoryPassesLimit(t *testing.T) {
	var gotLimit string
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		respondEnvelope(w, []map[string]interface{}{{"action": "click"}})
	}))
	defer done()

	entries, err := client.ActionHistory(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != "5" {
		t.Errorf("expected limit=5, got %q", gotLimit)
	}
	if len(entries) != 1 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}
