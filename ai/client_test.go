package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uibridge/uibridge-go/bridge"
	"github.com/uibridge/uibridge-go/core"
)

func TestExecuteLogicalFailureReturnsOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != executePath {
			http.NotFound(w, r)
			return
		}
		writeEnvelope(w, ActionOutcome{
			Success: false,
			Error:   "element not enabled",
			FailureInfo: &FailureInfo{
				ErrorCode:        bridge.CodeElementNotEnabled,
				Message:          "element not enabled",
				RetryRecommended: true,
				SuggestedActions: []bridge.RecoveryAction{
					{Suggestion: "wait for the overlay to close", Confidence: 0.8},
				},
			},
		})
	}))
	defer srv.Close()
	b, err := bridge.New(core.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("failed to create bridge client: %v", err)
	}
	client := NewClient(b)

	outcome, err := client.Execute(context.Background(), `click "Save"`, nil)
	if err != nil {
		t.Fatalf("logical failure must not be an error: %v", err)
	}
	if outcome.Success {
		t.Error("expected failed outcome")
	}
	if outcome.FailureInfo == nil {
		t.Fatal("expected failure info")
	}
	if outcome.FailureInfo.ErrorCode != bridge.CodeElementNotEnabled {
		t.Errorf("unexpected error code %q", outcome.FailureInfo.ErrorCode)
	}
	if !outcome.FailureInfo.RetryRecommended {
		t.Error("expected retryRecommended true")
	}
	if len(outcome.FailureInfo.SuggestedActions) != 1 {
		t.Errorf("expected one suggested action, got %d", len(outcome.FailureInfo.SuggestedActions))
	}
}

func TestExecuteSendsOptions(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeEnvelope(w, ActionOutcome{Success: true})
	}))
	defer srv.Close()
	b, err := bridge.New(core.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("failed to create bridge client: %v", err)
	}
	client := NewClient(b)

	_, err = client.Execute(context.Background(), `click "Save"`, &ExecuteOptions{
		Context:             "settings panel",
		Timeout:             5000,
		ConfidenceThreshold: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["instruction"] != `click "Save"` {
		t.Errorf("unexpected instruction %v", got["instruction"])
	}
	if got["context"] != "settings panel" {
		t.Errorf("unexpected context %v", got["context"])
	}
	if got["timeout"] != float64(5000) {
		t.Errorf("unexpected timeout %v", got["timeout"])
	}
	if got["confidenceThreshold"] != 0.7 {
		t.Errorf("unexpected threshold %v", got["confidenceThreshold"])
	}
}

func TestSearchAndFind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ui-bridge/ai/search" {
			http.NotFound(w, r)
			return
		}
		best := SearchResult{
			Element:    Element{ID: "btn-save", Description: "Save button", Role: "button"},
			Confidence: 0.92,
		}
		writeEnvelope(w, SearchResponse{
			Results:      []SearchResult{best},
			BestMatch:    &best,
			ScannedCount: 40,
		})
	}))
	defer srv.Close()
	b, err := bridge.New(core.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("failed to create bridge client: %v", err)
	}
	client := NewClient(b)

	el, err := client.Find(context.Background(), "the save button")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if el == nil || el.ID != "btn-save" {
		t.Errorf("unexpected element: %+v", el)
	}

	elements, err := client.FindByRole(context.Background(), "button")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 1 || elements[0].Role != "button" {
		t.Errorf("unexpected elements: %+v", elements)
	}
}

func TestTargetMarshalJSON(t *testing.T) {
	desc, err := json.Marshal(ByDescription("the save button"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(desc) != `"the save button"` {
		t.Errorf("description target serialized as %s", desc)
	}

	crit, err := json.Marshal(ByCriteria(SearchCriteria{Role: "button", Fuzzy: true}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(crit, &decoded); err != nil {
		t.Fatalf("criteria target is not an object: %s", crit)
	}
	if decoded["role"] != "button" {
		t.Errorf("criteria target serialized as %s", crit)
	}

	var roundTrip Target
	if err := json.Unmarshal(desc, &roundTrip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roundTrip.Description() != "the save button" {
		t.Errorf("round trip lost the description: %+v", roundTrip)
	}
	if err := json.Unmarshal(crit, &roundTrip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roundTrip.Criteria() == nil || roundTrip.Criteria().Role != "button" {
		t.Errorf("round trip lost the criteria: %+v", roundTrip)
	}
}

func TestAssertHelpers(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ui-bridge/ai/assert" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeEnvelope(w, AssertionResult{Passed: true, Type: AssertHasTextType})
	}))
	defer srv.Close()
	b, err := bridge.New(core.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("failed to create bridge client: %v", err)
	}
	client := NewClient(b)

	result, err := client.AssertHasText(context.Background(), ByDescription("the banner"), "Welcome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Passed {
		t.Error("expected passing assertion")
	}
	if got["target"] != "the banner" {
		t.Errorf("unexpected target %v", got["target"])
	}
	if got["type"] != "hasText" {
		t.Errorf("unexpected type %v", got["type"])
	}
	if got["expected"] != "Welcome" {
		t.Errorf("unexpected expected %v", got["expected"])
	}
}

func TestSnapshotThenDiffUsesStoredTimestamp(t *testing.T) {
	var diffSince float64 = -1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ui-bridge/ai/snapshot":
			writeEnvelope(w, Snapshot{SnapshotID: "snap-1", Timestamp: 1724900000000})
		case "/ui-bridge/ai/diff":
			var req map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&req)
			diffSince, _ = req["since"].(float64)
			writeEnvelope(w, Diff{Since: int64(diffSince), HasChanges: false})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	b, err := bridge.New(core.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("failed to create bridge client: %v", err)
	}
	client := NewClient(b)

	snap, err := client.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.SnapshotID != "snap-1" {
		t.Errorf("unexpected snapshot id %q", snap.SnapshotID)
	}

	if _, err := client.Diff(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diffSince != 1724900000000 {
		t.Errorf("diff did not default to the stored snapshot timestamp, got %v", diffSince)
	}
}
