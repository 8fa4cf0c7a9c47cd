package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestNavigateSendsTargetStates(t *testing.T) {
	var got map[string]interface{}
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ui-bridge/control/states/navigate" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		respondEnvelope(w, NavigationResult{
			Success:             true,
			Path:                PathResult{Found: true, Transitions: []string{"open-settings"}},
			ExecutedTransitions: []string{"open-settings"},
			FinalActiveStates:   []string{"settings-open"},
		})
	}))
	defer done()

	result, err := client.Navigate(context.Background(), []string{"settings-open"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || len(result.ExecutedTransitions) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	targets, ok := got["targetStates"].([]interface{})
	if !ok || len(targets) != 1 || targets[0] != "settings-open" {
		t.Errorf("unexpected request body: %v", got)
	}
}

func TestActivateState(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ui-bridge/control/state/modal-open/activate" {
			http.NotFound(w, r)
			return
		}
		respondEnvelope(w, TransitionResult{
			Success:         true,
			ActivatedStates: []string{"modal-open"},
		})
	}))
	defer done()

	result, err := client.ActivateState(context.Background(), "modal-open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.ActivatedStates[0] != "modal-open" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestIsStateActive(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondEnvelope(w, []string{"sidebar-open", "dark-mode"})
	}))
	defer done()

	active, err := client.IsStateActive(context.Background(), "dark-mode")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !active {
		t.Error("expected dark-mode active")
	}
	active, err = client.IsStateActive(context.Background(), "modal-open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active {
		t.Error("expected modal-open inactive")
	}
}

func TestRunWorkflowGeneratesRequestID(t *testing.T) {
	var got RunWorkflowRequest
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ui-bridge/control/workflow/checkout/run":
			_ = json.NewDecoder(r.Body).Decode(&got)
			respondEnvelope(w, WorkflowRun{
				WorkflowID: "checkout",
				RunID:      "run-1",
				Status:     WorkflowRunning,
				TotalSteps: 3,
			})
		case "/ui-bridge/control/workflow/run-1/status":
			respondEnvelope(w, WorkflowRun{
				WorkflowID: "checkout",
				RunID:      "run-1",
				Status:     WorkflowCompleted,
				TotalSteps: 3,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer done()

	run, err := client.RunWorkflow(context.Background(), "checkout", RunWorkflowRequest{
		Params: map[string]interface{}{"coupon": "SAVE10"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.RunID != "run-1" || run.Status != WorkflowRunning {
		t.Errorf("unexpected run: %+v", run)
	}
	if got.RequestID == "" {
		t.Error("expected a generated request id")
	}
	if got.Params["coupon"] != "SAVE10" {
		t.Errorf("unexpected params: %v", got.Params)
	}

	status, err := client.WorkflowStatus(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != WorkflowCompleted {
		t.Errorf("unexpected status: %+v", status)
	}
}
