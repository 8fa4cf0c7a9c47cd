package uibridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uibridge/uibridge-go/core"
)

func TestConnectAndExecute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok"})
		case "/ui-bridge/ai/execute":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"success": true, "executedAction": "click"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	session, err := Connect(core.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		_ = session.Close()
	}()

	if !session.Bridge.IsConnected(context.Background()) {
		t.Error("expected connected session")
	}

	outcome, err := session.AI.Execute(context.Background(), `click "Save"`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success || outcome.ExecutedAction != "click" {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
}
