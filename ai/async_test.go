package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uibridge/uibridge-go/bridge"
	"github.com/uibridge/uibridge-go/core"
)

func TestRecoveryTaskCancel(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and can
		// observe the client disconnect; r.Context() never fires otherwise.
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		// Hold the request open until the client gives up.
		<-r.Context().Done()
	}))
	defer srv.Close()

	b, err := bridge.New(core.WithBaseURL(srv.URL))
	require.NoError(t, err)
	client := NewClient(b)

	task := client.ExecuteWithRecoveryAsync(context.Background(), `click "Submit"`, nil)
	<-started
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled task did not finish")
	}

	summary, err := task.Result()
	require.Error(t, err)
	require.Nil(t, summary)
}

func TestRecoveryTaskResultBlocksUntilDone(t *testing.T) {
	script := &recoveryScript{
		executeOutcomes: []ActionOutcome{{Success: true, ExecutedAction: "click"}},
	}
	client, done := newScriptedClient(t, script)
	defer done()

	task := client.ExecuteWithRecoveryAsync(context.Background(), `click "Submit"`, nil)
	summary, err := task.Result()
	require.NoError(t, err)
	require.True(t, summary.Success)
	require.Equal(t, 1, summary.Attempts)
}
