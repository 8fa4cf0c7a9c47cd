package ai

import (
	"context"
	"sync"
)

// RecoveryTask is a handle to a recovery-enabled execution running in the
// background. Result blocks until the run finishes; Done exposes the same
// completion for select loops.
type RecoveryTask struct {
	done   chan struct{}
	cancel context.CancelFunc

	mu      sync.Mutex
	summary *RecoverySummary
	err     error
}

// ExecuteWithRecoveryAsync starts ExecuteWithRecovery in a goroutine and
// returns immediately. Cancel on the task or the parent context stops the
// run between attempts.
func (c *Client) ExecuteWithRecoveryAsync(ctx context.Context, instruction string, opts *RecoveryOptions) *RecoveryTask {
	ctx, cancel := context.WithCancel(ctx)
	task := &RecoveryTask{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(task.done)
		defer cancel()
		summary, err := c.ExecuteWithRecovery(ctx, instruction, opts)
		task.mu.Lock()
		task.summary = summary
		task.err = err
		task.mu.Unlock()
	}()
	return task
}

// Done is closed when the run finishes.
func (t *RecoveryTask) Done() <-chan struct{} {
	return t.done
}

// Result waits for completion and returns the summary and error.
func (t *RecoveryTask) Result() (*RecoverySummary, error) {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary, t.err
}

// Cancel aborts the run. A cancelled run reports the context error from
// its in-flight request.
func (t *RecoveryTask) Cancel() {
	t.cancel()
}
