package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uibridge/uibridge-go/core"
)

// RecoveryOptions tune a recovery-enabled execution. The zero value uses
// the client configuration for retry budget and recovery enablement.
type RecoveryOptions struct {
	// Context is extra hint text passed to every action attempt.
	Context string
	// Timeout in milliseconds per action attempt, 0 for the server default.
	Timeout int
	// ConfidenceThreshold per attempt, 0 for the server default.
	ConfidenceThreshold float64
	// MaxRetries bounds the total number of action attempts, not just the
	// retries after the first. 0 uses the client configuration.
	MaxRetries int
	// RecoveryEnabled overrides the client configuration when non-nil.
	// With recovery disabled the first failed attempt is final.
	RecoveryEnabled *bool
}

type recoveryRequest struct {
	Failure     *FailureInfo `json:"failure"`
	Instruction string       `json:"instruction"`
	ElementID   string       `json:"elementId,omitempty"`
	MaxRetries  int          `json:"maxRetries"`
}

// ExecuteWithRecovery runs a natural-language instruction with bounded
// retry. Each failed attempt whose failure is marked retryable is sent to
// the server's recovery endpoint; when the verdict names an alternative
// element, the next attempt targets it with a rewritten instruction. The
// recovery consultation always describes the original instruction so the
// server reasons about the user's intent, not a prior rewrite.
//
// Transport and protocol errors from action attempts abort the loop. A
// recovery consultation that fails in transit is treated as "no verdict"
// and ends the loop with the last action outcome; a consultation that
// returns an undecodable body is an error, since a malformed verdict could
// otherwise silently disable recovery.
func (c *Client) ExecuteWithRecovery(ctx context.Context, instruction string, opts *RecoveryOptions) (*RecoverySummary, error) {
	maxRetries := c.maxRetries
	recoveryEnabled := c.recoveryEnabled
	execOpts := &ExecuteOptions{}
	if opts != nil {
		if opts.MaxRetries > 0 {
			maxRetries = opts.MaxRetries
		}
		if opts.RecoveryEnabled != nil {
			recoveryEnabled = *opts.RecoveryEnabled
		}
		execOpts.Context = opts.Context
		execOpts.Timeout = opts.Timeout
		execOpts.ConfidenceThreshold = opts.ConfidenceThreshold
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	ctx, span := c.telemetry.StartSpan(ctx, "ai.execute_with_recovery")
	defer span.End()
	span.SetAttribute("instruction", instruction)
	span.SetAttribute("max_retries", maxRetries)

	start := time.Now()
	current := instruction
	attempts := 0
	var last *ActionOutcome
	var verdict *RecoveryVerdict

	for attempts < maxRetries {
		attempts++

		outcome, err := c.Execute(ctx, current, execOpts)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		last = outcome

		if outcome.Success {
			summary := c.successSummary(instruction, current, outcome, verdict, attempts, start)
			c.recordRecoveryMetrics(summary)
			return summary, nil
		}

		if !recoveryEnabled {
			break
		}
		failure := outcome.FailureInfo
		if failure == nil || !failure.RetryRecommended {
			break
		}

		v, err := c.consultRecovery(ctx, failure, instruction, outcome.ElementID(), maxRetries-attempts)
		if err != nil {
			if errors.Is(err, core.ErrInvalidResponse) {
				span.RecordError(err)
				return nil, err
			}
			c.logger.Warn("Recovery consultation failed", map[string]interface{}{
				"instruction": instruction,
				"attempt":     attempts,
				"error":       err.Error(),
			})
			break
		}
		verdict = v

		if !v.Success || !v.ShouldRetry {
			break
		}
		if v.AlternativeElement != nil {
			current = fmt.Sprintf("%s %q", inferActionVerb(instruction), v.AlternativeElement.Description)
			c.logger.Info("Retrying with alternative element", map[string]interface{}{
				"instruction": current,
				"attempt":     attempts,
			})
		}
	}

	summary := c.failureSummary(instruction, current, last, verdict, attempts, start)
	c.recordRecoveryMetrics(summary)
	return summary, nil
}

// ClickWithRecovery clicks the described element with recovery enabled.
func (c *Client) ClickWithRecovery(ctx context.Context, description string) (*RecoverySummary, error) {
	return c.ExecuteWithRecovery(ctx, fmt.Sprintf("click %q", description), nil)
}

// TypeTextWithRecovery types into the described element with recovery
// enabled.
func (c *Client) TypeTextWithRecovery(ctx context.Context, description, text string) (*RecoverySummary, error) {
	return c.ExecuteWithRecovery(ctx, fmt.Sprintf("type %q in %q", text, description), nil)
}

func (c *Client) consultRecovery(ctx context.Context, failure *FailureInfo, instruction, elementID string, remaining int) (*RecoveryVerdict, error) {
	req := recoveryRequest{
		Failure:     failure,
		Instruction: instruction,
		ElementID:   elementID,
		MaxRetries:  remaining,
	}
	var verdict RecoveryVerdict
	if err := c.bridge.Call(ctx, "POST", "/ai/recovery/attempt", req, nil, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (c *Client) successSummary(instruction, final string, outcome *ActionOutcome, verdict *RecoveryVerdict, attempts int, start time.Time) *RecoverySummary {
	return &RecoverySummary{
		Success:           true,
		Attempts:          attempts,
		RecoveryAttempted: attempts > 1,
		FinalOutcome:      outcome,
		Verdict:           verdict,
		Instruction:       instruction,
		FinalInstruction:  final,
		DurationMs:        float64(time.Since(start)) / float64(time.Millisecond),
	}
}

func (c *Client) failureSummary(instruction, final string, outcome *ActionOutcome, verdict *RecoveryVerdict, attempts int, start time.Time) *RecoverySummary {
	summary := &RecoverySummary{
		Attempts:          attempts,
		RecoveryAttempted: verdict != nil,
		FinalOutcome:      outcome,
		Verdict:           verdict,
		Instruction:       instruction,
		FinalInstruction:  final,
		DurationMs:        float64(time.Since(start)) / float64(time.Millisecond),
		Error:             "Unknown error",
	}
	if outcome != nil && outcome.Error != "" {
		summary.Error = outcome.Error
	} else if outcome != nil && outcome.FailureInfo != nil {
		summary.Error = outcome.FailureInfo.Message
	}
	if outcome != nil {
		summary.ErrorCode = outcome.ErrorCode
		if summary.ErrorCode == "" && outcome.FailureInfo != nil {
			summary.ErrorCode = outcome.FailureInfo.ErrorCode
		}
	}
	return summary
}

func (c *Client) recordRecoveryMetrics(s *RecoverySummary) {
	labels := map[string]string{
		"success":            fmt.Sprintf("%t", s.Success),
		"recovery_attempted": fmt.Sprintf("%t", s.RecoveryAttempted),
	}
	c.telemetry.RecordMetric("uibridge.recovery.attempts", float64(s.Attempts), labels)
	c.telemetry.RecordMetric("uibridge.recovery.duration_ms", s.DurationMs, labels)
}

// inferActionVerb picks the verb for a rewritten instruction from the
// original text. The match is a plain substring check, so an instruction
// like `click the "type" column` classifies as a type action.
func inferActionVerb(instruction string) string {
	lower := strings.ToLower(instruction)
	if strings.Contains(lower, "type") || strings.Contains(lower, "enter") {
		return "type"
	}
	if strings.Contains(lower, "select") {
		return "select"
	}
	return "click"
}
