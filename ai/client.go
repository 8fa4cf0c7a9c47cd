// Package ai is the natural-language surface of the UI Bridge client.
// Instructions like `click "Submit"` are resolved server-side against a
// semantic element index; this package adds search, assertions, page
// snapshots, and a recovery loop that retries failed actions with
// server-suggested alternatives.
package ai

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/uibridge/uibridge-go/bridge"
	"github.com/uibridge/uibridge-go/core"
)

const (
	lastSnapshotKey = "snapshot:last"
	snapshotTTL     = time.Hour
)

// Client executes natural-language operations over an established bridge
// connection. It shares the bridge client's transport, logger, telemetry,
// and memory store.
type Client struct {
	bridge    *bridge.Client
	logger    core.Logger
	telemetry core.Telemetry
	memory    core.Memory

	maxRetries      int
	recoveryEnabled bool
}

// NewClient wraps a bridge client with the natural-language surface.
func NewClient(b *bridge.Client) *Client {
	cfg := b.Config()
	return &Client{
		bridge:          b,
		logger:          b.Logger(),
		telemetry:       b.Telemetry(),
		memory:          b.Memory(),
		maxRetries:      cfg.MaxRetries,
		recoveryEnabled: cfg.RecoveryEnabled,
	}
}

// ExecuteOptions tune a single natural-language action.
type ExecuteOptions struct {
	// Context is extra hint text for element resolution, such as the
	// region of the page the instruction refers to.
	Context string
	// Timeout in milliseconds for the server-side action, 0 for the
	// server default.
	Timeout int
	// ConfidenceThreshold rejects resolutions scored below it, 0 for
	// the server default.
	ConfidenceThreshold float64
}

type executeRequest struct {
	Instruction         string  `json:"instruction"`
	Context             string  `json:"context,omitempty"`
	Timeout             int     `json:"timeout,omitempty"`
	ConfidenceThreshold float64 `json:"confidenceThreshold,omitempty"`
}

// Execute runs one natural-language instruction. A transport or protocol
// failure returns an error; an action the server executed but that failed
// logically returns a non-nil outcome with Success false and no error.
func (c *Client) Execute(ctx context.Context, instruction string, opts *ExecuteOptions) (*ActionOutcome, error) {
	req := executeRequest{Instruction: instruction}
	if opts != nil {
		req.Context = opts.Context
		req.Timeout = opts.Timeout
		req.ConfidenceThreshold = opts.ConfidenceThreshold
	}

	c.logger.Debug("Executing instruction", map[string]interface{}{
		"instruction": instruction,
	})

	var outcome ActionOutcome
	if err := c.bridge.Call(ctx, "POST", "/ai/execute", req, nil, &outcome); err != nil {
		return nil, err
	}

	if !outcome.Success {
		fields := map[string]interface{}{
			"instruction": instruction,
			"error":       outcome.Error,
		}
		if outcome.FailureInfo != nil {
			fields["error_code"] = string(outcome.FailureInfo.ErrorCode)
			fields["retry_recommended"] = outcome.FailureInfo.RetryRecommended
		}
		c.logger.Warn("Instruction failed", fields)
	}
	return &outcome, nil
}

// Click clicks the element matching the description.
func (c *Client) Click(ctx context.Context, description string) (*ActionOutcome, error) {
	return c.Execute(ctx, fmt.Sprintf("click %q", description), nil)
}

// TypeText types text into the element matching the description.
func (c *Client) TypeText(ctx context.Context, description, text string) (*ActionOutcome, error) {
	return c.Execute(ctx, fmt.Sprintf("type %q in %q", text, description), nil)
}

// SelectOption selects an option in the element matching the description.
func (c *Client) SelectOption(ctx context.Context, description, option string) (*ActionOutcome, error) {
	return c.Execute(ctx, fmt.Sprintf("select %q in %q", option, description), nil)
}

// Search runs a semantic element search and returns ranked candidates.
func (c *Client) Search(ctx context.Context, criteria SearchCriteria) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.bridge.Call(ctx, "POST", "/ai/search", criteria, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Find returns the best element for a natural-language description, or
// nil when nothing matched.
func (c *Client) Find(ctx context.Context, description string) (*Element, error) {
	resp, err := c.Search(ctx, SearchCriteria{Description: description, Fuzzy: true, Limit: 1})
	if err != nil {
		return nil, err
	}
	if resp.BestMatch == nil {
		return nil, nil
	}
	el := resp.BestMatch.Element
	return &el, nil
}

// FindByText returns the best element whose text matches, or nil.
func (c *Client) FindByText(ctx context.Context, text string) (*Element, error) {
	resp, err := c.Search(ctx, SearchCriteria{Text: text, Fuzzy: true, Limit: 1})
	if err != nil {
		return nil, err
	}
	if resp.BestMatch == nil {
		return nil, nil
	}
	el := resp.BestMatch.Element
	return &el, nil
}

// FindByRole returns all elements with the given ARIA role.
func (c *Client) FindByRole(ctx context.Context, role string) ([]Element, error) {
	resp, err := c.Search(ctx, SearchCriteria{Role: role})
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(resp.Results))
	for _, r := range resp.Results {
		elements = append(elements, r.Element)
	}
	return elements, nil
}

// Assert verifies a single condition against a target element.
func (c *Client) Assert(ctx context.Context, assertion Assertion) (*AssertionResult, error) {
	var result AssertionResult
	if err := c.bridge.Call(ctx, "POST", "/ai/assert", assertion, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type batchAssertRequest struct {
	Assertions []Assertion `json:"assertions"`
	StopOnFail bool        `json:"stopOnFail,omitempty"`
}

// AssertBatch verifies several conditions in one round trip. With
// stopOnFail the server stops at the first failing assertion.
func (c *Client) AssertBatch(ctx context.Context, assertions []Assertion, stopOnFail bool) (*BatchAssertionResult, error) {
	req := batchAssertRequest{Assertions: assertions, StopOnFail: stopOnFail}
	var result BatchAssertionResult
	if err := c.bridge.Call(ctx, "POST", "/ai/assert/batch", req, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) assertType(ctx context.Context, target Target, t AssertionType, expected interface{}) (*AssertionResult, error) {
	return c.Assert(ctx, Assertion{Target: target, Type: t, Expected: expected})
}

// AssertVisible asserts the target element is visible.
func (c *Client) AssertVisible(ctx context.Context, target Target) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertVisibleType, nil)
}

// AssertHidden asserts the target element is hidden.
func (c *Client) AssertHidden(ctx context.Context, target Target) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertHiddenType, nil)
}

// AssertEnabled asserts the target element is enabled.
func (c *Client) AssertEnabled(ctx context.Context, target Target) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertEnabledType, nil)
}

// AssertDisabled asserts the target element is disabled.
func (c *Client) AssertDisabled(ctx context.Context, target Target) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertDisabledType, nil)
}

// AssertHasText asserts the target element's text equals expected.
func (c *Client) AssertHasText(ctx context.Context, target Target, expected string) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertHasTextType, expected)
}

// AssertContainsText asserts the target element's text contains expected.
func (c *Client) AssertContainsText(ctx context.Context, target Target, expected string) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertContainsTextType, expected)
}

// AssertHasValue asserts the target input's value equals expected.
func (c *Client) AssertHasValue(ctx context.Context, target Target, expected string) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertHasValueType, expected)
}

// AssertChecked asserts the target checkbox or toggle is checked.
func (c *Client) AssertChecked(ctx context.Context, target Target) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertCheckedType, nil)
}

// AssertUnchecked asserts the target checkbox or toggle is unchecked.
func (c *Client) AssertUnchecked(ctx context.Context, target Target) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertUncheckedType, nil)
}

// AssertExists asserts an element matching the target exists.
func (c *Client) AssertExists(ctx context.Context, target Target) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertExistsType, nil)
}

// AssertNotExists asserts no element matching the target exists.
func (c *Client) AssertNotExists(ctx context.Context, target Target) (*AssertionResult, error) {
	return c.assertType(ctx, target, AssertNotExistsType, nil)
}

// Snapshot captures the current semantic page state. The snapshot
// timestamp is remembered so a later Diff can default to it.
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.bridge.Call(ctx, "GET", "/ai/snapshot", nil, nil, &snap); err != nil {
		return nil, err
	}
	if err := c.memory.Set(ctx, lastSnapshotKey, strconv.FormatInt(snap.Timestamp, 10), snapshotTTL); err != nil {
		c.logger.Warn("Failed to store snapshot timestamp", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return &snap, nil
}

// Diff reports page changes since the given unix-millisecond timestamp.
// With since 0 it diffs against the last Snapshot taken by this client.
func (c *Client) Diff(ctx context.Context, since int64) (*Diff, error) {
	if since == 0 {
		stored, err := c.memory.Get(ctx, lastSnapshotKey)
		if err == nil && stored != "" {
			if ts, perr := strconv.ParseInt(stored, 10, 64); perr == nil {
				since = ts
			}
		}
	}
	req := struct {
		Since int64 `json:"since"`
	}{Since: since}
	var diff Diff
	if err := c.bridge.Call(ctx, "POST", "/ai/diff", req, nil, &diff); err != nil {
		return nil, err
	}
	return &diff, nil
}

// Summary returns the server's natural-language description of the
// current page.
func (c *Client) Summary(ctx context.Context) (string, error) {
	var summary string
	if err := c.bridge.Call(ctx, "GET", "/ai/summary", nil, nil, &summary); err != nil {
		return "", err
	}
	return summary, nil
}
