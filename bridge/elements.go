package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/uibridge/uibridge-go/core"
)

// ActionOptions controls waiting behavior for element actions
type ActionOptions struct {
	WaitVisible bool
	WaitEnabled bool
	Timeout     int // milliseconds, zero means server default
}

// DefaultActionOptions waits for the element to be visible and enabled,
// matching the server's interactive-action defaults.
func DefaultActionOptions() *ActionOptions {
	return &ActionOptions{WaitVisible: true, WaitEnabled: true}
}

// historyTTL bounds how long per-element action bookkeeping is kept
const historyTTL = 10 * time.Minute

// historyEntry is what the client remembers about the last action it ran
// against an element
type historyEntry struct {
	Action    string `json:"action"`
	RequestID string `json:"requestId"`
	Success   bool   `json:"success"`
	Timestamp int64  `json:"timestamp"`
}

// Click clicks an element
func (c *Client) Click(ctx context.Context, elementID string, opts *ActionOptions) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionClick, nil, opts)
}

// DoubleClick double-clicks an element
func (c *Client) DoubleClick(ctx context.Context, elementID string, opts *ActionOptions) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionDoubleClick, nil, opts)
}

// RightClick right-clicks an element
func (c *Client) RightClick(ctx context.Context, elementID string, opts *ActionOptions) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionRightClick, nil, opts)
}

// TypeOptions configures Type beyond the text itself
type TypeOptions struct {
	Clear bool // clear the existing value first
	Delay int  // delay between keystrokes in milliseconds
}

// Type types text into an input element
func (c *Client) Type(ctx context.Context, elementID, text string, typeOpts *TypeOptions, opts *ActionOptions) (*ActionResponse, error) {
	params := map[string]interface{}{"text": text}
	if typeOpts != nil {
		if typeOpts.Clear {
			params["clear"] = true
		}
		if typeOpts.Delay > 0 {
			params["delay"] = typeOpts.Delay
		}
	}
	return c.ExecuteAction(ctx, elementID, ActionType, params, opts)
}

// Clear clears an input element
func (c *Client) Clear(ctx context.Context, elementID string, opts *ActionOptions) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionClear, nil, opts)
}

// Select selects one or more options in a select element. With byLabel the
// values are matched against visible labels instead of option values.
func (c *Client) Select(ctx context.Context, elementID string, values []string, byLabel bool, opts *ActionOptions) (*ActionResponse, error) {
	params := map[string]interface{}{"value": values}
	if byLabel {
		params["byLabel"] = true
	}
	return c.ExecuteAction(ctx, elementID, ActionSelect, params, opts)
}

// Focus focuses an element
func (c *Client) Focus(ctx context.Context, elementID string) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionFocus, nil, nil)
}

// Blur removes focus from an element
func (c *Client) Blur(ctx context.Context, elementID string) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionBlur, nil, nil)
}

// Hover hovers over an element
func (c *Client) Hover(ctx context.Context, elementID string) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionHover, nil, nil)
}

// ScrollOptions configures Scroll
type ScrollOptions struct {
	Direction string // up, down, left, right
	Amount    int    // pixels
	ToElement string // scroll until this element is in view
	Smooth    bool
}

// Scroll scrolls within an element
func (c *Client) Scroll(ctx context.Context, elementID string, scrollOpts *ScrollOptions) (*ActionResponse, error) {
	params := map[string]interface{}{}
	if scrollOpts != nil {
		if scrollOpts.Direction != "" {
			params["direction"] = scrollOpts.Direction
		}
		if scrollOpts.Amount != 0 {
			params["amount"] = scrollOpts.Amount
		}
		if scrollOpts.ToElement != "" {
			params["toElement"] = scrollOpts.ToElement
		}
		if scrollOpts.Smooth {
			params["smooth"] = true
		}
	}
	return c.ExecuteAction(ctx, elementID, ActionScroll, params, nil)
}

// Check checks a checkbox
func (c *Client) Check(ctx context.Context, elementID string) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionCheck, nil, nil)
}

// Uncheck unchecks a checkbox
func (c *Client) Uncheck(ctx context.Context, elementID string) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionUncheck, nil, nil)
}

// Toggle toggles a checkbox
func (c *Client) Toggle(ctx context.Context, elementID string) (*ActionResponse, error) {
	return c.ExecuteAction(ctx, elementID, ActionToggle, nil, nil)
}

// ExecuteAction executes a named action on an element. On a logical failure
// the response is returned alongside an error wrapping core.ErrActionFailed
// so callers can inspect FailureDetails while still using the error path.
func (c *Client) ExecuteAction(ctx context.Context, elementID, action string, params map[string]interface{}, opts *ActionOptions) (*ActionResponse, error) {
	request := ActionRequest{
		Action:    action,
		Params:    params,
		RequestID: uuid.NewString(),
	}

	if opts != nil {
		wait := WaitOptions{
			Visible: opts.WaitVisible,
			Enabled: opts.WaitEnabled,
			Timeout: opts.Timeout,
		}
		if wait != (WaitOptions{}) {
			request.WaitOptions = &wait
		}
	}

	c.logger.Debug("Executing element action", map[string]interface{}{
		"operation":  "element_action",
		"element_id": elementID,
		"action":     action,
		"request_id": request.RequestID,
	})

	var response ActionResponse
	err := c.Call(ctx, "POST", "/control/element/"+url.PathEscape(elementID)+"/action", request, nil, &response)
	if err != nil {
		return nil, err
	}

	c.recordAction(ctx, elementID, action, request.RequestID, response.Success)

	if !response.Success {
		message := response.Error
		if message == "" {
			message = "action failed"
		}
		c.logger.Warn("Element action failed", map[string]interface{}{
			"operation":  "element_action",
			"element_id": elementID,
			"action":     action,
			"error":      message,
		})
		return &response, &core.BridgeError{
			Op:      "bridge." + action,
			Kind:    "action",
			Message: message,
			Err:     fmt.Errorf("%s: %w", message, core.ErrActionFailed),
		}
	}

	return &response, nil
}

// recordAction remembers the most recent action per element in the
// client-side store. Failures here are logged, never surfaced: bookkeeping
// must not break the action path.
func (c *Client) recordAction(ctx context.Context, elementID, action, requestID string, success bool) {
	entry := historyEntry{
		Action:    action,
		RequestID: requestID,
		Success:   success,
		Timestamp: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.memory.Set(ctx, "lastaction:"+elementID, string(data), historyTTL); err != nil {
		c.logger.Debug("Failed to record action history", map[string]interface{}{
			"operation":  "history_record",
			"element_id": elementID,
			"error":      err.Error(),
		})
	}
}

// LastAction returns the most recent action the client executed against an
// element, or false when nothing is recorded.
func (c *Client) LastAction(ctx context.Context, elementID string) (action string, ok bool) {
	raw, err := c.memory.Get(ctx, "lastaction:"+elementID)
	if err != nil || raw == "" {
		return "", false
	}
	var entry historyEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", false
	}
	return entry.Action, true
}

// Element returns raw element details
func (c *Client) Element(ctx context.Context, elementID string) (map[string]interface{}, error) {
	var details map[string]interface{}
	if err := c.Call(ctx, "GET", "/control/element/"+url.PathEscape(elementID), nil, nil, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// ElementState returns the current state of an element
func (c *Client) ElementState(ctx context.Context, elementID string) (*ElementState, error) {
	var state ElementState
	if err := c.Call(ctx, "GET", "/control/element/"+url.PathEscape(elementID)+"/state", nil, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Elements returns all registered elements
func (c *Client) Elements(ctx context.Context) ([]map[string]interface{}, error) {
	var elements []map[string]interface{}
	if err := c.Call(ctx, "GET", "/control/elements", nil, nil, &elements); err != nil {
		return nil, err
	}
	return elements, nil
}

// Find discovers controllable elements matching the request
func (c *Client) Find(ctx context.Context, request FindRequest) (*FindResponse, error) {
	var response FindResponse
	if err := c.Call(ctx, "POST", "/control/discover", request, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Snapshot returns the full control snapshot
func (c *Client) Snapshot(ctx context.Context) (*ControlSnapshot, error) {
	var snapshot ControlSnapshot
	if err := c.Call(ctx, "GET", "/control/snapshot", nil, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ActionHistory returns recent server-side action history entries
func (c *Client) ActionHistory(ctx context.Context, limit int) ([]map[string]interface{}, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}
	var history []map[string]interface{}
	if err := c.Call(ctx, "GET", "/debug/action-history", nil, query, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Metrics returns server-side performance metrics
func (c *Client) Metrics(ctx context.Context) (*PerformanceMetrics, error) {
	var metrics PerformanceMetrics
	if err := c.Call(ctx, "GET", "/debug/metrics", nil, nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// HighlightElement visually highlights an element for debugging
func (c *Client) HighlightElement(ctx context.Context, elementID string) error {
	return c.Call(ctx, "POST", "/debug/highlight/"+url.PathEscape(elementID), nil, nil, nil)
}
