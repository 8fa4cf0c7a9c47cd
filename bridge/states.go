package bridge

import (
	"context"
	"net/url"
)

// UI state machine operations. The server models the UI as named states
// with transitions between them; the client can activate states directly
// or ask the server to find and execute a transition path.

// States returns all registered UI states
func (c *Client) States(ctx context.Context) ([]UIState, error) {
	var states []UIState
	if err := c.Call(ctx, "GET", "/control/states", nil, nil, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// State returns one UI state by ID
func (c *Client) State(ctx context.Context, stateID string) (*UIState, error) {
	var state UIState
	if err := c.Call(ctx, "GET", "/control/state/"+url.PathEscape(stateID), nil, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ActiveStates returns the IDs of the currently active states
func (c *Client) ActiveStates(ctx context.Context) ([]string, error) {
	var active []string
	if err := c.Call(ctx, "GET", "/control/states/active", nil, nil, &active); err != nil {
		return nil, err
	}
	return active, nil
}

// IsStateActive reports whether a state is currently active
func (c *Client) IsStateActive(ctx context.Context, stateID string) (bool, error) {
	active, err := c.ActiveStates(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range active {
		if id == stateID {
			return true, nil
		}
	}
	return false, nil
}

// ActivateState activates a state directly
func (c *Client) ActivateState(ctx context.Context, stateID string) (*TransitionResult, error) {
	var result TransitionResult
	if err := c.Call(ctx, "POST", "/control/state/"+url.PathEscape(stateID)+"/activate", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeactivateState deactivates a state directly
func (c *Client) DeactivateState(ctx context.Context, stateID string) (*TransitionResult, error) {
	var result TransitionResult
	if err := c.Call(ctx, "POST", "/control/state/"+url.PathEscape(stateID)+"/deactivate", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StateGroups returns all registered state groups
func (c *Client) StateGroups(ctx context.Context) ([]UIStateGroup, error) {
	var groups []UIStateGroup
	if err := c.Call(ctx, "GET", "/control/state-groups", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ActivateStateGroup activates all states in a group atomically and
// returns the resulting active state IDs
func (c *Client) ActivateStateGroup(ctx context.Context, groupID string) ([]string, error) {
	var active []string
	if err := c.Call(ctx, "POST", "/control/state-group/"+url.PathEscape(groupID)+"/activate", nil, nil, &active); err != nil {
		return nil, err
	}
	return active, nil
}

// DeactivateStateGroup deactivates all states in a group atomically and
// returns the resulting active state IDs
func (c *Client) DeactivateStateGroup(ctx context.Context, groupID string) ([]string, error) {
	var active []string
	if err := c.Call(ctx, "POST", "/control/state-group/"+url.PathEscape(groupID)+"/deactivate", nil, nil, &active); err != nil {
		return nil, err
	}
	return active, nil
}

// FindPath asks the server for a transition path reaching the target states
// without executing it
func (c *Client) FindPath(ctx context.Context, targetStates []string) (*PathResult, error) {
	body := map[string]interface{}{"targetStates": targetStates}
	var result PathResult
	if err := c.Call(ctx, "POST", "/control/states/find-path", body, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Navigate finds and executes a transition path to the target states
func (c *Client) Navigate(ctx context.Context, targetStates []string) (*NavigationResult, error) {
	body := map[string]interface{}{"targetStates": targetStates}
	var result NavigationResult
	if err := c.Call(ctx, "POST", "/control/states/navigate", body, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StateSnapshot returns the full state-machine snapshot
func (c *Client) StateSnapshot(ctx context.Context) (*StateSnapshot, error) {
	var snapshot StateSnapshot
	if err := c.Call(ctx, "GET", "/control/states/snapshot", nil, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
