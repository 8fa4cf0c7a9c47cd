package bridge

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/uibridge/uibridge-go/core"
)

// ComponentControl is a handle for executing actions on one component
type ComponentControl struct {
	client      *Client
	componentID string
}

// Component returns a control handle for the given component
func (c *Client) Component(componentID string) *ComponentControl {
	return &ComponentControl{client: c, componentID: componentID}
}

// Action executes a named action on the component
func (cc *ComponentControl) Action(ctx context.Context, action string, params map[string]interface{}) (*ComponentActionResponse, error) {
	return cc.client.ExecuteComponentAction(ctx, cc.componentID, action, params)
}

// ComponentDetails returns raw component details
func (c *Client) ComponentDetails(ctx context.Context, componentID string) (map[string]interface{}, error) {
	var details map[string]interface{}
	if err := c.Call(ctx, "GET", "/control/component/"+url.PathEscape(componentID), nil, nil, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// Components returns all registered components
func (c *Client) Components(ctx context.Context) ([]map[string]interface{}, error) {
	var components []map[string]interface{}
	if err := c.Call(ctx, "GET", "/control/components", nil, nil, &components); err != nil {
		return nil, err
	}
	return components, nil
}

// ExecuteComponentAction executes a named action on a component. Like
// element actions, a logical failure returns the response alongside an
// error wrapping core.ErrActionFailed.
func (c *Client) ExecuteComponentAction(ctx context.Context, componentID, action string, params map[string]interface{}) (*ComponentActionResponse, error) {
	request := map[string]interface{}{
		"action":    action,
		"requestId": uuid.NewString(),
	}
	if len(params) > 0 {
		request["params"] = params
	}

	path := "/control/component/" + url.PathEscape(componentID) + "/action/" + url.PathEscape(action)

	var response ComponentActionResponse
	if err := c.Call(ctx, "POST", path, request, nil, &response); err != nil {
		return nil, err
	}

	if !response.Success {
		message := response.Error
		if message == "" {
			message = "component action failed"
		}
		return &response, &core.BridgeError{
			Op:      "bridge.ComponentAction",
			Kind:    "action",
			Message: message,
			Err:     fmt.Errorf("%s: %w", message, core.ErrActionFailed),
		}
	}

	return &response, nil
}
