package bridge

import (
	"context"
	"net/url"

	"github.com/google/uuid"
)

// WorkflowControl is a handle for running one workflow
type WorkflowControl struct {
	client     *Client
	workflowID string
}

// Workflow returns a control handle for the given workflow
func (c *Client) Workflow(workflowID string) *WorkflowControl {
	return &WorkflowControl{client: c, workflowID: workflowID}
}

// Run starts the workflow with the given parameters
func (wc *WorkflowControl) Run(ctx context.Context, params map[string]interface{}) (*WorkflowRun, error) {
	return wc.client.RunWorkflow(ctx, wc.workflowID, RunWorkflowRequest{Params: params})
}

// Workflows returns all registered workflows
func (c *Client) Workflows(ctx context.Context) ([]RegisteredWorkflow, error) {
	var workflows []RegisteredWorkflow
	if err := c.Call(ctx, "GET", "/control/workflows", nil, nil, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

// RunWorkflow starts a workflow run
func (c *Client) RunWorkflow(ctx context.Context, workflowID string, request RunWorkflowRequest) (*WorkflowRun, error) {
	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}

	c.logger.Debug("Running workflow", map[string]interface{}{
		"operation":   "workflow_run",
		"workflow_id": workflowID,
		"request_id":  request.RequestID,
	})

	var run WorkflowRun
	if err := c.Call(ctx, "POST", "/control/workflow/"+url.PathEscape(workflowID)+"/run", request, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// WorkflowStatus returns the status of a workflow run
func (c *Client) WorkflowStatus(ctx context.Context, runID string) (*WorkflowRun, error) {
	var run WorkflowRun
	if err := c.Call(ctx, "GET", "/control/workflow/"+url.PathEscape(runID)+"/status", nil, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}
