package bridge

// Wire types for the UI Bridge control API. Field names are camelCase on
// the wire; the mapping to Go names lives entirely in the struct tags here
// and is exercised by the decode tests.

// ElementRect is an element bounding rectangle
type ElementRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// ComputedStyles carries the computed styles relevant for automation
type ComputedStyles struct {
	Display       string `json:"display"`
	Visibility    string `json:"visibility"`
	Opacity       string `json:"opacity"`
	PointerEvents string `json:"pointerEvents"`
}

// ElementState is the current state of a UI element
type ElementState struct {
	Visible         bool            `json:"visible"`
	Enabled         bool            `json:"enabled"`
	Focused         bool            `json:"focused"`
	Rect            ElementRect     `json:"rect"`
	Value           string          `json:"value,omitempty"`
	Checked         *bool           `json:"checked,omitempty"`
	SelectedOptions []string        `json:"selectedOptions,omitempty"`
	TextContent     string          `json:"textContent,omitempty"`
	InnerHTML       string          `json:"innerHTML,omitempty"`
	ComputedStyles  *ComputedStyles `json:"computedStyles,omitempty"`
}

// Standard actions available on elements
const (
	ActionClick       = "click"
	ActionDoubleClick = "doubleClick"
	ActionRightClick  = "rightClick"
	ActionType        = "type"
	ActionClear       = "clear"
	ActionSelect      = "select"
	ActionFocus       = "focus"
	ActionBlur        = "blur"
	ActionHover       = "hover"
	ActionScroll      = "scroll"
	ActionCheck       = "check"
	ActionUncheck     = "uncheck"
	ActionToggle      = "toggle"
)

// WaitOptions controls waiting before an action executes
type WaitOptions struct {
	Visible  bool `json:"visible,omitempty"`
	Enabled  bool `json:"enabled,omitempty"`
	Focused  bool `json:"focused,omitempty"`
	Timeout  int  `json:"timeout,omitempty"`  // milliseconds
	Interval int  `json:"interval,omitempty"` // milliseconds
}

// ActionRequest is sent to the control API to execute an element action
type ActionRequest struct {
	Action       string                 `json:"action"`
	Params       map[string]interface{} `json:"params,omitempty"`
	WaitOptions  *WaitOptions           `json:"waitOptions,omitempty"`
	RequestID    string                 `json:"requestId,omitempty"`
	CaptureAfter bool                   `json:"captureAfter,omitempty"`
}

// ErrorCode is a machine-readable error code for action failures
type ErrorCode string

const (
	CodeElementNotFound        ErrorCode = "ELEMENT_NOT_FOUND"
	CodeElementNotVisible      ErrorCode = "ELEMENT_NOT_VISIBLE"
	CodeElementNotEnabled      ErrorCode = "ELEMENT_NOT_ENABLED"
	CodeElementNotInteractable ErrorCode = "ELEMENT_NOT_INTERACTABLE"
	CodeActionTimeout          ErrorCode = "ACTION_TIMEOUT"
	CodeActionRejected         ErrorCode = "ACTION_REJECTED"
	CodeStateNotReached        ErrorCode = "STATE_NOT_REACHED"
	CodeNetworkError           ErrorCode = "NETWORK_ERROR"
	CodeParseError             ErrorCode = "PARSE_ERROR"
	CodeValidationError        ErrorCode = "VALIDATION_ERROR"
	CodeAmbiguousMatch         ErrorCode = "AMBIGUOUS_MATCH"
	CodeLowConfidence          ErrorCode = "LOW_CONFIDENCE"
	CodeOverlayBlocking        ErrorCode = "OVERLAY_BLOCKING"
	CodeUnsupportedAction      ErrorCode = "UNSUPPORTED_ACTION"
	CodeUnknownError           ErrorCode = "UNKNOWN_ERROR"
)

// PartialMatch is a near-miss element found while resolving a target
type PartialMatch struct {
	ElementID   string  `json:"elementId"`
	Confidence  float64 `json:"confidence"`
	Reason      string  `json:"reason"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
}

// RecoveryAction is a server-suggested remediation hint
type RecoveryAction struct {
	Suggestion string  `json:"suggestion"`
	Command    string  `json:"command,omitempty"`
	Confidence float64 `json:"confidence"`
	Retryable  bool    `json:"retryable"`
}

// FailureDetails is the structured diagnosis attached to a failed action.
// RetryRecommended is the sole gate recovery-enabled execution consults
// before asking the server for remediation.
type FailureDetails struct {
	ErrorCode        ErrorCode        `json:"errorCode"`
	Message          string           `json:"message"`
	ElementID        string           `json:"elementId,omitempty"`
	SelectorsTried   []string         `json:"selectorsTried,omitempty"`
	PartialMatches   []PartialMatch   `json:"partialMatches,omitempty"`
	ElementState     *ElementState    `json:"elementState,omitempty"`
	SuggestedActions []RecoveryAction `json:"suggestedActions"`
	RetryRecommended bool             `json:"retryRecommended"`
	DurationMs       float64          `json:"durationMs,omitempty"`
	TimeoutMs        float64          `json:"timeoutMs,omitempty"`
}

// IsElementNotFound reports whether the failure is a missing element
func (f *FailureDetails) IsElementNotFound() bool {
	return f.ErrorCode == CodeElementNotFound
}

// IsTimeout reports whether the failure is a timeout
func (f *FailureDetails) IsTimeout() bool {
	return f.ErrorCode == CodeActionTimeout
}

// BestSuggestion returns the highest-confidence recovery hint, or nil
func (f *FailureDetails) BestSuggestion() *RecoveryAction {
	var best *RecoveryAction
	for i := range f.SuggestedActions {
		if best == nil || f.SuggestedActions[i].Confidence > best.Confidence {
			best = &f.SuggestedActions[i]
		}
	}
	return best
}

// ActionResponse is the result of an element action
type ActionResponse struct {
	Success        bool            `json:"success"`
	ElementState   *ElementState   `json:"elementState,omitempty"`
	Result         interface{}     `json:"result,omitempty"`
	Error          string          `json:"error,omitempty"`
	FailureDetails *FailureDetails `json:"failureDetails,omitempty"`
	DurationMs     float64         `json:"durationMs"`
	Timestamp      int64           `json:"timestamp"`
	RequestID      string          `json:"requestId,omitempty"`
	WaitDurationMs float64         `json:"waitDurationMs,omitempty"`
}

// ComponentActionResponse is the result of a component action
type ComponentActionResponse struct {
	Success    bool        `json:"success"`
	Result     interface{} `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
	DurationMs float64     `json:"durationMs"`
	Timestamp  int64       `json:"timestamp"`
	RequestID  string      `json:"requestId,omitempty"`
}

// DiscoveredElement is element info returned by find/discovery
type DiscoveredElement struct {
	ID             string       `json:"id"`
	Type           string       `json:"type"`
	Label          string       `json:"label,omitempty"`
	TagName        string       `json:"tagName"`
	Role           string       `json:"role,omitempty"`
	AccessibleName string       `json:"accessibleName,omitempty"`
	Actions        []string     `json:"actions"`
	State          ElementState `json:"state"`
	Registered     bool         `json:"registered"`
}

// FindRequest filters element discovery
type FindRequest struct {
	Root            string   `json:"root,omitempty"`
	InteractiveOnly bool     `json:"interactiveOnly,omitempty"`
	IncludeHidden   bool     `json:"includeHidden,omitempty"`
	Limit           int      `json:"limit,omitempty"`
	Types           []string `json:"types,omitempty"`
	Selector        string   `json:"selector,omitempty"`
}

// FindResponse lists discovered elements
type FindResponse struct {
	Elements   []DiscoveredElement `json:"elements"`
	Total      int                 `json:"total"`
	DurationMs float64             `json:"durationMs"`
	Timestamp  int64               `json:"timestamp"`
}

// RegisteredElement summarizes a registered element in a control snapshot
type RegisteredElement struct {
	ID      string       `json:"id"`
	Type    string       `json:"type"`
	Label   string       `json:"label,omitempty"`
	Actions []string     `json:"actions"`
	State   ElementState `json:"state"`
}

// RegisteredComponent summarizes a registered component
type RegisteredComponent struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}

// RegisteredWorkflow summarizes a registered workflow
type RegisteredWorkflow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StepCount int    `json:"stepCount"`
}

// ControlSnapshot is the full state of the controllable UI
type ControlSnapshot struct {
	Timestamp  int64                    `json:"timestamp"`
	Elements   []RegisteredElement      `json:"elements"`
	Components []RegisteredComponent    `json:"components"`
	Workflows  []RegisteredWorkflow     `json:"workflows"`
	ActiveRuns []map[string]interface{} `json:"activeRuns,omitempty"`
}

// WorkflowRunStatus is a workflow run state
type WorkflowRunStatus string

const (
	WorkflowPending   WorkflowRunStatus = "pending"
	WorkflowRunning   WorkflowRunStatus = "running"
	WorkflowCompleted WorkflowRunStatus = "completed"
	WorkflowFailed    WorkflowRunStatus = "failed"
	WorkflowCancelled WorkflowRunStatus = "cancelled"
)

// WorkflowStepResult is the result of one workflow step
type WorkflowStepResult struct {
	StepID     string      `json:"stepId"`
	StepType   string      `json:"stepType"`
	Success    bool        `json:"success"`
	Result     interface{} `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
	DurationMs float64     `json:"durationMs"`
	Timestamp  int64       `json:"timestamp"`
}

// RunWorkflowRequest configures a workflow run
type RunWorkflowRequest struct {
	Params          map[string]interface{} `json:"params,omitempty"`
	RequestID       string                 `json:"requestId,omitempty"`
	StartStep       string                 `json:"startStep,omitempty"`
	StopStep        string                 `json:"stopStep,omitempty"`
	StepTimeout     int                    `json:"stepTimeout,omitempty"`
	WorkflowTimeout int                    `json:"workflowTimeout,omitempty"`
}

// WorkflowRun reports the state of a workflow run
type WorkflowRun struct {
	WorkflowID  string               `json:"workflowId"`
	RunID       string               `json:"runId"`
	Status      WorkflowRunStatus    `json:"status"`
	Steps       []WorkflowStepResult `json:"steps"`
	CurrentStep int                  `json:"currentStep,omitempty"`
	TotalSteps  int                  `json:"totalSteps"`
	Success     *bool                `json:"success,omitempty"`
	Error       string               `json:"error,omitempty"`
	StartedAt   int64                `json:"startedAt"`
	CompletedAt int64                `json:"completedAt,omitempty"`
	DurationMs  float64              `json:"durationMs,omitempty"`
}

// UIState is a distinct state in the UI state machine
// (e.g. "LoginForm", "Dashboard", "Modal")
type UIState struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Elements []string               `json:"elements"`
	Blocking bool                   `json:"blocking,omitempty"`
	Blocks   []string               `json:"blocks,omitempty"`
	Group    string                 `json:"group,omitempty"`
	PathCost float64                `json:"pathCost,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// UIStateGroup is a set of states that activate and deactivate atomically
type UIStateGroup struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	States []string `json:"states"`
}

// UITransition defines how to move between sets of states
type UITransition struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	FromStates     []string `json:"fromStates"`
	ActivateStates []string `json:"activateStates"`
	ExitStates     []string `json:"exitStates"`
	ActivateGroups []string `json:"activateGroups,omitempty"`
	ExitGroups     []string `json:"exitGroups,omitempty"`
	PathCost       float64  `json:"pathCost,omitempty"`
	StaysVisible   bool     `json:"staysVisible,omitempty"`
}

// PathResult is returned when searching for a path to target states
type PathResult struct {
	Found          bool     `json:"found"`
	Transitions    []string `json:"transitions"`
	TotalCost      float64  `json:"totalCost"`
	TargetStates   []string `json:"targetStates"`
	EstimatedSteps int      `json:"estimatedSteps"`
}

// TransitionResult is the result of executing one transition
type TransitionResult struct {
	Success           bool     `json:"success"`
	ActivatedStates   []string `json:"activatedStates"`
	DeactivatedStates []string `json:"deactivatedStates"`
	Error             string   `json:"error,omitempty"`
	FailedPhase       string   `json:"failedPhase,omitempty"`
	DurationMs        float64  `json:"durationMs"`
}

// NavigationResult is returned after navigating to target states
type NavigationResult struct {
	Success             bool       `json:"success"`
	Path                PathResult `json:"path"`
	ExecutedTransitions []string   `json:"executedTransitions"`
	FinalActiveStates   []string   `json:"finalActiveStates"`
	Error               string     `json:"error,omitempty"`
	DurationMs          float64    `json:"durationMs"`
}

// StateSnapshot is the full state-machine picture
type StateSnapshot struct {
	Timestamp    int64          `json:"timestamp"`
	ActiveStates []string       `json:"activeStates"`
	States       []UIState      `json:"states"`
	Groups       []UIStateGroup `json:"groups"`
	Transitions  []UITransition `json:"transitions"`
}

// PerformanceMetrics reports server-side action statistics
type PerformanceMetrics struct {
	TotalActions      int            `json:"totalActions"`
	SuccessfulActions int            `json:"successfulActions"`
	FailedActions     int            `json:"failedActions"`
	SuccessRate       float64        `json:"successRate"`
	AvgDurationMs     float64        `json:"avgDurationMs"`
	MinDurationMs     float64        `json:"minDurationMs"`
	MaxDurationMs     float64        `json:"maxDurationMs"`
	P95DurationMs     float64        `json:"p95DurationMs"`
	ActionsPerSecond  float64        `json:"actionsPerSecond"`
	ErrorsByType      map[string]int `json:"errorsByType"`
	ActionsByType     map[string]int `json:"actionsByType"`
}

// HealthStatus is the /health endpoint payload
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}
