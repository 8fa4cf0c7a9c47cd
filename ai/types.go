package ai

import (
	"encoding/json"

	"github.com/uibridge/uibridge-go/bridge"
)

// Element is an element as the server's semantic index describes it. Unlike
// the low-level control surface, elements here carry natural-language
// descriptions and alias lists so instructions can refer to them by meaning.
type Element struct {
	ID               string               `json:"id"`
	Description      string               `json:"description"`
	Aliases          []string             `json:"aliases,omitempty"`
	Role             string               `json:"role,omitempty"`
	Text             string               `json:"text,omitempty"`
	Value            string               `json:"value,omitempty"`
	Placeholder      string               `json:"placeholder,omitempty"`
	Label            string               `json:"label,omitempty"`
	SuggestedActions []string             `json:"suggestedActions,omitempty"`
	State            *bridge.ElementState `json:"state,omitempty"`
	Rect             *bridge.ElementRect  `json:"rect,omitempty"`
	Attributes       map[string]string    `json:"attributes,omitempty"`
	ComponentID      string               `json:"componentId,omitempty"`
}

// SearchCriteria narrows a semantic element search. Zero-value fields are
// omitted from the request and ignored by the server.
type SearchCriteria struct {
	Text           string   `json:"text,omitempty"`
	Role           string   `json:"role,omitempty"`
	Description    string   `json:"description,omitempty"`
	Label          string   `json:"label,omitempty"`
	Placeholder    string   `json:"placeholder,omitempty"`
	Near           string   `json:"near,omitempty"`
	Within         string   `json:"within,omitempty"`
	Visible        *bool    `json:"visible,omitempty"`
	Enabled        *bool    `json:"enabled,omitempty"`
	Actions        []string `json:"actions,omitempty"`
	Fuzzy          bool     `json:"fuzzy"`
	FuzzyThreshold float64  `json:"fuzzyThreshold,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

// SearchScores breaks down how a candidate matched each criterion.
type SearchScores struct {
	Text        float64 `json:"text,omitempty"`
	Role        float64 `json:"role,omitempty"`
	Description float64 `json:"description,omitempty"`
	Proximity   float64 `json:"proximity,omitempty"`
	Overall     float64 `json:"overall"`
}

// SearchResult is one ranked candidate from a semantic search.
type SearchResult struct {
	Element      Element       `json:"element"`
	Confidence   float64       `json:"confidence"`
	MatchReasons []string      `json:"matchReasons,omitempty"`
	Scores       *SearchScores `json:"scores,omitempty"`
}

// SearchResponse is the full result set for a semantic search.
type SearchResponse struct {
	Results      []SearchResult `json:"results"`
	BestMatch    *SearchResult  `json:"bestMatch,omitempty"`
	ScannedCount int            `json:"scannedCount"`
	DurationMs   float64        `json:"durationMs"`
	Timestamp    int64          `json:"timestamp"`
}

// FailureInfo explains why a natural-language action failed, with enough
// structure for the recovery endpoint to propose alternatives.
type FailureInfo struct {
	ErrorCode        bridge.ErrorCode        `json:"errorCode"`
	Message          string                  `json:"message"`
	ElementID        string                  `json:"elementId,omitempty"`
	RetryRecommended bool                    `json:"retryRecommended"`
	SuggestedActions []bridge.RecoveryAction `json:"suggestedActions,omitempty"`
	PartialMatches   []bridge.PartialMatch   `json:"partialMatches,omitempty"`
	ElementState     *bridge.ElementState    `json:"elementState,omitempty"`
	DurationMs       float64                 `json:"durationMs,omitempty"`
}

// ActionOutcome is the server's answer to a natural-language instruction.
type ActionOutcome struct {
	Success        bool                 `json:"success"`
	ExecutedAction string               `json:"executedAction,omitempty"`
	ElementUsed    *Element             `json:"elementUsed,omitempty"`
	Confidence     float64              `json:"confidence,omitempty"`
	ElementState   *bridge.ElementState `json:"elementState,omitempty"`
	DurationMs     float64              `json:"durationMs,omitempty"`
	Timestamp      int64                `json:"timestamp,omitempty"`
	Error          string               `json:"error,omitempty"`
	ErrorCode      bridge.ErrorCode     `json:"errorCode,omitempty"`
	FailureInfo    *FailureInfo         `json:"failureInfo,omitempty"`
	Suggestions    []string             `json:"suggestions,omitempty"`
	Alternatives   []SearchResult       `json:"alternatives,omitempty"`
}

// ElementID returns the id of the element the action ran against, or ""
// when resolution never got that far.
func (o *ActionOutcome) ElementID() string {
	if o.ElementUsed == nil {
		return ""
	}
	return o.ElementUsed.ID
}

// AssertionType names a condition the server can verify.
type AssertionType string

const (
	AssertVisibleType      AssertionType = "visible"
	AssertHiddenType       AssertionType = "hidden"
	AssertEnabledType      AssertionType = "enabled"
	AssertDisabledType     AssertionType = "disabled"
	AssertHasTextType      AssertionType = "hasText"
	AssertContainsTextType AssertionType = "containsText"
	AssertHasValueType     AssertionType = "hasValue"
	AssertCheckedType      AssertionType = "checked"
	AssertUncheckedType    AssertionType = "unchecked"
	AssertExistsType       AssertionType = "exists"
	AssertNotExistsType    AssertionType = "notExists"
)

// Target identifies the element an assertion applies to. It is either a
// natural-language description or structured search criteria, and
// serializes to whichever form it holds.
type Target struct {
	description string
	criteria    *SearchCriteria
}

// ByDescription targets an element by natural-language description.
func ByDescription(description string) Target {
	return Target{description: description}
}

// ByCriteria targets an element by structured search criteria.
func ByCriteria(criteria SearchCriteria) Target {
	return Target{criteria: &criteria}
}

// Description returns the description form, or "" for criteria targets.
func (t Target) Description() string { return t.description }

// Criteria returns the criteria form, or nil for description targets.
func (t Target) Criteria() *SearchCriteria { return t.criteria }

func (t Target) MarshalJSON() ([]byte, error) {
	if t.criteria != nil {
		return json.Marshal(t.criteria)
	}
	return json.Marshal(t.description)
}

func (t *Target) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Target{description: s}
		return nil
	}
	var c SearchCriteria
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	*t = Target{criteria: &c}
	return nil
}

// Assertion is one condition to verify against a target element.
type Assertion struct {
	Target   Target        `json:"target"`
	Type     AssertionType `json:"type"`
	Expected interface{}   `json:"expected,omitempty"`
	Timeout  int           `json:"timeout,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// AssertionResult reports whether an assertion held, with actual values
// for diagnostics when it did not.
type AssertionResult struct {
	Passed     bool             `json:"passed"`
	Type       AssertionType    `json:"type"`
	Expected   interface{}      `json:"expected,omitempty"`
	Actual     interface{}      `json:"actual,omitempty"`
	Element    *Element         `json:"element,omitempty"`
	Message    string           `json:"message,omitempty"`
	Error      string           `json:"error,omitempty"`
	ErrorCode  bridge.ErrorCode `json:"errorCode,omitempty"`
	DurationMs float64          `json:"durationMs,omitempty"`
}

// BatchAssertionResult aggregates the results of a batch of assertions.
type BatchAssertionResult struct {
	Passed     bool              `json:"passed"`
	Results    []AssertionResult `json:"results"`
	PassCount  int               `json:"passCount"`
	FailCount  int               `json:"failCount"`
	DurationMs float64           `json:"durationMs,omitempty"`
}

// PageContext describes the page a snapshot was taken on.
type PageContext struct {
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
	Route string `json:"route,omitempty"`
}

// FormState captures a form and its fields at snapshot time.
type FormState struct {
	ID     string            `json:"id,omitempty"`
	Name   string            `json:"name,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Valid  *bool             `json:"valid,omitempty"`
}

// ModalState captures an open modal or dialog at snapshot time.
type ModalState struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Open     bool   `json:"open"`
	Blocking bool   `json:"blocking,omitempty"`
}

// Snapshot is a semantic capture of the interactive page state.
type Snapshot struct {
	SnapshotID string       `json:"snapshotId"`
	Timestamp  int64        `json:"timestamp"`
	Page       *PageContext `json:"page,omitempty"`
	Elements   []Element    `json:"elements"`
	Forms      []FormState  `json:"forms,omitempty"`
	Modals     []ModalState `json:"modals,omitempty"`
}

// ElementModification records one attribute change on a surviving element.
type ElementModification struct {
	ElementID string      `json:"elementId"`
	Field     string      `json:"field"`
	Before    interface{} `json:"before,omitempty"`
	After     interface{} `json:"after,omitempty"`
}

// Diff describes how the page changed between two snapshots.
type Diff struct {
	Since      int64                 `json:"since"`
	Until      int64                 `json:"until"`
	Added      []Element             `json:"added,omitempty"`
	Removed    []Element             `json:"removed,omitempty"`
	Modified   []ElementModification `json:"modified,omitempty"`
	Page       *PageContext          `json:"page,omitempty"`
	HasChanges bool                  `json:"hasChanges"`
}
