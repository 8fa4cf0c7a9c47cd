package ai

import "github.com/uibridge/uibridge-go/bridge"

// StrategyStatus is the outcome of one server-side recovery strategy.
type StrategyStatus string

const (
	StrategySuccess StrategyStatus = "success"
	StrategyFailed  StrategyStatus = "failed"
	StrategySkipped StrategyStatus = "skipped"
	StrategyPartial StrategyStatus = "partial"
)

// StrategyResult reports one recovery strategy the server tried.
type StrategyResult struct {
	Strategy   string         `json:"strategyName"`
	Status     StrategyStatus `json:"status"`
	Message    string         `json:"message"`
	DurationMs float64        `json:"durationMs"`
}

// RecoveryVerdict is the server's answer to a recovery consultation:
// whether any strategy landed, whether another attempt is worthwhile,
// and optionally an alternative element to target instead.
type RecoveryVerdict struct {
	Success            bool             `json:"success"`
	StrategyResults    []StrategyResult `json:"strategyResults,omitempty"`
	ShouldRetry        bool             `json:"shouldRetry"`
	AlternativeElement *Element         `json:"alternativeElement,omitempty"`
	Message            string           `json:"message,omitempty"`
}

// RecoverySummary is the final result of a recovery-enabled execution:
// the last action outcome plus how the loop got there.
type RecoverySummary struct {
	Success           bool             `json:"success"`
	Attempts          int              `json:"attempts"`
	RecoveryAttempted bool             `json:"recoveryAttempted"`
	FinalOutcome      *ActionOutcome   `json:"finalOutcome,omitempty"`
	Verdict           *RecoveryVerdict `json:"verdict,omitempty"`
	Instruction       string           `json:"instruction"`
	FinalInstruction  string           `json:"finalInstruction"`
	DurationMs        float64          `json:"durationMs"`
	Error             string           `json:"error,omitempty"`
	ErrorCode         bridge.ErrorCode `json:"errorCode,omitempty"`
}
