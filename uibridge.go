// Package uibridge is the top-level entry point for the UI Bridge client
// SDK. It re-exports the most commonly used types and wires the bridge and
// AI clients together so typical callers only import this package.
//
//	session, err := uibridge.Connect(core.WithBaseURL("http://localhost:9876"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	summary, err := session.AI.ClickWithRecovery(ctx, "the save button")
package uibridge

import (
	"github.com/uibridge/uibridge-go/ai"
	"github.com/uibridge/uibridge-go/bridge"
	"github.com/uibridge/uibridge-go/core"
)

// Version is the SDK version
const Version = "0.4.0"

// Commonly used types, aliased so callers rarely need the subpackages
type (
	Config          = core.Config
	Option          = core.Option
	Logger          = core.Logger
	ActionResponse  = bridge.ActionResponse
	FailureDetails  = bridge.FailureDetails
	ActionOutcome   = ai.ActionOutcome
	RecoverySummary = ai.RecoverySummary
	RecoveryVerdict = ai.RecoveryVerdict
)

// Session bundles the control-surface client and the natural-language
// client over one shared connection.
type Session struct {
	Bridge *bridge.Client
	AI     *ai.Client
}

// Connect creates a session against a UI Bridge server.
func Connect(opts ...core.Option) (*Session, error) {
	b, err := bridge.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Session{
		Bridge: b,
		AI:     ai.NewClient(b),
	}, nil
}

// Close releases client-side resources.
func (s *Session) Close() error {
	return s.Bridge.Close()
}
