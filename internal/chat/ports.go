package chat

import "context"

// TurnResult is the uniform shape of a model reply.
type TurnResult struct {
	Text           string
	GroundingLinks []GroundingLink
}

// BackendSession is a stateful conversational handle into the generation
// backend. It carries its own turn-history mirror; the Service owns exactly
// one at a time and recreates it wholesale on reset.
type BackendSession interface {
	// SendTurn dispatches one composite turn: text plus optional image
	// attachments plus an optional reference URL.
	SendTurn(ctx context.Context, text string, images []string, url string) (TurnResult, error)
}

// Backend creates sessions and performs one-shot image synthesis. The
// concrete implementations live in internal/llmclient.
type Backend interface {
	// NewSession rehydrates backend session state by replaying history as
	// native turns. An empty history yields a fresh session.
	NewSession(ctx context.Context, history []Message) (BackendSession, error)

	// GenerateImage returns a data-URI image for the prompt, or "" when the
	// backend produced nothing usable. "" is "nothing to show", not failure.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Persister stores the conversation log and the finalized plan. Loads are
// best-effort; saves must never fail the caller.
type Persister interface {
	LoadHistory() []Message
	LoadPlan() string
	SaveHistory(history []Message)
	SavePlan(plan string)
	Clear()
}
