// Package plan detects and renders the finalized development blueprint.
package plan

import "strings"

// Markers a generated plan must carry before it is treated as final.
const (
	markerOverview = "### Project Overview"
	markerPhase1   = "### Phase 1"

	readySignal = "whenever you're ready"
)

// IsRequest reports whether an outgoing user message asks for the plan.
// Matching is case-insensitive substring over the full tagged text, so the
// help-area prefix the composer prepends is tolerated.
func IsRequest(outgoing string) bool {
	s := strings.ToLower(outgoing)
	return strings.Contains(s, "generate the plan") || strings.Contains(s, "generate blueprint")
}

// LooksLikePlan reports whether a reply has the structure of a finished plan.
// Both section markers must be present, literally.
func LooksLikePlan(reply string) bool {
	return strings.Contains(reply, markerOverview) && strings.Contains(reply, markerPhase1)
}

// SignalsReadiness reports whether a reply contains the assistant's
// ready-to-plan phrase.
func SignalsReadiness(reply string) bool {
	return strings.Contains(strings.ToLower(reply), readySignal)
}
