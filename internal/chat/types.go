package chat

// Role identifies who produced a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// GroundingLink is a web citation attached to a search-grounded model reply.
type GroundingLink struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Message is one entry in the conversation log. Images are base64 data URIs.
// Images and URL are a snapshot taken at send time and never change afterwards.
type Message struct {
	Role           Role            `json:"role"`
	Content        string          `json:"content"`
	Images         []string        `json:"images,omitempty"`
	URL            string          `json:"url,omitempty"`
	GroundingLinks []GroundingLink `json:"groundingLinks,omitempty"`
}

// HelpArea is the user-selected focus applied to each outgoing turn.
// It is transient UI state and is not persisted.
type HelpArea string

const (
	HelpAreaPlanning HelpArea = "Planning"
	HelpAreaDesign   HelpArea = "UI/UX Design"
	HelpAreaCode     HelpArea = "Code"
	HelpAreaGeneral  HelpArea = "General"

	DefaultHelpArea = HelpAreaPlanning
)

// ValidHelpArea reports whether a is one of the fixed help areas.
func ValidHelpArea(a HelpArea) bool {
	switch a {
	case HelpAreaPlanning, HelpAreaDesign, HelpAreaCode, HelpAreaGeneral:
		return true
	}
	return false
}

// State of the turn pipeline. Only one outgoing turn may be in flight, so
// composition is rejected while the state is not StateIdle.
type State string

const (
	StateIdle          State = "idle"
	StateAwaitingReply State = "awaiting-reply"
	StateAwaitingImage State = "awaiting-image"
)

// Fixed conversational strings. These are part of the product surface; the
// tests and the plan/readiness detection depend on some of them verbatim.
const (
	GreetingInitial = "Hey there! I'm Vibe Coder, your personal AI coding partner. Tell me about the app you want to build. What's the big idea?"
	GreetingReset   = "Alright, fresh start! What amazing app idea is on your mind now?"

	MsgImageInterim = "Sure, let me whip up a design for you. One moment..."
	MsgImageCaption = "Here's a concept for the UI you described:"
	MsgImageFailed  = "Sorry, I hit a snag while trying to create the image. Let's try that again."
	MsgTurnFailed   = "Oops, something went wrong. Please try again."

	PlanRequestText = "Generate the plan"

	helpAreaTagFormat = "[Assisting with: %s] "
)
