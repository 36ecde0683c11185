// Package chat owns the conversation state: the ordered message log, the
// turn pipeline state, the finalized plan slot, and the attachment tray.
// All transitions flow through Service; the UI layer only issues requests
// and observes events.
package chat

import (
	"context"
	"log"
	"sync"

	"vibecoder/internal/plan"
)

// EventKind labels what changed.
type EventKind string

const (
	EventMessage   EventKind = "message"    // a message was appended
	EventState     EventKind = "state"      // pipeline state changed
	EventPlan      EventKind = "plan"       // the plan was finalized
	EventPlanReady EventKind = "plan_ready" // the ready flag flipped on
	EventTray      EventKind = "tray"       // attachment tray changed
	EventHelpArea  EventKind = "help_area"  // help area changed
	EventReset     EventKind = "reset"      // whole conversation was reset
)

// Event is one observable state change. Only the fields relevant to the kind
// are populated.
type Event struct {
	Kind       EventKind `json:"kind"`
	Message    *Message  `json:"message,omitempty"`
	State      State     `json:"state,omitempty"`
	Plan       string    `json:"plan,omitempty"`
	PlanReady  bool      `json:"planReady,omitempty"`
	TrayImages []string  `json:"trayImages,omitempty"`
	TrayURL    string    `json:"trayUrl,omitempty"`
	HelpArea   HelpArea  `json:"helpArea,omitempty"`
}

// Snapshot is the full observable state, delivered to a subscriber before its
// event stream starts.
type Snapshot struct {
	History    []Message `json:"history"`
	State      State     `json:"state"`
	Plan       string    `json:"plan,omitempty"`
	PlanReady  bool      `json:"planReady"`
	TrayImages []string  `json:"trayImages,omitempty"`
	TrayURL    string    `json:"trayUrl,omitempty"`
	HelpArea   HelpArea  `json:"helpArea"`
}

// Service is the conversation state machine. One instance per process; the
// app is single-conversation by design.
//
// The mutex protects the fields, but mutual exclusion of turns is enforced by
// the state field: composition is rejected while a turn is in flight, so no
// two backend calls ever run in parallel.
type Service struct {
	backend Backend
	store   Persister

	mu        sync.Mutex
	history   []Message
	state     State
	planText  string
	planReady bool
	tray      Tray
	helpArea  HelpArea
	session   BackendSession

	// gen guards in-flight turns across resets: a turn started before a reset
	// must not append its conclusion to the fresh conversation.
	gen uint64

	subs    map[int]chan Event
	nextSub int
}

// New loads persisted state, falls back to a fresh greeting, and rehydrates
// the backend session from whatever history it starts with.
func New(ctx context.Context, backend Backend, store Persister) (*Service, error) {
	s := &Service{
		backend:  backend,
		store:    store,
		state:    StateIdle,
		helpArea: DefaultHelpArea,
		subs:     make(map[int]chan Event),
	}

	s.history = store.LoadHistory()
	if len(s.history) == 0 {
		s.history = []Message{{Role: RoleModel, Content: GreetingInitial}}
	}
	if p := store.LoadPlan(); p != "" {
		s.planText = p
		s.planReady = true
	}

	session, err := backend.NewSession(ctx, s.history)
	if err != nil {
		return nil, err
	}
	s.session = session
	return s, nil
}

// SendUserTurn composes and dispatches one turn. It is a no-op while a turn
// is already in flight, and when the composite turn is empty. The backend
// call runs on its own goroutine; its conclusion is applied to the latest
// state when it lands.
func (s *Service) SendUserTurn(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return
	}
	msg, ok := composeTurn(text, &s.tray, s.helpArea)
	if !ok {
		return
	}

	// A nil session means the last reset could not reach the backend. Retry
	// here; if the backend is still down, surface that in the conversation
	// instead of swallowing the turn.
	if s.session == nil {
		session, err := s.backend.NewSession(ctx, s.history)
		if err != nil {
			log.Printf("chat: recreate session: %v", err)
			s.appendLocked(msg)
			s.appendLocked(Message{Role: RoleModel, Content: MsgTurnFailed})
			s.emitTrayLocked()
			return
		}
		s.session = session
	}

	s.appendLocked(msg)
	s.setStateLocked(StateAwaitingReply)
	s.emitTrayLocked()

	// The turn outlives the request that dispatched it; a closed websocket
	// must not abort a reply that is already on the wire.
	go s.runTurn(context.WithoutCancel(ctx), s.session, msg, s.gen)
}

// GeneratePlanNow sends the fixed plan-request phrase as a normal turn.
func (s *Service) GeneratePlanNow(ctx context.Context) {
	s.SendUserTurn(ctx, PlanRequestText)
}

// runTurn drives one dispatched turn to completion: ordinary reply, image
// directive, or failure. There is no cancellation and no timeout; an
// unresponsive backend leaves the pipeline in its waiting state.
func (s *Service) runTurn(ctx context.Context, session BackendSession, outgoing Message, gen uint64) {
	res, err := session.SendTurn(ctx, outgoing.Content, outgoing.Images, outgoing.URL)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		log.Printf("chat: turn failed: %v", err)
		s.appendLocked(Message{Role: RoleModel, Content: MsgTurnFailed})
		s.setStateLocked(StateIdle)
		s.mu.Unlock()
		return
	}

	prompt, isDirective := ParseImageDirective(res.Text)
	if !isDirective {
		s.routeReplyLocked(outgoing, res)
		s.mu.Unlock()
		return
	}

	// Image directive: acknowledge, then resolve the synthesis call outside
	// the lock so the UI stays readable while we wait.
	s.appendLocked(Message{Role: RoleModel, Content: MsgImageInterim})
	s.setStateLocked(StateAwaitingImage)
	s.mu.Unlock()

	img, imgErr := s.backend.GenerateImage(ctx, prompt)
	if imgErr != nil {
		// Collapsed with the declined case on purpose; the user sees one
		// outcome either way.
		log.Printf("chat: image synthesis failed: %v", imgErr)
		img = ""
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	if img != "" {
		s.appendLocked(Message{Role: RoleModel, Content: MsgImageCaption, Images: []string{img}})
	} else {
		s.appendLocked(Message{Role: RoleModel, Content: MsgImageFailed})
	}
	s.setStateLocked(StateIdle)
	s.mu.Unlock()
}

// routeReplyLocked handles an ordinary (non-directive) reply: append it, then
// evaluate the two independent side predicates. Plan detection matches the
// full tagged outgoing text, so the help-area prefix is tolerated.
func (s *Service) routeReplyLocked(outgoing Message, res TurnResult) {
	s.appendLocked(Message{Role: RoleModel, Content: res.Text, GroundingLinks: res.GroundingLinks})

	if plan.IsRequest(outgoing.Content) && plan.LooksLikePlan(res.Text) {
		s.planText = res.Text
		s.store.SavePlan(res.Text)
		s.emitLocked(Event{Kind: EventPlan, Plan: res.Text})
	}
	if plan.SignalsReadiness(res.Text) && !s.planReady {
		s.planReady = true
		s.emitLocked(Event{Kind: EventPlanReady, PlanReady: true})
	}
	s.setStateLocked(StateIdle)
}

// ResetConversation clears everything: persisted state, plan, flags, tray,
// help area, and the backend session. Any in-flight turn conclusion is
// discarded when it lands.
func (s *Service) ResetConversation(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.store.Clear()

	session, err := s.backend.NewSession(ctx, nil)
	if err != nil {
		log.Printf("chat: recreate session: %v", err)
		session = nil
	}
	s.session = session

	s.history = []Message{{Role: RoleModel, Content: GreetingReset}}
	s.store.SaveHistory(s.history)
	s.planText = ""
	s.planReady = false
	s.tray.Clear()
	s.helpArea = DefaultHelpArea
	s.state = StateIdle

	s.emitLocked(Event{Kind: EventReset})
}

// AttachImage stages an image data URI. The tray is only mutable while idle.
func (s *Service) AttachImage(dataURI string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return
	}
	s.tray.AttachImage(dataURI)
	s.emitTrayLocked()
}

// RemoveAttachedImage drops the staged image at index i.
func (s *Service) RemoveAttachedImage(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return
	}
	s.tray.RemoveImage(i)
	s.emitTrayLocked()
}

// SetAttachedURL replaces the pending reference URL; "" clears it.
func (s *Service) SetAttachedURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return
	}
	s.tray.SetURL(url)
	s.emitTrayLocked()
}

// SetHelpArea switches the active focus for subsequent turns. Unknown areas
// are ignored.
func (s *Service) SetHelpArea(area HelpArea) {
	if !ValidHelpArea(area) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.helpArea = area
	s.emitLocked(Event{Kind: EventHelpArea, HelpArea: area})
}

// History returns a copy of the message log.
func (s *Service) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Service) Plan() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planText
}

func (s *Service) PlanReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planReady
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) HelpArea() HelpArea {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.helpArea
}

// Subscribe returns the current snapshot plus a stream of subsequent events.
// The cancel func must be called when the subscriber goes away. Slow
// subscribers lose events rather than block the conversation.
func (s *Service) Subscribe() (Snapshot, <-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		History:    append([]Message(nil), s.history...),
		State:      s.state,
		Plan:       s.planText,
		PlanReady:  s.planReady,
		TrayImages: s.tray.Images(),
		TrayURL:    s.tray.URL(),
		HelpArea:   s.helpArea,
	}

	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, 64)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.mu.Unlock()
	}
	return snap, ch, cancel
}

// appendLocked adds a message and persists the extended history before the
// transition is considered complete.
func (s *Service) appendLocked(msg Message) {
	s.history = append(s.history, msg)
	s.store.SaveHistory(s.history)
	s.emitLocked(Event{Kind: EventMessage, Message: &msg})
}

func (s *Service) setStateLocked(st State) {
	if s.state == st {
		return
	}
	s.state = st
	s.emitLocked(Event{Kind: EventState, State: st})
}

func (s *Service) emitTrayLocked() {
	s.emitLocked(Event{Kind: EventTray, TrayImages: s.tray.Images(), TrayURL: s.tray.URL()})
}

func (s *Service) emitLocked(ev Event) {
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("chat: dropping event for slow subscriber %d", id)
		}
	}
}
