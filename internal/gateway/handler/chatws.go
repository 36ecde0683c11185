package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vibecoder/internal/chat"
)

// ChatWSHandler serves the conversation over one websocket per UI client.
// Inbound messages are UI operations; outbound messages mirror the chat
// service's event stream plus an initial full snapshot.
type ChatWSHandler struct {
	svc *chat.Service
}

func NewChatWSHandler(svc *chat.Service) *ChatWSHandler {
	return &ChatWSHandler{svc: svc}
}

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type chatWSInbound struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Image    string `json:"image,omitempty"`
	Index    int    `json:"index,omitempty"`
	URL      string `json:"url,omitempty"`
	HelpArea string `json:"helpArea,omitempty"`
}

type chatWSOutbound struct {
	Type     string         `json:"type"`
	Snapshot *chat.Snapshot `json:"snapshot,omitempty"`
	Event    *chat.Event    `json:"event,omitempty"`
	Code     string         `json:"code,omitempty"`
	Message  string         `json:"message,omitempty"`
}

func (h *ChatWSHandler) HandleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := chatWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	log.Printf("chat ws %s: connected from %s", connID, r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		log.Printf("chat ws %s: set read deadline failed: %v", connID, err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	writeCh := make(chan chatWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	snap, events, unsubscribe := h.svc.Subscribe()
	defer unsubscribe()

	pushChatWS(writeCh, chatWSOutbound{Type: "snapshot", Snapshot: &snap})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				pushChatWS(writeCh, chatWSOutbound{Type: "event", Event: &ev})
			}
		}
	}()

	for {
		var in chatWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			log.Printf("chat ws %s: closed: %v", connID, err)
			cancel()
			<-writerDone
			return
		}

		switch in.Type {
		case "ping":
			pushChatWS(writeCh, chatWSOutbound{Type: "pong"})
		case "send":
			h.svc.SendUserTurn(ctx, in.Text)
		case "generate_plan":
			h.svc.GeneratePlanNow(ctx)
		case "reset":
			h.svc.ResetConversation(ctx)
		case "attach_image":
			h.svc.AttachImage(in.Image)
		case "remove_image":
			h.svc.RemoveAttachedImage(in.Index)
		case "set_url":
			h.svc.SetAttachedURL(in.URL)
		case "set_help_area":
			h.svc.SetHelpArea(chat.HelpArea(in.HelpArea))
		default:
			pushChatWS(writeCh, chatWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unsupported type: " + in.Type,
			})
		}
	}
}

// pushChatWS enqueues without blocking; when the buffer is full the oldest
// pending frame is dropped in favor of the new one.
func pushChatWS(writeCh chan chatWSOutbound, out chatWSOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
