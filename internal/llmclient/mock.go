package llmclient

import (
	"context"
	"sync"

	"vibecoder/internal/chat"
)

// MockBackend returns scripted replies in order and records what it was sent.
// Used by tests and by MOCK_LLM=1 local runs.
type MockBackend struct {
	mu sync.Mutex

	// Replies are consumed one per SendTurn. When exhausted, DefaultReply is
	// returned.
	Replies      []chat.TurnResult
	DefaultReply string

	// Image is what GenerateImage returns; ImageErr is returned alongside.
	Image    string
	ImageErr error

	// SendErr, when set, is returned by SendTurn instead of a reply.
	SendErr error

	// Recorded calls.
	SessionHistories [][]chat.Message
	SentTexts        []string
	SentImages       [][]string
	SentURLs         []string
	ImagePrompts     []string
}

func (m *MockBackend) NewSession(_ context.Context, history []chat.Message) (chat.BackendSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]chat.Message, len(history))
	copy(snapshot, history)
	m.SessionHistories = append(m.SessionHistories, snapshot)
	return &mockSession{backend: m}, nil
}

func (m *MockBackend) GenerateImage(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagePrompts = append(m.ImagePrompts, prompt)
	return m.Image, m.ImageErr
}

type mockSession struct {
	backend *MockBackend
}

func (s *mockSession) SendTurn(_ context.Context, text string, images []string, url string) (chat.TurnResult, error) {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentTexts = append(m.SentTexts, text)
	m.SentImages = append(m.SentImages, images)
	m.SentURLs = append(m.SentURLs, url)
	if m.SendErr != nil {
		return chat.TurnResult{}, m.SendErr
	}
	if len(m.Replies) > 0 {
		r := m.Replies[0]
		m.Replies = m.Replies[1:]
		return r, nil
	}
	reply := m.DefaultReply
	if reply == "" {
		reply = "Interesting! Tell me more."
	}
	return chat.TurnResult{Text: reply}, nil
}
