// Package store persists the conversation history and the finalized plan to
// local files. Reads are best-effort: missing or corrupt data is treated as
// "nothing stored" so the app can always start with a fresh greeting.
package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"vibecoder/internal/chat"
)

const (
	historyFile = "history.json"
	planFile    = "plan.md"
)

// Store is a string-keyed file store rooted at a single directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	if dir == "" {
		dir = filepath.Join("tmp", "vibecoder")
	}
	return &Store{dir: dir}
}

// LoadHistory returns the persisted conversation, or nil when nothing usable
// is stored.
func (s *Store) LoadHistory() []chat.Message {
	data, err := os.ReadFile(filepath.Join(s.dir, historyFile))
	if err != nil {
		return nil
	}
	var history []chat.Message
	if err := json.Unmarshal(data, &history); err != nil {
		log.Printf("store: ignoring corrupt history: %v", err)
		return nil
	}
	return history
}

// LoadPlan returns the persisted plan Markdown, or "" when absent.
func (s *Store) LoadPlan() string {
	data, err := os.ReadFile(filepath.Join(s.dir, planFile))
	if err != nil {
		return ""
	}
	return string(data)
}

// SaveHistory writes the full conversation. Write errors are logged, not
// returned; persistence failures never break the in-memory conversation.
func (s *Store) SaveHistory(history []chat.Message) {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		log.Printf("store: marshal history: %v", err)
		return
	}
	s.write(historyFile, data)
}

// SavePlan writes the finalized plan Markdown.
func (s *Store) SavePlan(plan string) {
	s.write(planFile, []byte(plan))
}

// Clear removes both keys. Used on conversation reset.
func (s *Store) Clear() {
	_ = os.Remove(filepath.Join(s.dir, historyFile))
	_ = os.Remove(filepath.Join(s.dir, planFile))
}

func (s *Store) write(name string, data []byte) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("store: mkdir %s: %v", s.dir, err)
		return
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		log.Printf("store: write %s: %v", name, err)
	}
}
