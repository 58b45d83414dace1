package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	sessionFile = "chat.json"
)

// ChatSession is the saved assistant conversation that "gruha chat"
// resumes on its next run.
type ChatSession struct {
	// Messages in chronological order (oldest first).
	Messages []ChatMessage `json:"messages"`

	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is one saved turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LoadChatSession loads the saved session from the target .gruha/chat.json.
// Returns nil, nil if no session has been saved.
func (m *Manager) LoadChatSession(overrideDir string) (*ChatSession, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, sessionFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading chat session: %w", err)
	}

	session := &ChatSession{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("parsing chat session: %w", err)
	}

	return session, nil
}

// SaveChatSession persists the session to the target .gruha/chat.json.
func (m *Manager) SaveChatSession(session *ChatSession, overrideDir string) error {
	if session == nil {
		return errors.New("cannot save nil chat session")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling chat session: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, sessionFile), data, 0o600); err != nil {
		return fmt.Errorf("writing chat session: %w", err)
	}

	return nil
}

// ClearChatSession removes the saved session so the next chat starts fresh.
// Returns nil if nothing was saved.
func (m *Manager) ClearChatSession(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, sessionFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing chat session: %w", err)
	}

	return nil
}
