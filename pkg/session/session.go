// Package session persists chat transcripts under the .lada/ sessions
// directory. A Store owns one live session, is safe for concurrent use, and
// only touches disk on Save, plus an optional background autosave loop.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Roles recorded in a transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Session is a complete chat transcript.
type Session struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	StartedAt time.Time `json:"started_at"`
	Messages  []Message `json:"messages"`
}

// Store owns one live session and its on-disk location.
type Store struct {
	mu    sync.Mutex
	dir   string
	sess  Session
	dirty bool

	// nowFunc is used for testing; defaults to time.Now.
	nowFunc func() time.Time
}

// NewStore starts a fresh session for the given model, to be saved under dir.
func NewStore(dir, model string) *Store {
	now := time.Now()

	return &Store{
		dir: dir,
		sess: Session{
			ID:        now.Format("session-20060102-150405"),
			Model:     model,
			StartedAt: now,
		},
		nowFunc: time.Now,
	}
}

// SetNowFunc overrides the time source (for testing).
func (s *Store) SetNowFunc(fn func() time.Time) { s.nowFunc = fn }

// Append records a transcript entry.
func (s *Store) Append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.Messages = append(s.sess.Messages, Message{
		Role:    role,
		Content: content,
		Time:    s.nowFunc(),
	})
	s.dirty = true
}

// Len returns the number of recorded messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sess.Messages)
}

// Path returns the file this session saves to.
func (s *Store) Path() string {
	return filepath.Join(s.dir, s.sess.ID+".json")
}

// Save writes the session to disk when it has unsaved messages. An untouched
// session writes nothing.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}

	data, err := json.MarshalIndent(s.sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}

	s.dirty = false

	return nil
}

// AutoSave saves the session every interval until ctx is cancelled, then
// performs a final save. Run it in its own goroutine; it returns the first
// save error, or nil on clean shutdown.
func (s *Store) AutoSave(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.Save()
		case <-ticker.C:
			if err := s.Save(); err != nil {
				return err
			}
		}
	}
}

// Load reads a previously saved session file.
func Load(path string) (Session, error) {
	data, err := os.ReadFile(path) //nolint:gosec // session path comes from our own directory listing
	if err != nil {
		return Session{}, fmt.Errorf("session: load: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("session: decode %s: %w", path, err)
	}

	return sess, nil
}
