package storage

import (
	"context"
	"encoding/json"

	"github.com/harmonyedit/assetcat/pkg/filter"
)

// DefaultSessionKey is the ui_state key the CLI persists its working
// filter session under.
const DefaultSessionKey = "filter_session"

// SessionStore persists a filter session in ui_state. It is handed to
// consumers as a collaborator rather than reached for ambiently, so tests
// and the HTTP server can substitute their own.
type SessionStore struct {
	db  *DB
	key string
}

// NewSessionStore returns a store bound to one ui_state key. An empty key
// uses DefaultSessionKey.
func NewSessionStore(db *DB, key string) *SessionStore {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionStore{db: db, key: key}
}

// Load reads the persisted session. A missing or corrupted value yields
// an empty session: stale UI state is never worth an error.
func (s *SessionStore) Load(ctx context.Context) (filter.Session, error) {
	raw, err := s.db.GetState(ctx, s.key)
	if err != nil {
		return filter.Session{}, err
	}
	if raw == "" {
		return filter.Session{}, nil
	}
	var sess filter.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return filter.Session{}, nil
	}
	return sess, nil
}

// Save persists the session as JSON.
func (s *SessionStore) Save(ctx context.Context, sess filter.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.SetState(ctx, s.key, string(raw))
}

// Clear removes the persisted session.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.db.DeleteState(ctx, s.key)
}
