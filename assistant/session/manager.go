// Package session tracks conversational-agent sessions and dispatches their
// tool-call messages. Sessions live only in process memory; there is no TTL
// and no persistence across restarts.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/voxboard/voxboard/assistant/contract"
	toolx "github.com/voxboard/voxboard/assistant/tool"
)

// Session is one agent's server-side record: identity, the tool catalog as it
// looked at creation time, and opaque caller configuration.
type Session struct {
	SessionID string             `json:"session_id"`
	CreatedAt time.Time          `json:"created_at"`
	Tools     []*schema.ToolInfo `json:"tools"`
	Config    map[string]any     `json:"config"`
}

// Manager owns the session map. All access is serialized by one mutex;
// sessions are independent keys, so no per-session locking is needed.
// Construct it once in main and pass it by handle, never as a global.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	catalog  []*schema.ToolInfo
	executor toolx.Executor
	now      contractx.Clock
}

func NewManager(catalog []*schema.ToolInfo, executor toolx.Executor) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		catalog:  catalog,
		executor: executor,
		now:      time.Now,
	}
}

// WithClock pins the manager's clock, for tests.
func (m *Manager) WithClock(clock contractx.Clock) *Manager {
	if clock != nil {
		m.now = clock
	}
	return m
}

// Create registers a new session. An empty id gets a generated one. The tool
// catalog is snapshotted so later catalog changes don't leak into existing
// sessions.
func (m *Manager) Create(sessionID string, config map[string]any) *Session {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if config == nil {
		config = map[string]any{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess := &Session{
		SessionID: sessionID,
		CreatedAt: m.now().UTC(),
		Tools:     snapshotCatalog(m.catalog),
		Config:    config,
	}
	m.sessions[sessionID] = sess

	log.Info().Str("session_id", sessionID).Msg("session created")
	return sess
}

// Get returns the session or ErrSessionNotFound.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

// End removes the session or reports ErrSessionNotFound.
func (m *Manager) End(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: %s", contractx.ErrSessionNotFound, sessionID)
	}
	delete(m.sessions, sessionID)
	log.Info().Str("session_id", sessionID).Msg("session ended")
	return nil
}

// List returns the active session ids and their count.
func (m *Manager) List() contractx.SessionList {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return contractx.SessionList{Sessions: ids, Count: len(ids)}
}

// HandleMessage dispatches an inbound message for a session. tool_call
// messages go through the executor; anything else is acknowledged as
// received. Unknown sessions report ErrSessionNotFound.
func (m *Manager) HandleMessage(ctx context.Context, sessionID string, msg contractx.SessionMessage) (contractx.SessionReply, error) {
	if _, err := m.Get(sessionID); err != nil {
		return contractx.SessionReply{}, err
	}

	if msg.Type == "tool_call" {
		result, err := m.executor(ctx, msg.ToolName, msg.Arguments)
		if err != nil {
			return contractx.SessionReply{}, fmt.Errorf("dispatch %s: %w", msg.ToolName, err)
		}
		return contractx.SessionReply{
			Success:  true,
			Type:     "tool_response",
			ToolName: msg.ToolName,
			Result:   result,
		}, nil
	}

	return contractx.SessionReply{
		Success:   true,
		Type:      "message_received",
		SessionID: sessionID,
	}, nil
}

func snapshotCatalog(catalog []*schema.ToolInfo) []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, len(catalog))
	copy(out, catalog)
	return out
}
