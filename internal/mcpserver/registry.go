package mcpserver

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/VantageDataChat/slidesmith/internal/session"
)

// defaultConnection keys calls that arrive without a client session.
const defaultConnection = "default"

// Registry hands out one Session per connection and serializes the calls
// made against it.
type Registry struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	newSession func() *session.Session
}

// Entry guards one Session.
type Entry struct {
	mu       sync.Mutex
	sess     *session.Session
	lastUsed time.Time
}

func NewRegistry(newSession func() *session.Session) *Registry {
	if newSession == nil {
		newSession = func() *session.Session { return session.New() }
	}
	return &Registry{entries: make(map[string]*Entry), newSession: newSession}
}

// Get returns the entry for id, creating its Session on first use.
func (r *Registry) Get(id string) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		e = &Entry{sess: r.newSession()}
		r.entries[id] = e
	}
	return e
}

// Drop forgets the Session of a closed connection.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Do runs fn with exclusive access to the Session.
func (e *Entry) Do(fn func(*session.Session)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = time.Now()
	fn(e.sess)
}

// LastUsed reports when the Session last served a call.
func (e *Entry) LastUsed() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

func connectionID(ctx context.Context) string {
	if cs := server.ClientSessionFromContext(ctx); cs != nil {
		if id := cs.SessionID(); id != "" {
			return id
		}
	}
	return defaultConnection
}
