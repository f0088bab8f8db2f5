// Package session keeps each dashboard user's uploaded files and a loader
// cache scoped to that user, so logically distinct uploads never collide.
package session

import (
	"sort"
	"sync"
	"time"

	"partsdash/domain/catalog"
	"partsdash/domain/core"
	"partsdash/internal"
	"partsdash/internal/loader"
	"partsdash/ports"
)

// FileInfo describes an upload without its bytes.
type FileInfo struct {
	Role       catalog.Role `json:"role"`
	Name       string       `json:"name"`
	Size       int          `json:"size"`
	Hash       string       `json:"hash"`
	UploadedAt time.Time    `json:"uploaded_at"`
}

// Session is one user's workspace.
type Session struct {
	ID        core.SessionID
	CreatedAt time.Time

	Loader *loader.Loader

	mu       sync.RWMutex
	files    map[catalog.Role]ports.TableSource
	infos    map[catalog.Role]FileInfo
	lastSeen time.Time
}

// Source implements ports.SourceSet.
func (s *Session) Source(role catalog.Role) (ports.TableSource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.files[role]
	return src, ok
}

// Put stores or replaces the file for its role.
func (s *Session) Put(src ports.TableSource, now time.Time) FileInfo {
	info := FileInfo{
		Role:       src.Role,
		Name:       src.Name,
		Size:       len(src.Data),
		Hash:       src.Fingerprint().String(),
		UploadedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[src.Role] = src
	s.infos[src.Role] = info
	s.lastSeen = now
	return info
}

// Files lists uploads in role order.
func (s *Session) Files() []FileInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FileInfo, 0, len(s.infos))
	for _, role := range catalog.Roles {
		if info, ok := s.infos[role]; ok {
			out = append(out, info)
		}
	}
	return out
}

// MissingMandatory lists mandatory roles not yet uploaded.
func (s *Session) MissingMandatory() []catalog.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []catalog.Role
	for _, role := range catalog.Roles {
		if _, ok := s.files[role]; role.Mandatory() && !ok {
			missing = append(missing, role)
		}
	}
	return missing
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Registry owns all live sessions.
type Registry struct {
	newLoader func() *loader.Loader
	ttl       time.Duration
	now       func() time.Time
	logger    *internal.Logger

	mu       sync.RWMutex
	sessions map[core.SessionID]*Session
}

// NewRegistry creates a registry. Sessions idle longer than ttl are removed
// by Sweep; ttl <= 0 keeps them forever.
func NewRegistry(newLoader func() *loader.Loader, ttl time.Duration) *Registry {
	return &Registry{
		newLoader: newLoader,
		ttl:       ttl,
		now:       time.Now,
		logger:    internal.DefaultLogger.Named("SessionRegistry"),
		sessions:  make(map[core.SessionID]*Session),
	}
}

// Create opens a new session.
func (r *Registry) Create() *Session {
	now := r.now()
	s := &Session{
		ID:        core.NewSessionID(),
		CreatedAt: now,
		Loader:    r.newLoader(),
		files:     make(map[catalog.Role]ports.TableSource),
		infos:     make(map[catalog.Role]FileInfo),
		lastSeen:  now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Info("session %s created", s.ID)
	return s
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id core.SessionID) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Delete drops a session and its cache.
func (r *Registry) Delete(id core.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns their IDs.
func (r *Registry) Sweep() []core.SessionID {
	if r.ttl <= 0 {
		return nil
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []core.SessionID
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, id)
			delete(r.sessions, id)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	if len(expired) > 0 {
		r.logger.Info("expired %d idle sessions", len(expired))
	}
	return expired
}
