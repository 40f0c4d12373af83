// Package session tracks remote endpoints, their claimed player identity and
// their liveness. Unknown senders are silently admitted as player1.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"padbridge/internal/motion"
	"padbridge/internal/protocol"
)

// DefaultTimeout is how long a session may stay silent before the sweep
// evicts it.
const DefaultTimeout = 30 * time.Second

// SweepInterval is the fixed period of the eviction sweep, independent of
// traffic.
const SweepInterval = 10 * time.Second

// Session is one remote endpoint's identity and liveness record. It owns
// the endpoint's touch smoothing state.
type Session struct {
	Addr     string // transport address, "ip:port"
	Player   string
	LastSeen time.Time

	Touch *motion.State
}

// Info is a read-only session snapshot for the status API.
type Info struct {
	Addr     string    `json:"addr"`
	Player   string    `json:"player"`
	LastSeen time.Time `json:"last_seen"`
}

// Store owns all live sessions. Resolving never fails.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      *zap.SugaredLogger
}

// NewStore creates an empty session store.
func NewStore(log *zap.SugaredLogger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		log:      log,
	}
}

// Resolve returns the session for addr, creating it as player1 on first
// contact, and refreshes its last-seen timestamp.
func (s *Store) Resolve(addr string) *Session {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[addr]
	if !ok {
		sess = &Session{
			Addr:   addr,
			Player: protocol.Player1,
			Touch:  motion.NewState(),
		}
		s.sessions[addr] = sess
		s.log.Infof("New session from %s (defaulting to %s)", addr, sess.Player)
	}
	sess.LastSeen = now
	return sess
}

// SetPlayer reassigns the session's player identity. The session is created
// first if needed.
func (s *Store) SetPlayer(addr, player string) {
	sess := s.Resolve(addr)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.Player != player {
		s.log.Infof("Session %s now attributed to %s", addr, player)
		sess.Player = player
	}
}

// Player returns the current identity for addr, resolving the session if it
// does not exist yet.
func (s *Store) Player(addr string) string {
	sess := s.Resolve(addr)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sess.Player
}

// Sweep evicts sessions silent for longer than timeout and returns them.
func (s *Store) Sweep(now time.Time, timeout time.Duration) []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []*Session
	for addr, sess := range s.sessions {
		if now.Sub(sess.LastSeen) > timeout {
			evicted = append(evicted, sess)
			delete(s.sessions, addr)
			s.log.Infof("Removing inactive session %s (%s)", addr, sess.Player)
		}
	}
	return evicted
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Snapshot returns read-only copies of all live sessions for the status API.
func (s *Store) Snapshot() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, Info{Addr: sess.Addr, Player: sess.Player, LastSeen: sess.LastSeen})
	}
	return infos
}
