package voice

import (
	"bytes"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
)

// Session is one voice capture. The machine moves
// Idle -> Recording -> Stopped -> (Discarded | Submitted); terminal
// states reject every further transition. A session carries exactly one
// recording; the buffer belongs to the session until Submit hands it
// to the transcription gateway.
type Session struct {
	ID     string
	UserID string

	mu         sync.Mutex
	state      domain.CaptureState
	buf        bytes.Buffer
	sampleRate int
	encoding   string
	maxBytes   int
	startedAt  time.Time
	stoppedAt  time.Time
}

func newSession(userID string, sampleRate int, encoding string, maxBytes int) *Session {
	if encoding == "" {
		encoding = "wav"
	}
	return &Session{
		ID:         uuid.New().String(),
		UserID:     userID,
		state:      domain.CaptureStateIdle,
		sampleRate: sampleRate,
		encoding:   encoding,
		maxBytes:   maxBytes,
	}
}

// Start moves Idle to Recording. The client conveys whether the
// microphone permission was granted; without it the session stays Idle.
func (s *Session) Start(permissionGranted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !permissionGranted {
		return &domain.PermissionDeniedError{Reason: "client reported microphone access not granted"}
	}
	if s.state != domain.CaptureStateIdle {
		return &domain.InvalidStateError{State: s.state, Event: "start"}
	}

	s.state = domain.CaptureStateRecording
	s.startedAt = time.Now()
	return nil
}

// Write appends one audio chunk. Only legal while Recording.
func (s *Session) Write(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.CaptureStateRecording {
		return &domain.InvalidStateError{State: s.state, Event: "write"}
	}
	if s.maxBytes > 0 && s.buf.Len()+len(chunk) > s.maxBytes {
		return domain.ErrAudioTooLarge
	}

	s.buf.Write(chunk)
	return nil
}

// Stop finalizes the recording. Calling Stop on an already stopped
// session is a no-op; any other state rejects the transition.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.CaptureStateRecording:
		s.state = domain.CaptureStateStopped
		s.stoppedAt = time.Now()
		return nil
	case domain.CaptureStateStopped:
		return nil
	default:
		return &domain.InvalidStateError{State: s.state, Event: "stop"}
	}
}

// Discard frees the buffer. Legal while Recording (user abort) or
// Stopped; terminal afterwards.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.CaptureStateRecording, domain.CaptureStateStopped:
		s.state = domain.CaptureStateDiscarded
		s.buf.Reset()
		return nil
	default:
		return &domain.InvalidStateError{State: s.state, Event: "discard"}
	}
}

// Submit hands the finalized buffer off and seals the session. Only
// legal from Stopped; an empty recording is rejected and the session
// stays Stopped so the caller can discard it.
func (s *Session) Submit() (*domain.AudioBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.CaptureStateStopped {
		return nil, &domain.InvalidStateError{State: s.state, Event: "submit"}
	}
	if s.buf.Len() == 0 {
		return nil, domain.ErrEmptyAudio
	}

	s.state = domain.CaptureStateSubmitted
	return &domain.AudioBuffer{
		Data:       s.buf.Bytes(),
		SampleRate: s.sampleRate,
		Encoding:   s.encoding,
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() domain.CaptureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BufferedBytes returns how much audio the session holds.
func (s *Session) BufferedBytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

// terminal reports whether the session reached a final state.
func (s *Session) terminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == domain.CaptureStateDiscarded || s.state == domain.CaptureStateSubmitted
}

// expired reports whether the session outlived the allowed duration:
// a recording that ran too long, or a stopped buffer nobody submitted.
func (s *Session) expired(now time.Time, maxDuration time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if maxDuration <= 0 {
		return false
	}
	switch s.state {
	case domain.CaptureStateRecording:
		return now.Sub(s.startedAt) > maxDuration
	case domain.CaptureStateStopped:
		return now.Sub(s.stoppedAt) > maxDuration
	default:
		return false
	}
}

// SessionManager tracks capture sessions across users. Different users
// record independently; the only shared state is this registry.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]int

	maxPerUser  int
	maxDuration time.Duration
	log         *zap.Logger
}

// NewSessionManager creates a registry enforcing a per-user cap on
// non-terminal sessions and a maximum recording duration.
func NewSessionManager(maxPerUser int, maxDuration time.Duration, log *zap.Logger) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		byUser:      make(map[string]int),
		maxPerUser:  maxPerUser,
		maxDuration: maxDuration,
		log:         log,
	}
}

// Open registers a fresh Idle session for the user.
func (m *SessionManager) Open(userID string, sampleRate int, encoding string, maxBytes int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxPerUser > 0 && m.byUser[userID] >= m.maxPerUser {
		return nil, domain.ErrTooManySessions
	}

	session := newSession(userID, sampleRate, encoding, maxBytes)
	m.sessions[session.ID] = session
	m.byUser[userID]++

	m.log.Debug("capture session opened",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
	)

	return session, nil
}

// Get returns the session or domain.ErrNotFound.
func (m *SessionManager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// Release drops a session from the registry once it is done.
func (m *SessionManager) Release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release(sessionID)
}

func (m *SessionManager) release(sessionID string) {
	session, ok := m.sessions[sessionID]
	if !ok {
		return
	}
	delete(m.sessions, sessionID)
	if m.byUser[session.UserID] <= 1 {
		delete(m.byUser, session.UserID)
	} else {
		m.byUser[session.UserID]--
	}
}

// ActiveSessions returns how many non-released sessions exist.
func (m *SessionManager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep discards recordings that ran past the duration limit and drops
// terminal sessions left behind by disconnected clients. Returns how
// many sessions were removed.
func (m *SessionManager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if session.expired(now, m.maxDuration) {
			if err := session.Discard(); err == nil {
				m.log.Warn("capture session exceeded max duration, discarded",
					zap.String("session_id", id),
					zap.String("user_id", session.UserID),
					zap.Duration("max_duration", m.maxDuration),
				)
			}
		}
		if session.terminal() {
			m.release(id)
			removed++
		}
	}
	return removed
}
