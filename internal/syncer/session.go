package syncer

// Session tracks confirmation state for a single sync run. It is created at
// the start of Run, discarded at the end, and never persisted.
type Session struct {
	confirmAll bool
}

// NewSession creates a session with confirmation still required.
func NewSession() *Session {
	return &Session{}
}

// ConfirmAll reports whether the user has already approved all remaining
// writes in this run.
func (s *Session) ConfirmAll() bool {
	return s.confirmAll
}

// SetConfirmAll approves all remaining writes in this run.
func (s *Session) SetConfirmAll() {
	s.confirmAll = true
}
