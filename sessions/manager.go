package sessions

import (
	"time"

	"github.com/eregister/console/users"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Manager owns session lifecycle and the allowed state transitions:
// Begin stores a token and marks the session logged in together;
// SetUser replaces the profile snapshot wholesale; Logout clears token,
// profile and flag in one transition by deleting the record.
type Manager struct {
	repo    Repo
	nowTime func() time.Time
}

// ManagerOption modifies a Manager.
type ManagerOption func(*Manager)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) { m.nowTime = nowFunc }
}

// NewManager creates a Manager over the given store.
func NewManager(repo Repo, options ...ManagerOption) *Manager {
	m := &Manager{repo: repo, nowTime: time.Now}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Begin creates a logged-in session for a freshly obtained token. Token
// storage and the logged-in flag are one transition, never observable
// apart.
func (m *Manager) Begin(token string) (Session, error) {
	s := Session{
		ID:        uuid.New().String(),
		Token:     token,
		LoggedIn:  true,
		CreatedAt: m.nowTime(),
	}
	if err := m.repo.Upsert(s.ID, s); err != nil {
		return Session{}, errors.Wrap(err, "[Manager.Begin] store session")
	}
	return s, nil
}

// Get returns the live session for id, if any.
func (m *Manager) Get(id string) (Session, bool) {
	s, err := m.repo.Get(id)
	if err != nil {
		return Session{}, false
	}
	return s, true
}

// SetUser replaces the session's profile snapshot.
func (m *Manager) SetUser(id string, u *users.Account) error {
	s, err := m.repo.Get(id)
	if err != nil {
		return errors.Wrap(err, "[Manager.SetUser] get session")
	}
	s.User = u
	return errors.Wrap(m.repo.Upsert(id, s), "[Manager.SetUser] store session")
}

// Logout ends the session. Token, profile, and logged-in flag disappear
// atomically with the record.
func (m *Manager) Logout(id string) error {
	return errors.Wrap(m.repo.Delete(id), "[Manager.Logout] delete session")
}

// Notify queues a one-shot notice on the session.
func (m *Manager) Notify(id string, level NoticeLevel, message string) error {
	s, err := m.repo.Get(id)
	if err != nil {
		return errors.Wrap(err, "[Manager.Notify] get session")
	}
	s.Notices = append(s.Notices, Notice{Level: level, Message: message})
	return errors.Wrap(m.repo.Upsert(id, s), "[Manager.Notify] store session")
}

// PopNotices drains the session's queued notices. Each notice is
// surfaced exactly once.
func (m *Manager) PopNotices(id string) []Notice {
	s, err := m.repo.Get(id)
	if err != nil || len(s.Notices) == 0 {
		return nil
	}
	notices := s.Notices
	s.Notices = nil
	if err := m.repo.Upsert(id, s); err != nil {
		return nil
	}
	return notices
}
