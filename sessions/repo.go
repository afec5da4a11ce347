package sessions

import "errors"

// ErrNotFound is returned when a session id has no live session.
var ErrNotFound = errors.New("session not found")

// Repo stores live sessions. Each mutation replaces the stored record
// wholesale, so every state transition is observable as a single write.
type Repo interface {
	Upsert(id string, s Session) error
	Get(id string) (Session, error)
	Delete(id string) error
}
