// Package sessions holds the in-memory record of each signed-in
// browser: the bearer token, the operator's profile snapshot, and the
// one-shot notices surfaced on the next page render. Sessions live only
// for the running process; there is no persistence across restarts.
package sessions

import (
	"context"
	"time"

	"github.com/eregister/console/users"
)

// NoticeLevel distinguishes success from error notices.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a one-shot message shown once and then discarded.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Session is the authenticated state for one browser. User may be nil:
// a token without a profile is a valid authenticated state (the profile
// fetch after login can fail without rolling back the token).
type Session struct {
	ID        string
	Token     string
	User      *users.Account
	LoggedIn  bool
	CreatedAt time.Time
	Notices   []Notice
}

type contextKey struct{}

// NewContext attaches the request's session to the context.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached to the context, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// ContextTokenSource supplies the bearer token of the session carried in
// the request context; requests outside a session go out without one.
type ContextTokenSource struct{}

func (ContextTokenSource) Token(ctx context.Context) string {
	s, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return s.Token
}
