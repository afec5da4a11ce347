package server

import (
	"context"
	"sync"
	"time"

	"github.com/eregister/console/courses"
	"github.com/eregister/console/pagination"
	"github.com/eregister/console/server/listview"
	"github.com/eregister/console/sessions"
	"github.com/eregister/console/users"
)

// viewRegistry tracks the list controllers belonging to each login session.
// Controllers live until the session ends so that search, page, and page
// size survive navigation between console pages.
type viewRegistry struct {
	mu       sync.Mutex
	debounce time.Duration
	pageSize int
	courses  map[string]*listview.Controller[courses.Course]
	users    map[string]*listview.Controller[users.Account]
}

func newViewRegistry(debounce time.Duration, pageSize int) *viewRegistry {
	if debounce <= 0 {
		debounce = listview.DefaultDebounce
	}
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &viewRegistry{
		debounce: debounce,
		pageSize: pageSize,
		courses:  make(map[string]*listview.Controller[courses.Course]),
		users:    make(map[string]*listview.Controller[users.Account]),
	}
}

func (v *viewRegistry) initialQuery() pagination.Query {
	return pagination.Query{Page: 1, PageSize: v.pageSize}
}

func (v *viewRegistry) Courses(sessionID string, fetch listview.Fetch[courses.Course]) *listview.Controller[courses.Course] {
	v.mu.Lock()
	defer v.mu.Unlock()
	ctl, ok := v.courses[sessionID]
	if !ok {
		ctl = listview.New(fetch, listview.WithDebounce(v.debounce), listview.WithQuery(v.initialQuery()))
		v.courses[sessionID] = ctl
	}
	return ctl
}

func (v *viewRegistry) Users(sessionID string, fetch listview.Fetch[users.Account]) *listview.Controller[users.Account] {
	v.mu.Lock()
	defer v.mu.Unlock()
	ctl, ok := v.users[sessionID]
	if !ok {
		ctl = listview.New(fetch, listview.WithDebounce(v.debounce), listview.WithQuery(v.initialQuery()))
		v.users[sessionID] = ctl
	}
	return ctl
}

// CloseSession tears down all controllers for a session. Called on logout.
func (v *viewRegistry) CloseSession(sessionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if ctl, ok := v.courses[sessionID]; ok {
		ctl.Close()
		delete(v.courses, sessionID)
	}
	if ctl, ok := v.users[sessionID]; ok {
		ctl.Close()
		delete(v.users, sessionID)
	}
}

func (v *viewRegistry) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, ctl := range v.courses {
		ctl.Close()
		delete(v.courses, id)
	}
	for id, ctl := range v.users {
		ctl.Close()
		delete(v.users, id)
	}
}

// courseView returns the session's course list controller. The fetch closure
// re-reads the session at call time so debounced fetches use the current
// token rather than the one captured when the controller was created.
func (s *Server) courseView(sessionID string) *listview.Controller[courses.Course] {
	return s.views.Courses(sessionID, func(ctx context.Context, q pagination.Query) (pagination.Page[courses.Course], error) {
		if session, ok := s.sessions.Get(sessionID); ok {
			ctx = sessions.NewContext(ctx, session)
		}
		return s.courses.List(ctx, q)
	})
}

func (s *Server) userView(sessionID string) *listview.Controller[users.Account] {
	return s.views.Users(sessionID, func(ctx context.Context, q pagination.Query) (pagination.Page[users.Account], error) {
		if session, ok := s.sessions.Get(sessionID); ok {
			ctx = sessions.NewContext(ctx, session)
		}
		return s.users.List(ctx, q)
	})
}
