package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/sessions"
	"github.com/eregister/console/users"
)

type profilePageData struct {
	User *users.Account
}

// ProfilePageHandler shows the signed-in staff member's profile. A session
// whose profile fetch failed at login renders a retry prompt instead.
func (s *Server) ProfilePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessions.FromContext(r.Context())
		s.renderPage(w, r, "profile", "Profile", "profile.html", profilePageData{User: session.User})
	}
}

// ProfileRefreshHandler refetches the profile from the auth service and
// stores it on the session (POST /admin/profile/refresh)
func (s *Server) ProfileRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessions.FromContext(r.Context())

		account, err := s.auth.Profile(r.Context())
		if err != nil {
			_ = s.sessions.Notify(session.ID, sessions.NoticeError, apiclient.UserMessage(err))
			http.Redirect(w, r, RouteProfile, http.StatusSeeOther)
			return
		}

		if err := s.sessions.SetUser(session.ID, account); err != nil {
			log.Err(err).Msg("Failed to store refreshed profile")
		}
		_ = s.sessions.Notify(session.ID, sessions.NoticeSuccess, "Profile refreshed")
		http.Redirect(w, r, RouteProfile, http.StatusSeeOther)
	}
}
