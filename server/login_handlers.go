package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/auth"
	"github.com/eregister/console/forms"
	"github.com/eregister/console/sessions"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Error   string
	Email   string // Preserve email on error
	Fields  forms.Errors
}

// IndexHandler routes the bare domain to the right place for the visitor.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if cookie, err := r.Cookie(s.sessionCookieName()); err == nil && cookie.Value != "" {
			if _, ok := s.sessions.Get(cookie.Value); ok {
				http.Redirect(w, r, RouteCourses, http.StatusSeeOther)
				return
			}
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderLoginPage(w, LoginPageData{
			AppName: "E-Register Console",
			Error:   r.URL.Query().Get("error"),
		})
	}
}

// LoginSubmitHandler processes the login form submission
func (s *Server) LoginSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		creds := auth.Credentials{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}

		if fieldErrs := creds.Validate(); fieldErrs.Any() {
			s.renderLoginPage(w, LoginPageData{
				AppName: "E-Register Console",
				Email:   creds.Email,
				Fields:  fieldErrs,
			})
			return
		}

		result, err := s.auth.Login(r.Context(), creds.Email, creds.Password)
		if err != nil {
			s.renderLoginPage(w, LoginPageData{
				AppName: "E-Register Console",
				Email:   creds.Email,
				Error:   apiclient.UserMessage(err),
			})
			return
		}

		session, err := s.sessions.Begin(result.Token)
		if err != nil {
			log.Err(err).Msg("Failed to begin session")
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}

		if result.User != nil {
			if err := s.sessions.SetUser(session.ID, result.User); err != nil {
				log.Err(err).Msg("Failed to store profile on session")
			}
		} else if result.ProfileErr != nil {
			// Signed in, but the profile fetch failed. The session stays
			// authenticated and the user can retry from the profile page.
			log.Err(result.ProfileErr).Msg("Profile fetch failed after login")
			_ = s.sessions.Notify(session.ID, sessions.NoticeError, "Signed in, but your profile could not be loaded")
		}

		s.setSessionCookie(w, r, session.ID)
		http.Redirect(w, r, RouteCourses, http.StatusSeeOther)
	}
}

// LogoutHandler ends the login session and returns to the login page.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(s.sessionCookieName()); err == nil && cookie.Value != "" {
			s.views.CloseSession(cookie.Value)
			if err := s.sessions.Logout(cookie.Value); err != nil {
				log.Err(err).Msg("Failed to delete login session")
			}
		}
		s.clearSessionCookie(w, r)
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

func (s *Server) renderLoginPage(w http.ResponseWriter, data LoginPageData) {
	tmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
		http.Error(w, "Failed to load login page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render login template")
	}
}
