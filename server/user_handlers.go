package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/forms"
	"github.com/eregister/console/server/listview"
	"github.com/eregister/console/sessions"
	"github.com/eregister/console/users"
)

type userTableData struct {
	State listview.State[users.Account]
	Pages []int
	Error string
}

type userFormData struct {
	Title  string
	Action string
	Form   users.Form
	Errors forms.Errors
	Error  string

	// Password fields only exist when creating an account
	WithPassword bool
}

// UsersPageHandler renders the user list page (GET /admin/users)
func (s *Server) UsersPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessions.FromContext(r.Context())
		ctl := s.userView(session.ID)

		if !ctl.Snapshot().Loaded {
			if err := ctl.Refresh(r.Context()); err != nil && !errors.Is(err, listview.ErrSuperseded) {
				log.Err(err).Msg("User list fetch failed")
			}
		}

		table, err := renderToString("users_table.html", s.userTableData(ctl))
		if err != nil {
			log.Err(err).Msg("Failed to render user table")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}

		s.renderPage(w, r, "users", "Users", "users.html", map[string]interface{}{
			"Search": ctl.Snapshot().Query.Search,
			"Table":  table,
		})
	}
}

// UsersTableHandler re-renders the user table for one trigger (GET /admin/users/table)
func (s *Server) UsersTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessions.FromContext(r.Context())
		ctl := s.userView(session.ID)

		if err := <-applyListTrigger(r, ctl); errors.Is(err, listview.ErrSuperseded) || errors.Is(err, listview.ErrClosed) {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		s.renderPartial(w, "users_table.html", s.userTableData(ctl))
	}
}

func (s *Server) userTableData(ctl *listview.Controller[users.Account]) userTableData {
	st := ctl.Snapshot()
	data := userTableData{State: st, Pages: pageNumbers(st.Query.Pages(st.Total))}
	if st.Err != nil {
		data.Error = apiclient.UserMessage(st.Err)
	}
	return data
}

// UserNewHandler renders a blank account form (GET /admin/users/new)
func (s *Server) UserNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := userFormData{Title: "New User", Action: RouteUsers, WithPassword: true}
		s.renderPage(w, r, "users", "New User", "user_form.html", data)
	}
}

// UserCreateHandler processes the new-account form (POST /admin/users)
func (s *Server) UserCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := parseUserForm(w, r)
		if !ok {
			return
		}

		data := userFormData{Title: "New User", Action: RouteUsers, Form: form, WithPassword: true}
		if fieldErrs := form.ValidateCreate(); fieldErrs.Any() {
			data.Errors = fieldErrs
			s.renderPage(w, r, "users", "New User", "user_form.html", data)
			return
		}

		if err := s.users.Create(r.Context(), form); err != nil {
			data.Error = apiclient.UserMessage(err)
			s.renderPage(w, r, "users", "New User", "user_form.html", data)
			return
		}

		s.notifyAndRefreshUsers(r, "User created")
		http.Redirect(w, r, RouteUsers, http.StatusSeeOther)
	}
}

// UserEditHandler loads an account into the form (GET /admin/users/{id}/edit)
func (s *Server) UserEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		account, err := s.users.Get(r.Context(), id)
		if err != nil {
			session, _ := sessions.FromContext(r.Context())
			_ = s.sessions.Notify(session.ID, sessions.NoticeError, apiclient.UserMessage(err))
			http.Redirect(w, r, RouteUsers, http.StatusSeeOther)
			return
		}

		data := userFormData{Title: "Edit User", Action: userSavePath(id), Form: users.FormFromAccount(account)}
		s.renderPage(w, r, "users", "Edit User", "user_form.html", data)
	}
}

// UserUpdateHandler processes the edit form (POST /admin/users/{id}).
// Passwords are never editable here; only name and email are sent on.
func (s *Server) UserUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		form, ok := parseUserForm(w, r)
		if !ok {
			return
		}

		data := userFormData{Title: "Edit User", Action: userSavePath(id), Form: form}
		if fieldErrs := form.ValidateUpdate(); fieldErrs.Any() {
			data.Errors = fieldErrs
			s.renderPage(w, r, "users", "Edit User", "user_form.html", data)
			return
		}

		if err := s.users.Update(r.Context(), id, form); err != nil {
			data.Error = apiclient.UserMessage(err)
			s.renderPage(w, r, "users", "Edit User", "user_form.html", data)
			return
		}

		s.notifyAndRefreshUsers(r, "User updated")
		http.Redirect(w, r, RouteUsers, http.StatusSeeOther)
	}
}

// UserDeleteHandler removes an account (POST /admin/users/{id}/delete).
// The list is refetched only when the delete succeeded.
func (s *Server) UserDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		session, _ := sessions.FromContext(r.Context())
		if err := s.users.Delete(r.Context(), id); err != nil {
			_ = s.sessions.Notify(session.ID, sessions.NoticeError, apiclient.UserMessage(err))
			http.Redirect(w, r, RouteUsers, http.StatusSeeOther)
			return
		}

		s.notifyAndRefreshUsers(r, "User deleted")
		http.Redirect(w, r, RouteUsers, http.StatusSeeOther)
	}
}

func parseUserForm(w http.ResponseWriter, r *http.Request) (users.Form, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return users.Form{}, false
	}

	return users.Form{
		Name:                 strings.TrimSpace(r.FormValue("name")),
		Email:                strings.TrimSpace(r.FormValue("email")),
		Password:             r.FormValue("password"),
		PasswordConfirmation: r.FormValue("passwordConfirmation"),
	}, true
}

func (s *Server) notifyAndRefreshUsers(r *http.Request, message string) {
	session, _ := sessions.FromContext(r.Context())
	_ = s.sessions.Notify(session.ID, sessions.NoticeSuccess, message)
	if err := s.userView(session.ID).Refresh(r.Context()); err != nil && !errors.Is(err, listview.ErrSuperseded) {
		log.Err(err).Msg("User list refresh failed")
	}
}

func userSavePath(id int64) string {
	return fmt.Sprintf("%s/%d", RouteUsers, id)
}
