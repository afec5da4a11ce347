package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/courses"
	"github.com/eregister/console/dates"
	"github.com/eregister/console/forms"
	"github.com/eregister/console/server/listview"
	"github.com/eregister/console/sessions"
)

type courseTableData struct {
	State listview.State[courses.Course]
	Pages []int
	Error string
}

type courseFormData struct {
	Title  string
	Action string
	Form   courses.Form
	Errors forms.Errors
	Error  string

	// Rendered date-grid fragment, shared with the clamp endpoint
	DateGrid template.HTML

	// Picker floors for the three dependent date inputs
	MinEnrollmentEnd string
	MinTeachingStart string
	MinTeachingEnd   string
}

func newCourseFormData(title, action string, f courses.Form, fieldErrs forms.Errors) courseFormData {
	data := courseFormData{
		Title:            title,
		Action:           action,
		Form:             f,
		Errors:           fieldErrs,
		MinEnrollmentEnd: f.MinEnrollmentEnd().String(),
		MinTeachingStart: f.MinTeachingStart().String(),
		MinTeachingEnd:   f.MinTeachingEnd().String(),
	}
	grid, err := renderToString("course_form_dates.html", data)
	if err != nil {
		log.Err(err).Msg("Failed to render date grid")
	}
	data.DateGrid = grid
	return data
}

// CoursesPageHandler renders the course list page (GET /admin/courses)
func (s *Server) CoursesPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessions.FromContext(r.Context())
		ctl := s.courseView(session.ID)

		if !ctl.Snapshot().Loaded {
			if err := ctl.Refresh(r.Context()); err != nil && !errors.Is(err, listview.ErrSuperseded) {
				log.Err(err).Msg("Course list fetch failed")
			}
		}

		table, err := renderToString("courses_table.html", s.courseTableData(ctl))
		if err != nil {
			log.Err(err).Msg("Failed to render course table")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}

		s.renderPage(w, r, "courses", "Courses", "courses.html", map[string]interface{}{
			"Search": ctl.Snapshot().Query.Search,
			"Table":  table,
		})
	}
}

// CoursesTableHandler re-renders the course table for one trigger: a page
// change, a page-size change, or a search keystroke. Search is debounced;
// a request superseded by a newer keystroke gets 204 and no table.
func (s *Server) CoursesTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessions.FromContext(r.Context())
		ctl := s.courseView(session.ID)

		if err := <-applyListTrigger(r, ctl); errors.Is(err, listview.ErrSuperseded) || errors.Is(err, listview.ErrClosed) {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		s.renderPartial(w, "courses_table.html", s.courseTableData(ctl))
	}
}

func (s *Server) courseTableData(ctl *listview.Controller[courses.Course]) courseTableData {
	st := ctl.Snapshot()
	data := courseTableData{State: st, Pages: pageNumbers(st.Query.Pages(st.Total))}
	if st.Err != nil {
		data.Error = apiclient.UserMessage(st.Err)
	}
	return data
}

// CourseNewHandler renders a blank course form (GET /admin/courses/new)
func (s *Server) CourseNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newCourseFormData("New Course", RouteCourses, courses.NewForm(), nil)
		s.renderPage(w, r, "courses", "New Course", "course_form.html", data)
	}
}

// CourseCreateHandler processes the new-course form (POST /admin/courses)
func (s *Server) CourseCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := s.parseCourseForm(w, r)
		if !ok {
			return
		}

		fieldErrs := form.Validate()
		data := newCourseFormData("New Course", RouteCourses, form, fieldErrs)
		if fieldErrs.Any() {
			s.renderPage(w, r, "courses", "New Course", "course_form.html", data)
			return
		}

		if err := s.courses.Create(r.Context(), form); err != nil {
			data.Error = apiclient.UserMessage(err)
			s.renderPage(w, r, "courses", "New Course", "course_form.html", data)
			return
		}

		s.notifyAndRefreshCourses(r, "Course created")
		http.Redirect(w, r, RouteCourses, http.StatusSeeOther)
	}
}

// CourseEditHandler loads a course into the form (GET /admin/courses/{id}/edit)
func (s *Server) CourseEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		course, err := s.courses.Get(r.Context(), id)
		if err != nil {
			session, _ := sessions.FromContext(r.Context())
			_ = s.sessions.Notify(session.ID, sessions.NoticeError, apiclient.UserMessage(err))
			http.Redirect(w, r, RouteCourses, http.StatusSeeOther)
			return
		}

		data := newCourseFormData("Edit Course", courseSavePath(id), courses.FormFromCourse(course), nil)
		s.renderPage(w, r, "courses", "Edit Course", "course_form.html", data)
	}
}

// CourseUpdateHandler processes the edit form (POST /admin/courses/{id})
func (s *Server) CourseUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		form, ok := s.parseCourseForm(w, r)
		if !ok {
			return
		}

		fieldErrs := form.Validate()
		data := newCourseFormData("Edit Course", courseSavePath(id), form, fieldErrs)
		if fieldErrs.Any() {
			s.renderPage(w, r, "courses", "Edit Course", "course_form.html", data)
			return
		}

		if err := s.courses.Update(r.Context(), id, form); err != nil {
			data.Error = apiclient.UserMessage(err)
			s.renderPage(w, r, "courses", "Edit Course", "course_form.html", data)
			return
		}

		s.notifyAndRefreshCourses(r, "Course updated")
		http.Redirect(w, r, RouteCourses, http.StatusSeeOther)
	}
}

// CourseDeleteHandler removes a course (POST /admin/courses/{id}/delete).
// The list is refetched only when the delete succeeded.
func (s *Server) CourseDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		session, _ := sessions.FromContext(r.Context())
		if err := s.courses.Delete(r.Context(), id); err != nil {
			_ = s.sessions.Notify(session.ID, sessions.NoticeError, apiclient.UserMessage(err))
			http.Redirect(w, r, RouteCourses, http.StatusSeeOther)
			return
		}

		s.notifyAndRefreshCourses(r, "Course deleted")
		http.Redirect(w, r, RouteCourses, http.StatusSeeOther)
	}
}

// CourseDatesHandler re-renders the date grid after a date change, raising
// any later date that fell before an earlier one (POST /admin/courses/form/dates)
func (s *Server) CourseDatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := s.parseCourseForm(w, r)
		if !ok {
			return
		}
		form.ClampDates()

		data := newCourseFormData("", "", form, nil)
		s.renderPartial(w, "course_form_dates.html", data)
	}
}

func (s *Server) parseCourseForm(w http.ResponseWriter, r *http.Request) (courses.Form, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return courses.Form{}, false
	}

	f := courses.Form{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	f.EnrollmentStart = parseFormDate(r.FormValue("enrollmentStart"))
	f.EnrollmentEnd = parseFormDate(r.FormValue("enrollmentEnd"))
	f.TeachingStart = parseFormDate(r.FormValue("teachingStart"))
	f.TeachingEnd = parseFormDate(r.FormValue("teachingEnd"))
	return f, true
}

func (s *Server) notifyAndRefreshCourses(r *http.Request, message string) {
	session, _ := sessions.FromContext(r.Context())
	_ = s.sessions.Notify(session.ID, sessions.NoticeSuccess, message)
	if err := s.courseView(session.ID).Refresh(r.Context()); err != nil && !errors.Is(err, listview.ErrSuperseded) {
		log.Err(err).Msg("Course list refresh failed")
	}
}

// parseFormDate turns a date input value into a Date. Unparseable input
// comes back zero and is caught by form validation.
func parseFormDate(value string) dates.Date {
	d, err := dates.Parse(value)
	if err != nil {
		return dates.Date{}
	}
	return d
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func courseSavePath(id int64) string {
	return fmt.Sprintf("%s/%d", RouteCourses, id)
}

func pageNumbers(n int) []int {
	pages := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, i)
	}
	return pages
}
