// Package courses manages course records through the course service.
// A course carries four calendar dates that must be strictly increasing:
// enrollment opens, enrollment closes, teaching starts, teaching ends.
package courses

import (
	"time"

	"github.com/eregister/console/dates"
	"github.com/eregister/console/forms"
)

// Course is a course record from the course service.
type Course struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	EnrollmentStart dates.Date `json:"enrollmentStart"`
	EnrollmentEnd   dates.Date `json:"enrollmentEnd"`
	TeachingStart   dates.Date `json:"teachingStart"`
	TeachingEnd     dates.Date `json:"teachingEnd"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	CreatedByUserID int64      `json:"createdByUserId"`
}

// Form carries submitted course fields.
type Form struct {
	Name            string     `json:"name" validate:"required,max=100"`
	Description     string     `json:"description" validate:"required,max=500"`
	EnrollmentStart dates.Date `json:"enrollmentStart"`
	EnrollmentEnd   dates.Date `json:"enrollmentEnd"`
	TeachingStart   dates.Date `json:"teachingStart"`
	TeachingEnd     dates.Date `json:"teachingEnd"`
}

// NewForm returns a fresh form with all four dates on today, the state a
// create dialog opens with.
func NewForm() Form {
	today := dates.Today()
	return Form{
		EnrollmentStart: today,
		EnrollmentEnd:   today,
		TeachingStart:   today,
		TeachingEnd:     today,
	}
}

// FormFromCourse pre-populates an edit form from a fetched record.
func FormFromCourse(c *Course) Form {
	return Form{
		Name:            c.Name,
		Description:     c.Description,
		EnrollmentStart: c.EnrollmentStart,
		EnrollmentEnd:   c.EnrollmentEnd,
		TeachingStart:   c.TeachingStart,
		TeachingEnd:     c.TeachingEnd,
	}
}

// Validate checks the field rules and the strict date ordering
// enrollmentStart < enrollmentEnd < teachingStart < teachingEnd.
// It runs on submit regardless of what the pickers allowed.
func (f *Form) Validate() forms.Errors {
	errs := forms.Validate(f)

	required := []struct {
		field string
		value dates.Date
	}{
		{"enrollmentStart", f.EnrollmentStart},
		{"enrollmentEnd", f.EnrollmentEnd},
		{"teachingStart", f.TeachingStart},
		{"teachingEnd", f.TeachingEnd},
	}
	missing := false
	for _, d := range required {
		if d.value.IsZero() {
			errs.Add(d.field, "This field is required")
			missing = true
		}
	}
	if missing {
		return errs
	}

	if !f.EnrollmentEnd.After(f.EnrollmentStart) {
		errs.Add("enrollmentEnd", "Enrollment must close after it opens")
	}
	if !f.TeachingStart.After(f.EnrollmentEnd) {
		errs.Add("teachingStart", "Teaching must start after enrollment closes")
	}
	if !f.TeachingEnd.After(f.TeachingStart) {
		errs.Add("teachingEnd", "Teaching must end after it starts")
	}
	return errs
}

// ClampDates raises any later date a moved earlier date has passed, in
// submission order, so the pickers alone can never reach a
// submittable-but-invalid state. Validate still runs on submit.
func (f *Form) ClampDates() {
	if f.EnrollmentEnd.Before(f.EnrollmentStart) {
		f.EnrollmentEnd = f.EnrollmentStart
	}
	if f.TeachingStart.Before(f.EnrollmentEnd) {
		f.TeachingStart = f.EnrollmentEnd
	}
	if f.TeachingEnd.Before(f.TeachingStart) {
		f.TeachingEnd = f.TeachingStart
	}
}

// MinEnrollmentEnd is the picker floor for the enrollment close date.
func (f *Form) MinEnrollmentEnd() dates.Date { return f.EnrollmentStart }

// MinTeachingStart is the picker floor for the teaching start date.
func (f *Form) MinTeachingStart() dates.Date { return f.EnrollmentEnd }

// MinTeachingEnd is the picker floor for the teaching end date.
func (f *Form) MinTeachingEnd() dates.Date { return f.TeachingStart }
