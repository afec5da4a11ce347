package courses

import (
	"context"
	"fmt"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/dates"
	"github.com/eregister/console/pagination"
	"github.com/pkg/errors"
)

// Service wraps the course service endpoints. Stateless; each call
// issues exactly one HTTP request and returns a typed result.
type Service struct {
	api *apiclient.Client
}

// NewService creates a Service over the course service client.
func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// List fetches one page of courses matching the query.
func (s *Service) List(ctx context.Context, q pagination.Query) (pagination.Page[Course], error) {
	var page pagination.Page[Course]
	err := s.api.Get(ctx, "course", &page, apiclient.WithQuery(q.Values()))
	if err != nil {
		return pagination.Page[Course]{}, errors.Wrap(err, "[Service.List] GET course")
	}
	return page, nil
}

// Get fetches a single course by id.
func (s *Service) Get(ctx context.Context, id int64) (*Course, error) {
	var course Course
	if err := s.api.Get(ctx, fmt.Sprintf("course/%d", id), &course); err != nil {
		return nil, errors.Wrapf(err, "[Service.Get] GET course/%d", id)
	}
	return &course, nil
}

// coursePayload is the create/update body. Dates go out with calendar-day
// semantics, timezone stripped.
type coursePayload struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	EnrollmentStart dates.Date `json:"enrollmentStart"`
	EnrollmentEnd   dates.Date `json:"enrollmentEnd"`
	TeachingStart   dates.Date `json:"teachingStart"`
	TeachingEnd     dates.Date `json:"teachingEnd"`
}

func payloadFromForm(f Form) coursePayload {
	return coursePayload{
		Name:            f.Name,
		Description:     f.Description,
		EnrollmentStart: f.EnrollmentStart,
		EnrollmentEnd:   f.EnrollmentEnd,
		TeachingStart:   f.TeachingStart,
		TeachingEnd:     f.TeachingEnd,
	}
}

// Create adds a new course from validated form input.
func (s *Service) Create(ctx context.Context, f Form) error {
	if err := s.api.Post(ctx, "course", payloadFromForm(f), nil); err != nil {
		return errors.Wrap(err, "[Service.Create] POST course")
	}
	return nil
}

// Update replaces all course fields wholesale.
func (s *Service) Update(ctx context.Context, id int64, f Form) error {
	if err := s.api.Put(ctx, fmt.Sprintf("course/%d", id), payloadFromForm(f), nil); err != nil {
		return errors.Wrapf(err, "[Service.Update] PUT course/%d", id)
	}
	return nil
}

// Delete removes a course.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("course/%d", id)); err != nil {
		return errors.Wrapf(err, "[Service.Delete] DELETE course/%d", id)
	}
	return nil
}
