package users

import (
	"context"
	"fmt"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/pagination"
	"github.com/pkg/errors"
)

// Service wraps the user endpoints of the auth/user service. It is
// stateless: each call issues exactly one HTTP request and returns a
// typed result, leaving loading indication and notification to the
// caller.
type Service struct {
	api *apiclient.Client
}

// NewService creates a Service over the auth/user service client.
func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// List fetches one page of accounts.
func (s *Service) List(ctx context.Context, q pagination.Query) (pagination.Page[Account], error) {
	var page pagination.Page[Account]
	err := s.api.Get(ctx, "user", &page, apiclient.WithQuery(q.Values()))
	if err != nil {
		return pagination.Page[Account]{}, errors.Wrap(err, "[Service.List] GET user")
	}
	return page, nil
}

// Get fetches a single account by id.
func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	var account Account
	if err := s.api.Get(ctx, fmt.Sprintf("user/%d", id), &account); err != nil {
		return nil, errors.Wrapf(err, "[Service.Get] GET user/%d", id)
	}
	return &account, nil
}

type createPayload struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type updatePayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Create registers a new account. The payload carries the password pair;
// this is the only operation that ever transmits it.
func (s *Service) Create(ctx context.Context, f Form) error {
	body := createPayload{
		Name:                 f.Name,
		Email:                f.Email,
		Password:             f.Password,
		PasswordConfirmation: f.PasswordConfirmation,
	}
	if err := s.api.Post(ctx, "user", body, nil); err != nil {
		return errors.Wrap(err, "[Service.Create] POST user")
	}
	return nil
}

// Update replaces name and email wholesale. The payload never carries
// password keys, so the service cannot mistake an edit for a password
// change.
func (s *Service) Update(ctx context.Context, id int64, f Form) error {
	body := updatePayload{Name: f.Name, Email: f.Email}
	if err := s.api.Put(ctx, fmt.Sprintf("user/%d", id), body, nil); err != nil {
		return errors.Wrapf(err, "[Service.Update] PUT user/%d", id)
	}
	return nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("user/%d", id)); err != nil {
		return errors.Wrapf(err, "[Service.Delete] DELETE user/%d", id)
	}
	return nil
}
