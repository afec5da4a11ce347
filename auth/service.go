// Package auth signs staff in against the auth/user service. The
// console never inspects or refreshes tokens: a bearer token is stored
// opaquely and trusted until a request fails with a service error.
package auth

import (
	"context"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/forms"
	"github.com/eregister/console/users"
	"github.com/pkg/errors"
)

// Credentials is the login form input.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the login schema before any request is issued.
func (c Credentials) Validate() forms.Errors {
	return forms.Validate(c)
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Result is a completed login. User is nil when the dependent profile
// fetch failed; the token is still valid and the session is considered
// authenticated, so consumers must tolerate a missing profile.
type Result struct {
	Token      string
	User       *users.Account
	ProfileErr error
}

// Service wraps the authentication endpoints of the auth/user service.
type Service struct {
	api *apiclient.Client
}

// NewService creates a Service over the auth/user service client.
func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// Login exchanges credentials for a token, then performs a second,
// dependent fetch of the operator's profile with that token. The error
// return covers the credential exchange only: a failed profile fetch is
// recorded on the Result and the token is kept, not rolled back.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	var tr tokenResponse
	if err := s.api.Post(ctx, "auth", Credentials{Email: email, Password: password}, &tr); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] POST auth")
	}

	res := &Result{Token: tr.Token}

	var profile users.Account
	if err := s.api.Get(ctx, "profile", &profile, apiclient.WithBearer(tr.Token)); err != nil {
		res.ProfileErr = errors.Wrap(err, "[Service.Login] GET profile")
		return res, nil
	}
	res.User = &profile
	return res, nil
}

// Profile re-fetches the signed-in operator's profile using the ambient
// session token. The returned snapshot supersedes any previous one
// wholesale.
func (s *Service) Profile(ctx context.Context) (*users.Account, error) {
	var profile users.Account
	if err := s.api.Get(ctx, "profile", &profile); err != nil {
		return nil, errors.Wrap(err, "[Service.Profile] GET profile")
	}
	return &profile, nil
}
