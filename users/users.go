// Package users manages staff accounts through the auth/user service.
// The same Account shape doubles as the signed-in operator's profile
// snapshot: fetched wholesale after login and superseded wholesale on
// the next fetch, never partially patched.
package users

import (
	"time"

	"github.com/eregister/console/forms"
)

// Account is a user record from the auth/user service.
type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Form carries submitted user fields. The password pair is write-only:
// it is required when creating an account and absent entirely from the
// update schema and the update payload.
type Form struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

type createSchema struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

type updateSchema struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// ValidateCreate checks the full schema including the password pair.
func (f Form) ValidateCreate() forms.Errors {
	return forms.Validate(createSchema(f))
}

// ValidateUpdate checks only name and email; password fields are ignored
// even if present.
func (f Form) ValidateUpdate() forms.Errors {
	return forms.Validate(updateSchema{Name: f.Name, Email: f.Email})
}

// FormFromAccount pre-populates an edit form. Password fields stay
// empty: they are never read back from the service.
func FormFromAccount(a *Account) Form {
	return Form{Name: a.Name, Email: a.Email}
}
