// Package validation implements the per-kind payload validators consumed by
// the lifecycle services. The storage core never sees unvalidated input.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func check(value, tag, field string) error {
	if err := validate.Var(value, tag); err != nil {
		return &internal_errors.ValidationError{Message: fmt.Sprintf("invalid %s", field)}
	}
	return nil
}

type BoardRules struct{}

func (BoardRules) Name(name string) error {
	return check(name, "required,min=1,max=120", "board name")
}

func (BoardRules) Description(description string) error {
	return check(description, "max=4000", "board description")
}

type ThreadRules struct{}

func (ThreadRules) Title(title string) error {
	return check(title, "required,min=1,max=200", "thread title")
}

type PostRules struct{}

func (PostRules) Title(title string) error {
	return check(title, "max=200", "post title")
}

func (PostRules) Body(body string) error {
	return check(body, "required,min=1,max=40000", "post body")
}

type UserRules struct{}

func (UserRules) Username(username string) error {
	return check(username, "required,min=2,max=60", "username")
}

func (UserRules) Email(email string) error {
	return check(email, "required,email", "email")
}

func (UserRules) Password(password string) error {
	return check(password, "required,min=8,max=72", "password") // bcrypt input cap
}
