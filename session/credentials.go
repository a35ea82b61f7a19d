package session

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator"

	"github.com/eringen/gallerydesk/api"
)

var (
	ErrMissingFields = errors.New("session: email and password are required")
	ErrInvalidEmail  = errors.New("session: invalid email address")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type credentialForm struct {
	Email    string `validate:"required,loginemail"`
	Password string `validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("loginemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateCredentials checks a login or register form before it is sent.
// Empty fields report ErrMissingFields, a malformed email ErrInvalidEmail.
func ValidateCredentials(c api.Credentials) error {
	err := validate.Struct(credentialForm{Email: c.Email, Password: c.Password})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return ErrMissingFields
		}
	}
	return ErrInvalidEmail
}
