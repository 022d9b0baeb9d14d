package intake

import (
	"errors"
	"reflect"
	"strings"

	"github.com/geocoder89/formhub/internal/domain/credential"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationError lists every violated constraint. Error returns the first
// one as a sentence, e.g. "password must be at least 6 characters".
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid submission"
	}

	f := e.Fields[0]

	return f.Field + " " + f.Message
}

type submission struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return sf.Name
		}
		return name
	})

	return v
}

// Validate extracts email and password from p and checks them. Only string
// values count; anything else is treated as missing.
func Validate(p Payload) (credential.Credential, error) {
	in := submission{
		Email:    strings.TrimSpace(stringField(p, "email")),
		Password: stringField(p, "password"),
	}

	err := validate.Struct(in)

	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, FieldError{
					Field:   fe.Field(),
					Rule:    fe.Tag(),
					Param:   fe.Param(),
					Message: validationMessage(fe.Tag(), fe.Param()),
				})
			}
			return credential.Credential{}, &ValidationError{Fields: fields}
		}

		return credential.Credential{}, err
	}

	c, err := credential.New(in.Email, in.Password)

	if err != nil {
		return credential.Credential{}, &ValidationError{Fields: []FieldError{fieldFromCredentialErr(err)}}
	}

	return c, nil
}

func stringField(p Payload, key string) string {
	s, _ := p[key].(string)
	return s
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + param + " characters"
	default:
		return "failed " + rule + " validation"
	}
}

func fieldFromCredentialErr(err error) FieldError {
	switch {
	case errors.Is(err, credential.ErrEmptyEmail):
		return FieldError{Field: "email", Rule: "required", Message: "is required"}
	case errors.Is(err, credential.ErrEmptyPassword):
		return FieldError{Field: "password", Rule: "required", Message: "is required"}
	default:
		return FieldError{Field: "password", Rule: "min", Param: "6", Message: "must be at least 6 characters"}
	}
}
