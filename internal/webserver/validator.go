package webserver

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type webValidator struct {
	validate *validator.Validate
}

func NewValidator() echo.Validator {
	return &webValidator{validate: validator.New()}
}

// Validate returns the raw validator error so handlers can unwrap
// validator.ValidationErrors into field-level responses.
func (v *webValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
