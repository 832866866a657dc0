package handler

import (
	"github.com/ratify/ratify-web/internal/core/form"
)

// echoValidator adapts form.Validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *form.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: form.New()}
}

// Validate satisfies the echo.Validator interface. Failures are
// form.FieldErrors.
func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}
