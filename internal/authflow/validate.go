package authflow

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/paynova/console/internal/authapi"
)

var validate = validator.New()

// registerRequest mirrors authapi.RegisterInput with the field rules the
// console enforces before contacting the service. Password length is checked
// separately so its exact message is preserved.
type registerRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	FullName string `validate:"required"`
}

func validateRegister(input authapi.RegisterInput) *FlowError {
	if len(input.Password) > 0 && len(input.Password) < 8 {
		return localError(MsgPasswordTooShort)
	}

	req := registerRequest{Email: input.Email, Password: input.Password, FullName: input.FullName}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return localError(fieldMessage(verrs[0]))
	}
	return localError(defaultMessages[failRegistration])
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}
