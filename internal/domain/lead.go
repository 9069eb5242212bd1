package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LeadFormData is captured once per quiz run and used only to route the result
// email. It is never persisted and never included in narrative payloads.
type LeadFormData struct {
	FirstName        string `json:"firstName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Company          string `json:"company,omitempty"`
	Phone            string `json:"phone,omitempty"`
	WantsEmailResult bool   `json:"wantsEmailResult"`
	AcceptedPrivacy  bool   `json:"acceptedPrivacy" validate:"required"`
}

// FieldError describes a single invalid lead field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors carries field-level detail so callers can surface exactly
// what was wrong instead of a generic failure.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var leadValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the lead form and returns ValidationErrors on failure.
func (l LeadFormData) Validate() error {
	err := leadValidator.Struct(l)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: leadFieldMessage(fe)})
	}
	return out
}

func leadFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "FirstName":
		return "Vorname ist erforderlich"
	case "Email":
		if fe.Tag() == "email" {
			return "Ungültige E-Mail-Adresse"
		}
		return "E-Mail ist erforderlich"
	case "AcceptedPrivacy":
		return "Datenschutzerklärung muss akzeptiert werden"
	default:
		return fmt.Sprintf("ungültiger Wert (%s)", fe.Tag())
	}
}
