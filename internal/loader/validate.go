package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nvandessel/polisim/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and member and party id uniqueness. Dimension and
// reference checks are left to Build so they report their own sentinel
// errors.
func Validate(r *models.Roster) error {
	if r == nil {
		return errors.New("roster is nil")
	}
	if err := validate.Struct(r); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]bool, len(r.Members))
	for _, m := range r.Members {
		if seen[m.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateMember, m.ID)
		}
		seen[m.ID] = true
	}

	parties := make(map[string]bool, len(r.Parties))
	for _, p := range r.Parties {
		if parties[p.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateParty, p.ID)
		}
		parties[p.ID] = true
	}

	return nil
}

// formatValidationError flattens validator errors into one readable message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid roster: %s", strings.Join(msgs, "; "))
}

// formatFieldError formats a single field validation error, using the
// namespace so "Roster.Members[2].Swing" points at the offending entry.
func formatFieldError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Roster.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", field, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s, got %v", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
