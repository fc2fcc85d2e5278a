// Package validation provides record validation using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/libkeeper/libkeeper/internal/domain"
	domainerrors "github.com/libkeeper/libkeeper/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	return &Validator{v: v, now: time.Now}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// ValidateDraft validates a book draft, including the wall-clock upper
// bound on publication_year that struct tags cannot express.
func (v *Validator) ValidateDraft(draft *domain.BookDraft) error {
	if err := v.Validate(draft); err != nil {
		return err
	}

	currentYear := v.now().Year()
	if draft.PublicationYear > currentYear {
		return domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"publication_year": fmt.Sprintf("must not exceed %d", currentYear),
		})
	}

	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Collect all field errors
	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}

	// Return domain validation error with details
	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		return "must not exceed " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
