package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := ve.Messages()
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

func (ve *ValidationErrors) Messages() []string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return errorMessages
}

// ErrOrNil returns nil when nothing was collected, the single error when one
// was, and the whole set otherwise.
func (ve *ValidationErrors) ErrOrNil() error {
	switch len(ve.Errors) {
	case 0:
		return nil
	case 1:
		return ve.Errors[0]
	default:
		return ve
	}
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	return errors.As(err, &validationErrors)
}

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrForbiddenCategory    = errors.New("category does not belong to the user")
	ErrDuplicateCategory    = errors.New("category with this name already exists")
	ErrCategoryInUse        = errors.New("category is used by existing transactions")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrForbiddenTransaction = errors.New("transaction does not belong to the user")
	ErrNoChartData          = errors.New("no expenses to chart")
)
