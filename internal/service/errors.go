package service

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

// storeError classifies a repository failure. Missing rows become NOT_FOUND;
// anything else (timeout, connection loss) surfaces as STORE_UNAVAILABLE and
// is never retried here.
func storeError(err error, notFoundMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
}

// validationError converts a validator failure into the shared taxonomy.
// Missing required fields are listed by name so the caller knows exactly
// what to resubmit.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		missing := make([]string, 0, len(verrs))
		other := make([]string, 0)
		for _, fe := range verrs {
			name := snakeCase(fe.Field())
			if fe.Tag() == "required" {
				missing = append(missing, name)
			} else {
				other = append(other, name)
			}
		}
		if len(missing) > 0 {
			return appErrors.MissingFields(missing...)
		}
		return appErrors.Clone(appErrors.ErrValidation, "invalid fields: "+strings.Join(other, ", "))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}

// snakeCase converts an exported struct field name to its JSON form.
func snakeCase(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z' {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
