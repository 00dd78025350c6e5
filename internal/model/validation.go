package model

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"logviewer-backend/internal/apperror"
	"logviewer-backend/internal/util"
)

// FieldError is one rejected field, reported back to API clients.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var fieldMessages = map[string]string{
	"level":      "Invalid log level",
	"message":    "Message is required",
	"resourceId": "Resource ID is required",
	"timestamp":  "Timestamp must be a valid ISO 8601 date string",
	"traceId":    "Trace ID is required",
	"spanId":     "Span ID is required",
	"commit":     "Commit hash is required",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func entryValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
			_, ok := ParseLevel(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
			_, err := util.ParseISO8601(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// Validate checks the required-field constraints an entry must meet before it is stored.
// The returned error is a ValidationFailed *apperror.Error whose Details is []FieldError.
func (e LogEntry) Validate() error {
	err := entryValidator().Struct(e)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(apperror.ValidationFailed, "invalid log entry", err)
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
	}
	appErr := apperror.New(apperror.ValidationFailed, fields[0].Message)
	appErr.Details = fields
	return appErr
}
