package http

import (
	"errors"
	"reflect"
	"strings"

	tsDomain "ops-portal-backend/internal/domain/timesheet"
	"ops-portal-backend/pkg/hhmm"
	"ops-portal-backend/pkg/id"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

// fieldName reports a field the way the client sent it: json name for bodies,
// then the param or query name, then the Go name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "param", "query"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)

	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.IsID32(fl.Field().String())
	})
	// "", H:mm or HH:mm up to 24:00
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmm.Valid(fl.Field().String())
	})
	_ = v.RegisterValidation("weekstart", func(fl validator.FieldLevel) bool {
		_, err := tsDomain.ParseWeekStart(fl.Field().String())
		return err == nil
	})
	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

var tagMessages = map[string]string{
	"required":  "is required",
	"hex32":     "must be 32-char lowercase hex",
	"hhmm":      "must be HH:mm between 00:00 and 24:00",
	"weekstart": "must be a Monday in YYYY-MM-DD",
	"email":     "must be a valid email",
	"oneof":     "must be one of ",
	"gte":       "must be greater than or equal to ",
	"lte":       "must be less than or equal to ",
	"min":       "must have at least ",
}

// ToFieldErrors turns validator failures into client messages. Any other error
// becomes a single detail on field "_".
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		msg, ok := tagMessages[e.Tag()]
		switch {
		case !ok:
			msg = e.Tag() + " validation failed"
		case strings.HasSuffix(msg, " "):
			msg += e.Param()
		}
		out = append(out, FieldError{Field: e.Field(), Message: msg})
	}
	return out
}
