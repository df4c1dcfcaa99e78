package httpserver

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/todo_app/internal/hash"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator plugs go-playground/validator into echo.Context.Validate.
// Failures come back as 422 with one entry per field.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// bcrypt rejects inputs longer than 72 bytes, whatever their rune count
	_ = v.RegisterValidation("bcrypt", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= hash.MaxPasswordBytes
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, FieldError{Field: e.Field(), Message: formatValidationError(e)})
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]any{"detail": fields})
}

func formatValidationError(e validator.FieldError) string {
	unit := " characters"
	switch e.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		unit = ""
	}

	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param() + unit
	case "max":
		return "must be at most " + e.Param() + unit
	case "bcrypt":
		return "must be at most " + strconv.Itoa(hash.MaxPasswordBytes) + " bytes"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
