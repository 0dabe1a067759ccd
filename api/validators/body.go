package validators

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var (
	phonePattern  = regexp.MustCompile(`^09\d{9}$`)
	postalPattern = regexp.MustCompile(`^\d{10}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	v.RegisterValidation("persian", validatePersian)
	v.RegisterValidation("irphone", validateIranPhone)
	v.RegisterValidation("irpostal", validateIranPostal)
	return v
}

// validatePersian accepts Persian and Arabic script letters plus spaces.
func validatePersian(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return false
	}
	for _, r := range value {
		if r == ' ' || unicode.Is(unicode.Arabic, r) {
			continue
		}
		return false
	}
	return true
}

func validateIranPhone(fl validator.FieldLevel) bool {
	value := strings.ReplaceAll(fl.Field().String(), " ", "")
	return phonePattern.MatchString(value)
}

func validateIranPostal(fl validator.FieldLevel) bool {
	return postalPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid":
		return "must be a valid id"
	case "persian":
		return "must contain only Persian letters"
	case "irphone":
		return "must be a mobile number like 09123456789"
	case "irpostal":
		return "must be a 10 digit postal code"
	}
	return "is invalid"
}
