package resumes

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	markup   = bluemonday.StrictPolicy()
	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Dates validate as their underlying time so "required" rejects the zero date.
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		return f.Interface().(Date).Time
	}, Date{})
	_ = v.RegisterValidation("nohtml", func(fl validator.FieldLevel) bool {
		return !containsMarkup(fl.Field().String())
	})
	return v
}

// containsMarkup reports whether the strict policy would strip anything from s.
// The policy escapes bare entities, so its output is unescaped before comparing.
func containsMarkup(s string) bool {
	if !strings.ContainsAny(s, "<>") {
		return false
	}
	return html.UnescapeString(markup.Sanitize(s)) != s
}

// validateText checks a single free-text value outside of a struct.
func validateText(field, value string) error {
	if containsMarkup(value) {
		return &ValidationError{Field: field, Msg: field + " must not contain HTML markup"}
	}
	return nil
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fieldPath(fe.Namespace())
		return &ValidationError{Field: field, Msg: describe(field, fe)}
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// fieldPath strips the leading struct name: "Props.education[0].degree" -> "education[0].degree".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "max":
		return field + " must be between 1 and 5"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return field + " must be positive"
	case "nohtml":
		return field + " must not contain HTML markup"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
