package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"block-builder-backend/internal/models"
)

var (
	validate *validator.Validate
	initOnce sync.Once

	iconNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Init builds the package validator and registers the custom rules on gin's
// binding engine as well. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(jsonFieldName)

		registerCustomValidations(validate)

		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			engine.RegisterTagNameFunc(jsonFieldName)
			registerCustomValidations(engine)
		}
	})
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("css_value", validateCSSValue)
	v.RegisterValidation("icon_name", validateIconName)
	v.RegisterValidation("template_type", validateTemplateType)
	v.RegisterValidation("no_html", validateNoHTML)
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Validate checks a struct against its binding tags.
func Validate(s interface{}) error {
	Init()
	return validate.Struct(s)
}

// IsCSSValue reports whether value can be embedded as a CSS declaration value
// without closing the declaration, the rule or the surrounding style element.
func IsCSSValue(value string) bool {
	return !strings.ContainsAny(value, "{};<>") && !strings.Contains(value, "/*")
}

func IsIconName(value string) bool {
	return iconNamePattern.MatchString(value)
}

func IsTemplateType(value string) bool {
	return models.TemplateType(value).IsValid()
}

func validateCSSValue(fl validator.FieldLevel) bool {
	return IsCSSValue(fl.Field().String())
}

func validateIconName(fl validator.FieldLevel) bool {
	return IsIconName(fl.Field().String())
}

func validateTemplateType(fl validator.FieldLevel) bool {
	return IsTemplateType(fl.Field().String())
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

// FieldErrors flattens validation errors into a field path to message map.
// It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	result := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		result[fieldPath(fe.Namespace())] = describe(fe)
	}
	return result
}

// fieldPath drops the top-level struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "css_value":
		return "must be a plain CSS value"
	case "icon_name":
		return "must contain only lowercase letters, digits and dashes"
	case "template_type":
		return "is not a known template type"
	case "no_html":
		return "must not contain markup"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
