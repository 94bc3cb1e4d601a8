package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf key, so messages name the YAML path
// an operator has to fix.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return v
}()

// Validate validates the configuration and returns an error if invalid.
// The service refuses to start on any failure.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, formatFieldError(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// formatFieldError renders one failure as "<key> <problem> (<env var>)".
func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	var msg string
	switch e.Tag() {
	case "required":
		msg = "is required"
	case "required_if":
		msg = "is required when " + conditionText(field, e.Param())
	case "min":
		msg = "must be at least " + e.Param()
	case "max":
		msg = "must be at most " + e.Param()
	case "oneof":
		msg = "must be one of: " + e.Param()
	case "url":
		msg = "must be a valid URL"
	default:
		msg = "failed validation: " + e.Tag()
	}

	return fmt.Sprintf("%s %s (%s)", field, msg, envVarFor(field))
}

// conditionText turns a required_if param such as "Driver postgres" into
// "database.driver is postgres", resolving the sibling next to field.
func conditionText(field, param string) string {
	name, value, _ := strings.Cut(param, " ")

	sibling := snakeCase(name)
	if i := strings.LastIndex(field, "."); i >= 0 {
		sibling = field[:i+1] + sibling
	}

	return sibling + " is " + value
}

// formatFieldPath drops the root struct name: "Config.server.port" becomes "server.port".
func formatFieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return strings.ToLower(namespace)
}

// envVarFor names the override for a key, following envKey in reverse.
func envVarFor(field string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(field, ".", "__"))
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (unicode.IsLower(runes[i-1]) || nextLower) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}

	return b.String()
}
