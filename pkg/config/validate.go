package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one invalid configuration value.
type FieldError struct {
	// Field is the YAML path of the value, e.g. "log.level".
	Field string
	Rule  string
	Param string
	Value any
}

func (e FieldError) String() string {
	switch e.Rule {
	case "required", "required_if":
		return e.Field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", e.Field, e.Param, fmt.Sprint(e.Value))
	case "min", "max", "gte":
		return fmt.Sprintf("%s %v is out of range (%s %s)", e.Field, e.Value, e.Rule, e.Param)
	default:
		return fmt.Sprintf("%s fails %s=%s", e.Field, e.Rule, e.Param)
	}
}

// ValidationError lists every invalid value of a configuration.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Normalize lowercases enumerated values so validation is case-insensitive.
func (c *Config) Normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Source.Type = strings.ToLower(strings.TrimSpace(c.Source.Type))
}

// Validate normalizes cfg and checks every value. It returns a
// *ValidationError listing all problems.
func (c *Config) Validate() error {
	c.Normalize()

	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		// Namespace is "Config.log.level"; drop the struct name.
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		out.Fields = append(out.Fields, FieldError{
			Field: field,
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}
