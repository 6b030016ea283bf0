package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := tomlName(fe.StructField())
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 1 and 64, got %v", field, fe.Value())
	case "bcp47_language_tag":
		return fmt.Sprintf("%s is not a BCP 47 language tag: %q", field, fe.Value())
	case "required":
		return fmt.Sprintf("%s must not contain empty entries", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

var tomlNames = map[string]string{
	"FontsDir":  "fonts_dir",
	"Language":  "language",
	"Format":    "format",
	"Template":  "template",
	"Color":     "color",
	"LogLevel":  "log_level",
	"LogFormat": "log_format",
	"Jobs":      "jobs",
	"Disable":   "disable",
}

func tomlName(field string) string {
	if name, ok := tomlNames[field]; ok {
		return name
	}
	return field
}

// CheckDisabled rejects disable entries that name no known check.
func (c *Config) CheckDisabled(known []string) error {
	var unknown []string
	for _, name := range c.Disable {
		if !slices.Contains(known, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("disable: unknown checks %s (see \"asslint checks\")", strings.Join(unknown, ", "))
	}
	return nil
}
