// Package validation collects field violations as stable codes that the UI
// translates through i18n.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Error lets violations travel as an error value.
func (v Violations) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation: " + strings.Join(parts, ", ")
}

// Translate returns a copy with each code replaced by tr(code).
func (v Violations) Translate(tr func(code string) string) map[string]string {
	out := make(map[string]string, len(v))
	for k, code := range v {
		out[k] = tr(code)
	}
	return out
}

// Basic validators
func RangeInt(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// HexColor accepts #rgb and #rrggbb. Empty values pass.
func HexColor(field, value string, v Violations) {
	if value != "" && !hexColor.MatchString(value) {
		v[field] = "invalid_color"
	}
}

// OneOf accepts only the listed values. Empty values pass.
func OneOf(field, value string, allowed []string, v Violations) {
	if value != "" && !slices.Contains(allowed, value) {
		v[field] = "invalid_choice"
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct validates s against its `validate` tags and merges the failures into
// v, keyed by json field name.
func Struct(s any, v Violations) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	for _, fe := range ve {
		v[fe.Field()] = code(fe.Tag())
	}
	return nil
}

func code(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "hexcolor", "iscolor":
		return "invalid_color"
	case "oneof":
		return "invalid_choice"
	case "email":
		return "invalid_email"
	case "max", "lte":
		return "too_large"
	default:
		return "out_of_range"
	}
}
