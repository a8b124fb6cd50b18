package form

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Failure keys reported by the built-in validators.
const (
	KeyRequired       = "required"
	KeyEmail          = "email"
	KeyMinLength      = "minlength"
	KeyPattern        = "pattern"
	KeyOneOf          = "oneof"
	KeyValuesNotEqual = "valuesNotEqual"
)

// Validator is an interface for form field validation.
type Validator interface {
	// Validate checks if the value is valid.
	// Returns nil if valid, or a ValidationError if invalid.
	Validate(value any) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value any) error

func (f ValidatorFunc) Validate(value any) error {
	return f(value)
}

// Lookup reads the current value of a node relative to a group.
type Lookup interface {
	ValueOf(path string) (any, bool)
}

// GroupValidator validates a group as a whole.
type GroupValidator interface {
	ValidateGroup(group Lookup) error
}

// GroupValidatorFunc is a function that implements GroupValidator.
type GroupValidatorFunc func(group Lookup) error

func (f GroupValidatorFunc) ValidateGroup(group Lookup) error {
	return f(group)
}

// ValidationError represents a validation failure.
type ValidationError struct {
	// Key names the failed rule (e.g., "required").
	Key     string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// ----------------------------------------------------------------------------
// Field Validators
// ----------------------------------------------------------------------------

// Required validates that the value is neither the empty string nor false.
func Required(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return ValidatorFunc(func(value any) error {
		if isEmpty(value) {
			return ValidationError{Key: KeyRequired, Message: msg}
		}
		return nil
	})
}

// MinLength validates that a string has at least n characters.
// The empty string counts as zero characters.
func MinLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %d characters", n)
	}
	return ValidatorFunc(func(value any) error {
		if utf8.RuneCountInString(toString(value)) < n {
			return ValidationError{Key: KeyMinLength, Message: msg}
		}
		return nil
	})
}

// emailPattern is the usual HTML address grammar. RE2 has no lookahead, so
// the overall and local-part length limits are checked separately.
var emailPattern = regexp.MustCompile(
	"^[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+(?:\\.[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+)*" +
		"@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

const (
	maxEmailLength     = 254
	maxEmailLocalChars = 64
)

// Email validates that the value is a valid email address.
// Empty values pass; combine with Required.
func Email(msg string) Validator {
	if msg == "" {
		msg = "Invalid email address"
	}
	return ValidatorFunc(func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !isEmail(s) {
			return ValidationError{Key: KeyEmail, Message: msg}
		}
		return nil
	})
}

func isEmail(s string) bool {
	if len(s) > maxEmailLength {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at < 0 || at > maxEmailLocalChars {
		return false
	}
	return emailPattern.MatchString(s)
}

// Pattern validates that a string matches the given regular expression.
// Empty values pass.
func Pattern(pattern string, msg string) Validator {
	re := regexp.MustCompile(pattern)
	if msg == "" {
		msg = "Invalid format"
	}
	return ValidatorFunc(func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return ValidationError{Key: KeyPattern, Message: msg}
		}
		return nil
	})
}

// OneOf validates that a string value is one of the allowed options.
// Empty values pass.
func OneOf(options []string, msg string) Validator {
	if msg == "" {
		msg = "Must be one of: " + strings.Join(options, ", ")
	}
	allowed := slices.Clone(options)
	return ValidatorFunc(func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !slices.Contains(allowed, s) {
			return ValidationError{Key: KeyOneOf, Message: msg}
		}
		return nil
	})
}

// Custom creates a validator from a custom function.
func Custom(fn func(value any) error) Validator {
	return ValidatorFunc(fn)
}

// ----------------------------------------------------------------------------
// Group Validators
// ----------------------------------------------------------------------------

// EqualValues returns a group validator that passes when the children at
// paths a and b hold strictly equal values. Two empty strings are equal.
func EqualValues(a, b string) GroupValidator {
	return equalValues{a: a, b: b}
}

type equalValues struct {
	a, b string
}

func (e equalValues) ValidateGroup(group Lookup) error {
	va, _ := group.ValueOf(e.a)
	vb, _ := group.ValueOf(e.b)
	if reflect.DeepEqual(va, vb) {
		return nil
	}
	return ValidationError{
		Key:     KeyValuesNotEqual,
		Message: fmt.Sprintf("%s and %s must match", e.a, e.b),
	}
}

// ----------------------------------------------------------------------------
// Helper Functions
// ----------------------------------------------------------------------------

// ErrorKeys returns the failure keys of errs in order. Errors that are not
// ValidationErrors are skipped.
func ErrorKeys(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(errs))
	for _, err := range errs {
		if ve, ok := err.(ValidationError); ok {
			keys = append(keys, ve.Key)
		}
	}
	return keys
}

// HasErrorKey reports whether any of errs failed the named rule.
func HasErrorKey(errs []error, key string) bool {
	return slices.Contains(ErrorKeys(errs), key)
}

// isEmpty reports whether a value fails Required.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	default:
		return false
	}
}

// toString converts a value to a string.
func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
