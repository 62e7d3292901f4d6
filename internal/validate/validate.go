package validate

import (
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Errors collects field -> message violations. The first message per field wins.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f + ": " + e[f])
	}
	return b.String()
}

// Add records msg for field unless the field already failed.
func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Set records msg for field, replacing an earlier message.
func (e Errors) Set(field, msg string) {
	e[field] = msg
}

// Required flags blank values.
func (e Errors) Required(field, value string) {
	if IsBlank(value) {
		e.Add(field, "required")
	}
}

// Email flags values that do not look like an e-mail address.
func (e Errors) Email(field, value string) {
	if !IsEmail(value) {
		e.Set(field, "invalid email address")
	}
}

// RangeInt flags values outside [min, max].
func (e Errors) RangeInt(field string, v, min, max int) {
	if v < min || v > max {
		e.Add(field, "out of range")
	}
}

// Empty reports whether no violation was recorded.
func (e Errors) Empty() bool { return len(e) == 0 }

// Err converts the collected violations into a validation DomainError, or nil.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return apperrors.NewValidationError("validation failed", e)
}

// IsBlank reports whether s has no non-space characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsEmail applies the loose address check used by the registration form.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
