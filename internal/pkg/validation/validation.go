package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Errors collects field -> message pairs. The first failure per field wins.
type Errors map[string]string

// Add records a failure unless the field already failed
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Required fails when value is blank
func (e Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, field+" is required")
	}
}

// MaxLen fails when value has more than max characters
func (e Errors) MaxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		e.Add(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
}

// MinLen fails when a non-empty value has fewer than min characters
func (e Errors) MinLen(field, value string, min int) {
	if value != "" && utf8.RuneCountInString(value) < min {
		e.Add(field, fmt.Sprintf("%s must be at least %d characters", field, min))
	}
}

// Pattern fails when a non-empty value does not match re
func (e Errors) Pattern(field, value string, re *regexp.Regexp, message string) {
	if value != "" && !re.MatchString(value) {
		e.Add(field, message)
	}
}

// Email fails when a non-empty value is not an address
func (e Errors) Email(field, value string) {
	e.Pattern(field, value, emailPattern, field+" must be a valid email address")
}

// Optional runs check only when the pointer is set
func (e Errors) Optional(value *string, check func(string)) {
	if value != nil {
		check(*value)
	}
}

// Empty reports whether no field failed
func (e Errors) Empty() bool {
	return len(e) == 0
}
