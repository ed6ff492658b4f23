package search

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/movieplatform/user-service/internal/domain"
)

// Validator checks a filter request against the domain options before any
// storage access. Validation is all-or-nothing: any failure message blocks
// the search entirely.
type Validator struct {
	opts domain.Options
}

// NewValidator creates a validator bound to the given options.
func NewValidator(opts domain.Options) *Validator {
	return &Validator{opts: opts}
}

// Validate returns the flat list of failure messages, or nil when the
// request is valid. Only populated fields are checked, but at least one
// field must be populated.
func (v *Validator) Validate(f Filters) []string {
	var messages []string

	if !f.HasAny() {
		return []string{"at least one filter must be provided"}
	}

	if present(f.Username) {
		messages = appendLength(messages, "username", f.Username, v.opts.Username)
	}
	if present(f.City) {
		messages = appendLength(messages, "city", f.City, v.opts.City)
	}
	if present(f.State) {
		messages = appendLength(messages, "state", f.State, v.opts.State)
	}
	if present(f.Country) {
		messages = appendLength(messages, "country", f.Country, v.opts.Country)
	}
	if present(f.Street) {
		messages = appendLength(messages, "street", f.Street, v.opts.Street)
	}

	if present(f.Phone) && !v.opts.PhonePattern.MatchString(f.Phone) {
		messages = append(messages, "phone is invalid: use the international format")
	}
	if present(f.ZipCode) && !v.opts.ZipCodePattern.MatchString(f.ZipCode) {
		messages = append(messages, "zip code is invalid: use the format 00000-000 or 00000000")
	}

	if f.StartDate != nil {
		messages = v.appendStartDate(messages, *f.StartDate)
	}

	return messages
}

// appendLength enforces a field's [min,max] bound, counting characters, not
// bytes.
func appendLength(messages []string, field, value string, rule domain.LengthRule) []string {
	n := utf8.RuneCountInString(value)
	if n < rule.Min() {
		messages = append(messages, fmt.Sprintf("%s must have at least %d characters", field, rule.Min()))
	}
	if n > rule.Max() {
		messages = append(messages, fmt.Sprintf("%s must have at most %d characters", field, rule.Max()))
	}
	return messages
}

// appendStartDate requires the bound to fall within [launch date, today]
// inclusive, at day granularity.
func (v *Validator) appendStartDate(messages []string, start time.Time) []string {
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	if start.Before(v.opts.LaunchDate) || !start.Before(tomorrow) {
		messages = append(messages, fmt.Sprintf(
			"start date must be between %s and today", v.opts.LaunchDate.Format("2006-01-02")))
	}
	return messages
}
