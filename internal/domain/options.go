package domain

import (
	"errors"
	"regexp"
	"time"
)

// LengthRule is a validated (min,max) character-count bound. The invariant
// min < max is enforced on every mutation, not just at construction: assigning
// either field re-validates against the other's current value. A zero-value
// rule has min = max = 0; while max is still 0, SetMin accepts only 0, so max
// must be given a real bound before min.
type LengthRule struct {
	min int
	max int
}

// NewLengthRule creates a rule with the given bounds.
func NewLengthRule(min, max int) (LengthRule, error) {
	if min < 0 {
		return LengthRule{}, errors.New("min cannot be negative")
	}
	if max < 0 {
		return LengthRule{}, errors.New("max cannot be negative")
	}
	if min >= max {
		return LengthRule{}, errors.New("min must be less than max")
	}
	return LengthRule{min: min, max: max}, nil
}

// Min returns the lower bound.
func (r *LengthRule) Min() int { return r.min }

// Max returns the upper bound.
func (r *LengthRule) Max() int { return r.max }

// SetMin assigns the lower bound, validating against the current max.
// On error the rule is left unchanged.
func (r *LengthRule) SetMin(min int) error {
	if min < 0 {
		return errors.New("min cannot be negative")
	}
	if r.max == 0 && min != 0 {
		return errors.New("min must be less than max")
	}
	if r.max != 0 && min >= r.max {
		return errors.New("min must be less than max")
	}
	r.min = min
	return nil
}

// SetMax assigns the upper bound, validating against the current min.
// On error the rule is left unchanged.
func (r *LengthRule) SetMax(max int) error {
	if max < 0 {
		return errors.New("max cannot be negative")
	}
	if max <= r.min {
		return errors.New("max must be greater than min")
	}
	r.max = max
	return nil
}

// Options holds the process-wide validation rules for the user domain.
// It is constructed once at startup from configuration and is read-only
// thereafter, so concurrent reads need no synchronization.
type Options struct {
	Name     LengthRule
	Username LengthRule
	Email    LengthRule
	Street   LengthRule
	City     LengthRule
	State    LengthRule
	Country  LengthRule

	PhonePattern   *regexp.Regexp
	ZipCodePattern *regexp.Regexp

	// LaunchDate is the earliest valid creation-date search bound.
	LaunchDate time.Time
}
