package search

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movieplatform/user-service/internal/domain"
)

func mustRule(t *testing.T, min, max int) domain.LengthRule {
	t.Helper()
	r, err := domain.NewLengthRule(min, max)
	require.NoError(t, err)
	return r
}

func testOptions(t *testing.T) domain.Options {
	t.Helper()
	return domain.Options{
		Name:           mustRule(t, 2, 200),
		Username:       mustRule(t, 3, 50),
		Email:          mustRule(t, 5, 254),
		Street:         mustRule(t, 5, 200),
		City:           mustRule(t, 2, 100),
		State:          mustRule(t, 2, 100),
		Country:        mustRule(t, 2, 100),
		PhonePattern:   regexp.MustCompile(`^\+?[1-9]\d{1,14}$`),
		ZipCodePattern: regexp.MustCompile(`^\d{5}-?\d{3}$`),
		LaunchDate:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidator_NoFilters_RequiresAtLeastOne(t *testing.T) {
	v := NewValidator(testOptions(t))

	messages := v.Validate(Filters{})

	require.Len(t, messages, 1)
	assert.Equal(t, "at least one filter must be provided", messages[0])
}

func TestValidator_WhitespaceOnlyFilters_RequiresAtLeastOne(t *testing.T) {
	v := NewValidator(testOptions(t))

	messages := v.Validate(Filters{Username: "   ", City: "\t", Street: "\n"})

	require.Len(t, messages, 1)
	assert.Equal(t, "at least one filter must be provided", messages[0])
}

func TestValidator_ValidSingleFilters(t *testing.T) {
	v := NewValidator(testOptions(t))
	now := time.Now().UTC()

	tests := []struct {
		name    string
		filters Filters
	}{
		{"username", Filters{Username: "alice"}},
		{"city", Filters{City: "Springfield"}},
		{"state", Filters{State: "Illinois"}},
		{"country", Filters{Country: "USA"}},
		{"street", Filters{Street: "100 Main Street"}},
		{"phone", Filters{Phone: "+5511987654321"}},
		{"zip with dash", Filters{ZipCode: "62704-001"}},
		{"zip without dash", Filters{ZipCode: "62704001"}},
		{"start date today", Filters{StartDate: &now}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, v.Validate(tt.filters))
		})
	}
}

func TestValidator_UsernameBounds(t *testing.T) {
	v := NewValidator(testOptions(t))

	messages := v.Validate(Filters{Username: "ab"})
	require.Len(t, messages, 1)
	assert.Equal(t, "username must have at least 3 characters", messages[0])

	messages = v.Validate(Filters{Username: strings.Repeat("a", 51)})
	require.Len(t, messages, 1)
	assert.Equal(t, "username must have at most 50 characters", messages[0])
}

func TestValidator_LengthCountsCharactersNotBytes(t *testing.T) {
	v := NewValidator(testOptions(t))

	// Three runes, six bytes.
	assert.Empty(t, v.Validate(Filters{Username: "阿里斯"}))
}

func TestValidator_CityTooShort(t *testing.T) {
	v := NewValidator(testOptions(t))

	messages := v.Validate(Filters{City: "X"})

	require.Len(t, messages, 1)
	assert.Equal(t, "city must have at least 2 characters", messages[0])
}

func TestValidator_StreetTooShort(t *testing.T) {
	v := NewValidator(testOptions(t))

	messages := v.Validate(Filters{Street: "Elm"})

	require.Len(t, messages, 1)
	assert.Equal(t, "street must have at least 5 characters", messages[0])
}

func TestValidator_PhonePattern(t *testing.T) {
	v := NewValidator(testOptions(t))

	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"international with plus", "+5511987654321", true},
		{"without plus", "5511987654321", true},
		{"leading zero", "0511987654321", false},
		{"letters", "phone-number", false},
		{"too long", "+123456789012345678", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := v.Validate(Filters{Phone: tt.phone})
			if tt.valid {
				assert.Empty(t, messages)
			} else {
				require.Len(t, messages, 1)
				assert.Contains(t, messages[0], "phone is invalid")
			}
		})
	}
}

func TestValidator_ZipCodePattern(t *testing.T) {
	v := NewValidator(testOptions(t))

	messages := v.Validate(Filters{ZipCode: "1234"})

	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "zip code is invalid")
}

func TestValidator_StartDateBounds(t *testing.T) {
	opts := testOptions(t)
	v := NewValidator(opts)

	beforeLaunch := time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC)
	messages := v.Validate(Filters{StartDate: &beforeLaunch})
	require.Len(t, messages, 1)
	assert.Equal(t, "start date must be between 2020-01-01 and today", messages[0])

	tomorrow := time.Now().UTC().Add(48 * time.Hour)
	messages = v.Validate(Filters{StartDate: &tomorrow})
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "start date must be between")

	launch := opts.LaunchDate
	assert.Empty(t, v.Validate(Filters{StartDate: &launch}))
}

func TestValidator_CollectsMultipleFailures(t *testing.T) {
	v := NewValidator(testOptions(t))

	messages := v.Validate(Filters{
		Username: "ab",
		Phone:    "invalid",
		ZipCode:  "12",
	})

	assert.Len(t, messages, 3)
}
