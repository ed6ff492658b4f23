package search

import (
	"strings"
	"time"
)

// Filters is the inbound search request. String fields are optional; a blank
// or whitespace-only value counts as absent. StartDate is absent when nil.
type Filters struct {
	Username  string
	Phone     string
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	StartDate *time.Time
}

// HasAny reports whether at least one recognized filter field is populated.
func (f Filters) HasAny() bool {
	return present(f.Username) ||
		present(f.Phone) ||
		present(f.Street) ||
		present(f.City) ||
		present(f.State) ||
		present(f.ZipCode) ||
		present(f.Country) ||
		f.StartDate != nil
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
