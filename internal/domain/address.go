package domain

import (
	"fmt"
	"strings"
)

// Address is an immutable postal address value object. All five fields are
// required; equality is structural.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// NewAddress constructs an address, rejecting any blank (empty or
// whitespace-only) field with an error naming that field.
func NewAddress(street, city, state, zipCode, country string) (Address, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"street", street},
		{"city", city},
		{"state", state},
		{"zip code", zipCode},
		{"country", country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return Address{}, fmt.Errorf("%s cannot be blank", f.name)
		}
	}

	return Address{
		Street:  street,
		City:    city,
		State:   state,
		ZipCode: zipCode,
		Country: country,
	}, nil
}

// Equal reports whether two addresses have identical field values.
func (a Address) Equal(other Address) bool {
	return a == other
}
