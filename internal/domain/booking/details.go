package booking

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"rental-engine/internal/domain/user"
	"rental-engine/internal/pkg/errs"
)

const (
	MaxNameLength       = 100
	MaxNotesLength      = 1000
	MaxAddressLength    = 200
	MaxCityLength       = 100
	MaxPostalCodeLength = 10
	MaxLicenseLength    = 50
)

var markupRegex = regexp.MustCompile(`<[^>]*>`)

type ExtraDriver struct {
	FirstName     string
	LastName      string
	LicenseNumber string
}

// RenterDetails is the identity block the renter fills in for one booking.
type RenterDetails struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Address       string
	City          string
	PostalCode    string
	LicenseNumber string
	Notes         string
	ExtraDriver   *ExtraDriver
}

// Sanitize strips markup, trims whitespace and truncates free text to the stored column sizes.
// Names are not truncated so an overlong name is reported by Validate.
func (d RenterDetails) Sanitize() RenterDetails {
	out := RenterDetails{
		FirstName:     clean(d.FirstName, 0),
		LastName:      clean(d.LastName, 0),
		Email:         strings.ToLower(clean(d.Email, 0)),
		Phone:         clean(d.Phone, 0),
		Address:       clean(d.Address, MaxAddressLength),
		City:          clean(d.City, MaxCityLength),
		PostalCode:    clean(d.PostalCode, MaxPostalCodeLength),
		LicenseNumber: clean(d.LicenseNumber, MaxLicenseLength),
		Notes:         clean(d.Notes, MaxNotesLength),
	}
	if d.ExtraDriver != nil {
		out.ExtraDriver = &ExtraDriver{
			FirstName:     clean(d.ExtraDriver.FirstName, 0),
			LastName:      clean(d.ExtraDriver.LastName, 0),
			LicenseNumber: clean(d.ExtraDriver.LicenseNumber, MaxLicenseLength),
		}
	}
	return out
}

// Validate collects every field problem instead of stopping at the first one.
func (d RenterDetails) Validate(fields *errs.FieldErrors) {
	requireName(fields, "first_name", d.FirstName)
	requireName(fields, "last_name", d.LastName)

	if d.Email == "" {
		fields.Add("email", "is required")
	} else if _, err := user.NewEmail(d.Email); err != nil {
		fields.Add("email", "has an invalid format")
	}
	if d.Phone == "" {
		fields.Add("phone", "is required")
	} else if _, err := user.NewPhone(d.Phone); err != nil {
		fields.Add("phone", "has an invalid format")
	}
	if d.LicenseNumber == "" {
		fields.Add("license_number", "is required")
	}

	if d.ExtraDriver != nil {
		requireName(fields, "extra_driver.first_name", d.ExtraDriver.FirstName)
		requireName(fields, "extra_driver.last_name", d.ExtraDriver.LastName)
	}
}

func requireName(fields *errs.FieldErrors, field, value string) {
	switch {
	case value == "":
		fields.Add(field, "is required")
	case utf8.RuneCountInString(value) > MaxNameLength:
		fields.Add(field, "must be at most 100 characters")
	}
}

// StripMarkup removes anything that looks like an HTML tag.
func StripMarkup(s string) string {
	return markupRegex.ReplaceAllString(s, "")
}

func clean(s string, limit int) string {
	s = strings.TrimSpace(StripMarkup(s))
	if limit > 0 && utf8.RuneCountInString(s) > limit {
		s = string([]rune(s)[:limit])
	}
	return s
}
