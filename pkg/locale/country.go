package locale

import (
	"time"
	_ "time/tzdata"

	"github.com/nyaruka/phonenumbers"

	"gather/pkg/sanitizer"
)

const (
	DefaultTimezone = "UTC"
)

type Country struct {
	Code            string // ISO 3166-1 alpha-2 country code (e.g., "IL", "US")
	Name            string
	DefaultTimezone string // IANA timezone identifier (e.g., "Asia/Jerusalem")
}

var (
	Countries = map[string]Country{
		"US": {Code: "US", Name: "United States", DefaultTimezone: "America/New_York"},
		"CA": {Code: "CA", Name: "Canada", DefaultTimezone: "America/Toronto"},
		"MX": {Code: "MX", Name: "Mexico", DefaultTimezone: "America/Mexico_City"},
		"GB": {Code: "GB", Name: "United Kingdom", DefaultTimezone: "Europe/London"},
		"IL": {Code: "IL", Name: "Israel", DefaultTimezone: "Asia/Jerusalem"},
	}
)

// CountryForPhone resolves the country a phone number is registered in.
// Numbers that are not valid for any region, and regions outside Countries,
// yield nil.
func CountryForPhone(phone string) *Country {
	e164 := sanitizer.NormalizePhone(phone)
	if e164 == "" {
		return nil
	}

	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return nil
	}

	country, ok := Countries[phonenumbers.GetRegionCodeForNumber(num)]
	if !ok {
		return nil
	}
	return &country
}

// LocationForPhone returns the time zone used when rendering times for the
// owner of phone. Unknown numbers fall back to UTC.
func LocationForPhone(phone string) *time.Location {
	tz := DefaultTimezone
	if country := CountryForPhone(phone); country != nil {
		tz = country.DefaultTimezone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
