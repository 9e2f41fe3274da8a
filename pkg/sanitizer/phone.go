package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var supportedRegions = []string{
	"US",
}

// PhoneDigits strips every character that is not an ASCII digit.
func PhoneDigits(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FormatPhone renders a free-form phone number for display.
//
//	fewer than 10 digits     digits unchanged
//	10 digits                (AAA) BBB-CCCC
//	11 digits, leading 1     leading 1 dropped, then as above
//	more than 10 otherwise   +<rest> BBB-CCCC
func FormatPhone(phone string) string {
	d := PhoneDigits(phone)
	n := len(d)

	switch {
	case n < 10:
		return d
	case n == 10:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	case n == 11 && d[0] == '1':
		return FormatPhone(d[1:])
	default:
		return "+" + d[:n-7] + " " + d[n-7:n-4] + "-" + d[n-4:]
	}
}

// NormalizePhone returns the E.164 form of phone, or "" when it cannot be a
// dialable number. Numbers without a country code are read as US numbers.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsPossibleNumber(parsedNumber) {
			continue
		}
		return phonenumbers.Format(parsedNumber, phonenumbers.E164)
	}
	return ""
}
