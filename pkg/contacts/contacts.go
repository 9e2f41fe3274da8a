// Package contacts decides whether a contact already exists in any of the
// address books a user can see.
package contacts

import (
	"iter"

	"gather/pkg/sanitizer"
)

type Contact struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Source is one address book. Community and city books hold several lists;
// their iteration order across lists is unspecified.
type Source interface {
	AllContacts() iter.Seq[Contact]
}

// UserContacts is the caller's own address book.
type UserContacts []Contact

func (u UserContacts) AllContacts() iter.Seq[Contact] {
	return func(yield func(Contact) bool) {
		for _, c := range u {
			if !yield(c) {
				return
			}
		}
	}
}

// CommunityContacts maps community id to that community's contacts.
type CommunityContacts map[string][]Contact

func (m CommunityContacts) AllContacts() iter.Seq[Contact] {
	return scoped(m)
}

// CityContacts maps city id to that city's contacts.
type CityContacts map[string][]Contact

func (m CityContacts) AllContacts() iter.Seq[Contact] {
	return scoped(m)
}

func scoped(m map[string][]Contact) iter.Seq[Contact] {
	return func(yield func(Contact) bool) {
		for _, list := range m {
			for _, c := range list {
				if !yield(c) {
					return
				}
			}
		}
	}
}

type identity struct {
	phone string
	first string
	last  string
}

func identityOf(c Contact) identity {
	return identity{
		phone: sanitizer.PhoneDigits(c.Phone),
		first: sanitizer.NameKey(c.FirstName),
		last:  sanitizer.NameKey(c.LastName),
	}
}

// IsDuplicate reports whether candidate matches a contact in any scope, by
// phone digits and case-insensitive trimmed first and last name. Scopes are
// scanned in the order given and the scan stops at the first match. Entries
// sharing the candidate's id are skipped so an update never matches itself.
//
// A candidate without phone digits is never a duplicate.
func IsDuplicate(candidate Contact, scopes ...Source) bool {
	want := identityOf(candidate)
	if want.phone == "" {
		return false
	}

	for _, scope := range scopes {
		if scope == nil {
			continue
		}
		for c := range scope.AllContacts() {
			if candidate.ID != "" && c.ID == candidate.ID {
				continue
			}
			if identityOf(c) == want {
				return true
			}
		}
	}
	return false
}
