package contacts

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	jane := Contact{FirstName: "Jane", LastName: "Doe", Phone: "801-555-1234"}
	existing := Contact{ID: "c1", FirstName: "jane", LastName: "doe", Phone: "8015551234"}

	tests := []struct {
		name      string
		candidate Contact
		scopes    []Source
		want      bool
	}{
		{
			name:      "match in user contacts",
			candidate: jane,
			scopes:    []Source{UserContacts{existing}},
			want:      true,
		},
		{
			name:      "empty phone never matches",
			candidate: Contact{FirstName: "Jane", LastName: "Doe", Phone: ""},
			scopes:    []Source{UserContacts{{FirstName: "Jane", LastName: "Doe", Phone: ""}}},
			want:      false,
		},
		{
			name:      "phone without digits never matches",
			candidate: Contact{FirstName: "Jane", LastName: "Doe", Phone: "n/a"},
			scopes:    []Source{UserContacts{{FirstName: "Jane", LastName: "Doe", Phone: "n/a"}}},
			want:      false,
		},
		{
			name:      "self is excluded",
			candidate: Contact{ID: "c1", FirstName: "Jane", LastName: "Doe", Phone: "801-555-1234"},
			scopes:    []Source{UserContacts{existing}},
			want:      false,
		},
		{
			name:      "self excluded but another copy matches",
			candidate: Contact{ID: "c1", FirstName: "Jane", LastName: "Doe", Phone: "801-555-1234"},
			scopes:    []Source{UserContacts{existing, {ID: "c2", FirstName: "JANE", LastName: "DOE", Phone: "(801) 555 1234"}}},
			want:      true,
		},
		{
			name:      "names trimmed",
			candidate: Contact{FirstName: "  Jane ", LastName: " Doe  ", Phone: "8015551234"},
			scopes:    []Source{UserContacts{existing}},
			want:      true,
		},
		{
			name:      "different last name",
			candidate: Contact{FirstName: "Jane", LastName: "Smith", Phone: "8015551234"},
			scopes:    []Source{UserContacts{existing}},
			want:      false,
		},
		{
			name:      "leading country digit is significant",
			candidate: Contact{FirstName: "Jane", LastName: "Doe", Phone: "18015551234"},
			scopes:    []Source{UserContacts{existing}},
			want:      false,
		},
		{
			name:      "match in community scope",
			candidate: jane,
			scopes: []Source{
				UserContacts{},
				CommunityContacts{"comm-1": {}, "comm-2": {existing}},
			},
			want: true,
		},
		{
			name:      "match in city scope",
			candidate: jane,
			scopes: []Source{
				UserContacts{},
				CommunityContacts{},
				CityContacts{"ogden": {{FirstName: "Jane", LastName: "Doe", Phone: "+1 801 555 1234"}}, "provo": {existing}},
			},
			want: true,
		},
		{
			name:      "no scopes",
			candidate: jane,
			want:      false,
		},
		{
			name:      "nil scopes skipped",
			candidate: jane,
			scopes:    []Source{nil, UserContacts(nil), CityContacts(nil)},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicate(tt.candidate, tt.scopes...))
		})
	}
}

type countingSource struct {
	contacts []Contact
	visited  int
}

func (s *countingSource) AllContacts() iter.Seq[Contact] {
	return func(yield func(Contact) bool) {
		for _, c := range s.contacts {
			s.visited++
			if !yield(c) {
				return
			}
		}
	}
}

func TestIsDuplicate_StopsAtFirstMatch(t *testing.T) {
	first := &countingSource{contacts: []Contact{
		{FirstName: "Jane", LastName: "Doe", Phone: "8015551234"},
		{FirstName: "Other", LastName: "Person", Phone: "8015550000"},
	}}
	second := &countingSource{contacts: []Contact{{FirstName: "Jane", LastName: "Doe", Phone: "8015551234"}}}

	got := IsDuplicate(Contact{FirstName: "Jane", LastName: "Doe", Phone: "801.555.1234"}, first, second)

	assert.True(t, got)
	assert.Equal(t, 1, first.visited)
	assert.Equal(t, 0, second.visited)
}

func TestScopedSources_YieldEveryContact(t *testing.T) {
	src := CommunityContacts{
		"a": {{ID: "1"}, {ID: "2"}},
		"b": {{ID: "3"}},
	}

	seen := map[string]bool{}
	for c := range src.AllContacts() {
		seen[c.ID] = true
	}
	assert.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, seen)
}
