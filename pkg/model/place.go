package model

import "gather/pkg/document"

// Cities and communities are stored as free-form documents. These templates
// define their canonical shape; stored and incoming documents are merged
// against them so fields added later are backfilled with defaults.

const (
	FieldID          = "_id"
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldDescription = "description"
	FieldCityID      = "city_id"
	FieldCommunities = "communities"
	FieldVisibility  = "visibility"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// CityTemplate returns a fresh copy of the canonical city document.
func CityTemplate() document.Object {
	return document.MustObject(map[string]any{
		FieldName:        "",
		FieldSlug:        "",
		"state":          "",
		FieldDescription: "",
		FieldVisibility:  false,
		FieldCommunities: []any{},
		"location": map[string]any{
			"address":   "",
			"latitude":  0.0,
			"longitude": 0.0,
		},
		"contact": map[string]any{
			"email": "",
			"phone": "",
		},
		"images": map[string]any{
			"hero": "",
			"logo": "",
		},
		"links": []any{},
	})
}

// CommunityTemplate returns a fresh copy of the canonical community document.
func CommunityTemplate() document.Object {
	return document.MustObject(map[string]any{
		FieldName:        "",
		FieldSlug:        "",
		FieldCityID:      "",
		FieldDescription: "",
		FieldVisibility:  false,
		"classes":        []any{},
		"leaders":        []any{},
		"meeting": map[string]any{
			"day":      "",
			"time":     "",
			"location": "",
		},
		"contact": map[string]any{
			"email": "",
			"phone": "",
		},
		"images": map[string]any{
			"hero": "",
			"logo": "",
		},
	})
}
