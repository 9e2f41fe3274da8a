// Package signup holds admin-defined signup form schemas and reduces raw
// signup records to a fixed table for reporting and export.
package signup

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	TypeDivider     = "divider"
	TypeHeader      = "header"
	TypeStaticText  = "staticText"
	TypeBannerImage = "bannerImage"
)

var presentational = map[string]bool{
	TypeDivider:     true,
	TypeHeader:      true,
	TypeStaticText:  true,
	TypeBannerImage: true,
}

// IsPresentational reports whether fields of this type carry no data.
func IsPresentational(fieldType string) bool {
	return presentational[fieldType]
}

type Field struct {
	Key      string   `json:"key" bson:"key"`
	Label    string   `json:"label" bson:"label"`
	Type     string   `json:"type" bson:"type"`
	Visible  bool     `json:"visible" bson:"visible"`
	Required bool     `json:"required" bson:"required"`
	Options  []string `json:"options,omitempty" bson:"options,omitempty"`
}

// Schema is an ordered form definition. In JSON it is an object keyed by
// field key; key order is significant and preserved. A JSON array of fields
// is accepted too.
type Schema []Field

// DataFields returns the fields that carry signup data, in schema order.
func (s Schema) DataFields() []Field {
	out := make([]Field, 0, len(s))
	for _, f := range s {
		if !IsPresentational(f.Type) {
			out = append(out, f)
		}
	}
	return out
}

func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(descriptor{
			Label:    f.Label,
			Type:     f.Type,
			Visible:  f.Visible,
			Required: f.Required,
			Options:  f.Options,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type descriptor struct {
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Visible  bool     `json:"visible"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var fields []Field
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		*s = fields
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("signup schema: expected object, got %v", tok)
	}

	var fields Schema
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("signup schema: expected field key, got %v", tok)
		}

		var d descriptor
		if err := dec.Decode(&d); err != nil {
			return fmt.Errorf("signup schema: field %q: %w", key, err)
		}
		if seen[key] {
			return fmt.Errorf("signup schema: duplicate field %q", key)
		}
		seen[key] = true

		fields = append(fields, Field{
			Key:      key,
			Label:    d.Label,
			Type:     d.Type,
			Visible:  d.Visible,
			Required: d.Required,
			Options:  d.Options,
		})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = fields
	return nil
}
