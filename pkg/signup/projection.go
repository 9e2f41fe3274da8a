package signup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Entry is one raw signup: field key to submitted value.
type Entry map[string]any

// Class is the part of a class record the projector reads.
type Class struct {
	Schema  Schema
	Signups []Entry
	// Positions optionally holds each signup's 1-based position in the full
	// signup list, so ids stay put when earlier signups are dropped.
	Positions []int
}

type ProjectedField struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Visible  bool   `json:"visible"`
	Required bool   `json:"required"`
}

// Row holds "id" plus one value per projected field.
type Row map[string]any

type Projection struct {
	Fields []ProjectedField `json:"fields"`
	Rows   []Row            `json:"rows"`
}

const RowIDKey = "id"

// Project reduces a class's signups to the data-bearing fields of its schema.
// Rows keep signup order and get ids "Signup 1", "Signup 2", ... (or
// "Signup <position>" when Positions is set); a missing
// value becomes "" and keys outside the projected fields are dropped.
// A nil class yields nil.
func Project(class *Class) *Projection {
	if class == nil {
		return nil
	}

	data := class.Schema.DataFields()
	fields := make([]ProjectedField, len(data))
	for i, f := range data {
		fields[i] = ProjectedField{
			Key:      f.Key,
			Label:    f.Label,
			Type:     f.Type,
			Visible:  f.Visible,
			Required: f.Required,
		}
	}

	rows := make([]Row, len(class.Signups))
	for i, entry := range class.Signups {
		row := make(Row, len(fields)+1)
		n := i + 1
		if i < len(class.Positions) {
			n = class.Positions[i]
		}
		row[RowIDKey] = "Signup " + strconv.Itoa(n)
		for _, f := range fields {
			if v, ok := entry[f.Key]; ok && v != nil {
				row[f.Key] = v
			} else {
				row[f.Key] = ""
			}
		}
		rows[i] = row
	}

	return &Projection{Fields: fields, Rows: rows}
}

// CSV writes the projection as a header row of labels followed by one line
// per signup.
func (p *Projection) CSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(p.Fields)+1)
	header = append(header, "ID")
	for _, f := range p.Fields {
		label := f.Label
		if label == "" {
			label = f.Key
		}
		header = append(header, label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range p.Rows {
		record := make([]string, 0, len(header))
		record = append(record, cell(row[RowIDKey]))
		for _, f := range p.Fields {
			record = append(record, cell(row[f.Key]))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case []any:
		out := ""
		for i, item := range t {
			if i > 0 {
				out += "; "
			}
			out += cell(item)
		}
		return out
	default:
		return fmt.Sprint(t)
	}
}

// MissingRequired lists the required data fields an entry leaves empty.
func (s Schema) MissingRequired(entry Entry) []string {
	var missing []string
	for _, f := range s.DataFields() {
		if !f.Required {
			continue
		}
		v, ok := entry[f.Key]
		if !ok || v == nil {
			missing = append(missing, f.Key)
			continue
		}
		if str, isStr := v.(string); isStr && str == "" {
			missing = append(missing, f.Key)
		}
	}
	return missing
}
