// Package identifier turns raw identifier values from requests into values
// ready for document-store lookups.
//
// Two identifier forms are accepted: 24-character hexadecimal strings, which
// become primitive.ObjectID, and arbitrary opaque strings, which pass through
// unchanged for collections keyed by string ids. Nil, empty and non-string
// inputs are dropped silently.
package identifier

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "gather/pkg/errors"
)

var reObjectID = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

const MsgNoValidIdentifiers = "no valid identifiers"

// Normalize maps each usable raw identifier to its query form, preserving
// relative order.
func Normalize(raw []any) []any {
	out := make([]any, 0, len(raw))
	for _, v := range raw {
		if id, ok := normalizeOne(v); ok {
			out = append(out, id)
		}
	}
	return out
}

// One normalizes a single identifier, reporting false when it is unusable.
func One(raw string) (any, bool) {
	return normalizeOne(raw)
}

func normalizeOne(v any) (any, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case *string:
		if t == nil {
			return nil, false
		}
		s = *t
	case primitive.ObjectID:
		if t.IsZero() {
			return nil, false
		}
		return t, true
	default:
		return nil, false
	}

	if s == "" {
		return nil, false
	}
	if reObjectID.MatchString(s) {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return s, true
		}
		return oid, true
	}
	return s, true
}

// InFilter builds {field: {$in: ids}} from raw identifiers. An empty
// normalized set is an InvalidInput error; callers must not query with it.
func InFilter(field string, raw []any) (bson.M, error) {
	ids := Normalize(raw)
	if len(ids) == 0 {
		return nil, apperrors.InvalidInput(MsgNoValidIdentifiers)
	}
	return bson.M{field: bson.M{"$in": ids}}, nil
}

// IDFilter builds an _id equality filter for a single identifier.
func IDFilter(raw string) (bson.M, error) {
	id, ok := normalizeOne(raw)
	if !ok {
		return nil, apperrors.InvalidInput(MsgNoValidIdentifiers)
	}
	return bson.M{"_id": id}, nil
}

// String renders a normalized identifier back to its external form.
func String(id any) string {
	switch t := id.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case string:
		return t
	default:
		return ""
	}
}
