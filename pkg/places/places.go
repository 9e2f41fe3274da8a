// Package places holds the document handling shared by cities and
// communities: both are stored as free-form documents shaped by a template.
package places

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	"gather/pkg/document"
	apperrors "gather/pkg/errors"
	"gather/pkg/identifier"
	"gather/pkg/model"
	"gather/pkg/sanitizer"
	"gather/pkg/validation"
)

// serverFields are owned by the service and ignored on input.
var serverFields = []string{model.FieldID, "id", model.FieldCreatedAt, model.FieldUpdatedAt}

// Decode converts a request body into an Object and drops server-owned keys,
// plus any keys in owned that the caller manages itself.
func Decode(raw any, owned ...string) (document.Object, error) {
	obj, err := document.AsObject(raw)
	if err != nil {
		return nil, apperrors.InvalidArgumentType("Request body must be a JSON object", err)
	}
	for _, key := range serverFields {
		delete(obj, key)
	}
	for _, key := range owned {
		delete(obj, key)
	}
	return obj, nil
}

// Normalize cleans the human-entered fields. A missing or blank slug is
// derived from the name; a given slug is slugified as well.
func Normalize(record document.Object) document.Object {
	out := record.Clone()

	name, hasName := out[model.FieldName].AsString()
	if hasName {
		name = sanitizer.NormalizeName(name)
		out[model.FieldName] = document.Scalar(name)
	}

	slug, _ := out[model.FieldSlug].AsString()
	switch {
	case strings.TrimSpace(slug) != "":
		out[model.FieldSlug] = document.Scalar(sanitizer.Slugify(slug))
	case hasName:
		out[model.FieldSlug] = document.Scalar(sanitizer.Slugify(name))
	}

	if desc, ok := out[model.FieldDescription].AsString(); ok {
		out[model.FieldDescription] = document.Scalar(sanitizer.StripHTML(desc))
	}

	return out
}

// Reconcile backfills record with template defaults.
func Reconcile(record, template document.Object) (document.Object, error) {
	merged, err := document.Merge(record, template)
	if err != nil {
		if errors.Is(err, document.ErrInvalidArgumentType) {
			return nil, apperrors.InvalidArgumentType("Document does not match the expected shape", err)
		}
		return nil, apperrors.Internal("Failed to merge document", err)
	}
	return merged, nil
}

// Prepare turns a decoded create body into a storable document.
func Prepare(record, template document.Object, now time.Time) (document.Object, error) {
	merged, err := Reconcile(Normalize(record), template)
	if err != nil {
		return nil, err
	}
	merged[model.FieldCreatedAt] = document.Scalar(now)
	merged[model.FieldUpdatedAt] = document.Scalar(now)
	return merged, nil
}

// Patch overlays patch onto the stored document, then reconciles the result
// so fields added to the template since the document was stored are filled.
func Patch(stored bson.M, patch, template document.Object, now time.Time) (document.Object, error) {
	base, err := document.AsObject(stored)
	if err != nil {
		return nil, apperrors.Internal("Stored document is not an object", err)
	}
	merged, err := Reconcile(Normalize(document.Overlay(base, patch)), template)
	if err != nil {
		return nil, err
	}
	delete(merged, model.FieldID)
	merged[model.FieldUpdatedAt] = document.Scalar(now)
	return merged, nil
}

func ToBSON(obj document.Object) bson.M {
	return bson.M(obj.Map())
}

// Present renders a stored document for API responses: template defaults are
// filled in and _id is exposed as a string "id". A stored document that no
// longer fits the template is returned as stored.
func Present(stored bson.M, template document.Object) map[string]any {
	obj, err := document.AsObject(stored)
	if err != nil {
		return nil
	}
	if merged, err := document.Merge(obj, template); err == nil {
		obj = merged
	}

	out := obj.Map()
	if id, ok := out[model.FieldID]; ok {
		out["id"] = identifier.String(id)
		delete(out, model.FieldID)
	}
	return out
}

func PresentAll(stored []bson.M, template document.Object) []map[string]any {
	out := make([]map[string]any, 0, len(stored))
	for _, doc := range stored {
		out = append(out, Present(doc, template))
	}
	return out
}

// ValidateCommon checks the fields every place document carries.
func ValidateCommon(v *validator.Validate, doc document.Object) validation.ValidationErrors {
	var errs validation.ValidationErrors

	name, ok := doc[model.FieldName].AsString()
	if !ok || v.Var(name, "required,max=200") != nil {
		errs = append(errs, validation.ValidationError{Field: model.FieldName, Message: "name is required and must be at most 200 characters"})
	}

	slug, ok := doc[model.FieldSlug].AsString()
	if !ok || v.Var(slug, "required,max=120") != nil {
		errs = append(errs, validation.ValidationError{Field: model.FieldSlug, Message: "slug must contain at least one letter or digit and be at most 120 characters"})
	}

	if vis := doc[model.FieldVisibility]; !vis.IsNull() {
		if _, ok := vis.Scalar().(bool); !ok {
			errs = append(errs, validation.ValidationError{Field: model.FieldVisibility, Message: "visibility must be a boolean"})
		}
	}

	return errs
}
