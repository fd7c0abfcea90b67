package pending

import (
	"encoding/json"
	"math"
	"slices"
	"strings"
)

// Schema identifies which external field naming a submission used.
type Schema string

const (
	// SchemaUnified is the camelCase form sent by current form builds.
	SchemaUnified Schema = "unified"
	// SchemaLegacy is the snake_case form without interest/feedback fields.
	SchemaLegacy Schema = "legacy"
)

// Accepted enumeration values.
var (
	ContactMethods = []string{"phone", "email", "text"}
	BusinessTypes  = []string{"retail", "wholesale", "both"}
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindEmail
	kindPhone
	kindEnum
	kindBool
	kindCount
	kindStringList
)

type fieldSpec struct {
	name     string // canonical camelCase name
	legacy   string // snake_case name; empty when the legacy form lacks the field
	kind     fieldKind
	required bool
	enum     []string
}

var fieldSpecs = []fieldSpec{
	{name: "firstName", legacy: "first_name", kind: kindString, required: true},
	{name: "lastName", legacy: "last_name", kind: kindString, required: true},
	{name: "email", legacy: "email", kind: kindEmail, required: true},
	{name: "phone", legacy: "phone", kind: kindPhone, required: true},
	{name: "businessName", legacy: "business_name", kind: kindString, required: true},
	{name: "businessType", legacy: "business_type", kind: kindEnum, required: true, enum: BusinessTypes},
	{name: "licenseNumber", legacy: "license_number", kind: kindString, required: true},
	{name: "city", legacy: "city", kind: kindString, required: true},
	{name: "state", legacy: "state", kind: kindString, required: true},
	{name: "contactMethod", legacy: "contact_method", kind: kindEnum, required: true, enum: ContactMethods},
	{name: "isRepeat", legacy: "is_repeat", kind: kindBool, required: true},
	{name: "callCount", legacy: "call_count", kind: kindCount, required: true},
	{name: "createdDate", legacy: "created_date", kind: kindString, required: true},
	{name: "lastContactDate", legacy: "last_contact_date", kind: kindString, required: true},
	{name: "language", legacy: "language", kind: kindString, required: true},
	{name: "submittedBy", legacy: "submitted_by", kind: kindString, required: true},
	{name: "interests", kind: kindStringList, required: true},
	{name: "feedbackParticipation", kind: kindBool, required: true},
	{name: "notes", legacy: "notes", kind: kindString},
}

// RequiredFields lists the required field names for schema, in the names that
// schema uses.
func RequiredFields(schema Schema) []string {
	var out []string
	for _, spec := range fieldSpecs {
		if name, ok := spec.nameFor(schema); ok && spec.required {
			out = append(out, name)
		}
	}
	return out
}

func (f fieldSpec) nameFor(schema Schema) (string, bool) {
	if schema == SchemaLegacy {
		return f.legacy, f.legacy != ""
	}
	return f.name, true
}

// DetectSchema counts the keys that only one schema uses and picks the schema
// with more of them. Ties, including bodies with no such keys, are unified.
func DetectSchema(body map[string]any) Schema {
	var unified, legacy int
	for _, spec := range fieldSpecs {
		if spec.legacy == spec.name {
			continue
		}
		if _, ok := body[spec.name]; ok {
			unified++
		}
		if spec.legacy == "" {
			continue
		}
		if _, ok := body[spec.legacy]; ok {
			legacy++
		}
	}
	if legacy > unified {
		return SchemaLegacy
	}
	return SchemaUnified
}

// canonicalize maps body onto canonical field names for schema, dropping
// keys the schema does not define.
func canonicalize(body map[string]any, schema Schema) map[string]any {
	out := make(map[string]any, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		name, ok := spec.nameFor(schema)
		if !ok {
			continue
		}
		if v, present := body[name]; present {
			out[spec.name] = v
		}
	}
	return out
}

// validate checks body (in the caller's schema) and returns every violation.
func validate(body map[string]any, schema Schema) []FieldError {
	var errs []FieldError
	for _, spec := range fieldSpecs {
		name, ok := spec.nameFor(schema)
		if !ok {
			continue
		}
		v, present := body[name]
		if !present || v == nil {
			if spec.required {
				errs = append(errs, FieldError{Field: name, Message: "is required"})
			}
			continue
		}
		if msg := spec.check(v); msg != "" {
			errs = append(errs, FieldError{Field: name, Message: msg})
		}
	}
	return errs
}

func (f fieldSpec) check(v any) string {
	switch f.kind {
	case kindString:
		if _, ok := v.(string); !ok {
			return "must be a string"
		}
	case kindEmail:
		s, ok := v.(string)
		if !ok {
			return "must be a string"
		}
		if s = strings.TrimSpace(s); s != "" && !strings.Contains(s, "@") {
			return "must contain @"
		}
	case kindPhone:
		switch v.(type) {
		case string, json.Number, float64:
		default:
			return "must be a string"
		}
	case kindEnum:
		s, ok := v.(string)
		if !ok || !slices.Contains(f.enum, strings.TrimSpace(s)) {
			return "must be one of: " + strings.Join(f.enum, ", ")
		}
	case kindBool:
		if _, ok := v.(bool); !ok {
			return "must be a boolean"
		}
	case kindCount:
		if _, ok := countValue(v); !ok {
			return "must be a non-negative integer"
		}
	case kindStringList:
		list, ok := v.([]any)
		if !ok {
			return "must be an array of strings"
		}
		for _, item := range list {
			if _, ok := item.(string); !ok {
				return "must be an array of strings"
			}
		}
	}
	return ""
}

func countValue(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	case float64:
		if t < 0 || t != math.Trunc(t) || t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	default:
		return 0, false
	}
}
