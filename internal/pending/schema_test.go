package pending

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSchema(t *testing.T) {
	assert.Equal(t, SchemaUnified, DetectSchema(validUnified()))
	assert.Equal(t, SchemaLegacy, DetectSchema(validLegacy()))
	// Keys shared by both forms do not make a body legacy.
	assert.Equal(t, SchemaUnified, DetectSchema(map[string]any{"email": "a@b", "phone": "1", "city": "x"}))
	assert.Equal(t, SchemaLegacy, DetectSchema(map[string]any{"call_count": 1}))
}

func TestRequiredFields(t *testing.T) {
	unified := RequiredFields(SchemaUnified)
	legacy := RequiredFields(SchemaLegacy)

	assert.Contains(t, unified, "interests")
	assert.Contains(t, unified, "feedbackParticipation")
	assert.NotContains(t, unified, "notes")
	assert.Contains(t, legacy, "first_name")
	assert.NotContains(t, legacy, "interests")
	assert.Len(t, legacy, len(unified)-2)
}

func TestMissingFieldIsNamedExactly(t *testing.T) {
	for _, schema := range []Schema{SchemaUnified, SchemaLegacy} {
		for _, field := range RequiredFields(schema) {
			t.Run(string(schema)+"/"+field, func(t *testing.T) {
				body := validUnified()
				if schema == SchemaLegacy {
					body = validLegacy()
				}
				delete(body, field)

				_, err := Parse(body)
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
				assert.Equal(t, []FieldError{{Field: field, Message: "is required"}}, verr.Fields)
			})
		}
	}
}

func TestNullCountsAsMissing(t *testing.T) {
	body := validUnified()
	body["lastName"] = nil

	_, err := Parse(body)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{{Field: "lastName", Message: "is required"}}, verr.Fields)
}

func TestEnumEnforcement(t *testing.T) {
	tests := []struct {
		field string
		value any
		ok    bool
	}{
		{"contactMethod", "phone", true},
		{"contactMethod", " text ", true},
		{"contactMethod", "email", true},
		{"contactMethod", "fax", false},
		{"contactMethod", "Phone", false},
		{"contactMethod", json.Number("1"), false},
		{"businessType", "wholesale", true},
		{"businessType", "both", true},
		{"businessType", "manufacturer", false},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+asString(tt.value), func(t *testing.T) {
			body := validUnified()
			body[tt.field] = tt.value

			sub, err := Parse(body)
			if tt.ok {
				require.NoError(t, err)
				got := sub.ContactMethod
				if tt.field == "businessType" {
					got = sub.BusinessType
				}
				assert.Equal(t, strings.TrimSpace(tt.value.(string)), got)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestTypeChecks(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		message string
	}{
		{"email without at", "email", "dana.example.com", "must contain @"},
		{"email not string", "email", json.Number("5"), "must be a string"},
		{"repeat flag string", "isRepeat", "false", "must be a boolean"},
		{"count negative", "callCount", json.Number("-1"), "must be a non-negative integer"},
		{"count fractional", "callCount", json.Number("1.5"), "must be a non-negative integer"},
		{"count string", "callCount", "3", "must be a non-negative integer"},
		{"interests not array", "interests", "flower", "must be an array of strings"},
		{"interests mixed", "interests", []any{"flower", json.Number("2")}, "must be an array of strings"},
		{"feedback not bool", "feedbackParticipation", "yes", "must be a boolean"},
		{"name not string", "firstName", true, "must be a string"},
		{"notes not string", "notes", json.Number("1"), "must be a string"},
		{"phone object", "phone", map[string]any{"n": "1"}, "must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validUnified()
			body[tt.field] = tt.value

			_, err := Parse(body)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []FieldError{{Field: tt.field, Message: tt.message}}, verr.Fields)
		})
	}
}

func TestEmptyEmailIsAllowed(t *testing.T) {
	body := validUnified()
	body["email"] = "  "
	sub, err := Parse(body)
	require.NoError(t, err)
	assert.Equal(t, "", sub.Email)
}

func TestMultipleViolationsAreAllReported(t *testing.T) {
	body := validUnified()
	delete(body, "city")
	body["contactMethod"] = "pigeon"
	body["callCount"] = json.Number("-3")

	_, err := Parse(body)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"city", "contactMethod", "callCount"}, fields)
	assert.Contains(t, verr.Error(), "contactMethod must be one of: phone, email, text")
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, _ := json.Marshal(v)
	return string(raw)
}

func TestDetectSchemaMixedKeys(t *testing.T) {
	// A unified body with a stray snake_case key stays unified.
	body := validUnified()
	body["created_date"] = "2024-01-01"
	assert.Equal(t, SchemaUnified, DetectSchema(body))

	sub, err := Parse(body)
	require.NoError(t, err)
	assert.Equal(t, SchemaUnified, sub.Schema)
	assert.Equal(t, "2024-05-01", sub.CreatedDate)

	// A legacy body with one camelCase key stays legacy.
	legacy := validLegacy()
	legacy["firstName"] = "Samuel"
	assert.Equal(t, SchemaLegacy, DetectSchema(legacy))
}
