package pending

import (
	"bytes"
	"encoding/json"
	"testing"
)

func validUnified() map[string]any {
	return map[string]any{
		"firstName":             "  Dana ",
		"lastName":              "Reyes",
		"email":                 " Dana.Reyes@Example.COM ",
		"phone":                 "(555) 123-4567",
		"businessName":          "Green Leaf Supply",
		"businessType":          " retail ",
		"licenseNumber":         "C10-0000123",
		"city":                  "Sacramento",
		"state":                 "CA",
		"contactMethod":         "phone",
		"isRepeat":              false,
		"callCount":             json.Number("0"),
		"createdDate":           "2024-05-01",
		"lastContactDate":       "2024-05-01",
		"language":              "en",
		"submittedBy":           "voice-agent",
		"interests":             []any{" flower ", "edibles"},
		"feedbackParticipation": true,
		"notes":                 " prefers mornings ",
	}
}

func validLegacy() map[string]any {
	return map[string]any{
		"first_name":        "Sam",
		"last_name":         "Ortiz",
		"email":             "sam@example.com",
		"phone":             "15559876543",
		"business_name":     "Ortiz Wholesale",
		"business_type":     "wholesale",
		"license_number":    "W-42",
		"city":              "Fresno",
		"state":             "CA",
		"contact_method":    "email",
		"is_repeat":         false,
		"call_count":        json.Number("2"),
		"created_date":      "2023-11-20",
		"last_contact_date": "2024-01-15",
		"language":          "es",
		"submitted_by":      "web-form",
	}
}

func toJSON(t *testing.T, body map[string]any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(raw)
}
