package pending

import (
	"strings"

	"github.com/wolfman30/contact-bridge/internal/phone"
	"github.com/wolfman30/contact-bridge/internal/store"
)

// StatusPending is the only status this service writes.
const StatusPending = "pending"

// Submission is the canonical, normalized form of a pending-contact payload,
// whichever external schema it arrived in.
type Submission struct {
	Schema Schema

	FirstName     string
	LastName      string
	Email         string
	Phone         string // canonical E.164
	BusinessName  string
	BusinessType  string
	LicenseNumber string
	City          string
	State         string

	ContactMethod   string
	IsRepeat        bool
	CallCount       int64
	CreatedDate     string
	LastContactDate string
	Language        string
	SubmittedBy     string
	Notes           string

	Interests             []string
	FeedbackParticipation bool
}

// Parse validates body, maps it onto the canonical shape and normalizes it.
// It returns *ValidationError for schema violations and ErrInvalidPhone when
// the phone has no canonical form.
func Parse(body map[string]any) (*Submission, error) {
	schema := DetectSchema(body)
	if errs := validate(body, schema); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	fields := canonicalize(body, schema)
	key, ok := phone.FromAny(fields["phone"])
	if !ok {
		return nil, ErrInvalidPhone
	}

	count, _ := countValue(fields["callCount"])
	sub := &Submission{
		Schema:          schema,
		FirstName:       str(fields, "firstName"),
		LastName:        str(fields, "lastName"),
		Email:           strings.ToLower(str(fields, "email")),
		Phone:           key,
		BusinessName:    str(fields, "businessName"),
		BusinessType:    str(fields, "businessType"),
		LicenseNumber:   str(fields, "licenseNumber"),
		City:            str(fields, "city"),
		State:           str(fields, "state"),
		ContactMethod:   str(fields, "contactMethod"),
		IsRepeat:        boolean(fields, "isRepeat"),
		CallCount:       count,
		CreatedDate:     str(fields, "createdDate"),
		LastContactDate: str(fields, "lastContactDate"),
		Language:        str(fields, "language"),
		SubmittedBy:     str(fields, "submittedBy"),
		Notes:           str(fields, "notes"),
		Interests:       []string{},
	}
	if list, ok := fields["interests"].([]any); ok {
		for _, item := range list {
			sub.Interests = append(sub.Interests, strings.TrimSpace(item.(string)))
		}
	}
	sub.FeedbackParticipation = boolean(fields, "feedbackParticipation")
	return sub, nil
}

// Document renders the submission with canonical attribute names.
func (s *Submission) Document() store.Document {
	interests := make([]string, len(s.Interests))
	copy(interests, s.Interests)
	return store.Document{
		"firstName":             s.FirstName,
		"lastName":              s.LastName,
		"email":                 s.Email,
		"phone":                 s.Phone,
		"businessName":          s.BusinessName,
		"businessType":          s.BusinessType,
		"licenseNumber":         s.LicenseNumber,
		"city":                  s.City,
		"state":                 s.State,
		"contactMethod":         s.ContactMethod,
		"isRepeat":              s.IsRepeat,
		"callCount":             s.CallCount,
		"createdDate":           s.CreatedDate,
		"lastContactDate":       s.LastContactDate,
		"language":              s.Language,
		"submittedBy":           s.SubmittedBy,
		"notes":                 s.Notes,
		"interests":             interests,
		"feedbackParticipation": s.FeedbackParticipation,
		"schema":                string(s.Schema),
		"status":                StatusPending,
	}
}

func str(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}

func boolean(fields map[string]any, key string) bool {
	b, _ := fields[key].(bool)
	return b
}
