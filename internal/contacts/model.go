package contacts

import (
	"strconv"
	"strings"

	"github.com/wolfman30/contact-bridge/internal/store"
)

// ResponseType tags call-context responses for the voice-agent platform.
const ResponseType = "conversation_initiation_client_data"

// ContactContext is the caller profile handed to the agent. Every field is
// always present; missing attributes default to empty values.
type ContactContext struct {
	Name         string   `json:"name"`
	BusinessName string   `json:"businessName"`
	LicenseID    string   `json:"licenseId"`
	Email        string   `json:"email"`
	Tags         []string `json:"tags"`
	Notes        string   `json:"notes"`
	Channel      string   `json:"channel"`
	Source       string   `json:"source"`
	Language     string   `json:"language"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// CallContextResponse is the fixed shape returned to the calling platform.
type CallContextResponse struct {
	Type             string            `json:"type"`
	Error            bool              `json:"error"`
	Registered       bool              `json:"registered"`
	Phone            string            `json:"phone"`
	Contact          ContactContext    `json:"contact"`
	DynamicVariables map[string]string `json:"dynamic_variables"`
}

// ContactSummary is the minimal projection returned by the simple lookup.
type ContactSummary struct {
	Phone        string   `json:"phone"`
	Name         string   `json:"name"`
	BusinessName string   `json:"businessName"`
	LicenseID    string   `json:"licenseId"`
	Tags         []string `json:"tags"`
}

// LookupResponse is returned by the simple lookup endpoint.
type LookupResponse struct {
	Found   bool            `json:"found"`
	Contact *ContactSummary `json:"contact"`
}

// NewCallContextResponse builds a fully defaulted response.
func NewCallContextResponse(phone string, registered, failed bool, contact ContactContext) CallContextResponse {
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	resp := CallContextResponse{
		Type:       ResponseType,
		Error:      failed,
		Registered: registered,
		Phone:      phone,
		Contact:    contact,
	}
	resp.DynamicVariables = map[string]string{
		"caller_phone":  phone,
		"is_registered": strconv.FormatBool(registered),
		"contact_name":  contact.Name,
		"business_name": contact.BusinessName,
		"license_id":    contact.LicenseID,
		"contact_tags":  strings.Join(contact.Tags, ", "),
		"lookup_error":  strconv.FormatBool(failed),
	}
	return resp
}

// ContactFromDocument maps stored attributes onto the fixed profile shape.
// Older records used snake_case or split names, so aliases are accepted.
func ContactFromDocument(doc store.Document) ContactContext {
	name := doc.String("name", "fullName", "full_name")
	if name == "" {
		name = strings.TrimSpace(doc.String("firstName", "first_name") + " " + doc.String("lastName", "last_name"))
	}
	return ContactContext{
		Name:         name,
		BusinessName: doc.String("businessName", "business", "business_name"),
		LicenseID:    doc.String("licenseId", "licenseNumber", "license_id", "license_number"),
		Email:        doc.String("email"),
		Tags:         doc.Strings("tags"),
		Notes:        doc.String("notes"),
		Channel:      doc.String("channel"),
		Source:       doc.String("source"),
		Language:     doc.String("language"),
		CreatedAt:    doc.String("createdAt", "created_at"),
		UpdatedAt:    doc.String("updatedAt", "updated_at"),
	}
}

// SummaryFromDocument projects a stored contact for the simple lookup.
func SummaryFromDocument(phone string, doc store.Document) *ContactSummary {
	c := ContactFromDocument(doc)
	return &ContactSummary{
		Phone:        phone,
		Name:         c.Name,
		BusinessName: c.BusinessName,
		LicenseID:    c.LicenseID,
		Tags:         c.Tags,
	}
}
