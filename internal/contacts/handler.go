package contacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/wolfman30/contact-bridge/internal/phone"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

const maxBodyBytes = 1 << 20

// Handler handles HTTP requests for contact lookups
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new contacts handler
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// CallContext handles POST /webhooks/call-context. Once the request is
// authenticated it always answers 200 with the fixed shape; the platform
// drops the call on anything else.
func (h *Handler) CallContext(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("call context handler panicked", "panic", fmt.Sprint(rec))
			writeJSON(w, http.StatusOK, NewCallContextResponse("", false, true, ContactContext{}))
		}
	}()

	body, err := decodeObject(r)
	if err != nil {
		h.logger.Warn("call context: unreadable body", "error", err)
		writeJSON(w, http.StatusOK, NewCallContextResponse("", false, true, ContactContext{}))
		return
	}

	caller, path := CallerID(body)
	resp, err := h.svc.CallContext(r.Context(), caller)
	if err != nil {
		h.logger.Error("call context lookup failed", "error", err, "caller_path", path)
	} else {
		h.logger.Info("call context resolved",
			"phone", phone.Mask(resp.Phone),
			"registered", resp.Registered,
			"caller_path", path,
		)
	}
	writeJSON(w, http.StatusOK, resp)
}

type lookupRequest struct {
	Phone any `json:"phone"`
}

// Lookup handles POST /contacts/lookup
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}

	summary, err := h.svc.Find(r.Context(), req.Phone)
	if err != nil {
		h.logger.Error("contact lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "lookup_failed"})
		return
	}
	writeJSON(w, http.StatusOK, LookupResponse{Found: summary != nil, Contact: summary})
}

func decodeObject(r *http.Request) (map[string]any, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
