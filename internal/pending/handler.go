package pending

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wolfman30/contact-bridge/internal/observability/metrics"
	"github.com/wolfman30/contact-bridge/internal/phone"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

const maxBodyBytes = 1 << 20

// Handler handles HTTP requests for pending-contact submissions
type Handler struct {
	svc     *Service
	logger  *logging.Logger
	metrics *metrics.BridgeMetrics
}

// NewHandler creates a new pending-contact handler. metrics may be nil.
func NewHandler(svc *Service, logger *logging.Logger, m *metrics.BridgeMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger, metrics: m}
}

// SubmitResponse is returned on success.
type SubmitResponse struct {
	OK        bool   `json:"ok"`
	ID        string `json:"id"`
	IsUpdate  bool   `json:"isUpdate"`
	CallCount int64  `json:"callCount"`
}

// ErrorResponse is returned on every rejection.
type ErrorResponse struct {
	OK      bool         `json:"ok"`
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// Error codes.
const (
	CodeInvalidJSON      = "invalid_json"
	CodeValidationFailed = "validation_failed"
	CodeInvalidPhone     = "invalid_phone"
	CodeStorageError     = "storage_error"
	CodeInternalError    = "internal_error"
)

// Submit handles POST /contacts/pending
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("pending contact panicked", "panic", rec)
			h.metrics.ObserveSubmission("", metrics.SubmissionError)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: CodeInternalError})
		}
	}()

	body, err := decodeObject(r.Body)
	if err != nil {
		h.logger.Warn("pending contact: invalid body", "error", err)
		h.metrics.ObserveSubmission("", metrics.SubmissionInvalid)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidJSON})
		return
	}
	schema := DetectSchema(body)

	sub, err := Parse(body)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			h.logger.Info("pending contact rejected", "schema", schema, "violations", len(verr.Fields))
			h.metrics.ObserveSubmission(string(schema), metrics.SubmissionInvalid)
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeValidationFailed, Details: verr.Fields})
		case errors.Is(err, ErrInvalidPhone):
			h.logger.Info("pending contact rejected: phone not normalizable", "schema", schema)
			h.metrics.ObserveSubmission(string(schema), metrics.SubmissionInvalidPhone)
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidPhone})
		default:
			h.logger.Error("pending contact parse failed", "error", err)
			h.metrics.ObserveSubmission(string(schema), metrics.SubmissionError)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: CodeInternalError})
		}
		return
	}

	res, err := h.svc.Upsert(r.Context(), sub)
	if err != nil {
		h.logger.Error("pending contact upsert failed", "error", err)
		h.metrics.ObserveSubmission(string(schema), metrics.SubmissionError)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: CodeStorageError})
		return
	}

	outcome := metrics.SubmissionCreated
	if res.IsUpdate {
		outcome = metrics.SubmissionUpdated
	}
	h.metrics.ObserveSubmission(string(schema), outcome)
	h.logger.Info("pending contact saved",
		"phone", phone.Mask(res.ID),
		"is_update", res.IsUpdate,
		"call_count", res.CallCount,
		"schema", schema,
	)
	writeJSON(w, http.StatusOK, SubmitResponse{OK: true, ID: res.ID, IsUpdate: res.IsUpdate, CallCount: res.CallCount})
}

func decodeObject(r io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("body must be a JSON object")
	}
	return body, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
