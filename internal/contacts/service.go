package contacts

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/contact-bridge/internal/observability/metrics"
	"github.com/wolfman30/contact-bridge/internal/phone"
	"github.com/wolfman30/contact-bridge/internal/store"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

var tracer = otel.Tracer("contactbridge.internal.contacts")

// Service resolves caller context from the contacts collection.
type Service struct {
	store      store.Store
	collection string
	logger     *logging.Logger
	metrics    *metrics.BridgeMetrics
}

// NewService wires the lookup service. metrics may be nil.
func NewService(s store.Store, collection string, logger *logging.Logger, m *metrics.BridgeMetrics) *Service {
	if s == nil {
		panic("contacts: store cannot be nil")
	}
	if collection == "" {
		panic("contacts: collection cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: s, collection: collection, logger: logger, metrics: m}
}

// CallContext resolves the caller into the fixed response shape. The response
// is always usable; a non-nil error means Error is set and is returned only so
// the caller can log it.
func (s *Service) CallContext(ctx context.Context, caller any) (resp CallContextResponse, err error) {
	ctx, span := tracer.Start(ctx, "contacts.call_context")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("contacts: lookup panicked: %v", r)
			resp = NewCallContextResponse("", false, true, ContactContext{})
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			s.metrics.ObserveLookup("call_context", metrics.LookupError)
		}
	}()

	key, ok := phone.FromAny(caller)
	if !ok {
		s.metrics.ObserveLookup("call_context", metrics.LookupInvalidPhone)
		span.SetAttributes(attribute.Bool("contacts.phone_valid", false))
		return NewCallContextResponse("", false, false, ContactContext{}), nil
	}
	span.SetAttributes(attribute.Bool("contacts.phone_valid", true))

	doc, err := s.store.Get(ctx, s.collection, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.metrics.ObserveLookup("call_context", metrics.LookupNotFound)
		span.SetAttributes(attribute.Bool("contacts.registered", false))
		return NewCallContextResponse(key, false, false, ContactContext{}), nil
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "store get failed")
		s.metrics.ObserveLookup("call_context", metrics.LookupError)
		return NewCallContextResponse("", false, true, ContactContext{}), fmt.Errorf("contacts: get %s: %w", phone.Mask(key), err)
	}

	s.metrics.ObserveLookup("call_context", metrics.LookupFound)
	span.SetAttributes(attribute.Bool("contacts.registered", true))
	return NewCallContextResponse(key, true, false, ContactFromDocument(doc)), nil
}

// Find returns the contact summary for raw, or nil when the number has no
// canonical form or no stored contact.
func (s *Service) Find(ctx context.Context, raw any) (*ContactSummary, error) {
	ctx, span := tracer.Start(ctx, "contacts.find")
	defer span.End()

	key, ok := phone.FromAny(raw)
	if !ok {
		s.metrics.ObserveLookup("lookup", metrics.LookupInvalidPhone)
		return nil, nil
	}

	doc, err := s.store.Get(ctx, s.collection, key)
	if errors.Is(err, store.ErrNotFound) {
		s.metrics.ObserveLookup("lookup", metrics.LookupNotFound)
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store get failed")
		s.metrics.ObserveLookup("lookup", metrics.LookupError)
		return nil, fmt.Errorf("contacts: get %s: %w", phone.Mask(key), err)
	}

	s.metrics.ObserveLookup("lookup", metrics.LookupFound)
	return SummaryFromDocument(key, doc), nil
}
