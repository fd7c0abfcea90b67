package pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/contact-bridge/internal/phone"
	"github.com/wolfman30/contact-bridge/internal/store"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

var tracer = otel.Tracer("contactbridge.internal.pending")

// Result describes the outcome of an upsert.
type Result struct {
	ID        string
	IsUpdate  bool
	CallCount int64
}

// Service upserts pending contacts keyed by canonical phone number.
//
// The read-then-write in Upsert is not transactional: two concurrent
// submissions for one number both read the same prior state and the last
// write wins.
type Service struct {
	store      store.Store
	collection string
	logger     *logging.Logger
	now        func() time.Time
}

// NewService wires the upsert service.
func NewService(s store.Store, collection string, logger *logging.Logger) *Service {
	if s == nil {
		panic("pending: store cannot be nil")
	}
	if collection == "" {
		panic("pending: collection cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: s, collection: collection, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for submittedAt/updatedAt.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Upsert writes sub under its canonical phone. When a document already exists
// the stored createdDate is kept, callCount becomes the stored count plus one
// and isRepeat is forced true. The document is always fully replaced.
func (s *Service) Upsert(ctx context.Context, sub *Submission) (Result, error) {
	ctx, span := tracer.Start(ctx, "pending.upsert")
	defer span.End()

	if sub == nil || sub.Phone == "" {
		return Result{}, ErrInvalidPhone
	}
	span.SetAttributes(attribute.String("pending.schema", string(sub.Schema)))

	existing, err := s.store.Get(ctx, s.collection, sub.Phone)
	isUpdate := false
	switch {
	case err == nil:
		isUpdate = true
	case errors.Is(err, store.ErrNotFound):
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "store get failed")
		return Result{}, fmt.Errorf("%w: read %s: %w", ErrStorage, phone.Mask(sub.Phone), err)
	}

	if isUpdate {
		if created := existing.String("createdDate", "created_date"); created != "" {
			sub.CreatedDate = created
		}
		prev, _ := existing.Int("callCount", "call_count")
		sub.CallCount = prev + 1
		sub.IsRepeat = true
	}

	now := s.now().UTC()
	doc := sub.Document()
	doc["submittedAt"] = now
	doc["updatedAt"] = now

	if err := s.store.Put(ctx, s.collection, sub.Phone, doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store put failed")
		return Result{}, fmt.Errorf("%w: write %s: %w", ErrStorage, phone.Mask(sub.Phone), err)
	}

	span.SetAttributes(
		attribute.Bool("pending.is_update", isUpdate),
		attribute.Int64("pending.call_count", sub.CallCount),
	)
	return Result{ID: sub.Phone, IsUpdate: isUpdate, CallCount: sub.CallCount}, nil
}
