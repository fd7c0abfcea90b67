package pending

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/contact-bridge/internal/store"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

type scriptedStore struct {
	*store.MemoryStore
	getErr error
	putErr error
	puts   int
}

func (s *scriptedStore) Get(ctx context.Context, c, id string) (store.Document, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, c, id)
}

func (s *scriptedStore) Put(ctx context.Context, c, id string, doc store.Document) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemoryStore.Put(ctx, c, id, doc)
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func mustParse(t *testing.T, body map[string]any) *Submission {
	t.Helper()
	sub, err := Parse(body)
	require.NoError(t, err)
	return sub
}

func TestUpsert_FreshThenRepeat(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := NewService(mem, "pending_contacts", logging.Default()).WithClock(fixedClock(first))

	res, err := svc.Upsert(ctx, mustParse(t, validUnified()))
	require.NoError(t, err)
	assert.Equal(t, Result{ID: "+15551234567", IsUpdate: false, CallCount: 0}, res)

	stored, err := mem.Get(ctx, "pending_contacts", "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.String("status"))
	assert.Equal(t, "2024-05-01", stored.String("createdDate"))
	assert.False(t, stored.Bool("isRepeat"))
	assert.Equal(t, first, stored["submittedAt"])

	// Second submission for the same number, with a different creation date.
	second := first.Add(48 * time.Hour)
	svc.WithClock(fixedClock(second))
	body := validUnified()
	body["phone"] = "+1 555 123 4567"
	body["createdDate"] = "2024-05-03"
	body["callCount"] = json.Number("0")

	res, err = svc.Upsert(ctx, mustParse(t, body))
	require.NoError(t, err)
	assert.True(t, res.IsUpdate)
	assert.EqualValues(t, 1, res.CallCount)

	stored, err = mem.Get(ctx, "pending_contacts", "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", stored.String("createdDate"), "creation date is immutable across repeats")
	assert.True(t, stored.Bool("isRepeat"))
	n, _ := stored.Int("callCount")
	assert.EqualValues(t, 1, n)
	assert.Equal(t, second, stored["updatedAt"])

	// A third one keeps counting.
	res, err = svc.Upsert(ctx, mustParse(t, validUnified()))
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.CallCount)
}

func TestUpsert_RepeatFlagForcedEvenWhenCallerSaysFalse(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "pending_contacts", "+15551234567", store.Document{
		"created_date": "2022-01-01",
		"call_count":   float64(4),
	}))
	svc := NewService(mem, "pending_contacts", logging.Default())

	sub := mustParse(t, validUnified())
	require.False(t, sub.IsRepeat)

	res, err := svc.Upsert(ctx, sub)
	require.NoError(t, err)
	assert.True(t, res.IsUpdate)
	assert.EqualValues(t, 5, res.CallCount)

	stored, _ := mem.Get(ctx, "pending_contacts", "+15551234567")
	assert.True(t, stored.Bool("isRepeat"))
	assert.Equal(t, "2022-01-01", stored.String("createdDate"))
	assert.False(t, stored.Has("call_count"), "writes replace the whole document")
}

func TestUpsert_ExistingWithoutCountOrDate(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "pending_contacts", "+15551234567", store.Document{"status": "pending"}))
	svc := NewService(mem, "pending_contacts", logging.Default())

	res, err := svc.Upsert(ctx, mustParse(t, validUnified()))
	require.NoError(t, err)
	assert.True(t, res.IsUpdate)
	assert.EqualValues(t, 1, res.CallCount)

	stored, _ := mem.Get(ctx, "pending_contacts", "+15551234567")
	assert.Equal(t, "2024-05-01", stored.String("createdDate"))
}

func TestUpsert_ReadFailureDoesNotWrite(t *testing.T) {
	s := &scriptedStore{MemoryStore: store.NewMemoryStore(), getErr: errors.New("unavailable")}
	svc := NewService(s, "pending_contacts", logging.Default())

	_, err := svc.Upsert(context.Background(), mustParse(t, validUnified()))
	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, 0, s.puts)
}

func TestUpsert_WriteFailure(t *testing.T) {
	boom := errors.New("throttled")
	s := &scriptedStore{MemoryStore: store.NewMemoryStore(), putErr: boom}
	svc := NewService(s, "pending_contacts", logging.Default())

	_, err := svc.Upsert(context.Background(), mustParse(t, validUnified()))
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, boom)
}

func TestUpsert_RequiresPhone(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), "pending_contacts", logging.Default())
	_, err := svc.Upsert(context.Background(), &Submission{})
	assert.ErrorIs(t, err, ErrInvalidPhone)
}
