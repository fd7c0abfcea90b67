package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFromBSONFlattensDriverTypes(t *testing.T) {
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	raw := primitive.M{
		"_id":  "+15551234567",
		"tags": primitive.A{"vip", "retail"},
		"meta": primitive.D{{Key: "source", Value: "web"}},
		"at":   primitive.NewDateTimeFromTime(when),
	}

	doc := Document(fromBSON(raw).(map[string]any))
	assert.Equal(t, []string{"vip", "retail"}, doc.Strings("tags"))
	assert.Equal(t, "web", doc["meta"].(map[string]any)["source"])
	assert.Equal(t, "2024-05-06T07:08:09Z", doc.String("at"))
}

func TestMongoStoreRoundTrip(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, uri)
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database("contact_bridge_test")
	defer func() { _ = db.Drop(context.Background()) }()
	s := NewMongoStore(db)

	_, err = s.Get(ctx, "contacts", "+15551234567")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "contacts", "+15551234567", Document{"name": "Dana", "extra": true}))
	require.NoError(t, s.Put(ctx, "contacts", "+15551234567", Document{"name": "Dana R"}))

	doc, err := s.Get(ctx, "contacts", "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "Dana R", doc.String("name"))
	assert.False(t, doc.Has("extra"))
}
