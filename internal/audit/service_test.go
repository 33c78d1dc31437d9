package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	kafkax "github.com/ariefcatur/haritham-market/internal/kafka"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecorder mimics ON CONFLICT DO NOTHING on the event id.
type fakeRecorder struct {
	mu      sync.Mutex
	entries map[string]Entry
	calls   int
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, e Entry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if f.entries == nil {
		f.entries = map[string]Entry{}
	}
	if _, ok := f.entries[e.EventID]; ok {
		return false, nil
	}
	f.entries[e.EventID] = e
	return true, nil
}

func statusMessage(eventID string) kafkago.Message {
	env := market.Envelope{
		EventID:      eventID,
		EventType:    market.EventOrderStatusChanged,
		EventVersion: 1,
		OccurredAt:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Producer:     "haritham-bff",
		TraceID:      "req-7",
		Payload: kafkax.MustMarshal(market.OrderStatusChangedPayload{
			OrderID: "o1", From: market.StatusOrdered, To: market.StatusPacked,
			Role: market.RoleSeller, ActorID: "s1",
		}),
	}
	return kafkago.Message{Key: []byte("o1"), Value: kafkax.MustMarshal(env)}
}

func newService(rec Recorder) *Service {
	return &Service{Repo: rec, ServiceName: "auditor", Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestHandleStatusChangedRecordsEntry(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newService(rec)

	require.NoError(t, svc.HandleStatusChanged(context.Background(), statusMessage("e1")))
	require.NoError(t, svc.HandleStatusChanged(context.Background(), statusMessage("e1")))

	require.Len(t, rec.entries, 1)
	e := rec.entries["e1"]
	assert.Equal(t, "o1", e.OrderID)
	assert.Equal(t, market.StatusOrdered, e.From)
	assert.Equal(t, market.StatusPacked, e.To)
	assert.Equal(t, market.RoleSeller, e.Role)
	assert.Equal(t, "req-7", e.TraceID)
}

func TestHandleStatusChangedSkipsPoisonAndForeignEvents(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newService(rec)

	assert.NoError(t, svc.HandleStatusChanged(context.Background(), kafkago.Message{Value: []byte("not json")}))

	other := market.Envelope{EventID: "x", EventType: "SomethingElse"}
	assert.NoError(t, svc.HandleStatusChanged(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(other)}))
	assert.Equal(t, 0, rec.calls)
}

func TestHandleStatusChangedReturnsStoreError(t *testing.T) {
	svc := newService(&fakeRecorder{err: errors.New("db down")})
	err := svc.HandleStatusChanged(context.Background(), statusMessage("e1"))
	assert.ErrorContains(t, err, "db down")
}

func TestRedisDedupShortCircuits(t *testing.T) {
	mr := miniredis.RunT(t)
	rec := &fakeRecorder{}
	svc := newService(rec)
	svc.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	require.NoError(t, svc.HandleStatusChanged(context.Background(), statusMessage("e1")))
	require.NoError(t, svc.HandleStatusChanged(context.Background(), statusMessage("e1")))
	assert.Equal(t, 1, rec.calls)
	assert.True(t, mr.Exists("dedup:auditor:e1"))
}
