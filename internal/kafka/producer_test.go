package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records messages written.
type fakeWriter struct {
	mu     sync.Mutex
	msgs   []skafka.Message
	closed bool
	err    error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...skafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestPublishWritesInOrder(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducer(fw, "order.status.changed", 16, quietLog())
	p.Start(context.Background())

	p.Publish([]byte("o1"), []byte("a"))
	p.Publish([]byte("o1"), []byte("b"), skafka.Header{Key: "x-event-type", Value: []byte("OrderStatusChanged")})
	p.Close()
	p.WaitClosed()

	require.Equal(t, 2, fw.count())
	assert.Equal(t, "a", string(fw.msgs[0].Value))
	assert.Equal(t, "b", string(fw.msgs[1].Value))
	assert.Equal(t, "x-event-type", fw.msgs[1].Headers[0].Key)
	assert.True(t, fw.closed)
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducer(fw, "t", 1, quietLog())
	p.Start(context.Background())
	p.Close()
	p.Close()
	p.WaitClosed()

	done := make(chan struct{})
	go func() {
		p.Publish([]byte("k"), []byte("v"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after Close")
	}
	assert.Equal(t, 0, fw.count())
}

func TestPublishRacingCloseStrandsNothing(t *testing.T) {
	for round := 0; round < 20; round++ {
		fw := &fakeWriter{}
		p := newProducer(fw, "t", 4, quietLog())
		p.Start(context.Background())

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					p.Publish([]byte("k"), []byte("v"))
				}
			}()
		}
		p.Close()
		p.WaitClosed()
		wg.Wait()

		assert.Zero(t, len(p.inbox), "message left behind after drain")
		assert.True(t, fw.closed)
	}
}

func TestWriteErrorDoesNotStopProducer(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(fw, "t", 4, quietLog())
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	p.Publish([]byte("k"), []byte("v"))
	cancel()
	p.WaitClosed()
	assert.True(t, fw.closed)
}

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
	}
	got, err := UnwrapPayload[payload](MustMarshal(payload{OrderID: "o1"}))
	require.NoError(t, err)
	assert.Equal(t, "o1", got.OrderID)

	_, err = UnwrapPayload[payload]([]byte("{"))
	assert.Error(t, err)
}
