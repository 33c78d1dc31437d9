package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer buffers messages in an inbox and writes them from one goroutine
// so callers on the request path never wait on the broker.
type Producer struct {
	w         messageWriter
	topic     string
	inbox     chan kafka.Message
	stopped   chan struct{}
	closeCh   chan struct{}
	closeOnce sync.Once
	// mu fences Publish against Close: publishers send under RLock, Close
	// flips closed under Lock, so nothing enters inbox once drain starts.
	mu     sync.RWMutex
	closed bool
	log    *slog.Logger
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewProducer(brokers []string, topic string, buf int, log *slog.Logger) *Producer {
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, topic, buf, log)
}

func newProducer(w messageWriter, topic string, buf int, log *slog.Logger) *Producer {
	return &Producer{
		w:       w,
		topic:   topic,
		inbox:   make(chan kafka.Message, buf),
		stopped: make(chan struct{}),
		closeCh: make(chan struct{}),
		log:     log,
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		done := ctx.Done()
		for {
			select {
			case m := <-p.inbox:
				p.write(m)
			case <-p.stopped:
				p.drain()
				return
			case <-done:
				// Close waits for in-flight publishers, so keep consuming
				// until it lands.
				done = nil
				go p.Close()
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.log.Error("kafka write failed", "topic", p.topic, "key", string(m.Key), "err", err)
	}
}

// drain flushes whatever is buffered, then closes the writer.
func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			if err := p.w.Close(); err != nil {
				p.log.Error("kafka writer close failed", "err", err)
			}
			close(p.closeCh)
			return
		}
	}
}

// Publish enqueues a message. After Close it drops the message.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	m := kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.Warn("kafka producer closed, event dropped", "key", string(key))
		return
	}
	p.inbox <- m
}

// Close asks the loop to flush and exit. It returns once no Publish call
// can add to the inbox.
func (p *Producer) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.stopped)
	})
}

// WaitClosed blocks until the flush is done.
func (p *Producer) WaitClosed() { <-p.closeCh }
