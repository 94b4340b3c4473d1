package broker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// InMemoryBroker fans published messages out to every subscriber of the
// topic over buffered channels. Used by tests and single-process runs.
type InMemoryBroker struct {
	mu          sync.Mutex
	subscribers map[string][]chan Message
	offsets     map[string]int64
	closed      bool
	done        chan struct{} // closed by Close, releases subscription watchers
}

func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subscribers: make(map[string][]chan Message),
		offsets:     make(map[string]int64),
		done:        make(chan struct{}),
	}
}

// Publish delivers value to every current subscriber of topic. A
// subscriber whose buffer is full drops the message rather than
// blocking the publisher.
func (b *InMemoryBroker) Publish(_ context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("broker is closed")
	}

	offset := b.offsets[topic]
	b.offsets[topic] = offset + 1

	msg := Message{
		Topic:     topic,
		Key:       key,
		Value:     value,
		Offset:    offset,
		Timestamp: time.Now().UnixMilli(),
	}

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registers a new consumer channel for topic. groupID is
// ignored; every in-memory subscriber sees every message.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, _ string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}

	ch := make(chan Message, 100)
	b.subscribers[topic] = append(b.subscribers[topic], ch)

	go func() {
		select {
		case <-ctx.Done():
			b.remove(topic, ch)
		case <-b.done:
			// Close already shut every subscriber channel.
		}
	}()

	return ch, nil
}

func (b *InMemoryBroker) remove(topic string, ch chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[topic]
	for i, c := range subs {
		if c == ch {
			b.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			close(c)
			return
		}
	}
}

// Close closes every subscriber channel and rejects further use.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)

	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subscribers = make(map[string][]chan Message)
	return nil
}
