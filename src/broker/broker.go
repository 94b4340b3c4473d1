// Package broker abstracts the message transport carrying raw error
// events in and analysis results out.
package broker

import "context"

// Broker is implemented by the in-memory broker (tests, single-process
// runs) and the Redpanda broker (deployments).
type Broker interface {
	// Publish sends a message to a topic. The key selects the partition
	// on Kafka-compatible brokers and is ignored in memory.
	Publish(ctx context.Context, topic string, key string, value []byte) error

	// Subscribe returns a channel of messages for a topic. groupID
	// coordinates consumer groups on Kafka-compatible brokers and is
	// ignored in memory. The channel closes when ctx is cancelled or
	// the broker closes.
	Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error)

	// Close shuts the broker down and closes all subscription channels.
	Close() error
}

// Message is one consumed record.
type Message struct {
	Topic     string
	Key       string
	Value     []byte
	Offset    int64
	Partition int32
	Timestamp int64
}
