package streams

import (
	"encoding/binary"
	"hash/fnv"
)

// PartitionedQueue fans messages out across a fixed set of buffered
// channels. Messages sharing a partition key always land on the same
// channel, so one consumer goroutine per channel yields a single-writer lane
// per key: during ingestion every status code is owned by exactly one
// worker, and store partitions grow without cross-worker races.
type PartitionedQueue[T any] struct {
	partitions []chan T
}

func newPartitionedQueue[T any](numPartitions, buffer int) *PartitionedQueue[T] {
	channels := make([]chan T, numPartitions)
	for i := range channels {
		channels[i] = make(chan T, buffer)
	}
	return &PartitionedQueue[T]{partitions: channels}
}

const (
	defaultNumPartitions = 8
	defaultBuffer        = 1024
)

func NewPartitionedQueue[T any]() *PartitionedQueue[T] {
	return newPartitionedQueue[T](defaultNumPartitions, defaultBuffer)
}

func (queue *PartitionedQueue[T]) PartitionCount() int { return len(queue.partitions) }

// Publish routes msg by its partition key. It blocks while the target
// partition's buffer is full.
func (queue *PartitionedQueue[T]) Publish(partitionKey string, msg T) {
	idx := partitionIndex(partitionKey, len(queue.partitions))
	queue.partitions[idx] <- msg
}

// Close marks the end of publishing. Consumers drain what remains buffered
// and stop; publishing after Close panics.
func (queue *PartitionedQueue[T]) Close() {
	for _, ch := range queue.partitions {
		close(ch)
	}
}

func partitionIndex(key string, n int) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	sum := hash.Sum(nil)
	v := binary.LittleEndian.Uint32(sum)
	return int(v % uint32(n))
}
