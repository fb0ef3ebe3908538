// Package queue implements the bounded producer/consumer message queue and
// buffer pool that carry I/Q blocks from the tuner producer to the DSP
// pipeline.
package queue

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"sync/atomic"
)

// Reference sizing from the I/Q on-wire format: a 4-byte little-endian
// sample-pair timestamp followed by interleaved offset-binary I/Q bytes.
const (
	DefaultPayloadBytes   = 16384
	TimestampHeaderBytes  = 4
	DefaultQueueCapacity  = 64
)

// ErrOddBlockLength is returned when a raw block's payload has an odd
// number of bytes — it cannot be split evenly into I/Q pairs.
var ErrOddBlockLength = errors.New("queue: odd block length")

// IqBlock is an ordered sequence of interleaved offset-binary I/Q bytes
// with a monotonic sample-pair timestamp, exactly as it arrives over the
// wire from the producer.
type IqBlock struct {
	Timestamp uint32
	Payload   []byte
}

// DecodeBlock splits a raw wire block into its timestamp and payload. The
// returned IqBlock aliases raw's backing array.
func DecodeBlock(raw []byte) (IqBlock, error) {
	if len(raw) < TimestampHeaderBytes {
		return IqBlock{}, ErrOddBlockLength
	}
	payload := raw[TimestampHeaderBytes:]
	if len(payload)%2 != 0 {
		return IqBlock{}, ErrOddBlockLength
	}
	return IqBlock{
		Timestamp: binary.LittleEndian.Uint32(raw[:TimestampHeaderBytes]),
		Payload:   payload,
	}, nil
}

// EncodeBlock renders an IqBlock back to its wire format.
func EncodeBlock(b IqBlock) []byte {
	out := make([]byte, TimestampHeaderBytes+len(b.Payload))
	binary.LittleEndian.PutUint32(out[:TimestampHeaderBytes], b.Timestamp)
	copy(out[TimestampHeaderBytes:], b.Payload)
	return out
}

// NextTimestamp computes the producer's next monotonic timestamp given the
// current one and the payload length in bytes (step = payload_bytes/2 - 2,
// per the reference producer's sample-pair counting).
func NextTimestamp(current uint32, payloadBytes int) uint32 {
	step := uint32(payloadBytes/2 - 2)
	return current + step
}

// Pool recycles raw block buffers so the producer does not allocate on the
// hot path.
type Pool struct {
	p sync.Pool
}

// NewPool builds a Pool whose buffers are sized for blockBytes (header +
// payload).
func NewPool(blockBytes int) *Pool {
	return &Pool{p: sync.Pool{New: func() any {
		return make([]byte, blockBytes)
	}}}
}

// Get returns a buffer from the pool, allocating one if empty.
func (p *Pool) Get() []byte {
	return p.p.Get().([]byte)
}

// Put returns a buffer to the pool for reuse.
func (p *Pool) Put(buf []byte) {
	p.p.Put(buf) //nolint:staticcheck // buffer is not retained by the caller after Put
}

// Queue is a bounded single-producer/single-consumer FIFO of IqBlocks. When
// full, TryEnqueue drops the newest block (the one being offered) and
// increments the queue's own drop counter, read back through DroppedCount;
// control.Stats is not updated.
type Queue struct {
	ch      chan IqBlock
	dropped uint64
}

// NewQueue builds a Queue with the given capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan IqBlock, capacity)}
}

// TryEnqueue offers a block to the queue. It never blocks: if the queue is
// full, the block is dropped and the method reports false.
func (q *Queue) TryEnqueue(b IqBlock) bool {
	select {
	case q.ch <- b:
		return true
	default:
		atomic.AddUint64(&q.dropped, 1)
		return false
	}
}

// Dequeue blocks until a block is available or ctx is done, returning
// false in the latter case. The consumer should observe ctx cancellation
// between calls to implement the bounded-wait cancellation contract.
func (q *Queue) Dequeue(ctx context.Context) (IqBlock, bool) {
	select {
	case b := <-q.ch:
		return b, true
	case <-ctx.Done():
		return IqBlock{}, false
	}
}

// DrainNonBlocking empties whatever is currently queued without blocking,
// for use during shutdown.
func (q *Queue) DrainNonBlocking() []IqBlock {
	var drained []IqBlock
	for {
		select {
		case b := <-q.ch:
			drained = append(drained, b)
		default:
			return drained
		}
	}
}

// DroppedCount reports how many blocks have been dropped due to back
// pressure since construction.
func (q *Queue) DroppedCount() uint64 {
	return atomic.LoadUint64(&q.dropped)
}

// Len reports the number of blocks currently queued.
func (q *Queue) Len() int {
	return len(q.ch)
}
