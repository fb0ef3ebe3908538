package queue

import (
	"context"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := make([]byte, 8)
	for i := range payload {
		payload[i] = byte(i)
	}
	want := IqBlock{Timestamp: 0xdeadbeef, Payload: payload}

	raw := EncodeBlock(want)
	got, err := DecodeBlock(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Timestamp != want.Timestamp {
		t.Fatalf("timestamp: got %x want %x", got.Timestamp, want.Timestamp)
	}
	if string(got.Payload) != string(want.Payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestDecodeOddBlockLength(t *testing.T) {
	raw := make([]byte, TimestampHeaderBytes+3)
	if _, err := DecodeBlock(raw); err != ErrOddBlockLength {
		t.Fatalf("got %v, want ErrOddBlockLength", err)
	}
}

func TestTryEnqueueDropsNewestWhenFull(t *testing.T) {
	q := NewQueue(2)
	for i := 0; i < 2; i++ {
		if !q.TryEnqueue(IqBlock{Timestamp: uint32(i)}) {
			t.Fatalf("enqueue %d should have succeeded", i)
		}
	}

	if q.TryEnqueue(IqBlock{Timestamp: 99}) {
		t.Fatalf("enqueue into a full queue should fail")
	}
	if q.DroppedCount() != 1 {
		t.Fatalf("dropped count: got %d want 1", q.DroppedCount())
	}

	ctx := context.Background()
	first, ok := q.Dequeue(ctx)
	if !ok || first.Timestamp != 0 {
		t.Fatalf("expected first enqueued block (drop-newest policy), got %+v ok=%v", first, ok)
	}
}

func TestDequeueCancellation(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, ok := q.Dequeue(ctx); ok {
		t.Fatalf("dequeue on empty queue with expired context should fail")
	}
}
