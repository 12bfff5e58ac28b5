// Package channel implements the shared mailbox between the interpreter
// worker and the main loop. Results travel through a fixed block of 32-bit
// cells accessed only with atomic operations: cell 0 is the ready flag,
// cell 1 the payload length, cells 2.. hold UTF-16 code units of a JSON
// document. Requests travel through an ordinary Go channel; only the result
// path needs the shared-memory layout.
package channel

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// LevelLoaded is the reserved result value signaling that a level (re)load
// completed. It is a protocol event, not gameplay text: the worker side
// translates it into a user-facing confirmation.
const LevelLoaded = "#level-loaded"

const (
	// DefaultCapacity is the buffer size in 32-bit cells.
	DefaultCapacity = 16384

	// DefaultAwaitTimeout bounds the worker's wait for a result.
	// An expired wait is a protocol fault, not a hang.
	DefaultAwaitTimeout = 10 * time.Second

	flagCell   = 0
	lengthCell = 1
	headerSize = 2

	// pollInterval is the fallback polling cadence while waiting on the
	// ready flag. The notify channel normally wakes the waiter first.
	pollInterval = 5 * time.Millisecond
)

var (
	// ErrPayloadTooLarge is returned when an encoded result does not fit
	// in the buffer. Truncation would be a correctness bug, so the
	// publish fails loudly instead.
	ErrPayloadTooLarge = errors.New("channel: payload exceeds buffer capacity")

	// ErrAwaitTimeout is returned when no result is published within the
	// await bound.
	ErrAwaitTimeout = errors.New("channel: timed out waiting for result")

	// ErrClosed is returned on use after Close.
	ErrClosed = errors.New("channel: closed")

	// ErrCorruptLength is returned when the published length cell does
	// not fit the buffer, indicating a torn or foreign write.
	ErrCorruptLength = errors.New("channel: corrupt payload length")
)

// Request is one decoded command request from the worker.
// Ephemeral: constructed per call, never persisted.
type Request struct {
	Method string
	Args   []any
}

// Channel is the mailbox shared by exactly one worker and one main loop.
// The worker arms the flag and awaits; the main loop publishes. At most one
// request is in flight at a time, enforced by the blocking wait on the
// worker side rather than by the buffer itself.
type Channel struct {
	buf      []uint32
	requests chan Request
	notify   chan struct{}
	done     chan struct{}
	closeOne sync.Once
}

// New creates a channel with the given buffer capacity in cells.
// Capacity must leave room for the two header cells.
func New(capacity int) (*Channel, error) {
	if capacity <= headerSize {
		return nil, fmt.Errorf("channel: capacity %d too small, need more than %d cells", capacity, headerSize)
	}
	return &Channel{
		buf:      make([]uint32, capacity),
		requests: make(chan Request, 1),
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Capacity returns the total buffer size in cells.
func (c *Channel) Capacity() int {
	return len(c.buf)
}

// MaxPayload returns the maximum payload length in UTF-16 code units.
func (c *Channel) MaxPayload() int {
	return len(c.buf) - headerSize
}

// Arm clears the ready flag ahead of a new request. Worker side only.
// Any stale wake-up left over from a previous round is drained so the
// next await cannot observe it.
func (c *Channel) Arm() {
	atomic.StoreUint32(&c.buf[flagCell], 0)
	select {
	case <-c.notify:
	default:
	}
}

// Send delivers a request notification to the main loop. Worker side only.
func (c *Channel) Send(req Request) error {
	select {
	case <-c.done:
		return ErrClosed
	case c.requests <- req:
		return nil
	}
}

// Requests returns the stream the main loop consumes requests from.
func (c *Channel) Requests() <-chan Request {
	return c.requests
}

// PublishResult encodes v and writes it into the buffer, then sets the
// ready flag and wakes the waiter. Main loop side only. The payload cells
// are fully written before the flag store, so a reader that observes the
// flag always sees a complete payload.
func (c *Channel) PublishResult(v any) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	units, err := encodePayload(v)
	if err != nil {
		return err
	}
	if len(units) > c.MaxPayload() {
		return fmt.Errorf("%w: %d code units, max %d", ErrPayloadTooLarge, len(units), c.MaxPayload())
	}

	for i, u := range units {
		atomic.StoreUint32(&c.buf[headerSize+i], uint32(u))
	}
	atomic.StoreUint32(&c.buf[lengthCell], uint32(len(units)))
	atomic.StoreUint32(&c.buf[flagCell], 1)

	select {
	case c.notify <- struct{}{}:
	default:
	}
	return nil
}

// AwaitResult blocks until the ready flag is observed, then decodes the
// payload. Worker side only. The wait is bounded: a zero or negative
// timeout selects DefaultAwaitTimeout. Expiry returns ErrAwaitTimeout so
// the caller can surface a protocol fault instead of hanging forever.
func (c *Channel) AwaitResult(timeout time.Duration) (any, error) {
	if timeout <= 0 {
		timeout = DefaultAwaitTimeout
	}

	if atomic.LoadUint32(&c.buf[flagCell]) == 1 {
		return c.readResult()
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	poll := time.NewTicker(pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-c.notify:
			if atomic.LoadUint32(&c.buf[flagCell]) == 1 {
				return c.readResult()
			}
		case <-poll.C:
			if atomic.LoadUint32(&c.buf[flagCell]) == 1 {
				return c.readResult()
			}
		case <-c.done:
			return nil, ErrClosed
		case <-deadline.C:
			return nil, fmt.Errorf("%w after %v", ErrAwaitTimeout, timeout)
		}
	}
}

// readResult decodes the length and payload cells.
func (c *Channel) readResult() (any, error) {
	length := atomic.LoadUint32(&c.buf[lengthCell])
	if int(length) > c.MaxPayload() {
		return nil, fmt.Errorf("%w: %d code units, max %d", ErrCorruptLength, length, c.MaxPayload())
	}

	units := make([]uint16, length)
	for i := range units {
		units[i] = uint16(atomic.LoadUint32(&c.buf[headerSize+i]))
	}
	return decodePayload(units)
}

// Close tears the channel down. Safe to call multiple times. Pending and
// future Send/Await calls fail with ErrClosed.
func (c *Channel) Close() {
	c.closeOne.Do(func() {
		close(c.done)
	})
}
