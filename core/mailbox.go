package core

import (
	"context"
	"sync"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipcore/internal/types"
)

// OverflowPolicy tells a bounded mailbox what to do with a notification when it is full.
type OverflowPolicy uint8

const (
	// OverflowReject fails the notification with [ErrMailboxFull].
	// The dispatching goroutine never blocks.
	OverflowReject OverflowPolicy = iota
	// OverflowBlock waits until the handle consumes an event, the handle is closed
	// or the dispatch context is done.
	OverflowBlock
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowReject:
		return "reject"
	case OverflowBlock:
		return "block"
	default:
		return "unknown"
	}
}

// MailboxOptions configure the mailbox of a [Handle].
type MailboxOptions struct {
	// Capacity is the max number of queued events.
	// Zero or negative value means an unbounded mailbox, which never blocks nor rejects,
	// but grows without limit while the handle is not served.
	Capacity int
	// Overflow is the policy applied when a bounded mailbox is full.
	Overflow OverflowPolicy
}

// mailbox is a FIFO queue of events with a single order for all producers.
type mailbox struct {
	capacity int
	overflow OverflowPolicy

	mu     sync.Mutex
	closed bool
	events types.Deque[Event]
	// Waiters channels are created on demand and closed to wake up all waiters.
	readyCh chan struct{}
	spaceCh chan struct{}

	done chan struct{}
}

func newMailbox(opts MailboxOptions) *mailbox {
	return &mailbox{
		capacity: opts.Capacity,
		overflow: opts.Overflow,
		done:     make(chan struct{}),
	}
}

func wait(ch *chan struct{}) <-chan struct{} {
	if *ch == nil {
		*ch = make(chan struct{})
	}
	return *ch
}

func wake(ch *chan struct{}) {
	if *ch != nil {
		close(*ch)
		*ch = nil
	}
}

func (mb *mailbox) push(ctx context.Context, ev Event) error {
	for {
		mb.mu.Lock()
		if mb.closed {
			mb.mu.Unlock()
			return errtrace.Wrap(ErrHandleClosed)
		}
		if mb.capacity <= 0 || mb.events.Len() < mb.capacity {
			mb.events.Append(ev)
			wake(&mb.readyCh)
			mb.mu.Unlock()
			return nil
		}
		if mb.overflow != OverflowBlock {
			mb.mu.Unlock()
			return errtrace.Wrap(ErrMailboxFull)
		}
		space := wait(&mb.spaceCh)
		mb.mu.Unlock()

		select {
		case <-space:
		case <-mb.done:
		case <-ctx.Done():
			return errtrace.Wrap(context.Cause(ctx))
		}
	}
}

// pop returns the oldest event, waiting for one if the mailbox is empty.
// Events queued before close are still returned, then pop fails with [ErrHandleClosed].
func (mb *mailbox) pop(ctx context.Context) (Event, error) {
	for {
		mb.mu.Lock()
		if ev, ok := mb.events.PopFirst(); ok {
			wake(&mb.spaceCh)
			mb.mu.Unlock()
			return ev, nil
		}
		if mb.closed {
			mb.mu.Unlock()
			return Event{}, errtrace.Wrap(ErrHandleClosed)
		}
		ready := wait(&mb.readyCh)
		mb.mu.Unlock()

		select {
		case <-ready:
		case <-mb.done:
		case <-ctx.Done():
			return Event{}, errtrace.Wrap(context.Cause(ctx))
		}
	}
}

func (mb *mailbox) len() int {
	return mb.events.Len()
}

func (mb *mailbox) close() bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.closed {
		return false
	}
	mb.closed = true
	close(mb.done)
	return true
}
