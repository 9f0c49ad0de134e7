package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/sipcore/internal/types"
	"github.com/ghettovoice/sipcore/log"
)

// HandleState is a state of a [Handle].
type HandleState string

const (
	// HandleStateIdle is the state of a handle that accepts events but is not served.
	HandleStateIdle HandleState = "idle"
	// HandleStateServing is the state of a handle served by [Handle.Serve].
	HandleStateServing HandleState = "serving"
	// HandleStateClosed is the final state, new events are rejected with [ErrHandleClosed].
	HandleStateClosed HandleState = "closed"
)

type handleTrigger string

const (
	trgServe handleTrigger = "serve"
	trgStop  handleTrigger = "stop"
	trgClose handleTrigger = "close"
)

// HandleStateHandler is called after a [Handle] moves from one state to another.
type HandleStateHandler = func(ctx context.Context, from, to HandleState)

// HandleOptions are the options for a [Handle].
type HandleOptions struct {
	// Name identifies the handle in logs.
	Name string
	// Mailbox configures the handle mailbox.
	// The zero value is an unbounded mailbox.
	Mailbox MailboxOptions
	// Log is the logger.
	// If nil, the [log.Default] is used.
	Log *slog.Logger
}

func (o *HandleOptions) name() string {
	if o == nil {
		return ""
	}
	return o.Name
}

func (o *HandleOptions) mailbox() MailboxOptions {
	if o == nil {
		return MailboxOptions{}
	}
	return o.Mailbox
}

func (o *HandleOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

// Handle is a live dispatch target.
//
// Dispatched events are queued into the handle mailbox in the order they are sent
// and consumed by the goroutine that calls [Handle.Recv] or [Handle.Serve].
// Closing the handle stops accepting new events, events queued before
// are still delivered.
type Handle struct {
	name string
	mbox *mailbox
	log  *slog.Logger

	// serveMu is held for the whole Serve call.
	serveMu sync.Mutex
	fsmMu   sync.Mutex
	fsm     *stateless.StateMachine

	onState types.Callbacks[HandleStateHandler]
}

// NewHandle creates a new idle [Handle].
// Options are optional, if nil, default values are used (see [HandleOptions]).
func NewHandle(opts *HandleOptions) *Handle {
	h := &Handle{
		name: opts.name(),
		mbox: newMailbox(opts.mailbox()),
	}
	h.log = opts.log().With(slog.String("handle", h.name))
	h.initFSM()
	return h
}

func (h *Handle) initFSM() {
	h.fsm = stateless.NewStateMachineWithMode(HandleStateIdle, stateless.FiringImmediate)
	h.fsm.Configure(HandleStateIdle).
		Permit(trgServe, HandleStateServing).
		Permit(trgClose, HandleStateClosed).
		Ignore(trgStop)
	h.fsm.Configure(HandleStateServing).
		Permit(trgStop, HandleStateIdle).
		Permit(trgClose, HandleStateClosed)
	h.fsm.Configure(HandleStateClosed).
		Ignore(trgStop).
		Ignore(trgClose)
}

func (*Handle) targetKind() TargetKind { return TargetHandle }

// Name returns the handle name.
func (h *Handle) Name() string {
	if h == nil {
		return ""
	}
	return h.name
}

// LogValue implements [slog.LogValuer].
func (h *Handle) LogValue() slog.Value {
	if h == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.String("name", h.name),
		slog.Int("queued", h.mbox.len()),
	)
}

// State returns the current handle state.
func (h *Handle) State() HandleState {
	h.fsmMu.Lock()
	defer h.fsmMu.Unlock()
	return h.fsm.MustState().(HandleState) //nolint:forcetypeassert
}

// OnStateChanged registers a callback called on every state change.
func (h *Handle) OnStateChanged(fn HandleStateHandler) (cancel func()) {
	return h.onState.Add(fn)
}

func (h *Handle) fire(ctx context.Context, trg handleTrigger) error {
	h.fsmMu.Lock()
	from := h.fsm.MustState().(HandleState) //nolint:forcetypeassert
	err := h.fsm.FireCtx(ctx, trg)
	to := h.fsm.MustState().(HandleState) //nolint:forcetypeassert
	h.fsmMu.Unlock()

	if err != nil {
		return errtrace.Wrap(err)
	}
	if from != to {
		h.log.LogAttrs(ctx, slog.LevelDebug, "handle state changed",
			slog.Any("from", from),
			slog.Any("to", to),
		)
		for fn := range h.onState.All() {
			fn(ctx, from, to)
		}
	}
	return nil
}

// Len returns the number of queued events.
func (h *Handle) Len() int {
	return h.mbox.len()
}

// Done returns a channel that is closed when the handle is closed.
func (h *Handle) Done() <-chan struct{} {
	return h.mbox.done
}

// Notify queues the event into the handle mailbox.
//
// An unbounded mailbox never blocks. A full bounded mailbox either rejects the event
// with [ErrMailboxFull] or waits for free space until ctx is done, depending on
// [MailboxOptions.Overflow]. A closed handle rejects the event with [ErrHandleClosed].
func (h *Handle) Notify(ctx context.Context, ev Event) error {
	if h == nil {
		return errtrace.Wrap(NewInvalidArgumentError("nil handle"))
	}
	if err := h.mbox.push(ctx, ev); err != nil {
		h.log.LogAttrs(ctx, slog.LevelDebug, "event not queued",
			slog.Any("event", ev),
			slog.Any("error", err),
		)
		return errtrace.Wrap(err)
	}
	return nil
}

// Recv returns the oldest queued event, waiting until one arrives or ctx is done.
// After the handle is closed and the mailbox is drained, Recv fails with [ErrHandleClosed].
func (h *Handle) Recv(ctx context.Context) (Event, error) {
	return errtrace.Wrap2(h.mbox.pop(ctx))
}

// Serve consumes the handle mailbox and delivers every event to hdlr in queue order.
//
// Errors returned by hdlr are logged and do not stop serving.
// Serve returns nil once the handle is closed and all queued events are delivered,
// or the context error when ctx is done. A handle closed before Serve is called
// still has its queued events delivered, Serve fails with [ErrHandleClosed] only when
// nothing is left. Only one Serve call may run at a time, others fail with [ErrHandleBusy].
func (h *Handle) Serve(ctx context.Context, hdlr Handler) error {
	if h == nil {
		return errtrace.Wrap(NewInvalidArgumentError("nil handle"))
	}
	if hdlr == nil {
		return errtrace.Wrap(NewInvalidArgumentError("nil handler"))
	}
	if !h.serveMu.TryLock() {
		return errtrace.Wrap(ErrHandleBusy)
	}
	defer h.serveMu.Unlock()

	if err := h.fire(ctx, trgServe); err != nil {
		// closed, deliver what was queued before Close
		if h.Len() == 0 {
			return errtrace.Wrap(ErrHandleClosed)
		}
		h.log.LogAttrs(ctx, slog.LevelDebug, "draining closed handle", slog.Int("queued", h.Len()))
	} else {
		defer h.fire(context.WithoutCancel(ctx), trgStop) //nolint:errcheck
	}

	for {
		ev, err := h.Recv(ctx)
		if err != nil {
			if errors.Is(err, ErrHandleClosed) {
				return nil
			}
			return errtrace.Wrap(err)
		}

		if err := ev.Deliver(ctx, hdlr); err != nil {
			h.log.LogAttrs(ctx, slog.LevelWarn, "core handler failed",
				slog.Any("event", ev),
				slog.Any("error", err),
			)
		}
	}
}

// Close stops accepting new events.
// Events queued before Close are still delivered by [Handle.Recv] and [Handle.Serve].
// Close is idempotent.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	if !h.mbox.close() {
		return nil
	}
	return errtrace.Wrap(h.fire(context.Background(), trgClose))
}
