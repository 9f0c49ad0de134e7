package core

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipcore/internal/types"
	"github.com/ghettovoice/sipcore/log"
	"github.com/ghettovoice/sipcore/sip"
)

// DispatcherOptions are the options for a [Dispatcher].
type DispatcherOptions struct {
	// SlowHandlerThreshold is the handling budget of a [Static] target.
	// Handler calls that take longer are reported with a warning, because they block
	// the transaction or transport goroutine that dispatched the event.
	// Zero disables the check.
	SlowHandlerThreshold time.Duration
	// Log is the logger.
	// If nil, the [log.Default] is used.
	Log *slog.Logger
}

func (o *DispatcherOptions) slowThreshold() time.Duration {
	if o == nil || o.SlowHandlerThreshold < 0 {
		return 0
	}
	return o.SlowHandlerThreshold
}

func (o *DispatcherOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

// DispatchInfo describes a finished dispatch call.
type DispatchInfo struct {
	// Event is the kind of the dispatched event.
	Event EventKind
	// Target is the kind of the target the event was dispatched to.
	Target TargetKind
	// Key is the transaction key of the event, nil when absent.
	Key sip.TransactionKey
	// Duration is how long the dispatch call took.
	// For a [Static] target it includes the handler run time.
	Duration time.Duration
	// Err is the dispatch result.
	Err error
}

// DispatchHandler is called after every dispatch made through a [Dispatcher].
type DispatchHandler = func(ctx context.Context, info DispatchInfo)

type targetRef struct{ Target }

// Dispatcher delivers events to the core target it was configured with.
//
// A Dispatcher is created once at startup and passed to the transaction and transport
// layers. The target can be replaced at runtime with [Dispatcher.SetTarget],
// dispatch calls in progress keep using the target they have loaded.
// All methods are safe for concurrent use.
type Dispatcher struct {
	tgt     atomic.Pointer[targetRef]
	slowThr time.Duration
	log     *slog.Logger

	onDisp types.Callbacks[DispatchHandler]
}

// NewDispatcher creates a new [Dispatcher] bound to tgt.
// Target is required argument and expected to be non-nil.
// Options are optional, if nil, default values are used (see [DispatcherOptions]).
func NewDispatcher(tgt Target, opts *DispatcherOptions) (*Dispatcher, error) {
	if KindOf(tgt) == TargetUnknown {
		return nil, errtrace.Wrap(invalidTargetError(tgt))
	}

	d := &Dispatcher{
		slowThr: opts.slowThreshold(),
		log:     opts.log(),
	}
	d.tgt.Store(&targetRef{tgt})
	return d, nil
}

// Target returns the current target.
func (d *Dispatcher) Target() Target {
	return d.tgt.Load().Target
}

// SetTarget atomically replaces the target and returns the previous one.
func (d *Dispatcher) SetTarget(tgt Target) (Target, error) {
	if KindOf(tgt) == TargetUnknown {
		return nil, errtrace.Wrap(invalidTargetError(tgt))
	}
	prev := d.tgt.Swap(&targetRef{tgt}).Target
	d.log.LogAttrs(context.Background(), slog.LevelInfo, "core target replaced",
		slog.String("from", KindOf(prev).String()),
		slog.String("to", KindOf(tgt).String()),
	)
	return prev, nil
}

// OnDispatch registers a callback called after every dispatch.
// Callbacks run on the dispatching goroutine, so they should be fast.
func (d *Dispatcher) OnDispatch(fn DispatchHandler) (cancel func()) {
	return d.onDisp.Add(fn)
}

// DispatchRequest delivers an inbound request to the current target.
// See [DispatchRequest].
func (d *Dispatcher) DispatchRequest(ctx context.Context, req *sip.Request, key sip.ServerTransactionKey) error {
	tgt := d.Target()
	start := time.Now()
	err := DispatchRequest(ctx, tgt, req, key)
	d.finish(ctx, tgt, RequestEvent(req, key), start, err)
	return err //errtrace:skip
}

// DispatchResponse delivers an inbound response to the current target.
// See [DispatchResponse].
func (d *Dispatcher) DispatchResponse(ctx context.Context, res *sip.Response, key sip.ClientTransactionKey) error {
	tgt := d.Target()
	start := time.Now()
	err := DispatchResponse(ctx, tgt, res, key)
	d.finish(ctx, tgt, ResponseEvent(res, key), start, err)
	return err //errtrace:skip
}

// DispatchError delivers a transaction or transport failure to the current target.
// See [DispatchError].
func (d *Dispatcher) DispatchError(ctx context.Context, reason error, key sip.TransactionKey) error {
	tgt := d.Target()
	start := time.Now()
	err := DispatchError(ctx, tgt, reason, key)
	d.finish(ctx, tgt, ErrorEvent(reason, key), start, err)
	return err //errtrace:skip
}

func (d *Dispatcher) finish(ctx context.Context, tgt Target, ev Event, start time.Time, err error) {
	info := DispatchInfo{
		Event:    ev.Kind,
		Target:   KindOf(tgt),
		Key:      ev.Key,
		Duration: time.Since(start),
		Err:      err,
	}

	if info.Target == TargetStatic && d.slowThr > 0 && info.Duration > d.slowThr {
		attrs := []slog.Attr{
			slog.Any("event", ev),
			slog.Duration("duration", info.Duration),
			slog.Duration("budget", d.slowThr),
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}
		d.log.LogAttrs(ctx, slog.LevelWarn, "core handler exceeded handling budget", attrs...)
	}

	if err != nil {
		d.log.LogAttrs(ctx, slog.LevelDebug, "event dispatch failed",
			slog.Any("event", ev),
			slog.String("target", info.Target.String()),
			slog.Any("error", err),
		)
	} else {
		d.log.LogAttrs(ctx, slog.LevelDebug, "event dispatched",
			slog.Any("event", ev),
			slog.String("target", info.Target.String()),
			slog.Duration("duration", info.Duration),
		)
	}

	for fn := range d.onDisp.All() {
		fn(ctx, info)
	}
}
