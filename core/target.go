package core

// Target is the destination of dispatched events.
// It has exactly two implementations: [*Handle] and the value returned by [Static].
type Target interface {
	targetKind() TargetKind
}

// TargetKind identifies the [Target] variant.
type TargetKind uint8

const (
	// TargetUnknown is a nil or foreign target, dispatching to it fails.
	TargetUnknown TargetKind = iota
	// TargetHandle is a live [*Handle] notified asynchronously.
	TargetHandle
	// TargetStatic is a [Handler] called in-line.
	TargetStatic
)

func (k TargetKind) String() string {
	switch k {
	case TargetHandle:
		return "handle"
	case TargetStatic:
		return "static"
	default:
		return "unknown"
	}
}

// KindOf returns the variant of tgt. Nil targets are [TargetUnknown].
func KindOf(tgt Target) TargetKind {
	if tgt == nil {
		return TargetUnknown
	}
	return tgt.targetKind()
}

type staticTarget struct {
	h Handler
}

func (staticTarget) targetKind() TargetKind { return TargetStatic }

// Static returns a target that calls h synchronously for every dispatched event.
// It returns nil if h is nil.
func Static(h Handler) Target {
	if h == nil {
		return nil
	}
	return staticTarget{h}
}

// HandlerOf returns the handler wrapped by a [Static] target.
func HandlerOf(tgt Target) (Handler, bool) {
	st, ok := tgt.(staticTarget)
	if !ok {
		return nil, false
	}
	return st.h, true
}
