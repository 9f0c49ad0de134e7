package core_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/sipcore/core"
	"github.com/ghettovoice/sipcore/core/coremock"
	"github.com/ghettovoice/sipcore/sip"
)

func TestDispatchRequest_Static(t *testing.T) {
	t.Parallel()

	t.Run("invite with server key", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		h := coremock.NewMockHandler(ctrl)
		req := newInvite()
		want := errors.New("handler result")
		h.EXPECT().HandleRequest(gomock.Any(), req, srvKey).Return(want).Times(1)

		got := core.DispatchRequest(t.Context(), core.Static(h), req, srvKey)
		if got != want { //nolint:errorlint
			t.Fatalf("DispatchRequest() = %v, want %v unchanged", got, want)
		}
	})

	t.Run("ack without transaction", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		h := coremock.NewMockHandler(ctrl)
		req := newAck()
		h.EXPECT().HandleRequest(gomock.Any(), req, sip.ServerTransactionKey{}).Return(nil).Times(1)

		if err := core.DispatchRequest(t.Context(), core.Static(h), req, sip.ServerTransactionKey{}); err != nil {
			t.Fatalf("DispatchRequest() = %v, want nil", err)
		}
	})
}

func TestDispatchResponse_Static(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	h := coremock.NewMockHandler(ctrl)
	res := newOK()
	h.EXPECT().HandleResponse(gomock.Any(), res, clnKey).Return(nil).Times(1)
	h.EXPECT().HandleResponse(gomock.Any(), res, sip.ClientTransactionKey{}).Return(nil).Times(1)

	if err := core.DispatchResponse(t.Context(), core.Static(h), res, clnKey); err != nil {
		t.Fatalf("DispatchResponse() = %v, want nil", err)
	}
	if err := core.DispatchResponse(t.Context(), core.Static(h), res, sip.ClientTransactionKey{}); err != nil {
		t.Fatalf("DispatchResponse(stray) = %v, want nil", err)
	}
}

func TestDispatchError_Static(t *testing.T) {
	t.Parallel()

	t.Run("client key", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		h := coremock.NewMockHandler(ctrl)
		h.EXPECT().HandleError(gomock.Any(), sip.ErrTransactionTimedOut, clnKey).Return(nil).Times(1)

		if err := core.DispatchError(t.Context(), core.Static(h), sip.ErrTransactionTimedOut, clnKey); err != nil {
			t.Fatalf("DispatchError() = %v, want nil", err)
		}
	})

	t.Run("server key", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		h := coremock.NewMockHandler(ctrl)
		h.EXPECT().HandleError(gomock.Any(), sip.ErrTransportFailure, srvKey).Return(sip.ErrTransportFailure).Times(1)

		err := core.DispatchError(t.Context(), core.Static(h), sip.ErrTransportFailure, srvKey)
		if err != sip.ErrTransportFailure { //nolint:errorlint
			t.Fatalf("DispatchError() = %v, want %v unchanged", err, sip.ErrTransportFailure)
		}
	})

	t.Run("absent key", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		h := coremock.NewMockHandler(ctrl)
		hdl := core.NewHandle(&core.HandleOptions{Log: discardLog})
		t.Cleanup(func() { hdl.Close() })

		for _, key := range []sip.TransactionKey{nil, sip.ServerTransactionKey{}, sip.ClientTransactionKey{}} {
			for _, tgt := range []core.Target{core.Static(h), hdl} {
				err := core.DispatchError(t.Context(), tgt, sip.ErrTransactionTimedOut, key)
				if diff := cmp.Diff(err, core.ErrInvalidArgument, cmpopts.EquateErrors()); diff != "" {
					t.Fatalf("DispatchError(%v, %#v) error mismatch (-got +want):\n%s", core.KindOf(tgt), key, diff)
				}
			}
		}
		if n := hdl.Len(); n != 0 {
			t.Fatalf("hdl.Len() = %d, want 0", n)
		}
	})
}

func TestDispatch_InvalidTarget(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	cases := map[string]error{
		"request":    core.DispatchRequest(ctx, nil, newInvite(), srvKey),
		"response":   core.DispatchResponse(ctx, nil, newOK(), clnKey),
		"error":      core.DispatchError(ctx, nil, sip.ErrTransactionTimedOut, clnKey),
		"nil static": core.DispatchRequest(ctx, core.Static(nil), newInvite(), srvKey),
		"nil handle": core.DispatchRequest(ctx, (*core.Handle)(nil), newInvite(), srvKey),
	}
	for name, err := range cases {
		if !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("%s: error = %v, want %v", name, err, core.ErrInvalidArgument)
		}
	}
}

func TestDispatchRequest_Handle(t *testing.T) {
	t.Parallel()

	hdl := core.NewHandle(&core.HandleOptions{Name: "uas", Log: discardLog})
	t.Cleanup(func() { hdl.Close() })

	ack := newAck()
	// nobody serves the handle, so the call must not wait for processing
	if err := core.DispatchRequest(t.Context(), hdl, ack, sip.ServerTransactionKey{}); err != nil {
		t.Fatalf("DispatchRequest() = %v, want nil", err)
	}
	if n := hdl.Len(); n != 1 {
		t.Fatalf("hdl.Len() = %d, want 1", n)
	}

	got, err := hdl.Recv(t.Context())
	if err != nil {
		t.Fatalf("hdl.Recv() error = %v", err)
	}
	want := core.Event{Kind: core.EventRequest, Request: ack}
	if diff := cmp.Diff(got, want, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("event mismatch (-got +want):\n%s", diff)
	}
	if got.Request != ack {
		t.Fatalf("event request = %p, want the dispatched request %p", got.Request, ack)
	}
}

func TestDispatchResponse_Handle_Order(t *testing.T) {
	t.Parallel()

	hdl := core.NewHandle(&core.HandleOptions{Name: "uac", Log: discardLog})
	t.Cleanup(func() { hdl.Close() })

	ctx := t.Context()
	inv := newInvite()
	ok := newOK()
	if err := core.DispatchRequest(ctx, hdl, inv, srvKey); err != nil {
		t.Fatalf("DispatchRequest() = %v, want nil", err)
	}
	if err := core.DispatchResponse(ctx, hdl, ok, clnKey); err != nil {
		t.Fatalf("DispatchResponse() = %v, want nil", err)
	}
	if err := core.DispatchError(ctx, hdl, sip.ErrTransactionTimedOut, clnKey); err != nil {
		t.Fatalf("DispatchError() = %v, want nil", err)
	}

	want := []core.Event{
		{Kind: core.EventRequest, Request: inv, Key: srvKey},
		{Kind: core.EventResponse, Response: ok, Key: clnKey},
		{Kind: core.EventError, Reason: sip.ErrTransactionTimedOut, Key: clnKey},
	}
	if n := hdl.Len(); n != len(want) {
		t.Fatalf("hdl.Len() = %d, want %d", n, len(want))
	}

	var got []core.Event
	for range want {
		ev, err := hdl.Recv(ctx)
		if err != nil {
			t.Fatalf("hdl.Recv() error = %v", err)
		}
		got = append(got, ev)
	}
	if diff := cmp.Diff(got, want, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("events mismatch (-got +want):\n%s", diff)
	}
}

func TestDispatchEvent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	h := coremock.NewMockHandler(ctrl)
	req, res := newInvite(), newOK()
	gomock.InOrder(
		h.EXPECT().HandleRequest(gomock.Any(), req, srvKey).Return(nil),
		h.EXPECT().HandleResponse(gomock.Any(), res, clnKey).Return(nil),
		h.EXPECT().HandleError(gomock.Any(), sip.ErrTransactionTimedOut, srvKey).Return(nil),
	)

	tgt := core.Static(h)
	for _, ev := range []core.Event{
		core.RequestEvent(req, srvKey),
		core.ResponseEvent(res, clnKey),
		core.ErrorEvent(sip.ErrTransactionTimedOut, srvKey),
	} {
		if err := core.DispatchEvent(t.Context(), tgt, ev); err != nil {
			t.Fatalf("DispatchEvent(%v) = %v, want nil", ev.Kind, err)
		}
	}

	if err := core.DispatchEvent(t.Context(), tgt, core.Event{}); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("DispatchEvent(unknown) = %v, want %v", err, core.ErrInvalidArgument)
	}
}
