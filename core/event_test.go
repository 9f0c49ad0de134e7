package core_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/sipcore/core"
	"github.com/ghettovoice/sipcore/core/coremock"
	"github.com/ghettovoice/sipcore/sip"
)

func TestEventConstructors(t *testing.T) {
	t.Parallel()

	req, res := newInvite(), newOK()
	cases := []struct {
		name string
		ev   core.Event
		want core.Event
	}{
		{
			"request with key",
			core.RequestEvent(req, srvKey),
			core.Event{Kind: core.EventRequest, Request: req, Key: srvKey},
		},
		{
			"request without key",
			core.RequestEvent(req, sip.ServerTransactionKey{}),
			core.Event{Kind: core.EventRequest, Request: req},
		},
		{
			"response without key",
			core.ResponseEvent(res, sip.ClientTransactionKey{}),
			core.Event{Kind: core.EventResponse, Response: res},
		},
		{
			"error with zero key",
			core.ErrorEvent(sip.ErrTransportFailure, sip.ClientTransactionKey{}),
			core.Event{Kind: core.EventError, Reason: sip.ErrTransportFailure},
		},
		{
			"error with key",
			core.ErrorEvent(sip.ErrTransportFailure, clnKey),
			core.Event{Kind: core.EventError, Reason: sip.ErrTransportFailure, Key: clnKey},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(c.ev, c.want, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("event mismatch (-got +want):\n%s", diff)
			}
		})
	}

	if got := core.RequestEvent(req, srvKey).ServerKey(); got != srvKey {
		t.Fatalf("ev.ServerKey() = %v, want %v", got, srvKey)
	}
	if got := core.RequestEvent(req, srvKey).ClientKey(); !got.IsZero() {
		t.Fatalf("ev.ClientKey() = %v, want zero key", got)
	}
}

func TestEvent_Deliver(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	hdlr := coremock.NewMockHandler(ctrl)
	ctx := t.Context()

	req, res := newInvite(), newOK()
	errCore := errors.New("core failure")
	gomock.InOrder(
		hdlr.EXPECT().HandleRequest(ctx, req, sip.ServerTransactionKey{}).Return(nil),
		hdlr.EXPECT().HandleResponse(ctx, res, clnKey).Return(errCore),
		hdlr.EXPECT().HandleError(ctx, sip.ErrTransactionTimedOut, srvKey).Return(nil),
	)

	if err := core.RequestEvent(req, sip.ServerTransactionKey{}).Deliver(ctx, hdlr); err != nil {
		t.Fatalf("request ev.Deliver() = %v, want nil", err)
	}
	if err := core.ResponseEvent(res, clnKey).Deliver(ctx, hdlr); err != errCore { //nolint:errorlint
		t.Fatalf("response ev.Deliver() = %v, want %v", err, errCore)
	}
	if err := core.ErrorEvent(sip.ErrTransactionTimedOut, srvKey).Deliver(ctx, hdlr); err != nil {
		t.Fatalf("error ev.Deliver() = %v, want nil", err)
	}
	if err := (core.Event{}).Deliver(ctx, hdlr); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("unknown ev.Deliver() = %v, want %v", err, core.ErrInvalidArgument)
	}
}

func TestEvent_LogValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("test", slog.Any("event", core.ErrorEvent(sip.ErrTransactionTimedOut, clnKey)))

	out := buf.String()
	for _, want := range []string{
		"event.kind=error",
		`event.reason="transaction timed out"`,
		"event.key.branch=" + clnKey.Branch,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log does not contain %q\nlog:\n%s", want, out)
		}
	}
}

func TestHandlerFuncs(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	var empty core.HandlerFuncs
	if err := empty.HandleRequest(ctx, newInvite(), srvKey); err != nil {
		t.Fatalf("empty.HandleRequest() = %v, want nil", err)
	}
	if err := empty.HandleResponse(ctx, newOK(), clnKey); err != nil {
		t.Fatalf("empty.HandleResponse() = %v, want nil", err)
	}
	if err := empty.HandleError(ctx, sip.ErrTransportFailure, clnKey); err != nil {
		t.Fatalf("empty.HandleError() = %v, want nil", err)
	}

	var gotKey sip.TransactionKey
	fns := core.HandlerFuncs{
		Error: func(_ context.Context, _ error, key sip.TransactionKey) error {
			gotKey = key
			return sip.ErrTransportFailure
		},
	}
	if err := fns.HandleError(ctx, sip.ErrTransportFailure, srvKey); !errors.Is(err, sip.ErrTransportFailure) {
		t.Fatalf("fns.HandleError() = %v, want %v", err, sip.ErrTransportFailure)
	}
	if gotKey != srvKey {
		t.Fatalf("fns.HandleError() key = %v, want %v", gotKey, srvKey)
	}
}
