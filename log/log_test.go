package log_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ghettovoice/sipcore/internal/errorutil"
	"github.com/ghettovoice/sipcore/log"
)

func TestNewHandler(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{log.HandlerConsole, log.HandlerDev, "CONSOLE", ""} {
		t.Run(kind, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			h, err := log.NewHandler(kind, &buf, slog.LevelInfo)
			if err != nil {
				t.Fatalf("NewHandler(%q) error = %v, want nil", kind, err)
			}

			l := slog.New(h)
			l.Debug("hidden")
			l.Info("dispatched", slog.Any("error", errors.New("boom")))

			out := buf.String()
			if strings.Contains(out, "hidden") {
				t.Errorf("output contains debug record:\n%s", out)
			}
			if !strings.Contains(out, "dispatched") || !strings.Contains(out, "boom") {
				t.Errorf("output misses info record:\n%s", out)
			}
		})
	}
}

func TestNewHandler_Noop(t *testing.T) {
	t.Parallel()

	h, err := log.NewHandler(log.HandlerNoop, nil, nil)
	if err != nil {
		t.Fatalf("NewHandler(noop) error = %v, want nil", err)
	}
	if h.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("noop handler is enabled for error level")
	}
}

func TestNewHandler_Unknown(t *testing.T) {
	t.Parallel()

	if _, err := log.NewHandler("json", nil, nil); !errors.Is(err, errorutil.ErrInvalidArgument) {
		t.Fatalf("NewHandler(json) error = %v, want %v", err, errorutil.ErrInvalidArgument)
	}
}

func TestSetDefault(t *testing.T) {
	if log.Default() != log.Def {
		t.Fatal("Default() != Def before SetDefault")
	}

	log.SetDefault(log.Noop)
	t.Cleanup(func() { log.SetDefault(nil) })

	if log.Default() != log.Noop {
		t.Fatal("Default() != Noop after SetDefault(Noop)")
	}
}
