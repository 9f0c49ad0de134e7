// Package log provides the [slog] handlers and helpers used across the module.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"braces.dev/errtrace"
	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/ghettovoice/sipcore/internal/errorutil"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.ErrorFormatter("reason"),
	slogformatter.FormatByType(func(d time.Duration) slog.Value {
		return slog.StringValue(d.String())
	}),
)

// Handler kinds accepted by [NewHandler].
const (
	HandlerConsole = "console"
	HandlerDev     = "dev"
	HandlerNoop    = "noop"
)

// NewHandler builds a handler of the given kind writing to w.
// Kind is one of [HandlerConsole], [HandlerDev] or [HandlerNoop].
func NewHandler(kind string, w io.Writer, lvl slog.Leveler) (slog.Handler, error) {
	if w == nil {
		w = os.Stdout
	}
	if lvl == nil {
		lvl = slog.LevelInfo
	}

	switch strings.ToLower(kind) {
	case HandlerConsole, "":
		return newHandler(console.NewHandler(w, &console.HandlerOptions{
			AddSource:  true,
			Level:      lvl,
			TimeFormat: time.RFC3339Nano,
		})), nil
	case HandlerDev:
		return newHandler(devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     lvl,
			},
			SortKeys:   true,
			TimeFormat: time.RFC3339Nano,
		})), nil
	case HandlerNoop:
		return noopHandler{}, nil
	default:
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown log handler %q", kind))
	}
}

// Def is a default console logger.
var Def = slog.New(newHandler(
	console.NewHandler(os.Stdout, &console.HandlerOptions{
		AddSource:  true,
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339Nano,
	}),
))

// Dev is a developer logger.
var Dev = slog.New(newHandler(
	devslog.NewHandler(os.Stdout, &devslog.Options{
		HandlerOptions: &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		},
		SortKeys:   true,
		TimeFormat: time.RFC3339Nano,
	}),
))

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

var defLog atomic.Pointer[slog.Logger]

func init() { defLog.Store(Def) }

// Default returns the logger used by components that were not given one.
func Default() *slog.Logger { return defLog.Load() }

// SetDefault replaces the logger returned by [Default].
// Nil resets it to [Def].
func SetDefault(l *slog.Logger) {
	if l == nil {
		l = Def
	}
	defLog.Store(l)
}
