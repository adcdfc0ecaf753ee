package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one record per line as
//
//	<ts> <LEVEL> <component>: <message> [file.go:123] key=value ...
//
// The component attribute is lifted out of the key=value list and used as a
// message prefix. Group attributes are flattened to dotted keys.
type consoleHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  *slog.LevelVar
	caller bool

	prefix string
	fields []slog.Attr
}

func newConsoleHandler(out io.Writer, level *slog.LevelVar, caller bool) *consoleHandler {
	return &consoleHandler{mu: new(sync.Mutex), out: out, level: level, caller: caller}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, rec slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.fields)+rec.NumAttrs())
	attrs = append(attrs, h.fields...)
	rec.Attrs(func(a slog.Attr) bool {
		attrs = appendFlat(attrs, h.prefix, a)
		return true
	})

	var component string
	kept := attrs[:0]
	for _, a := range attrs {
		if a.Key == FieldComponent {
			if component == "" {
				component = stringify(a.Value)
			}
			continue
		}
		kept = append(kept, a)
	}
	attrs = kept

	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var line strings.Builder
	line.WriteString(ts.UTC().Format(time.RFC3339))
	line.WriteByte(' ')
	line.WriteString(rec.Level.String())
	line.WriteByte(' ')
	if component != "" {
		line.WriteString(component)
		line.WriteString(": ")
	}
	if msg := strings.TrimSpace(rec.Message); msg != "" {
		line.WriteString(msg)
	} else {
		line.WriteString("(no message)")
	}
	if h.caller {
		if src := recordSource(rec); src != nil {
			line.WriteString(" [")
			line.WriteString(filepath.Base(src.File))
			line.WriteByte(':')
			line.WriteString(strconv.Itoa(src.Line))
			line.WriteByte(']')
		}
	}
	for _, a := range attrs {
		if a.Key == "" {
			continue
		}
		line.WriteByte(' ')
		line.WriteString(a.Key)
		line.WriteByte('=')
		line.WriteString(encodeValue(a.Value))
	}
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line.String())
	return err
}

// recordSource returns a Source for the log event using rec's PC, or nil
// when the PC is zero. Backport of slog.Record.Source, which needs Go 1.25.
func recordSource(rec slog.Record) *slog.Source {
	if rec.PC == 0 {
		return nil
	}
	fs := runtime.CallersFrames([]uintptr{rec.PC})
	f, _ := fs.Next()
	return &slog.Source{
		Function: f.Function,
		File:     f.File,
		Line:     f.Line,
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.fields = make([]slog.Attr, len(h.fields), len(h.fields)+len(attrs))
	copy(next.fields, h.fields)
	for _, a := range attrs {
		next.fields = appendFlat(next.fields, h.prefix, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = joinKey(h.prefix, name)
	return &next
}

// appendFlat resolves a and appends it with a dotted key. Groups recurse with
// their name folded into the prefix; an unnamed group inlines its members.
func appendFlat(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	if a.Equal(slog.Attr{}) {
		return dst
	}
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		nested := joinKey(prefix, a.Key)
		for _, member := range a.Value.Group() {
			dst = appendFlat(dst, nested, member)
		}
		return dst
	}
	a.Key = joinKey(prefix, a.Key)
	return append(dst, a)
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	}
	return prefix + "." + key
}

// stringify renders a value without quoting, unwrapping errors.
func stringify(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.String()
}

// encodeValue renders a value for the key=value list. Scalar kinds use
// slog's native formatting, times collapse to UTC RFC 3339, and strings are
// quoted when they contain whitespace, equals signs, or quotes.
func encodeValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindBool, slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return v.String()
	}
	return quoteIfNeeded(stringify(v))
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"") ||
		strings.IndexFunc(s, func(r rune) bool { return r < ' ' }) >= 0 {
		return strconv.Quote(s)
	}
	return s
}
