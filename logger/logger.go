/*
 * valkyrie - Wrapper for slog
 *
 * Copyright 2026, Valkyrie Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler tees formatted log lines to a log file (if any) and to stderr
// above a configurable floor, independent of the level attached to file
// output. Each line holds the record's time, level, message and the
// record's own attributes; attributes and groups attached through
// With/WithGroup are not written.
type Handler struct {
	out      io.Writer
	h        slog.Handler
	mu       *sync.Mutex
	stderrAt slog.Level
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu, stderrAt: h.stderrAt}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu, stderrAt: h.stderrAt}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, level, r.Message}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Key+"="+a.Value.String())
			return true
		})
	}
	result := strings.Join(strs, " ") + "\n"
	b := []byte(result)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if r.Level >= h.stderrAt {
		_, err = os.Stderr.Write(b)
	}
	return err
}

// NewHandler builds a Handler writing to file (may be nil) and opts.Level-
// gated, echoing anything at or above stderrAt to stderr as well.
func NewHandler(file io.Writer, opts *slog.HandlerOptions, stderrAt slog.Level) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		out:      file,
		h:        slog.NewTextHandler(file, opts),
		mu:       &sync.Mutex{},
		stderrAt: stderrAt,
	}
}

// New builds a ready-to-use *slog.Logger writing to file at the given
// level, teed to stderr for anything at stderrAt or above.
func New(file io.Writer, level slog.Level, stderrAt slog.Level) *slog.Logger {
	programLevel := new(slog.LevelVar)
	programLevel.Set(level)
	return slog.New(NewHandler(file, &slog.HandlerOptions{Level: programLevel}, stderrAt))
}
