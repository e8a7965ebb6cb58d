// Package clipboard hands text to the system clipboard.
package clipboard

import (
	"context"
	"fmt"

	sysclip "github.com/atotto/clipboard"

	"github.com/hpungsan/passgen/internal/errors"
)

// Writer puts text on a clipboard.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

// Write implements Writer.
func (f WriterFunc) Write(ctx context.Context, text string) error {
	return f(ctx, text)
}

// System writes to the OS clipboard (pbcopy, clip.exe, or wl-copy/xclip/xsel).
type System struct {
	writeAll    func(string) error
	unsupported func() bool
}

// NewSystem returns a System backed by the platform clipboard.
func NewSystem() *System {
	return &System{
		writeAll:    sysclip.WriteAll,
		unsupported: func() bool { return sysclip.Unsupported },
	}
}

// Write implements Writer. Failures are reported as CLIPBOARD_FAILURE.
// The write itself cannot be interrupted; on cancellation Write returns
// without waiting for it.
func (s *System) Write(ctx context.Context, text string) error {
	if s.unsupported() {
		return errors.NewClipboardFailure(fmt.Errorf("no clipboard tool found"))
	}
	if err := ctx.Err(); err != nil {
		return errors.NewClipboardFailure(err)
	}

	done := make(chan error, 1)
	go func() { done <- s.writeAll(text) }()

	select {
	case err := <-done:
		if err != nil {
			return errors.NewClipboardFailure(err)
		}
		return nil
	case <-ctx.Done():
		return errors.NewClipboardFailure(ctx.Err())
	}
}
