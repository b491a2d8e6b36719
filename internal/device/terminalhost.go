package device

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// pollInterval is how long the reader goroutine sleeps between non-blocking
// stdin reads that returned nothing. 5ms keeps keystroke latency well below
// human reaction time without spinning the CPU.
const pollInterval = 5 * time.Millisecond

// TerminalHost puts the real terminal into raw, non-blocking mode and
// forwards each keystroke to a Console's input queue. It is the one type
// in this package that touches the OS terminal directly — Console itself
// stays host-agnostic so tests can drive it with Enqueue instead of a real
// tty. Only instantiated by cmd/i8080's -interactive mode; never in tests.
type TerminalHost struct {
	console *Console

	fd          int
	nonblockSet bool
	savedState  *term.State

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewTerminalHost returns a host adapter that will feed keystrokes into console.
func NewTerminalHost(console *Console) *TerminalHost {
	return &TerminalHost{
		console: console,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start switches stdin to raw, non-blocking mode and launches the reader
// goroutine. On failure it restores whatever terminal state it already
// changed and returns the error rather than printing it — the terminal
// package has no business writing to stderr; that's cmd/i8080's job, the
// same division this repo's other host-boundary code follows (see
// internal/cpu's "no error kinds" contract for the parallel at the core
// layer). Call Stop before the process exits to restore stdin.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("device: enable raw mode: %w", err)
	}
	h.savedState = saved

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.savedState)
		h.savedState = nil
		close(h.done)
		return fmt.Errorf("device: enable non-blocking stdin: %w", err)
	}
	h.nonblockSet = true

	go h.readLoop()
	return nil
}

func (h *TerminalHost) readLoop() {
	defer close(h.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := syscall.Read(h.fd, buf)
		if n > 0 {
			h.console.Enqueue(translateKey(buf[0]))
		}
		switch {
		case err == syscall.EAGAIN || err == syscall.EWOULDBLOCK:
			time.Sleep(pollInterval)
		case err != nil:
			return
		case n == 0:
			time.Sleep(pollInterval)
		}
	}
}

// translateKey maps the two control bytes a raw terminal sends that the
// Console's line-oriented callers expect in their cooked form: CR (what a
// raw terminal sends for Enter) to LF, and DEL (what modern terminals send
// for Backspace) to BS.
func translateKey(b byte) byte {
	switch b {
	case '\r':
		return '\n'
	case 0x7F:
		return 0x08
	default:
		return b
	}
}

// Stop terminates the reader goroutine and restores stdin to the mode it
// was in before Start. Safe to call multiple times and safe to call even
// if Start failed.
func (h *TerminalHost) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
	<-h.done

	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.savedState != nil {
		_ = term.Restore(h.fd, h.savedState)
		h.savedState = nil
	}
}
