package device

import (
	"bufio"
	"os"
	"sync"
)

// Console is a simple port-mapped terminal: OUT writes a byte to stdout, IN
// pops the next buffered keystroke (or 0x00 if nothing is waiting). It is
// meant to be wired to a pair of I/O ports via cpu.CPU.AttachIO so an 8080
// program can do simple character I/O without knowing anything about the
// host terminal.
type Console struct {
	mu  sync.Mutex
	buf []byte

	out *bufio.Writer
}

// NewConsole returns a Console that writes to stdout.
func NewConsole() *Console {
	return &Console{out: bufio.NewWriter(os.Stdout)}
}

// In returns and removes the oldest buffered input byte, or 0x00 if the
// input queue is empty. The port argument is accepted (not inspected) so
// the method satisfies the func(uint8) uint8 shape AttachIO expects.
func (c *Console) In(port uint8) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buf) == 0 {
		return 0x00
	}
	b := c.buf[0]
	c.buf = c.buf[1:]
	return b
}

// Out writes value to stdout, flushing immediately so interactive sessions
// see output without an explicit flush call. The port argument is accepted
// (not inspected) for the same reason as In's.
func (c *Console) Out(port, value uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.out.WriteByte(value)
	_ = c.out.Flush()
}

// Enqueue appends a host keystroke to the input queue. TerminalHost calls
// this from its reader goroutine; tests can call it directly to feed
// scripted input without a real terminal.
func (c *Console) Enqueue(b byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf = append(c.buf, b)
}
