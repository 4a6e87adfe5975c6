// Package linereader implements a capacity-bounded line reader.
//
// A Reader owns one fixed buffer and overwrites it on every call. The last
// byte of the buffer is reserved for a NUL terminator, so a buffer of
// capacity N holds at most N-1 bytes of line content. Longer lines are
// consumed up to their newline and reported as ErrLineTooLong; nothing is
// ever written past the buffer.
package linereader

import (
	"bufio"
	"errors"
	"io"
)

// ErrLineTooLong reports a line that did not fit in the buffer. The whole
// line has been consumed from the input.
var ErrLineTooLong = errors.New("line exceeds buffer capacity")

// Reader reads newline-terminated lines into a fixed buffer.
type Reader struct {
	r   *bufio.Reader
	buf []byte
}

// New returns a Reader with a buffer of the given capacity. Capacities
// below 2 are raised to 2.
func New(r io.Reader, capacity int) *Reader {
	if capacity < 2 {
		capacity = 2
	}
	return &Reader{
		r:   bufio.NewReader(r),
		buf: make([]byte, capacity),
	}
}

// Cap returns the buffer capacity, terminator included.
func (r *Reader) Cap() int {
	return len(r.buf)
}

// ReadLine reads the next line without its "\n" or "\r\n" terminator.
// The returned slice aliases the internal buffer and is only valid until
// the next call. At end of input it returns io.EOF; a final line without
// a newline is returned first with a nil error.
func (r *Reader) ReadLine() ([]byte, error) {
	limit := len(r.buf) - 1
	n := 0
	consumed := false
	tooLong := false
	// a '\r' seen with the buffer already full; fine if '\n' follows
	pendingCR := false

	for {
		c, err := r.r.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}
			if !consumed {
				return nil, io.EOF
			}
			break
		}
		consumed = true
		if c == '\n' {
			break
		}
		if pendingCR {
			pendingCR = false
			tooLong = true
		}
		if n == limit {
			if c == '\r' && !tooLong {
				pendingCR = true
				continue
			}
			tooLong = true
			continue
		}
		r.buf[n] = c
		n++
	}

	if tooLong {
		r.buf[0] = 0
		return nil, ErrLineTooLong
	}
	if n > 0 && r.buf[n-1] == '\r' {
		n--
	}
	r.buf[n] = 0
	return r.buf[:n], nil
}
