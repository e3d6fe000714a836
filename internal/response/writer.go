package response

import (
	"fmt"
	"io"

	"github.com/Brownie44l1/http-files/internal/headers"
)

// writerState tracks what's been written so far
type writerState int

const (
	stateStart writerState = iota
	stateStatusWritten
	stateHeadersWritten
	stateBodyWritten
)

// Writer writes the parts of one HTTP response to an io.Writer in order:
// status line, headers, body.
type Writer struct {
	w          io.Writer
	state      writerState
	statusCode StatusCode
	written    int64
	hadError   bool
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		state: stateStart,
	}
}

// WriteStatusLine writes "HTTP/1.1 {code} {reason}\r\n". An empty reason
// falls back to the standard phrase for the code.
func (w *Writer) WriteStatusLine(code StatusCode, reason string) error {
	if w.state != stateStart {
		return fmt.Errorf("status line already written")
	}

	if reason == "" {
		reason = StatusText(code)
	}

	if err := w.write([]byte(fmt.Sprintf("HTTP/1.1 %d %s\r\n", code, reason))); err != nil {
		return err
	}

	w.statusCode = code
	w.state = stateStatusWritten
	return nil
}

// WriteHeaders writes every header in insertion order, then the blank line
func (w *Writer) WriteHeaders(h *headers.Headers) error {
	if w.state != stateStatusWritten {
		return fmt.Errorf("must write status line before headers")
	}

	var err error
	h.Each(func(key, value string) {
		if err != nil {
			return
		}
		err = w.write([]byte(fmt.Sprintf("%s: %s\r\n", key, value)))
	})
	if err != nil {
		return err
	}

	if err := w.write([]byte("\r\n")); err != nil {
		return err
	}

	w.state = stateHeadersWritten
	return nil
}

// WriteBody writes the body verbatim. Nothing follows it.
func (w *Writer) WriteBody(data []byte) error {
	if w.state != stateHeadersWritten {
		return fmt.Errorf("must write headers before body")
	}

	if len(data) > 0 {
		if err := w.write(data); err != nil {
			return err
		}
	}

	w.state = stateBodyWritten
	return nil
}

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.written += int64(n)
	if err != nil {
		w.hadError = true
	}
	return err
}

func (w *Writer) HadError() bool {
	return w.hadError
}

func (w *Writer) StatusCode() StatusCode {
	return w.statusCode
}

// Written returns the number of bytes handed to the underlying writer
func (w *Writer) Written() int64 {
	return w.written
}
