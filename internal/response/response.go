package response

import (
	"bytes"
	"io"
	"strconv"

	"github.com/Brownie44l1/http-files/internal/headers"
)

// ContentType is the closed set of body types the server emits
type ContentType int

const (
	ContentTypeNone ContentType = iota
	ContentTypeTextPlain
	ContentTypeOctetStream
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeTextPlain:
		return "text/plain"
	case ContentTypeOctetStream:
		return "application/octet-stream"
	default:
		return ""
	}
}

// Response is a complete reply, built by one handler and serialized once
type Response struct {
	Status      StatusCode
	Reason      string
	ContentType ContentType
	Body        []byte
}

// Headers returns the framing headers for r. Content-Type is present only
// when a type is set and Content-Length only when the body is non-empty;
// the length is counted in bytes.
func (r Response) Headers() *headers.Headers {
	h := headers.NewHeaders()
	if r.ContentType != ContentTypeNone {
		h.Set("Content-Type", r.ContentType.String())
	}
	if len(r.Body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	return h
}

// WriteTo serializes r onto w
func (r Response) WriteTo(w io.Writer) (int64, error) {
	rw := NewWriter(w)

	if err := rw.WriteStatusLine(r.Status, r.Reason); err != nil {
		return rw.Written(), err
	}
	if err := rw.WriteHeaders(r.Headers()); err != nil {
		return rw.Written(), err
	}
	err := rw.WriteBody(r.Body)
	return rw.Written(), err
}

// Bytes returns the exact wire form of r
func (r Response) Bytes() []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail
	_, _ = r.WriteTo(&buf)
	return buf.Bytes()
}
