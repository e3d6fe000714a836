package request

import (
	"strconv"

	"github.com/Brownie44l1/http-files/internal/headers"
)

// Request is a parsed HTTP request. It is built once per connection and
// never mutated afterwards.
type Request struct {
	Method  Method
	Path    string // raw request target, not decoded
	Headers *headers.Headers
	Body    []byte
}

// Header returns the value of a header. The key must match the case the
// client sent: "user-agent" does not find "User-Agent".
func (r *Request) Header(key string) (string, bool) {
	if r.Headers == nil {
		return "", false
	}
	return r.Headers.Get(key)
}

// ContentLength returns the declared body length, or 0 when the
// Content-Length header is absent, not a number, or not positive.
func (r *Request) ContentLength() int {
	cl, ok := r.Header("Content-Length")
	if !ok {
		return 0
	}

	n, err := strconv.Atoi(cl)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// Parse turns the bytes of a single read into a Request. Nothing past the
// declared body is consumed, and on failure no partial Request is returned.
func Parse(data []byte) (*Request, error) {
	p := newParser()
	return p.run(data)
}
