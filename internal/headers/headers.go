package headers

import (
	"bytes"
	"errors"
)

var (
	ErrMalformedHeader = errors.New("malformed header: no colon")
	crlf               = []byte("\r\n")
)

// Headers holds header fields exactly as received. Keys are not case
// normalized, so lookups must use the same case the client sent.
type Headers struct {
	keys    []string
	headers map[string]string
}

func NewHeaders() *Headers {
	return &Headers{
		headers: make(map[string]string),
	}
}

// Get returns the value stored under key (exact case)
func (h *Headers) Get(key string) (string, bool) {
	v, ok := h.headers[key]
	return v, ok
}

// Set stores value under key. A repeated key keeps its first position
// and the last value wins.
func (h *Headers) Set(key, value string) {
	if _, ok := h.headers[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.headers[key] = value
}

// Del removes a header
func (h *Headers) Del(key string) {
	if _, ok := h.headers[key]; !ok {
		return
	}
	delete(h.headers, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

func (h *Headers) Len() int {
	return len(h.keys)
}

// Each calls fn for every header in first-insertion order
func (h *Headers) Each(fn func(key, value string)) {
	for _, k := range h.keys {
		fn(k, h.headers[k])
	}
}

// Map returns a copy of the headers as a plain map
func (h *Headers) Map() map[string]string {
	m := make(map[string]string, len(h.headers))
	for k, v := range h.headers {
		m[k] = v
	}
	return m
}

// Parse parses header lines from raw bytes until the blank line that ends
// the header section. It returns the bytes consumed and whether the blank
// line was reached. A partial trailing line is left unconsumed.
func (h *Headers) Parse(data []byte) (int, bool, error) {
	read := 0

	for {
		idx := bytes.Index(data[read:], crlf)
		if idx == -1 {
			// Need more data
			return read, false, nil
		}

		if idx == 0 {
			// Empty line = end of headers
			return read + 2, true, nil
		}

		name, value, err := parseHeader(data[read : read+idx])
		if err != nil {
			return read, false, err
		}

		h.Set(name, value)
		read += idx + 2
	}
}

// parseHeader splits a line on its first colon and trims both halves
func parseHeader(line []byte) (string, string, error) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return "", "", ErrMalformedHeader
	}

	name := bytes.TrimSpace(line[:colonIdx])
	value := bytes.TrimSpace(line[colonIdx+1:])

	return string(name), string(value), nil
}
