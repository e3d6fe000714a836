package request

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Brownie44l1/http-files/internal/headers"
)

var (
	ErrUnsupportedMethod    = errors.New("unsupported HTTP method")
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrMalformedHeader      = headers.ErrMalformedHeader
	ErrIncompleteRequest    = errors.New("incomplete request")
)

// maxTokenInError bounds how much of a bad token ends up in an error string
const maxTokenInError = 32

// parseMethod reads the method token: everything on the request line up
// to the first space. It is checked before anything else on the line.
func parseMethod(data []byte) (Method, int, error) {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx != -1 {
		line = bytes.TrimSuffix(data[:idx], []byte("\r"))
	}

	end := bytes.IndexByte(line, ' ')
	if end == -1 {
		end = len(line)
	}

	token := line[:end]
	method := ParseMethod(string(token))
	if method == MethodUnsupported {
		if len(token) > maxTokenInError {
			token = token[:maxTokenInError]
		}
		return MethodUnsupported, 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, token)
	}

	return method, end, nil
}

// parsePath expects one space followed by the request target, which runs
// until the next space or line terminator. The target is kept verbatim.
func parsePath(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("%w: request line ends after method", ErrIncompleteRequest)
	}
	if data[0] != ' ' {
		return "", 0, fmt.Errorf("%w: no space after method", ErrMalformedRequestLine)
	}

	end := bytes.IndexAny(data[1:], " \r\n")
	if end == -1 {
		return "", 0, fmt.Errorf("%w: request line not terminated", ErrIncompleteRequest)
	}

	return string(data[1 : 1+end]), 1 + end, nil
}

// discardRemainder skips the rest of the request line, version included,
// without looking at it.
func discardRemainder(data []byte) (int, error) {
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		return 0, fmt.Errorf("%w: request line not terminated", ErrIncompleteRequest)
	}
	if idx == 0 || data[idx-1] != '\r' {
		return 0, fmt.Errorf("%w: bare LF in request line", ErrMalformedRequestLine)
	}
	return idx + 1, nil
}
