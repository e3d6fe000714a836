package request

import (
	"fmt"

	"github.com/Brownie44l1/http-files/internal/headers"
)

// parserState represents the current state of the request parser
type parserState int

const (
	stateStart parserState = iota
	stateMethod
	statePath
	stateRemainder
	stateHeaders
	stateBody
	stateDone
	stateFailed
)

func (s parserState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateMethod:
		return "method"
	case statePath:
		return "path"
	case stateRemainder:
		return "remainder"
	case stateHeaders:
		return "headers"
	case stateBody:
		return "body"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return fmt.Sprintf("parserState(%d)", int(s))
	}
}

// parser walks one buffered request through the state machine. It never
// reads past the buffer it is given; running out of bytes is an error.
type parser struct {
	state parserState
	pos   int
	req   *Request
	err   error
}

func newParser() *parser {
	return &parser{
		state: stateStart,
		req: &Request{
			Headers: headers.NewHeaders(),
		},
	}
}

// run advances the state machine until it is done or has failed
func (p *parser) run(data []byte) (*Request, error) {
	for {
		switch p.state {
		case stateDone:
			return p.req, nil
		case stateFailed:
			return nil, p.err
		}

		consumed, err := p.step(data[p.pos:])
		if err != nil {
			p.err = fmt.Errorf("parsing %s: %w", p.state, err)
			p.state = stateFailed
			continue
		}
		p.pos += consumed
	}
}

// step processes one state and returns the number of bytes consumed
func (p *parser) step(data []byte) (int, error) {
	switch p.state {
	case stateStart:
		p.state = stateMethod
		return 0, nil

	case stateMethod:
		method, n, err := parseMethod(data)
		if err != nil {
			return 0, err
		}
		p.req.Method = method
		p.state = statePath
		return n, nil

	case statePath:
		path, n, err := parsePath(data)
		if err != nil {
			return 0, err
		}
		p.req.Path = path
		p.state = stateRemainder
		return n, nil

	case stateRemainder:
		n, err := discardRemainder(data)
		if err != nil {
			return 0, err
		}
		p.state = stateHeaders
		return n, nil

	case stateHeaders:
		return p.parseHeaders(data)

	case stateBody:
		return p.parseBody(data)

	default:
		return 0, fmt.Errorf("invalid parser state: %d", p.state)
	}
}

// parseHeaders parses header lines until the blank line
func (p *parser) parseHeaders(data []byte) (int, error) {
	consumed, done, err := p.req.Headers.Parse(data)
	if err != nil {
		return 0, err
	}
	if !done {
		return 0, fmt.Errorf("%w: header section not terminated", ErrIncompleteRequest)
	}

	if p.req.ContentLength() > 0 {
		p.state = stateBody
	} else {
		// No usable Content-Length: any trailing bytes are ignored
		p.state = stateDone
	}
	return consumed, nil
}

// parseBody takes exactly Content-Length bytes. The body is copied so the
// request does not alias the caller's read buffer.
func (p *parser) parseBody(data []byte) (int, error) {
	cl := p.req.ContentLength()
	if len(data) < cl {
		return 0, fmt.Errorf("%w: body has %d of %d bytes", ErrIncompleteRequest, len(data), cl)
	}

	p.req.Body = make([]byte, cl)
	copy(p.req.Body, data[:cl])
	p.state = stateDone
	return cl, nil
}
