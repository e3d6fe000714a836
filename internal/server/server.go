package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/Brownie44l1/http-files/internal/logging"
	"github.com/Brownie44l1/http-files/internal/request"
	"github.com/Brownie44l1/http-files/internal/response"
)

var ErrServerClosed = errors.New("server closed")

// Dispatcher turns a parsed request into the response to send
type Dispatcher interface {
	Dispatch(req *request.Request) response.Response
}

type Server struct {
	Logger    logging.Logger
	Scheduler Scheduler

	config     Config
	dispatcher Dispatcher
	buffers    *BufferPool
	metrics    *Metrics

	mu         sync.Mutex
	listener   net.Listener
	closed     atomic.Bool
	serving    atomic.Bool
	acceptDone chan struct{}
	conns      sync.WaitGroup
}

// New creates a server. Logger and Scheduler may be replaced before Serve.
func New(config Config, dispatcher Dispatcher) *Server {
	if config.BufferSize <= 0 {
		config.BufferSize = defaultBufferSize
	}

	var scheduler Scheduler = Unbounded()
	if config.MaxConnections > 0 {
		scheduler = NewBounded(config.MaxConnections)
	}

	return &Server{
		Logger:     logging.NewDefaultLogger(),
		Scheduler:  scheduler,
		config:     config,
		dispatcher: dispatcher,
		buffers:    NewBufferPool(config.BufferSize),
		metrics:    NewMetrics(),
		acceptDone: make(chan struct{}),
	}
}

// ListenAndServe listens on the configured address and serves until the
// server is shut down
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln and hands each to the Scheduler. It
// returns ErrServerClosed after Shutdown or Close.
func (s *Server) Serve(ln net.Listener) error {
	if !s.serving.CompareAndSwap(false, true) {
		return errors.New("server already serving")
	}
	defer close(s.acceptDone)

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	if s.closed.Load() {
		ln.Close()
		return ErrServerClosed
	}

	s.Logger.Info("listening", logging.F("addr", ln.Addr().String()), logging.F("buffer_size", s.config.BufferSize))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.Logger.Warn("accept timeout", logging.F("error", err))
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.Logger.Error("error accepting connection", logging.F("error", err))
			continue
		}

		s.conns.Add(1)
		s.Scheduler.Go(func() {
			s.serveConn(conn)
		})
	}
}

// Addr returns the listener address, or nil before Serve
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops accepting connections. Connections already accepted run to
// completion.
func (s *Server) Close() error {
	s.closed.Store(true)

	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Shutdown closes the listener and waits for in-flight connections or
// for ctx to end. A connection blocked on a silent peer keeps Shutdown
// waiting unless a ReadTimeout is set.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Close(); err != nil {
		return err
	}

	if s.serving.Load() {
		select {
		case <-s.acceptDone:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of the server metrics
func (s *Server) Stats() MetricsSnapshot {
	return s.metrics.Snapshot()
}
