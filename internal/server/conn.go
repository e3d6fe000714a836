package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/Brownie44l1/http-files/internal/logging"
	"github.com/Brownie44l1/http-files/internal/request"
	"github.com/Brownie44l1/http-files/internal/response"
)

var ErrRequestTooLarge = errors.New("request does not fit in read buffer")

// serveConn answers exactly one request on conn and closes it: one read,
// parse, dispatch, one write. If the request cannot be parsed the
// connection is closed without a response.
func (s *Server) serveConn(conn net.Conn) {
	defer s.conns.Done()
	defer conn.Close()

	s.metrics.ConnectionOpened()
	defer s.metrics.ConnectionClosed()

	connID := uuid.NewString()
	start := time.Now()

	if s.config.ReadTimeout > 0 {
		conn.SetReadDeadline(start.Add(s.config.ReadTimeout))
	}

	buf := s.buffers.Get()
	defer s.buffers.Put(buf)

	n, err := conn.Read(buf)
	if n == 0 && err != nil {
		s.drop(conn, connID, fmt.Errorf("read: %w", err))
		return
	}

	// A full buffer may have cut the request short
	if n == len(buf) {
		s.drop(conn, connID, fmt.Errorf("%w: limit is %d bytes", ErrRequestTooLarge, len(buf)-1))
		return
	}

	req, err := request.Parse(buf[:n])
	if err != nil {
		s.drop(conn, connID, err)
		return
	}

	res := s.dispatch(connID, req)

	if _, err := conn.Write(res.Bytes()); err != nil {
		s.Logger.Error("write failed",
			logging.F("conn_id", connID),
			logging.F("error", err),
		)
	}

	duration := time.Since(start)
	s.metrics.RecordRequest(int(res.Status), duration)

	s.Logger.Info("request handled",
		logging.F("conn_id", connID),
		logging.F("method", req.Method.String()),
		logging.F("path", req.Path),
		logging.F("status", int(res.Status)),
		logging.F("duration_ms", duration.Milliseconds()),
		logging.F("client_ip", conn.RemoteAddr().String()),
	)
}

// dispatch runs the dispatcher, turning a panic into a 500
func (s *Server) dispatch(connID string, req *request.Request) (res response.Response) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("panic recovered",
				logging.F("conn_id", connID),
				logging.F("path", req.Path),
				logging.F("panic", fmt.Sprint(r)),
			)
			res = response.InternalServerError()
		}
	}()

	return s.dispatcher.Dispatch(req)
}

// drop records a connection closed without a response
func (s *Server) drop(conn net.Conn, connID string, reason error) {
	s.metrics.ConnectionDropped()

	fields := []logging.Field{
		logging.F("conn_id", connID),
		logging.F("client_ip", conn.RemoteAddr().String()),
		logging.F("error", reason),
	}

	// Peers that connect and hang up without sending are not worth a warning
	if errors.Is(reason, io.EOF) {
		s.Logger.Debug("connection closed before request", fields...)
		return
	}
	s.Logger.Warn("connection dropped", fields...)
}
