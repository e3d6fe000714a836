package router

import (
	"errors"
	"strings"

	"github.com/Brownie44l1/http-files/internal/filestore"
	"github.com/Brownie44l1/http-files/internal/logging"
	"github.com/Brownie44l1/http-files/internal/request"
	"github.com/Brownie44l1/http-files/internal/response"
)

// FileStore is the file capability the /files/ routes need
type FileStore interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// Handler produces the response for a matched request
type Handler func(req *request.Request) response.Response

// Route is one dispatch rule. Path is an exact match when Prefix is false.
type Route struct {
	Method  request.Method
	Path    string
	Prefix  bool
	Handler Handler
}

func (rt *Route) matches(method request.Method, path string) bool {
	if rt.Method != method {
		return false
	}
	if rt.Prefix {
		return strings.HasPrefix(path, rt.Path)
	}
	return path == rt.Path
}

// Router maps a request to a response. Rules are fixed at construction
// and tried in order; the first match wins and no match is a 404.
type Router struct {
	routes []*Route
	files  FileStore
	logger logging.Logger
}

// New creates the router for the server's routes, backed by files
func New(files FileStore, logger logging.Logger) *Router {
	if logger == nil {
		logger = &logging.NullLogger{}
	}

	r := &Router{
		files:  files,
		logger: logger,
	}

	r.routes = []*Route{
		{Method: request.MethodGet, Path: "/", Handler: r.handleRoot},
		{Method: request.MethodGet, Path: "/echo/", Prefix: true, Handler: r.handleEcho},
		{Method: request.MethodGet, Path: "/user-agent", Prefix: true, Handler: r.handleUserAgent},
		{Method: request.MethodGet, Path: "/files/", Prefix: true, Handler: r.handleReadFile},
		{Method: request.MethodPost, Path: "/files/", Prefix: true, Handler: r.handleWriteFile},
	}
	return r
}

// Match returns the first route matching method and path, or nil
func (r *Router) Match(method request.Method, path string) *Route {
	for _, route := range r.routes {
		if route.matches(method, path) {
			return route
		}
	}
	return nil
}

// Dispatch runs the matching handler for req
func (r *Router) Dispatch(req *request.Request) response.Response {
	route := r.Match(req.Method, req.Path)
	if route == nil {
		return response.NotFound()
	}
	return route.Handler(req)
}

func (r *Router) handleRoot(req *request.Request) response.Response {
	return response.OK()
}

func (r *Router) handleEcho(req *request.Request) response.Response {
	return response.Text(response.StatusOK, strings.TrimPrefix(req.Path, "/echo/"))
}

func (r *Router) handleUserAgent(req *request.Request) response.Response {
	ua, _ := req.Header("User-Agent")
	return response.Text(response.StatusOK, ua)
}

func (r *Router) handleReadFile(req *request.Request) response.Response {
	name := strings.TrimPrefix(req.Path, "/files/")

	data, err := r.files.Read(name)
	if err != nil {
		return r.fileError("read", name, err)
	}
	return response.OctetStream(response.StatusOK, data)
}

func (r *Router) handleWriteFile(req *request.Request) response.Response {
	name := strings.TrimPrefix(req.Path, "/files/")

	if err := r.files.Write(name, req.Body); err != nil {
		return r.fileError("write", name, err)
	}
	return response.Created()
}

// fileError maps a FileStore failure to a response. Missing and invalid
// names are 404; anything else is an I/O failure and becomes a 500.
func (r *Router) fileError(op, name string, err error) response.Response {
	if errors.Is(err, filestore.ErrNotFound) || errors.Is(err, filestore.ErrInvalidName) {
		r.logger.Debug("file not served", logging.F("op", op), logging.F("name", name), logging.F("error", err))
		return response.NotFound()
	}

	r.logger.Error("file store failure", logging.F("op", op), logging.F("name", name), logging.F("error", err))
	return response.InternalServerError()
}
