package app

import (
	"fmt"
	"regexp"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]{4,32}$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]escrow.Handler
}

var _ escrow.Registry = Router{}

// NewRouter initializes a router with no routes
func NewRouter() Router {
	return Router{
		routes: make(map[string]escrow.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. This function panics
// if a handler for this path is already registered, or if the path
// is invalid.
func (r Router) Handle(path string, h escrow.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("double registration of path %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// If no path is found, returns a noSuchPath Handler that
// errors on all requests.
func (r Router) Handler(path string) escrow.Handler {
	h, ok := r.routes[path]
	if !ok {
		return noSuchPathHandler{path}
	}
	return h
}

type noSuchPathHandler struct {
	path string
}

var _ escrow.Handler = noSuchPathHandler{}

// Check always returns a path not found error
func (h noSuchPathHandler) Check(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx) (*escrow.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "path %s", h.path)
}

// Deliver always returns a path not found error
func (h noSuchPathHandler) Deliver(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx) (*escrow.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "path %s", h.path)
}
