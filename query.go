package ledger

import (
	"fmt"
	"sort"
)

// Query modes understood by buckets. Any other mode names a secondary index.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// QueryResult is a single entity returned by a query. Value is the decoded
// model, ready to be rendered as JSON.
type QueryResult struct {
	Key   []byte      `json:"key"`
	Value interface{} `json:"value"`
}

// QueryHandler answers read only requests against the committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]QueryResult, error)
}

// QueryRegister is a function that adds some handlers to a router.
type QueryRegister func(QueryRouter)

// QueryRouter directs each query to the handler registered for its path.
//
// Minimal interface modeled after net/http.ServeMux.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 10),
	}
}

// RegisterAll registers a number of QueryRegister at once.
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a new Handler for the given path. It panics if another
// Handler was already registered.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the Handler registered for path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths lists all registered paths in order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
