package app

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router dispatches messages to their handlers by path. It also keeps the
// message type of every path in order to decode them.
type Router struct {
	routes map[string]route
}

type route struct {
	msg     reflect.Type
	handler ledger.Handler
}

var (
	_ ledger.Registry = (*Router)(nil)
	_ ledger.Handler  = (*Router)(nil)
)

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]route)}
}

// Handle registers h for the path of m. It panics on an invalid or already
// registered path.
func (r *Router) Handle(m ledger.Msg, h ledger.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	t := reflect.TypeOf(m)
	if t.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("message %T must be registered as a pointer", m))
	}
	r.routes[path] = route{msg: t.Elem(), handler: h}
}

// Paths returns all registered paths in order.
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// DecodeMsg parses raw as the message registered under path.
func (r *Router) DecodeMsg(path string, raw []byte) (ledger.Msg, error) {
	rt, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no message for path %q", path)
	}
	msg := reflect.New(rt.msg).Interface().(ledger.Msg)
	if err := msg.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return msg, nil
}

func (r *Router) handler(tx ledger.Tx) (ledger.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	rt, ok := r.routes[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", msg.Path())
	}
	return rt.handler, nil
}

// Check dispatches to the handler of the message path.
func (r *Router) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, db, tx)
}

// Deliver dispatches to the handler of the message path.
func (r *Router) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}
