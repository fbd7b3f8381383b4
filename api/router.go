package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-Id"

// NewRouter returns the handler serving the whole API of l.
func NewRouter(l Ledger, conf escrow.Config, gatherer prometheus.Gatherer, logger log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Method(http.MethodPost, "/tx", &TxHandler{Ledger: l})
	r.Method(http.MethodPost, "/tx/simulate", &TxHandler{Ledger: l, Simulate: true})

	r.Method(http.MethodGet, "/escrows", &EscrowsHandler{Ledger: l})
	r.Method(http.MethodGet, "/escrows/{address}", &EntityHandler{Ledger: l, Path: "/escrows"})
	r.Method(http.MethodGet, "/accounts/{address}", &EntityHandler{Ledger: l, Path: "/accounts"})
	r.Method(http.MethodGet, "/mints/{address}", &EntityHandler{Ledger: l, Path: "/mints"})
	r.Method(http.MethodGet, "/wallets/{address}", &EntityHandler{Ledger: l, Path: "/wallets"})
	r.Method(http.MethodGet, "/sequences/{address}", &SequenceHandler{Ledger: l})

	r.Route("/derive", func(r chi.Router) {
		r.Method(http.MethodGet, "/escrow", &DeriveEscrowHandler{Conf: conf})
		r.Method(http.MethodGet, "/associated", &DeriveAssociatedHandler{Conf: conf.Token})
	})

	r.Method(http.MethodGet, "/status", &StatusHandler{Ledger: l})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})
	return r
}

// requestID makes sure every request has an id. A client provided id is
// kept.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// requestLogger puts a logger tagged with the request id in the request
// context and logs every served request.
func requestLogger(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := logger.With("request_id", r.Header.Get(RequestIDHeader))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ledger.WithLogger(r.Context(), l)))
			l.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
