package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
)

// Ledger is the application served by the API.
type Ledger interface {
	DeliverTx(raw []byte) *app.Result
	CheckTx(raw []byte) *app.Result
	Query(path, mod string, data []byte) ([]ledger.QueryResult, error)
	Info() (*app.Info, error)
}

// maxTxSize limits the size of a transaction submission body.
const maxTxSize = 1 << 16

// TxRequest is the body of a transaction submission.
type TxRequest struct {
	Tx []byte `json:"tx"`
}

// TxHandler executes a transaction. A transaction that was processed
// always results in a 200 response, the result code tells whether it
// succeeded.
type TxHandler struct {
	Ledger Ledger
	// Simulate runs the transaction against the latest state without
	// committing its effects.
	Simulate bool
}

func (h *TxHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req TxRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTxSize)).Decode(&req); err != nil {
		JSONErr(w, http.StatusBadRequest, "Body must be a JSON object with a base64 encoded tx.")
		return
	}
	if len(req.Tx) == 0 {
		JSONErr(w, http.StatusBadRequest, "tx is required.")
		return
	}

	var res *app.Result
	if h.Simulate {
		res = h.Ledger.CheckTx(req.Tx)
	} else {
		res = h.Ledger.DeliverTx(req.Tx)
	}
	ledger.GetLogger(r.Context()).Debug("Transaction processed",
		"simulate", h.Simulate, "code", res.Code, "version", res.Version)
	JSONResp(w, http.StatusOK, res)
}

// EntityHandler returns a single entity stored under the address found in
// the URL path.
type EntityHandler struct {
	Ledger Ledger
	// Path is the query path of the bucket, for example "/wallets".
	Path string
}

func (h *EntityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, chi.URLParam(r, "address"), "address")
	if !ok {
		return
	}
	res, err := h.Ledger.Query(h.Path, ledger.KeyQueryMod, addr)
	if err != nil {
		queryErr(w, r, err)
		return
	}
	if len(res) == 0 {
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	JSONResp(w, http.StatusOK, KeyValue{
		Address: res[0].Key,
		Value:   res[0].Value,
	})
}

// EscrowsHandler lists live escrows, optionally only those of a single
// maker.
type EscrowsHandler struct {
	Ledger Ledger
}

func (h *EscrowsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		res []ledger.QueryResult
		err error
	)
	if m := r.URL.Query().Get("maker"); m != "" {
		maker, ok := addressParam(w, m, "maker")
		if !ok {
			return
		}
		res, err = h.Ledger.Query("/escrows", "maker", maker)
	} else {
		res, err = h.Ledger.Query("/escrows", ledger.PrefixQueryMod, nil)
	}
	if err != nil {
		queryErr(w, r, err)
		return
	}

	objects := make([]KeyValue, 0, len(res))
	for _, kv := range res {
		objects = append(objects, KeyValue{Address: kv.Key, Value: kv.Value})
	}
	JSONResp(w, http.StatusOK, ObjectsResponse{Objects: objects})
}

// ObjectsResponse is the body of listing endpoints.
type ObjectsResponse struct {
	Objects []KeyValue `json:"objects"`
}

// SequenceHandler returns the sequence the next signature of an address
// must carry.
type SequenceHandler struct {
	Ledger Ledger
}

// SequenceResponse is returned by SequenceHandler.
type SequenceResponse struct {
	Address  ledger.Address `json:"address"`
	Sequence int64          `json:"sequence"`
}

func (h *SequenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, chi.URLParam(r, "address"), "address")
	if !ok {
		return
	}
	res, err := h.Ledger.Query("/auth", ledger.KeyQueryMod, addr)
	if err != nil {
		queryErr(w, r, err)
		return
	}
	resp := SequenceResponse{Address: addr}
	if len(res) != 0 {
		user, ok := res[0].Value.(*sigs.UserData)
		if !ok {
			queryErr(w, r, errors.Wrapf(errors.ErrType, "%T", res[0].Value))
			return
		}
		resp.Sequence = user.Sequence
	}
	JSONResp(w, http.StatusOK, resp)
}

// DeriveEscrowHandler computes the addresses of an offer. It does not read
// the state, the offer does not have to exist.
type DeriveEscrowHandler struct {
	Conf escrow.Config
}

func (h *DeriveEscrowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	maker, ok := addressParam(w, q.Get("maker"), "maker")
	if !ok {
		return
	}
	mintA, ok := addressParam(w, q.Get("mint_a"), "mint_a")
	if !ok {
		return
	}
	id, err := strconv.ParseUint(q.Get("id"), 10, 64)
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "id must be an unsigned integer.")
		return
	}
	addrs, err := h.Conf.Derive(maker, mintA, id)
	if err != nil {
		JSONErr(w, http.StatusBadRequest, err.Error())
		return
	}
	JSONResp(w, http.StatusOK, addrs)
}

// DeriveAssociatedHandler computes the associated token account of an
// owner for a mint.
type DeriveAssociatedHandler struct {
	Conf token.Config
}

// AddressResponse wraps a single address.
type AddressResponse struct {
	Address ledger.Address `json:"address"`
}

func (h *DeriveAssociatedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner, ok := addressParam(w, q.Get("owner"), "owner")
	if !ok {
		return
	}
	mint, ok := addressParam(w, q.Get("mint"), "mint")
	if !ok {
		return
	}
	addr, err := h.Conf.AssociatedAddress(owner, mint)
	if err != nil {
		JSONErr(w, http.StatusBadRequest, err.Error())
		return
	}
	JSONResp(w, http.StatusOK, AddressResponse{Address: addr})
}

// StatusHandler returns the chain id and the latest committed version.
type StatusHandler struct {
	Ledger Ledger
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info, err := h.Ledger.Info()
	if err != nil {
		queryErr(w, r, err)
		return
	}
	JSONResp(w, http.StatusOK, info)
}

// addressParam parses raw as an address, writing a bad request response
// when that fails.
func addressParam(w http.ResponseWriter, raw, name string) (ledger.Address, bool) {
	if raw == "" {
		JSONErr(w, http.StatusBadRequest, name+" is required.")
		return nil, false
	}
	addr, err := ledger.ParseAddress(raw)
	if err == nil {
		err = addr.Validate()
	}
	if err != nil {
		JSONErr(w, http.StatusBadRequest, name+" must be a valid address.")
		return nil, false
	}
	return addr, true
}

func queryErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.ErrNotFound.Is(err):
		JSONErr(w, http.StatusNotFound, err.Error())
	case errors.ErrInput.Is(err):
		JSONErr(w, http.StatusBadRequest, err.Error())
	default:
		ledger.GetLogger(r.Context()).Error("Query failed", "path", r.URL.Path, "err", err)
		JSONErr(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
