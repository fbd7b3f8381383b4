package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

func TestTxHandler(t *testing.T) {
	cases := map[string]struct {
		path          string
		body          string
		wantCode      int
		wantDelivered int
		wantChecked   int
	}{
		"deliver": {
			path:          "/tx",
			body:          `{"tx": "AQID"}`,
			wantCode:      http.StatusOK,
			wantDelivered: 1,
		},
		"simulate": {
			path:        "/tx/simulate",
			body:        `{"tx": "AQID"}`,
			wantCode:    http.StatusOK,
			wantChecked: 1,
		},
		"not json": {
			path:     "/tx",
			body:     `AQID`,
			wantCode: http.StatusBadRequest,
		},
		"missing tx": {
			path:     "/tx",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := &ledgerMock{result: &app.Result{Log: "ok", Version: 7}}
			w := serve(t, l, http.MethodPost, tc.path, tc.body)

			if w.Code != tc.wantCode {
				t.Fatalf("want %d, got %d: %s", tc.wantCode, w.Code, w.Body)
			}
			if len(l.delivered) != tc.wantDelivered {
				t.Fatalf("want %d delivered, got %d", tc.wantDelivered, len(l.delivered))
			}
			if len(l.checked) != tc.wantChecked {
				t.Fatalf("want %d checked, got %d", tc.wantChecked, len(l.checked))
			}
			if w.Code != http.StatusOK {
				return
			}
			var res app.Result
			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Fatalf("cannot decode response: %s", err)
			}
			if res.Version != 7 || res.Log != "ok" {
				t.Fatalf("unexpected result: %+v", res)
			}
			raw := append(l.delivered, l.checked...)[0]
			if !bytes.Equal(raw, []byte{1, 2, 3}) {
				t.Fatalf("unexpected transaction %X", raw)
			}
		})
	}
}

func TestEntityHandler(t *testing.T) {
	owner := ledgertest.NewAddress()
	mint := ledgertest.NewAddress()
	acct := ledgertest.NewAddress()

	l := &ledgerMock{
		results: map[string][]ledger.QueryResult{
			queryKey("/accounts", "", acct): {
				{Key: acct, Value: &token.Account{Owner: owner, Mint: mint, Amount: 42}},
			},
		},
	}

	w := serve(t, l, http.MethodGet, "/accounts/"+acct.String(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("failed response: %d %s", w.Code, w.Body)
	}
	var got struct {
		Address ledger.Address `json:"address"`
		Value   token.Account  `json:"value"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("cannot decode response: %s", err)
	}
	if !got.Address.Equals(acct) || !got.Value.Owner.Equals(owner) || got.Value.Amount != 42 {
		t.Fatalf("unexpected response: %+v", got)
	}

	if w := serve(t, l, http.MethodGet, "/accounts/"+owner.String(), ""); w.Code != http.StatusNotFound {
		t.Fatalf("want not found, got %d", w.Code)
	}
	if w := serve(t, l, http.MethodGet, "/accounts/xyz", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("want bad request, got %d", w.Code)
	}
}

func TestEntityHandlerQueryFailure(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantCode int
	}{
		"not found": {
			err:      errors.Wrap(errors.ErrNotFound, "query path"),
			wantCode: http.StatusNotFound,
		},
		"input": {
			err:      errors.ErrInput,
			wantCode: http.StatusBadRequest,
		},
		"database": {
			err:      errors.Wrap(errors.ErrDatabase, "broken"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := &ledgerMock{err: tc.err}
			w := serve(t, l, http.MethodGet, "/wallets/"+ledgertest.NewAddress().String(), "")
			if w.Code != tc.wantCode {
				t.Fatalf("want %d, got %d", tc.wantCode, w.Code)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("cannot decode response: %s", err)
			}
			if len(resp.Errors) != 1 {
				t.Fatalf("unexpected errors: %v", resp.Errors)
			}
		})
	}
}

func TestEscrowsHandler(t *testing.T) {
	maker := ledgertest.NewAddress()
	first := ledgertest.NewAddress()
	second := ledgertest.NewAddress()

	l := &ledgerMock{
		results: map[string][]ledger.QueryResult{
			queryKey("/escrows", "maker", maker): {
				{Key: first, Value: &escrow.Escrow{ID: 1, Maker: maker}},
			},
			queryKey("/escrows", "prefix", nil): {
				{Key: first, Value: &escrow.Escrow{ID: 1, Maker: maker}},
				{Key: second, Value: &escrow.Escrow{ID: 2}},
			},
		},
	}

	cases := map[string]struct {
		path     string
		wantCode int
		wantIDs  []uint64
	}{
		"by maker": {
			path:     "/escrows?maker=" + maker.String(),
			wantCode: http.StatusOK,
			wantIDs:  []uint64{1},
		},
		"all": {
			path:     "/escrows",
			wantCode: http.StatusOK,
			wantIDs:  []uint64{1, 2},
		},
		"no offers of maker": {
			path:     "/escrows?maker=" + second.String(),
			wantCode: http.StatusOK,
			wantIDs:  nil,
		},
		"invalid maker": {
			path:     "/escrows?maker=foo",
			wantCode: http.StatusBadRequest,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			w := serve(t, l, http.MethodGet, tc.path, "")
			if w.Code != tc.wantCode {
				t.Fatalf("want %d, got %d: %s", tc.wantCode, w.Code, w.Body)
			}
			if w.Code != http.StatusOK {
				return
			}
			var resp struct {
				Objects []struct {
					Address ledger.Address `json:"address"`
					Value   escrow.Escrow  `json:"value"`
				} `json:"objects"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("cannot decode response: %s", err)
			}
			if len(resp.Objects) != len(tc.wantIDs) {
				t.Fatalf("want %d objects, got %d", len(tc.wantIDs), len(resp.Objects))
			}
			for i, id := range tc.wantIDs {
				if resp.Objects[i].Value.ID != id {
					t.Errorf("object %d: want id %d, got %d", i, id, resp.Objects[i].Value.ID)
				}
			}
		})
	}
}

func TestSequenceHandler(t *testing.T) {
	known := ledgertest.NewAddress()
	unknown := ledgertest.NewAddress()
	l := &ledgerMock{
		results: map[string][]ledger.QueryResult{
			queryKey("/auth", "", known): {
				{Key: known, Value: &sigs.UserData{Sequence: 5}},
			},
		},
	}

	for addr, want := range map[string]int64{known.String(): 5, unknown.String(): 0} {
		w := serve(t, l, http.MethodGet, "/sequences/"+addr, "")
		if w.Code != http.StatusOK {
			t.Fatalf("failed response: %d %s", w.Code, w.Body)
		}
		var resp SequenceResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("cannot decode response: %s", err)
		}
		if resp.Sequence != want {
			t.Fatalf("%s: want sequence %d, got %d", addr, want, resp.Sequence)
		}
	}
}

func TestDeriveEscrowHandler(t *testing.T) {
	maker := ledgertest.NewAddress()
	mint := ledgertest.NewAddress()
	conf := escrow.DefaultConfig()
	want, err := conf.Derive(maker, mint, 17)
	if err != nil {
		t.Fatalf("cannot derive: %s", err)
	}

	cases := map[string]struct {
		query    string
		wantCode int
	}{
		"valid": {
			query:    "maker=" + maker.String() + "&mint_a=" + mint.String() + "&id=17",
			wantCode: http.StatusOK,
		},
		"missing id": {
			query:    "maker=" + maker.String() + "&mint_a=" + mint.String(),
			wantCode: http.StatusBadRequest,
		},
		"negative id": {
			query:    "maker=" + maker.String() + "&mint_a=" + mint.String() + "&id=-1",
			wantCode: http.StatusBadRequest,
		},
		"missing mint": {
			query:    "maker=" + maker.String() + "&id=17",
			wantCode: http.StatusBadRequest,
		},
		"missing maker": {
			query:    "mint_a=" + mint.String() + "&id=17",
			wantCode: http.StatusBadRequest,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			w := serve(t, &ledgerMock{}, http.MethodGet, "/derive/escrow?"+tc.query, "")
			if w.Code != tc.wantCode {
				t.Fatalf("want %d, got %d: %s", tc.wantCode, w.Code, w.Body)
			}
			if w.Code != http.StatusOK {
				return
			}
			var got escrow.Addresses
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("cannot decode response: %s", err)
			}
			if !got.Escrow.Equals(want.Escrow) || !got.Vault.Equals(want.Vault) || got.Bump != want.Bump {
				t.Fatalf("want %+v, got %+v", want, got)
			}
		})
	}
}

func TestDeriveAssociatedHandler(t *testing.T) {
	owner := ledgertest.NewAddress()
	mint := ledgertest.NewAddress()
	want, err := token.DefaultConfig().AssociatedAddress(owner, mint)
	if err != nil {
		t.Fatalf("cannot derive: %s", err)
	}

	w := serve(t, &ledgerMock{}, http.MethodGet, "/derive/associated?owner="+owner.String()+"&mint="+mint.String(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("failed response: %d %s", w.Code, w.Body)
	}
	var got AddressResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("cannot decode response: %s", err)
	}
	if !got.Address.Equals(want) {
		t.Fatalf("want %s, got %s", want, got.Address)
	}
}

func TestStatusHandler(t *testing.T) {
	l := &ledgerMock{info: &app.Info{Name: "ledger", ChainID: "test-chain", Version: 3}}
	w := serve(t, l, http.MethodGet, "/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("failed response: %d %s", w.Code, w.Body)
	}
	var got app.Info
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("cannot decode response: %s", err)
	}
	if got.ChainID != "test-chain" || got.Version != 3 {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestRequestID(t *testing.T) {
	l := &ledgerMock{info: &app.Info{}}

	w := serve(t, l, http.MethodGet, "/status", "")
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("request id not assigned")
	}

	h := NewRouter(l, escrow.DefaultConfig(), prometheus.NewRegistry(), log.NewNopLogger())
	r := httptest.NewRequest(http.MethodGet, "/status", nil)
	r.Header.Set(RequestIDHeader, "my-id")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get(RequestIDHeader); got != "my-id" {
		t.Fatalf("client request id not kept: %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter_total", Help: "Test."})
	reg.MustRegister(c)
	c.Inc()

	h := NewRouter(&ledgerMock{}, escrow.DefaultConfig(), reg, log.NewNopLogger())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("failed response: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "test_counter_total 1") {
		t.Fatalf("counter not exposed: %s", w.Body)
	}
}

func TestUnknownRoute(t *testing.T) {
	w := serve(t, &ledgerMock{}, http.MethodGet, "/nothing/here", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want not found, got %d", w.Code)
	}
	w = serve(t, &ledgerMock{}, http.MethodGet, "/tx", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want method not allowed, got %d", w.Code)
	}
}

func serve(t testing.TB, l Ledger, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewRouter(l, escrow.DefaultConfig(), prometheus.NewRegistry(), log.NewNopLogger())
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func queryKey(path, mod string, data []byte) string {
	return path + "|" + mod + "|" + string(data)
}

type ledgerMock struct {
	result    *app.Result
	delivered [][]byte
	checked   [][]byte
	results   map[string][]ledger.QueryResult
	info      *app.Info
	err       error
}

var _ Ledger = (*ledgerMock)(nil)

func (l *ledgerMock) DeliverTx(raw []byte) *app.Result {
	l.delivered = append(l.delivered, raw)
	return l.result
}

func (l *ledgerMock) CheckTx(raw []byte) *app.Result {
	l.checked = append(l.checked, raw)
	return l.result
}

func (l *ledgerMock) Query(path, mod string, data []byte) ([]ledger.QueryResult, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.results[queryKey(path, mod, data)], nil
}

func (l *ledgerMock) Info() (*app.Info, error) {
	return l.info, l.err
}
