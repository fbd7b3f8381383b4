/*
Package client talks to a ledgerd node through its HTTP API.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/api"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
)

// Client is a ledgerd API client. It is safe for concurrent use.
type Client struct {
	apiURL string
	cli    http.Client
}

// NewClient returns a client of the node serving at apiURL, for example
// "http://localhost:8080".
func NewClient(apiURL string) *Client {
	return &Client{
		apiURL: strings.TrimSuffix(apiURL, "/"),
	}
}

// SubmitTx delivers tx. The result is returned even when the transaction
// failed, the error then carries the failure code.
func (c *Client) SubmitTx(ctx context.Context, tx *app.Tx) (*app.Result, error) {
	return c.sendTx(ctx, "/tx", tx)
}

// SimulateTx runs tx against the latest state without committing it.
func (c *Client) SimulateTx(ctx context.Context, tx *app.Tx) (*app.Result, error) {
	return c.sendTx(ctx, "/tx/simulate", tx)
}

func (c *Client) sendTx(ctx context.Context, path string, tx *app.Tx) (*app.Result, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	var res app.Result
	if err := c.do(ctx, http.MethodPost, path, api.TxRequest{Tx: raw}, &res); err != nil {
		return nil, err
	}
	return &res, errors.ABCIError(res.Code, res.Log)
}

// SignTx adds the signature of key to tx, using the chain id of the node
// and the next sequence of the key.
func (c *Client) SignTx(ctx context.Context, tx *app.Tx, key crypto.Signer) error {
	info, err := c.Status(ctx)
	if err != nil {
		return errors.Wrap(err, "status")
	}
	seq, err := c.Sequence(ctx, key.PublicKey().Address())
	if err != nil {
		return errors.Wrap(err, "sequence")
	}
	return tx.Sign(key, info.ChainID, seq)
}

// Status returns the chain id and the latest version of the node.
func (c *Client) Status(ctx context.Context) (*app.Info, error) {
	var info app.Info
	if err := c.do(ctx, http.MethodGet, "/status", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Sequence returns the sequence the next signature of addr must carry.
func (c *Client) Sequence(ctx context.Context, addr ledger.Address) (int64, error) {
	var resp api.SequenceResponse
	if err := c.do(ctx, http.MethodGet, "/sequences/"+addr.String(), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Sequence, nil
}

// Lamports returns the native balance of addr. An address that never
// received anything has a zero balance.
func (c *Client) Lamports(ctx context.Context, addr ledger.Address) (uint64, error) {
	var w cash.Wallet
	switch err := c.entity(ctx, "/wallets/", addr, &w); {
	case err == nil:
		return w.Lamports, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Mint returns the mint stored at addr.
func (c *Client) Mint(ctx context.Context, addr ledger.Address) (*token.Mint, error) {
	var m token.Mint
	if err := c.entity(ctx, "/mints/", addr, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// TokenAccount returns the token account stored at addr.
func (c *Client) TokenAccount(ctx context.Context, addr ledger.Address) (*token.Account, error) {
	var a token.Account
	if err := c.entity(ctx, "/accounts/", addr, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Escrow returns the live offer stored at addr.
func (c *Client) Escrow(ctx context.Context, addr ledger.Address) (*escrow.Escrow, error) {
	var e escrow.Escrow
	if err := c.entity(ctx, "/escrows/", addr, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// EscrowEntry is a live offer together with its address.
type EscrowEntry struct {
	Address ledger.Address `json:"address"`
	Escrow  *escrow.Escrow `json:"value"`
}

// Escrows lists the live offers of maker, or all live offers when maker is
// nil.
func (c *Client) Escrows(ctx context.Context, maker ledger.Address) ([]EscrowEntry, error) {
	path := "/escrows"
	if maker != nil {
		path += "?maker=" + url.QueryEscape(maker.String())
	}
	var resp struct {
		Objects []EscrowEntry `json:"objects"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Objects, nil
}

// DeriveEscrow returns the addresses of the offer of maker with id as
// derived by the node.
func (c *Client) DeriveEscrow(ctx context.Context, maker, mintA ledger.Address, id uint64) (*escrow.Addresses, error) {
	q := url.Values{}
	q.Set("maker", maker.String())
	q.Set("mint_a", mintA.String())
	q.Set("id", strconv.FormatUint(id, 10))
	var addrs escrow.Addresses
	if err := c.do(ctx, http.MethodGet, "/derive/escrow?"+q.Encode(), nil, &addrs); err != nil {
		return nil, err
	}
	return &addrs, nil
}

// AssociatedAddress returns the associated token account of owner for mint
// as derived by the node.
func (c *Client) AssociatedAddress(ctx context.Context, owner, mint ledger.Address) (ledger.Address, error) {
	q := url.Values{}
	q.Set("owner", owner.String())
	q.Set("mint", mint.String())
	var resp api.AddressResponse
	if err := c.do(ctx, http.MethodGet, "/derive/associated?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Address, nil
}

func (c *Client) entity(ctx context.Context, prefix string, addr ledger.Address, dest interface{}) error {
	resp := struct {
		Address ledger.Address `json:"address"`
		Value   interface{}    `json:"value"`
	}{Value: dest}
	return c.do(ctx, http.MethodGet, prefix+addr.String(), nil, &resp)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.apiURL+path, payload)
	if err != nil {
		return errors.Wrap(err, "create http request")
	}
	req = req.WithContext(ctx)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.cli.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return responseErr(resp)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1e6)).Decode(dest); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// responseErr maps a failed response to an error of the matching class.
func responseErr(resp *http.Response) error {
	b, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1e5))
	msg := string(b)
	var e api.ErrorResponse
	if err := json.Unmarshal(b, &e); err == nil && len(e.Errors) != 0 {
		msg = strings.Join(e.Errors, ", ")
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.Wrap(errors.ErrNotFound, msg)
	case http.StatusBadRequest:
		return errors.Wrap(errors.ErrInput, msg)
	default:
		return errors.Wrapf(errors.ErrDatabase, "bad response: %d %s", resp.StatusCode, msg)
	}
}
