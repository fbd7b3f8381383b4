package token

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// RegisterRoutes registers all handlers of this package.
func RegisterRoutes(r ledger.Registry, auth ledger.Authenticator, control Controller) {
	r.Handle(&CreateMintMsg{}, &CreateMintHandler{auth: auth, control: control})
	r.Handle(&CreateAccountMsg{}, &CreateAccountHandler{auth: auth, control: control})
	r.Handle(&MintToMsg{}, &MintToHandler{auth: auth, control: control})
	r.Handle(&TransferMsg{}, &TransferHandler{auth: auth, control: control})
}

// CreateMintHandler creates mints.
type CreateMintHandler struct {
	auth    ledger.Authenticator
	control Controller
}

var _ ledger.Handler = (*CreateMintHandler)(nil)

func (h *CreateMintHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *CreateMintHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.CreateMint(db, msg.Payer, msg.Mint, msg.Authority, msg.Decimals); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: msg.Mint}, nil
}

func (h *CreateMintHandler) validate(ctx context.Context, tx ledger.Tx) (*CreateMintMsg, error) {
	var msg CreateMintMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	if !h.auth.HasAddress(ctx, msg.Mint) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mint signature missing")
	}
	return &msg, nil
}

// CreateAccountHandler creates associated token accounts.
type CreateAccountHandler struct {
	auth    ledger.Authenticator
	control Controller
}

var _ ledger.Handler = (*CreateAccountHandler)(nil)

func (h *CreateAccountHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *CreateAccountHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.control.InitializeAssociated(db, msg.Payer, msg.Owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: addr}, nil
}

func (h *CreateAccountHandler) validate(ctx context.Context, tx ledger.Tx) (*CreateAccountMsg, error) {
	var msg CreateAccountMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	return &msg, nil
}

// MintToHandler issues tokens.
type MintToHandler struct {
	auth    ledger.Authenticator
	control Controller
}

var _ ledger.Handler = (*MintToHandler)(nil)

func (h *MintToHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	var msg MintToMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &ledger.CheckResult{}, nil
}

func (h *MintToHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	var msg MintToMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.control.MintTo(ctx, db, h.auth, msg.Mint, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}

// TransferHandler moves tokens.
type TransferHandler struct {
	auth    ledger.Authenticator
	control Controller
}

var _ ledger.Handler = (*TransferHandler)(nil)

func (h *TransferHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	var msg TransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &ledger.CheckResult{}, nil
}

func (h *TransferHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	var msg TransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.control.Transfer(ctx, db, h.auth, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}
