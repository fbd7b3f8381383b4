package escrow

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/token"
)

// RegisterRoutes registers the escrow handlers.
func RegisterRoutes(r ledger.Registry, auth ledger.Authenticator, conf Config, cashCtrl cash.Controller, tokens token.Controller) {
	b := base{
		auth:    auth,
		conf:    conf,
		program: ledger.NewProgram(conf.Program),
		bucket:  NewBucket(),
		cash:    cashCtrl,
		tokens:  tokens,
	}
	r.Handle(&InitializeMsg{}, &InitializeHandler{b})
	r.Handle(&RefundMsg{}, &RefundHandler{b})
	r.Handle(&TakeMsg{}, &TakeHandler{b})
}

// base holds what every escrow handler depends on.
type base struct {
	auth    ledger.Authenticator
	conf    Config
	program ledger.Program
	bucket  orm.ModelBucket
	cash    cash.Controller
	tokens  token.Controller
}

// load returns the record stored at addr.
func (b base) load(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Escrow, error) {
	var e Escrow
	if err := b.bucket.One(db, addr, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", addr)
	}
	return &e, nil
}

// signer returns the capability to move the vault of the record stored at
// addr.
func (b base) signer(addr ledger.Address, e *Escrow) (*ledger.ProgramSigner, error) {
	s, err := b.program.Signer(e.Bump, Seeds(e.Maker, e.ID)...)
	if err != nil {
		return nil, err
	}
	if !s.Address().Equals(addr) {
		return nil, errors.Wrap(errors.ErrState, "record does not derive its own address")
	}
	return s, nil
}

// release empties the vault into dest, closes it and deletes the record.
// Rent of both accounts goes to the maker.
func (b base) release(ctx context.Context, db ledger.KVStore, signer *ledger.ProgramSigner, addr ledger.Address, e *Escrow, vault *token.Account, dest ledger.Address) error {
	if vault.Amount > 0 {
		if err := b.tokens.Transfer(ctx, db, signer, e.Vault, dest, vault.Amount); err != nil {
			return errors.Wrap(err, "release vault")
		}
	}
	if err := b.tokens.CloseAccount(ctx, db, signer, e.Vault, e.Maker); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := b.bucket.Delete(db, addr); err != nil {
		return errors.Wrap(err, "delete escrow")
	}
	if _, err := b.cash.Drain(db, addr, e.Maker); err != nil {
		return errors.Wrap(err, "escrow rent")
	}
	return nil
}

// InitializeHandler opens offers.
type InitializeHandler struct {
	base
}

var _ ledger.Handler = (*InitializeHandler)(nil)

func (h *InitializeHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *InitializeHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addrs, err := h.conf.Derive(msg.Maker, msg.MintA, msg.ID)
	if err != nil {
		return nil, err
	}
	e := &Escrow{
		ID:      msg.ID,
		Maker:   msg.Maker,
		MintA:   msg.MintA,
		MintB:   msg.MintB,
		Offered: msg.Offered,
		Wanted:  msg.Wanted,
		Vault:   addrs.Vault,
		Bump:    addrs.Bump,
	}
	if err := h.cash.Allocate(db, msg.Maker, msg.Escrow, RecordSize); err != nil {
		return nil, errors.Wrap(err, "escrow rent")
	}
	if err := h.bucket.Put(db, msg.Escrow, e); err != nil {
		return nil, errors.Wrap(err, "save escrow")
	}
	if err := h.tokens.InitializeAccount(db, msg.Maker, msg.Vault, msg.MintA, msg.Escrow); err != nil {
		return nil, errors.Wrap(err, "create vault")
	}
	if err := h.tokens.Transfer(ctx, db, h.auth, msg.MakerAtaA, msg.Vault, msg.Offered); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	return &ledger.DeliverResult{
		Data: msg.Escrow,
		Log:  "escrow initialized",
	}, nil
}

// validate runs every precondition of Initialize without writing.
func (h *InitializeHandler) validate(ctx context.Context, db ledger.ReadOnlyKVStore, tx ledger.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var (
		addrs     *Addresses
		makerAtaA *token.Account
	)
	err := checkAll(
		func() error {
			if !h.auth.HasAddress(ctx, msg.Maker) {
				return errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
			}
			return nil
		},
		func() error {
			_, err := h.tokens.Mint(db, msg.MintA)
			return errors.Wrap(err, "mint a")
		},
		func() error {
			_, err := h.tokens.Mint(db, msg.MintB)
			return errors.Wrap(err, "mint b")
		},
		func() (err error) {
			addrs, err = h.conf.Derive(msg.Maker, msg.MintA, msg.ID)
			return err
		},
		func() error {
			if !addrs.Escrow.Equals(msg.Escrow) {
				return errors.Wrapf(errors.ErrInput, "escrow must be %s", addrs.Escrow)
			}
			return nil
		},
		func() error {
			if !addrs.Vault.Equals(msg.Vault) {
				return errors.Wrapf(ErrInvalidVault, "vault must be %s", addrs.Vault)
			}
			return nil
		},
		func() error {
			if err := h.bucket.Has(db, msg.Escrow); err == nil {
				return errors.Wrapf(errors.ErrDuplicate, "escrow %d of %s", msg.ID, msg.Maker)
			}
			if _, err := h.tokens.Account(db, msg.Vault); err == nil {
				return errors.Wrap(errors.ErrDuplicate, "vault")
			}
			return nil
		},
		func() (err error) {
			makerAtaA, err = associated(db, h.tokens, "maker ata a", msg.MakerAtaA, msg.Maker, msg.MintA)
			return err
		},
		func() error {
			return canPay("maker ata a", makerAtaA, msg.Offered)
		},
		func() error {
			lamports, err := h.cash.Balance(db, msg.Maker)
			if err != nil {
				return err
			}
			need := cash.RentExemptMinimum(RecordSize) + cash.RentExemptMinimum(token.AccountSize)
			if lamports < need {
				return errors.Wrapf(errors.ErrInsufficientAmount, "maker holds %d lamports, rent needs %d", lamports, need)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// RefundHandler cancels offers.
type RefundHandler struct {
	base
}

var _ ledger.Handler = (*RefundHandler)(nil)

func (h *RefundHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *RefundHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	st, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.release(ctx, db, st.signer, st.msg.Escrow, st.escrow, st.vault, st.msg.MakerAtaA); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{
		Data: st.msg.Escrow,
		Log:  "escrow refunded",
	}, nil
}

// refundState is what a validated refund operates on.
type refundState struct {
	msg    *RefundMsg
	escrow *Escrow
	signer *ledger.ProgramSigner
	vault  *token.Account
}

func (h *RefundHandler) validate(ctx context.Context, db ledger.ReadOnlyKVStore, tx ledger.Tx) (*refundState, error) {
	var msg RefundMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	st := refundState{msg: &msg}
	var makerAtaA *token.Account
	err := checkAll(
		func() error {
			if !h.auth.HasAddress(ctx, msg.Maker) {
				return errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
			}
			return nil
		},
		func() (err error) {
			st.escrow, err = h.load(db, msg.Escrow)
			return err
		},
		func() error {
			if !msg.Maker.Equals(st.escrow.Maker) {
				return errors.Wrap(ErrInvalidMaker, "only the maker can refund")
			}
			return nil
		},
		func() error {
			if !msg.Vault.Equals(st.escrow.Vault) {
				return errors.Wrapf(ErrInvalidVault, "vault must be %s", st.escrow.Vault)
			}
			return nil
		},
		func() (err error) {
			makerAtaA, err = associated(db, h.tokens, "maker ata a", msg.MakerAtaA, st.escrow.Maker, st.escrow.MintA)
			return err
		},
		func() (err error) {
			st.signer, err = h.signer(msg.Escrow, st.escrow)
			return err
		},
		func() (err error) {
			st.vault, err = h.tokens.Account(db, msg.Vault)
			return errors.Wrap(err, "vault")
		},
		func() error {
			return canReceive("maker ata a", makerAtaA, st.vault.Amount)
		},
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// TakeHandler completes offers.
type TakeHandler struct {
	base
}

var _ ledger.Handler = (*TakeHandler)(nil)

func (h *TakeHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *TakeHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	st, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	msg := st.msg
	if err := h.tokens.Transfer(ctx, db, h.auth, msg.TakerAtaB, msg.MakerAtaB, st.escrow.Wanted); err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	if err := h.release(ctx, db, st.signer, msg.Escrow, st.escrow, st.vault, msg.TakerAtaA); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{
		Data: msg.Escrow,
		Log:  "escrow taken",
	}, nil
}

// takeState is what a validated take operates on.
type takeState struct {
	msg    *TakeMsg
	escrow *Escrow
	signer *ledger.ProgramSigner
	vault  *token.Account
}

func (h *TakeHandler) validate(ctx context.Context, db ledger.ReadOnlyKVStore, tx ledger.Tx) (*takeState, error) {
	var msg TakeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	st := takeState{msg: &msg}
	var takerAtaA, takerAtaB, makerAtaB *token.Account
	err := checkAll(
		func() error {
			if !h.auth.HasAddress(ctx, msg.Taker) {
				return errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
			}
			return nil
		},
		func() (err error) {
			st.escrow, err = h.load(db, msg.Escrow)
			return err
		},
		func() error {
			if msg.Taker.Equals(st.escrow.Maker) {
				return errors.Wrap(ErrInvalidTaker, "maker cannot take its own offer")
			}
			return nil
		},
		func() error {
			if !msg.Maker.Equals(st.escrow.Maker) {
				return errors.Wrapf(ErrInvalidMaker, "maker must be %s", st.escrow.Maker)
			}
			return nil
		},
		func() error {
			if !msg.Vault.Equals(st.escrow.Vault) {
				return errors.Wrapf(ErrInvalidVault, "vault must be %s", st.escrow.Vault)
			}
			return nil
		},
		func() (err error) {
			takerAtaA, err = associated(db, h.tokens, "taker ata a", msg.TakerAtaA, msg.Taker, st.escrow.MintA)
			return err
		},
		func() (err error) {
			takerAtaB, err = associated(db, h.tokens, "taker ata b", msg.TakerAtaB, msg.Taker, st.escrow.MintB)
			return err
		},
		func() (err error) {
			makerAtaB, err = associated(db, h.tokens, "maker ata b", msg.MakerAtaB, st.escrow.Maker, st.escrow.MintB)
			return err
		},
		func() error {
			return canPay("taker ata b", takerAtaB, st.escrow.Wanted)
		},
		func() error {
			return canReceive("maker ata b", makerAtaB, st.escrow.Wanted)
		},
		func() (err error) {
			st.signer, err = h.signer(msg.Escrow, st.escrow)
			return err
		},
		func() (err error) {
			st.vault, err = h.tokens.Account(db, msg.Vault)
			return errors.Wrap(err, "vault")
		},
		func() error {
			return canReceive("taker ata a", takerAtaA, st.vault.Amount)
		},
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
