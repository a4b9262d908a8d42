// Package ledgergrp maintains the group of handlers for ledger access.
package ledgergrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hydrocredit/ledger/business/risk"
	"github.com/hydrocredit/ledger/business/web/errs"
	"github.com/hydrocredit/ledger/foundation/events"
	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/state"
	"github.com/hydrocredit/ledger/foundation/nameservice"
	"github.com/hydrocredit/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log      *zap.SugaredLogger
	State    *state.State
	NS       *nameservice.NameService
	WS       websocket.Upgrader
	Evts     *events.Events
	Assessor risk.Assessor
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// RegisterAccount adds a new account to the registry.
func (h Handlers) RegisterAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ra registerAccount
	if err := web.Decode(r, &ra); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	role, err := account.ParseRole(ra.Role)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("register account", "traceid", v.TraceID, "name", ra.Name, "role", ra.Role)

	acct, err := h.State.RegisterAccount(ra.Name, role, ra.Attributes)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, acct, http.StatusCreated)
}

// SetFrozen toggles the frozen flag on an account.
func (h Handlers) SetFrozen(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var sf setFrozen
	if err := web.Decode(r, &sf); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("set frozen", "traceid", v.TraceID, "by", sf.By, "name", sf.Name, "frozen", sf.Frozen)

	if err := h.State.SetFrozen(sf.By, sf.Name, sf.Frozen); err != nil {
		return err
	}

	resp := struct {
		Name   string `json:"name"`
		Frozen bool   `json:"frozen"`
	}{
		Name:   sf.Name,
		Frozen: sf.Frozen,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SetQuota sets or clears the holding quota for an account.
func (h Handlers) SetQuota(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var sq setQuota
	if err := web.Decode(r, &sq); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("set quota", "traceid", v.TraceID, "by", sq.By, "name", sq.Name, "limit", sq.Limit, "clear", sq.Clear)

	if sq.Clear {
		if err := h.State.ClearQuota(sq.By, sq.Name); err != nil {
			return err
		}
	} else {
		if err := h.State.SetQuota(sq.By, sq.Name, sq.Limit); err != nil {
			return err
		}
	}

	resp := struct {
		Name  string `json:"name"`
		Limit uint64 `json:"limit"`
		Clear bool   `json:"clear"`
	}{
		Name:  sq.Name,
		Limit: sq.Limit,
		Clear: sq.Clear,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Transfer adds a new transfer transaction to the pending pool.
func (h Handlers) Transfer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var t transfer
	if err := web.Decode(r, &t); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("propose transfer", "traceid", v.TraceID, "sender", t.Sender, "recipient", t.Recipient, "amount", t.Amount)

	tx, err := h.State.ProposeTransfer(t.Sender, t.Recipient, t.Amount, t.Details)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// Issue adds a sentinel issuance transaction to the pending pool.
func (h Handlers) Issue(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var i issue
	if err := web.Decode(r, &i); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("propose issuance", "traceid", v.TraceID, "recipient", i.Recipient, "amount", i.Amount)

	tx, err := h.State.ProposeIssuance(i.Recipient, i.Amount, i.Details)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// SubmitIssuance records a producer's request for credits.
func (h Handlers) SubmitIssuance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var si submitIssuance
	if err := web.Decode(r, &si); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("submit issuance", "traceid", v.TraceID, "producer", si.Producer, "amount", si.Amount)

	req, err := h.State.SubmitIssuance(si.Producer, si.Amount)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, req, http.StatusCreated)
}

// ProcessIssuance resolves a pending issuance request.
func (h Handlers) ProcessIssuance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var pi processIssuance
	if err := web.Decode(r, &pi); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("process issuance", "traceid", v.TraceID, "by", pi.By, "id", pi.ID, "action", pi.Action)

	tx, err := h.State.ProcessIssuance(pi.By, pi.ID, state.IssuanceAction(pi.Action))
	if err != nil {
		return err
	}

	resp := struct {
		ID     string `json:"id"`
		Action string `json:"action"`
		TxID   string `json:"tx_id,omitempty"`
	}{
		ID:     pi.ID,
		Action: pi.Action,
		TxID:   tx.ID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Issuances returns the unresolved issuance requests.
func (h Handlers) Issuances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Issuances(), http.StatusOK)
}

// AssembleBlock assembles the pending pool into a new block on the chain.
func (h Handlers) AssembleBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("assemble block", "traceid", v.TraceID)

	block, err := h.State.AssembleBlock()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Balance returns the committed balance for an account.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct := web.Param(r, "account")

	b := balance{
		Account: acct,
		Balance: h.State.Balance(acct),
	}

	return web.Respond(ctx, w, b, http.StatusOK)
}

// History returns the transactions an account took part in, most recent
// first. An optional limit query parameter bounds the result.
func (h Handlers) History(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct := web.Param(r, "account")

	var limit int
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			return errs.NewTrusted(fmt.Errorf("invalid limit %q", l), http.StatusBadRequest)
		}
	}

	txs, err := h.State.History(acct, limit)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, txs, http.StatusOK)
}

// ChainInfo returns a snapshot of the chain shape.
func (h Handlers) ChainInfo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.ChainInfo(), http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Mempool(), http.StatusOK)
}

// Accounts returns the registered accounts with their balances and
// external settlement names.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accounts := h.State.Accounts()
	quotas := h.State.Quotas()

	acts := make([]info, 0, len(accounts))
	for name, acct := range accounts {
		limit, bound := quotas[name]
		act := info{
			Account:  name,
			Name:     h.NS.Lookup(name),
			Role:     acct.Role.String(),
			Frozen:   acct.Frozen,
			Balance:  h.State.Balance(name),
			Quota:    limit,
			HasQuota: bound,
		}
		acts = append(acts, act)
	}

	ai := actInfo{
		LatestBlock: h.State.ChainInfo().LatestHash,
		Uncommitted: len(h.State.Mempool()),
		Accounts:    acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// Risk returns an advisory verdict for an account. The advisory is best
// effort and never blocks ledger activity.
func (h Handlers) Risk(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct := web.Param(r, "account")

	if h.Assessor == nil {
		return errs.NewTrusted(errors.New("advisory unavailable"), http.StatusServiceUnavailable)
	}

	history, err := h.State.History(acct, 50)
	if err != nil {
		return err
	}

	adv, err := h.Assessor.Assess(ctx, acct, h.State.Balance(acct), history)
	if err != nil {
		h.Log.Infow("risk advisory failed", "traceid", web.GetTraceID(ctx), "account", acct, "ERROR", err)
		return errs.NewTrusted(errors.New("advisory unavailable"), http.StatusServiceUnavailable)
	}

	return web.Respond(ctx, w, adv, http.StatusOK)
}
