// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/hydrocredit/ledger/app/services/ledger/handlers/v1/ledgergrp"
	"github.com/hydrocredit/ledger/business/risk"
	"github.com/hydrocredit/ledger/foundation/events"
	"github.com/hydrocredit/ledger/foundation/ledger/state"
	"github.com/hydrocredit/ledger/foundation/nameservice"
	"github.com/hydrocredit/ledger/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
	Risk  risk.Assessor
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	lgh := ledgergrp.Handlers{
		Log:      cfg.Log,
		State:    cfg.State,
		NS:       cfg.NS,
		Evts:     cfg.Evts,
		Assessor: cfg.Risk,
	}

	app.Handle(http.MethodPost, version, "/accounts", lgh.RegisterAccount)
	app.Handle(http.MethodPost, version, "/accounts/freeze", lgh.SetFrozen)
	app.Handle(http.MethodPost, version, "/quotas", lgh.SetQuota)
	app.Handle(http.MethodPost, version, "/tx/transfer", lgh.Transfer)
	app.Handle(http.MethodPost, version, "/tx/issue", lgh.Issue)
	app.Handle(http.MethodPost, version, "/issuance", lgh.SubmitIssuance)
	app.Handle(http.MethodPost, version, "/issuance/process", lgh.ProcessIssuance)
	app.Handle(http.MethodPost, version, "/blocks/assemble", lgh.AssembleBlock)

	app.Handle(http.MethodGet, version, "/balances/:account", lgh.Balance)
	app.Handle(http.MethodGet, version, "/history/:account", lgh.History)
	app.Handle(http.MethodGet, version, "/chain/info", lgh.ChainInfo)
	app.Handle(http.MethodGet, version, "/mempool", lgh.Mempool)
	app.Handle(http.MethodGet, version, "/accounts", lgh.Accounts)
	app.Handle(http.MethodGet, version, "/issuance", lgh.Issuances)
	app.Handle(http.MethodGet, version, "/risk/:account", lgh.Risk)
	app.Handle(http.MethodGet, version, "/events", lgh.Events)
}
