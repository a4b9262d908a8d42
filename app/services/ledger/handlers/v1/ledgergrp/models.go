package ledgergrp

import (
	"github.com/hydrocredit/ledger/business/sys/validate"
)

type registerAccount struct {
	Name       string            `json:"name" validate:"required"`
	Role       string            `json:"role" validate:"required"`
	Attributes map[string]string `json:"attributes"`
}

// Validate checks the data in the model is considered clean.
func (ra registerAccount) Validate() error {
	return validate.Check(ra)
}

type setFrozen struct {
	By     string `json:"by" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Frozen bool   `json:"frozen"`
}

// Validate checks the data in the model is considered clean.
func (sf setFrozen) Validate() error {
	return validate.Check(sf)
}

type setQuota struct {
	By    string `json:"by" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Limit uint64 `json:"limit"`
	Clear bool   `json:"clear"`
}

// Validate checks the data in the model is considered clean.
func (sq setQuota) Validate() error {
	return validate.Check(sq)
}

type transfer struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"required"`
	Details   string `json:"details"`
}

// Validate checks the data in the model is considered clean.
func (t transfer) Validate() error {
	return validate.Check(t)
}

type issue struct {
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"required"`
	Details   string `json:"details"`
}

// Validate checks the data in the model is considered clean.
func (i issue) Validate() error {
	return validate.Check(i)
}

type submitIssuance struct {
	Producer string `json:"producer" validate:"required"`
	Amount   uint64 `json:"amount" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (si submitIssuance) Validate() error {
	return validate.Check(si)
}

type processIssuance struct {
	By     string `json:"by" validate:"required"`
	ID     string `json:"id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=Certify Scrutinize Reject"`
}

// Validate checks the data in the model is considered clean.
func (pi processIssuance) Validate() error {
	return validate.Check(pi)
}

// =============================================================================

type info struct {
	Account  string `json:"account"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Frozen   bool   `json:"frozen"`
	Balance  uint64 `json:"balance"`
	Quota    uint64 `json:"quota,omitempty"`
	HasQuota bool   `json:"has_quota"`
}

type actInfo struct {
	LatestBlock string `json:"latest_block"`
	Uncommitted int    `json:"uncommitted"`
	Accounts    []info `json:"accounts"`
}

type balance struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}
