package state

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hydrocredit/ledger/foundation/ledger/database"
	"github.com/hydrocredit/ledger/foundation/ledger/policy"
)

// The set of states an issuance request moves through before it is resolved.
const (
	IssuancePending  = "PendingVerification"
	IssuanceScrutiny = "UnderScrutiny"
)

// The set of actions a certifier can take on an issuance request.
const (
	ActionCertify    IssuanceAction = "Certify"
	ActionScrutinize IssuanceAction = "Scrutinize"
	ActionReject     IssuanceAction = "Reject"
)

// IssuanceAction represents a decision on a pending issuance request.
type IssuanceAction string

// ErrIssuanceNotFound is returned when acting on an unknown request id.
var ErrIssuanceNotFound = &policy.Rejection{Reason: "issuance request not found"}

// errUnknownAction is returned for an action outside the fixed set.
var errUnknownAction = &policy.Rejection{Reason: "unknown issuance action"}

// IssuanceRequest represents a producer's request for credits awaiting
// certification.
type IssuanceRequest struct {
	ID        string    `json:"id"`
	Producer  string    `json:"producer"`
	Amount    uint64    `json:"amount"`
	Submitted time.Time `json:"submitted"`
	Status    string    `json:"status"`
}

// SubmitIssuance records a producer's request for credits. Frozen producers
// may not submit.
func (s *State) SubmitIssuance(producer string, amount uint64) (IssuanceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.registry.Get(producer)
	if err != nil {
		return IssuanceRequest{}, err
	}
	if err := policy.Authorize(acct.Role, policy.KindSubmitIssuance); err != nil {
		return IssuanceRequest{}, err
	}
	if acct.Frozen {
		return IssuanceRequest{}, policy.ErrAccountFrozen
	}
	if amount == 0 {
		return IssuanceRequest{}, policy.ErrInvalidAmount
	}

	s.issuanceSeq++
	req := IssuanceRequest{
		ID:        fmt.Sprintf("ISSUE-%d", s.issuanceSeq),
		Producer:  producer,
		Amount:    amount,
		Submitted: time.Now().UTC(),
		Status:    IssuancePending,
	}
	s.issuances[req.ID] = req

	s.evHandler("event: IssuanceSubmitted: id[%s] producer[%s] amount[%d]", req.ID, producer, amount)

	return req, nil
}

// ProcessIssuance resolves a pending request. Certifying produces a sentinel
// issuance transaction in the pending pool, scrutinizing escalates the
// request, rejecting removes it.
func (s *State) ProcessIssuance(by string, id string, action IssuanceAction) (database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.registry.Get(by)
	if err != nil {
		return database.Tx{}, policy.ErrUnauthorized
	}

	var kind policy.Kind
	switch action {
	case ActionCertify:
		kind = policy.KindCertifyIssuance
	case ActionScrutinize:
		kind = policy.KindScrutinizeIssuance
	case ActionReject:
		kind = policy.KindRejectIssuance
	default:
		return database.Tx{}, errUnknownAction
	}
	if err := policy.Authorize(actor.Role, kind); err != nil {
		return database.Tx{}, err
	}

	req, exists := s.issuances[id]
	if !exists {
		return database.Tx{}, ErrIssuanceNotFound
	}

	switch action {
	case ActionCertify:
		tx, err := s.proposeIssuance(req.Producer, req.Amount, fmt.Sprintf("Certified Issuance ID: %s", req.ID))
		if err != nil {
			return database.Tx{}, err
		}
		delete(s.issuances, id)
		s.evHandler("event: IssuanceCertified: id[%s] by[%s] tx[%s]", id, by, tx.ID)
		return tx, nil

	case ActionScrutinize:
		req.Status = IssuanceScrutiny
		s.issuances[id] = req
		s.evHandler("event: IssuanceScrutinized: id[%s] by[%s]", id, by)
		return database.Tx{}, nil

	default:
		delete(s.issuances, id)
		s.evHandler("event: IssuanceRejected: id[%s] by[%s]", id, by)
		return database.Tx{}, nil
	}
}

// Issuances returns a copy of the unresolved issuance requests in
// submission order. The sequence embedded in the id orders requests
// submitted in the same instant.
func (s *State) Issuances() []IssuanceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]IssuanceRequest, 0, len(s.issuances))
	for _, req := range s.issuances {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return issuanceSeq(out[i].ID) < issuanceSeq(out[j].ID) })

	return out
}

// issuanceSeq extracts the sequence number from an ISSUE-n id.
func issuanceSeq(id string) uint64 {
	seq, err := strconv.ParseUint(strings.TrimPrefix(id, "ISSUE-"), 10, 64)
	if err != nil {
		return 0
	}
	return seq
}
