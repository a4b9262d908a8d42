// Package risk provides advisory risk verdicts for ledger accounts. The
// verdicts are informational only and never gate a ledger operation.
package risk

import (
	"context"
	"fmt"

	"github.com/hydrocredit/ledger/foundation/ledger/database"
)

// The set of verdicts an assessor can produce.
const (
	VerdictLow      = "Low"
	VerdictElevated = "Elevated"
	VerdictHigh     = "High"
)

// Advisory is the result of assessing an account.
type Advisory struct {
	Account string   `json:"account"`
	Score   float64  `json:"score"`
	Verdict string   `json:"verdict"`
	Summary string   `json:"summary"`
	Reasons []string `json:"reasons,omitempty"`
}

// Assessor declares the behavior required to produce an advisory for an
// account given its committed balance and recent transactions.
type Assessor interface {
	Assess(ctx context.Context, account string, balance uint64, history []database.Tx) (Advisory, error)
}

// =============================================================================

// Heuristic implements Assessor with a fixed set of rules over the
// account's recent activity.
type Heuristic struct {

	// LargeAmount is the single-transaction amount considered notable.
	LargeAmount uint64
}

// NewHeuristic constructs a rule based assessor.
func NewHeuristic(largeAmount uint64) *Heuristic {
	return &Heuristic{
		LargeAmount: largeAmount,
	}
}

// Assess applies the rules and produces an advisory.
func (h *Heuristic) Assess(ctx context.Context, account string, balance uint64, history []database.Tx) (Advisory, error) {
	adv := Advisory{
		Account: account,
		Verdict: VerdictLow,
	}

	var outgoing uint64
	var large int
	for _, tx := range history {
		if tx.Sender == account {
			outgoing += tx.Amount
		}
		if tx.Amount >= h.LargeAmount {
			large++
		}
	}

	if large > 0 {
		adv.Score += 0.3
		adv.Verdict = VerdictElevated
		adv.Reasons = append(adv.Reasons, "large transactions in recent activity")
	}

	// An account spending more than its remaining balance in recent history
	// is drawing down quickly.
	if outgoing > balance {
		adv.Score += 0.4
		adv.Verdict = VerdictHigh
		adv.Reasons = append(adv.Reasons, "recent outflow exceeds remaining balance")
	}

	if balance == 0 && len(history) > 0 {
		adv.Score += 0.3
		adv.Verdict = VerdictHigh
		adv.Reasons = append(adv.Reasons, "account fully drawn down")
	}

	adv.Summary = fmt.Sprintf("%d recent transactions, %d outgoing credits, %d on balance", len(history), outgoing, balance)

	return adv, nil
}
