package state_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/database"
	"github.com/hydrocredit/ledger/foundation/ledger/genesis"
	"github.com/hydrocredit/ledger/foundation/ledger/hashing"
	"github.com/hydrocredit/ledger/foundation/ledger/policy"
	"github.com/hydrocredit/ledger/foundation/ledger/state"
	"github.com/hydrocredit/ledger/foundation/ledger/storage/memory"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// newLedger constructs a ledger against in-memory storage with alice and bob
// registered. Difficulty is kept at one hex zero so proof assembly stays
// cheap in tests.
func newLedger(t *testing.T) *state.State {
	t.Helper()

	strg, err := memory.New()
	if err != nil {
		t.Fatalf("constructing storage: %v", err)
	}

	reg, err := account.NewRegistry("")
	if err != nil {
		t.Fatalf("constructing registry: %v", err)
	}
	if _, err := reg.Register("GovtAdmin", account.RoleGovernment, nil); err != nil {
		t.Fatalf("registering GovtAdmin: %v", err)
	}
	if _, err := reg.Register("alice", account.RoleProducer, map[string]string{"capacity": "5000"}); err != nil {
		t.Fatalf("registering alice: %v", err)
	}
	if _, err := reg.Register("bob", account.RoleFactory, nil); err != nil {
		t.Fatalf("registering bob: %v", err)
	}

	quotas, err := policy.NewQuotas("")
	if err != nil {
		t.Fatalf("constructing quotas: %v", err)
	}

	s, err := state.New(state.Config{
		Genesis: genesis.Genesis{
			Date:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			ChainID:      1,
			Difficulty:   1,
			GenesisProof: 100,
		},
		Storage:  strg,
		Registry: reg,
		Quotas:   quotas,
	})
	if err != nil {
		t.Fatalf("constructing state: %v", err)
	}

	return s
}

func Test_IssuanceAndTransfer(t *testing.T) {
	t.Log("Given the need to issue and transfer credits.")
	{
		s := newLedger(t)

		t.Logf("\tTest 0:\tWhen issuing 1000 credits to alice.")
		{
			if _, err := s.ProposeIssuance("alice", 1000, "genesis"); err != nil {
				t.Fatalf("\t%s\tShould accept the issuance: %v", failed, err)
			}
			if _, err := s.AssembleBlock(); err != nil {
				t.Fatalf("\t%s\tShould assemble a block: %v", failed, err)
			}

			if balance := s.Balance("alice"); balance != 1000 {
				t.Fatalf("\t%s\tShould credit alice with 1000: got %d", failed, balance)
			}
			t.Logf("\t%s\tShould credit alice with 1000.", success)
		}

		t.Logf("\tTest 1:\tWhen alice sells 300 credits to bob.")
		{
			if _, err := s.ProposeTransfer("alice", "bob", 300, "sale"); err != nil {
				t.Fatalf("\t%s\tShould accept the transfer: %v", failed, err)
			}
			if _, err := s.AssembleBlock(); err != nil {
				t.Fatalf("\t%s\tShould assemble a block: %v", failed, err)
			}

			if balance := s.Balance("alice"); balance != 700 {
				t.Fatalf("\t%s\tShould leave alice with 700: got %d", failed, balance)
			}
			t.Logf("\t%s\tShould leave alice with 700.", success)

			if balance := s.Balance("bob"); balance != 300 {
				t.Fatalf("\t%s\tShould credit bob with 300: got %d", failed, balance)
			}
			t.Logf("\t%s\tShould credit bob with 300.", success)
		}

		t.Logf("\tTest 2:\tWhen alice attempts an overdraft.")
		{
			before := s.ChainInfo()

			if _, err := s.ProposeTransfer("alice", "bob", 10000, "overdraft"); !errors.Is(err, policy.ErrInsufficientBalance) {
				t.Fatalf("\t%s\tShould reject with insufficient balance: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject with insufficient balance.", success)

			after := s.ChainInfo()
			if before != after {
				t.Fatalf("\t%s\tShould leave the chain and pool unchanged: before %+v after %+v", failed, before, after)
			}
			if s.Balance("alice") != 700 || s.Balance("bob") != 300 {
				t.Fatalf("\t%s\tShould leave the balances unchanged.", failed)
			}
			t.Logf("\t%s\tShould leave the chain, pool and balances unchanged.", success)
		}
	}
}

func Test_FreezeEnforcement(t *testing.T) {
	t.Log("Given the need to enforce account freezing.")
	{
		s := newLedger(t)

		if _, err := s.ProposeIssuance("alice", 100, "seed"); err != nil {
			t.Fatalf("\t%s\tShould accept the issuance: %v", failed, err)
		}
		if _, err := s.AssembleBlock(); err != nil {
			t.Fatalf("\t%s\tShould assemble a block: %v", failed, err)
		}

		t.Logf("\tTest 0:\tWhen alice is frozen.")
		{
			if err := s.SetFrozen("GovtAdmin", "alice", true); err != nil {
				t.Fatalf("\t%s\tShould be able to freeze alice: %v", failed, err)
			}

			if _, err := s.ProposeTransfer("alice", "bob", 10, "blocked"); !errors.Is(err, policy.ErrAccountFrozen) {
				t.Fatalf("\t%s\tShould reject a transfer from a frozen sender: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject a transfer from a frozen sender.", success)

			if _, err := s.ProposeTransfer("bob", "alice", 10, "blocked"); !errors.Is(err, policy.ErrAccountFrozen) {
				t.Fatalf("\t%s\tShould reject a transfer to a frozen recipient: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject a transfer to a frozen recipient.", success)
		}

		t.Logf("\tTest 1:\tWhen alice is unfrozen.")
		{
			if err := s.SetFrozen("GovtAdmin", "alice", false); err != nil {
				t.Fatalf("\t%s\tShould be able to unfreeze alice: %v", failed, err)
			}

			if _, err := s.ProposeTransfer("alice", "bob", 10, "unblocked"); err != nil {
				t.Fatalf("\t%s\tShould accept the previously blocked transfer: %v", failed, err)
			}
			t.Logf("\t%s\tShould accept the previously blocked transfer.", success)
		}

		t.Logf("\tTest 2:\tWhen a non government account attempts a freeze.")
		{
			if err := s.SetFrozen("bob", "alice", true); !errors.Is(err, policy.ErrUnauthorized) {
				t.Fatalf("\t%s\tShould reject the freeze as unauthorized: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject the freeze as unauthorized.", success)
		}
	}
}

func Test_QuotaEnforcement(t *testing.T) {
	t.Log("Given the need to enforce per account quotas.")
	{
		s := newLedger(t)

		if _, err := s.ProposeIssuance("alice", 1000, "seed"); err != nil {
			t.Fatalf("\t%s\tShould accept the issuance: %v", failed, err)
		}
		if _, err := s.AssembleBlock(); err != nil {
			t.Fatalf("\t%s\tShould assemble a block: %v", failed, err)
		}

		t.Logf("\tTest 0:\tWhen bob has a consumption quota of 50.")
		{
			if err := s.SetQuota("GovtAdmin", "bob", 50); err != nil {
				t.Fatalf("\t%s\tShould be able to set the quota: %v", failed, err)
			}

			if _, err := s.ProposeTransfer("alice", "bob", 60, "over quota"); !errors.Is(err, policy.ErrQuotaExceeded) {
				t.Fatalf("\t%s\tShould reject a transfer crediting bob over quota: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject a transfer crediting bob over quota.", success)

			if _, err := s.ProposeTransfer("alice", "bob", 50, "at quota"); err != nil {
				t.Fatalf("\t%s\tShould accept a transfer at the quota: %v", failed, err)
			}
			t.Logf("\t%s\tShould accept a transfer at the quota.", success)
		}

		t.Logf("\tTest 1:\tWhen alice has a production quota of 200.")
		{
			if err := s.SetQuota("GovtAdmin", "alice", 200); err != nil {
				t.Fatalf("\t%s\tShould be able to set the quota: %v", failed, err)
			}

			if _, err := s.ProposeIssuance("alice", 250, "over quota"); !errors.Is(err, policy.ErrQuotaExceeded) {
				t.Fatalf("\t%s\tShould reject an issuance over the quota: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject an issuance over the quota.", success)

			// The quota binds the acquiring side only, alice can still pay out.
			if _, err := s.RegisterAccount("carol", account.RoleCitizen, nil); err != nil {
				t.Fatalf("\t%s\tShould be able to register carol: %v", failed, err)
			}
			if _, err := s.ProposeTransfer("alice", "carol", 300, "paying side unbound"); err != nil {
				t.Fatalf("\t%s\tShould not bind the paying side of a transfer: %v", failed, err)
			}
			t.Logf("\t%s\tShould not bind the paying side of a transfer.", success)
		}

		t.Logf("\tTest 2:\tWhen the quota is cleared.")
		{
			if err := s.ClearQuota("GovtAdmin", "alice"); err != nil {
				t.Fatalf("\t%s\tShould be able to clear the quota: %v", failed, err)
			}

			if _, err := s.ProposeIssuance("alice", 250, "unlimited again"); err != nil {
				t.Fatalf("\t%s\tShould accept the issuance with no quota: %v", failed, err)
			}
			t.Logf("\t%s\tShould accept the issuance with no quota.", success)
		}
	}
}

func Test_NoDoubleSpend(t *testing.T) {
	t.Log("Given the need to prevent a double spend across concurrent transfers.")
	{
		s := newLedger(t)

		if _, err := s.ProposeIssuance("alice", 500, "seed"); err != nil {
			t.Fatalf("\t%s\tShould accept the issuance: %v", failed, err)
		}
		if _, err := s.AssembleBlock(); err != nil {
			t.Fatalf("\t%s\tShould assemble a block: %v", failed, err)
		}

		t.Logf("\tTest 0:\tWhen two concurrent transfers each request the full balance.")
		{
			var wg sync.WaitGroup
			results := make([]error, 2)

			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, results[i] = s.ProposeTransfer("alice", "bob", 500, "full balance")
				}(i)
			}
			wg.Wait()

			var accepted, rejected int
			for _, err := range results {
				switch {
				case err == nil:
					accepted++
				case errors.Is(err, policy.ErrInsufficientBalance):
					rejected++
				default:
					t.Fatalf("\t%s\tShould only reject with insufficient balance: %v", failed, err)
				}
			}

			if accepted != 1 || rejected != 1 {
				t.Fatalf("\t%s\tShould accept exactly one transfer: accepted %d rejected %d", failed, accepted, rejected)
			}
			t.Logf("\t%s\tShould accept exactly one transfer and reject the other.", success)

			if _, err := s.AssembleBlock(); err != nil {
				t.Fatalf("\t%s\tShould assemble the surviving transfer: %v", failed, err)
			}
			if s.Balance("alice") != 0 || s.Balance("bob") != 500 {
				t.Fatalf("\t%s\tShould move the full balance exactly once: alice %d bob %d", failed, s.Balance("alice"), s.Balance("bob"))
			}
			t.Logf("\t%s\tShould move the full balance exactly once.", success)
		}
	}
}

func Test_ChainInvariants(t *testing.T) {
	t.Log("Given the need to keep the chain invariants.")
	{
		s := newLedger(t)

		for i := 0; i < 3; i++ {
			if _, err := s.ProposeIssuance("alice", 100, "seed"); err != nil {
				t.Fatalf("\t%s\tShould accept the issuance: %v", failed, err)
			}
			if _, err := s.AssembleBlock(); err != nil {
				t.Fatalf("\t%s\tShould assemble a block: %v", failed, err)
			}
		}

		t.Logf("\tTest 0:\tWhen walking the committed chain.")
		{
			blocks, err := s.Blocks()
			if err != nil {
				t.Fatalf("\t%s\tShould be able to read the chain: %v", failed, err)
			}
			if len(blocks) == 0 {
				t.Fatalf("\t%s\tShould never have an empty chain.", failed)
			}
			t.Logf("\t%s\tShould never have an empty chain.", success)

			for i := 1; i < len(blocks); i++ {
				if blocks[i].PrevHash != blocks[i-1].Hash {
					t.Fatalf("\t%s\tShould link block %d to its parent: got %s exp %s", failed, blocks[i].Index, blocks[i].PrevHash, blocks[i-1].Hash)
				}
				if blocks[i].Index != blocks[i-1].Index+1 {
					t.Fatalf("\t%s\tShould number blocks contiguously.", failed)
				}
			}
			t.Logf("\t%s\tShould link every block to its parent hash.", success)
		}

		t.Logf("\tTest 1:\tWhen reconciling balances against the full chain.")
		{
			blocks, err := s.Blocks()
			if err != nil {
				t.Fatalf("\t%s\tShould be able to read the chain: %v", failed, err)
			}

			replayed := make(map[string]int64)
			for _, block := range blocks {
				for _, tx := range block.Trans {
					replayed[tx.Recipient] += int64(tx.Amount)
					if !account.IsSentinel(tx.Sender) {
						replayed[tx.Sender] -= int64(tx.Amount)
					}
				}
			}

			for name, want := range replayed {
				if want < 0 {
					t.Fatalf("\t%s\tShould never replay to a negative balance: %s is %d", failed, name, want)
				}
				if got := s.Balance(name); int64(got) != want {
					t.Fatalf("\t%s\tShould match the replayed balance for %s: got %d exp %d", failed, name, got, want)
				}
			}
			t.Logf("\t%s\tShould match the cached balance to a full replay.", success)
		}

		t.Logf("\tTest 2:\tWhen calling ChainInfo twice without mutations.")
		{
			if first, second := s.ChainInfo(), s.ChainInfo(); first != second {
				t.Fatalf("\t%s\tShould return identical results: %+v vs %+v", failed, first, second)
			}
			t.Logf("\t%s\tShould return identical results.", success)
		}
	}
}

func Test_History(t *testing.T) {
	t.Log("Given the need to query an account's transaction history.")
	{
		s := newLedger(t)

		if _, err := s.ProposeIssuance("alice", 1000, "seed"); err != nil {
			t.Fatalf("\t%s\tShould accept the issuance: %v", failed, err)
		}
		if _, err := s.AssembleBlock(); err != nil {
			t.Fatalf("\t%s\tShould assemble a block: %v", failed, err)
		}
		if _, err := s.ProposeTransfer("alice", "bob", 100, "committed sale"); err != nil {
			t.Fatalf("\t%s\tShould accept the transfer: %v", failed, err)
		}
		if _, err := s.AssembleBlock(); err != nil {
			t.Fatalf("\t%s\tShould assemble a block: %v", failed, err)
		}
		if _, err := s.ProposeTransfer("alice", "bob", 50, "pending sale"); err != nil {
			t.Fatalf("\t%s\tShould accept the pending transfer: %v", failed, err)
		}

		t.Logf("\tTest 0:\tWhen reading alice's history.")
		{
			history, err := s.History("alice", 0)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to read the history: %v", failed, err)
			}

			if len(history) != 3 {
				t.Fatalf("\t%s\tShould see all three transactions: got %d", failed, len(history))
			}
			t.Logf("\t%s\tShould see all three transactions.", success)

			if history[0].Details != "pending sale" || history[1].Details != "committed sale" || history[2].Details != "seed" {
				t.Fatalf("\t%s\tShould order most recent first: %v", failed, history)
			}
			t.Logf("\t%s\tShould order most recent first with the pool on top.", success)
		}

		t.Logf("\tTest 1:\tWhen bounding the history.")
		{
			history, err := s.History("alice", 2)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to read the history: %v", failed, err)
			}
			if len(history) != 2 {
				t.Fatalf("\t%s\tShould respect the limit: got %d", failed, len(history))
			}
			t.Logf("\t%s\tShould respect the limit.", success)
		}
	}
}

func Test_IssuanceWorkflow(t *testing.T) {
	t.Log("Given the need to certify producer issuance requests.")
	{
		s := newLedger(t)

		if _, err := s.RegisterAccount("StatePollGujarat", account.RoleStatePoll, nil); err != nil {
			t.Fatalf("\t%s\tShould be able to register a state poll account: %v", failed, err)
		}

		t.Logf("\tTest 0:\tWhen alice submits and the request is certified.")
		{
			req, err := s.SubmitIssuance("alice", 400)
			if err != nil {
				t.Fatalf("\t%s\tShould accept the submission: %v", failed, err)
			}
			if req.Status != state.IssuancePending {
				t.Fatalf("\t%s\tShould start in pending verification: %s", failed, req.Status)
			}
			t.Logf("\t%s\tShould start in pending verification.", success)

			tx, err := s.ProcessIssuance("StatePollGujarat", req.ID, state.ActionCertify)
			if err != nil {
				t.Fatalf("\t%s\tShould certify the request: %v", failed, err)
			}
			if tx.Sender != account.SentinelCertifier || tx.Recipient != "alice" || tx.Amount != 400 {
				t.Fatalf("\t%s\tShould pool a certifier issuance transaction: %+v", failed, tx)
			}
			t.Logf("\t%s\tShould pool a certifier issuance transaction.", success)

			if _, err := s.AssembleBlock(); err != nil {
				t.Fatalf("\t%s\tShould assemble the block: %v", failed, err)
			}
			if s.Balance("alice") != 400 {
				t.Fatalf("\t%s\tShould credit alice once committed: got %d", failed, s.Balance("alice"))
			}
			t.Logf("\t%s\tShould credit alice once committed.", success)

			if len(s.Issuances()) != 0 {
				t.Fatalf("\t%s\tShould remove the resolved request.", failed)
			}
			t.Logf("\t%s\tShould remove the resolved request.", success)
		}

		t.Logf("\tTest 1:\tWhen a request is scrutinized and then rejected.")
		{
			req, err := s.SubmitIssuance("alice", 9000)
			if err != nil {
				t.Fatalf("\t%s\tShould accept the submission: %v", failed, err)
			}

			if _, err := s.ProcessIssuance("GovtAdmin", req.ID, state.ActionScrutinize); !errors.Is(err, policy.ErrUnauthorized) {
				t.Fatalf("\t%s\tShould deny Government the scrutinize action: %v", failed, err)
			}
			t.Logf("\t%s\tShould deny Government the scrutinize action.", success)

			if _, err := s.ProcessIssuance("StatePollGujarat", req.ID, state.ActionScrutinize); err != nil {
				t.Fatalf("\t%s\tShould let StatePoll scrutinize: %v", failed, err)
			}
			if reqs := s.Issuances(); len(reqs) != 1 || reqs[0].Status != state.IssuanceScrutiny {
				t.Fatalf("\t%s\tShould mark the request under scrutiny: %+v", failed, reqs)
			}
			t.Logf("\t%s\tShould mark the request under scrutiny.", success)

			if _, err := s.ProcessIssuance("GovtAdmin", req.ID, state.ActionReject); err != nil {
				t.Fatalf("\t%s\tShould let Government reject: %v", failed, err)
			}
			if len(s.Issuances()) != 0 {
				t.Fatalf("\t%s\tShould remove the rejected request.", failed)
			}
			t.Logf("\t%s\tShould remove the rejected request.", success)
		}

		t.Logf("\tTest 2:\tWhen a frozen producer submits.")
		{
			if err := s.SetFrozen("GovtAdmin", "alice", true); err != nil {
				t.Fatalf("\t%s\tShould be able to freeze alice: %v", failed, err)
			}
			if _, err := s.SubmitIssuance("alice", 100); !errors.Is(err, policy.ErrAccountFrozen) {
				t.Fatalf("\t%s\tShould reject a frozen producer: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject a frozen producer.", success)
		}
	}
}

func Test_GenesisAllocation(t *testing.T) {
	t.Log("Given the need to seed balances through the genesis block.")
	{
		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
		}

		reg, err := account.NewRegistry("")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a registry: %v", failed, err)
		}
		quotas, err := policy.NewQuotas("")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct quotas: %v", failed, err)
		}

		gen := genesis.Genesis{
			Date:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			Difficulty:   1,
			GenesisProof: 100,
			Balances:     map[string]uint64{"treasury": 10000},
		}

		t.Logf("\tTest 0:\tWhen starting a fresh chain.")
		{
			s, err := state.New(state.Config{Genesis: gen, Storage: strg, Registry: reg, Quotas: quotas})
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
			}

			info := s.ChainInfo()
			if info.Length != 1 {
				t.Fatalf("\t%s\tShould hold exactly the genesis block: got %d", failed, info.Length)
			}
			t.Logf("\t%s\tShould hold exactly the genesis block.", success)

			if balance := s.Balance("treasury"); balance != 10000 {
				t.Fatalf("\t%s\tShould credit the seed balance: got %d", failed, balance)
			}
			t.Logf("\t%s\tShould credit the seed balance.", success)
		}

		t.Logf("\tTest 1:\tWhen restarting on the same storage.")
		{
			s, err := state.New(state.Config{Genesis: gen, Storage: strg, Registry: reg, Quotas: quotas})
			if err != nil {
				t.Fatalf("\t%s\tShould replay the existing chain: %v", failed, err)
			}

			info := s.ChainInfo()
			if info.Length != 1 {
				t.Fatalf("\t%s\tShould not create a second genesis block: got %d", failed, info.Length)
			}
			t.Logf("\t%s\tShould not create a second genesis block.", success)

			if balance := s.Balance("treasury"); balance != 10000 {
				t.Fatalf("\t%s\tShould restore the seed balance: got %d", failed, balance)
			}
			t.Logf("\t%s\tShould restore the seed balance.", success)
		}
	}
}

func Test_PendingPoolRestore(t *testing.T) {
	t.Log("Given the need to carry the pending pool across a restart.")
	{
		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
		}

		reg, err := account.NewRegistry("")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a registry: %v", failed, err)
		}
		if _, err := reg.Register("alice", account.RoleProducer, nil); err != nil {
			t.Fatalf("\t%s\tShould be able to register alice: %v", failed, err)
		}
		if _, err := reg.Register("bob", account.RoleFactory, nil); err != nil {
			t.Fatalf("\t%s\tShould be able to register bob: %v", failed, err)
		}

		quotas, err := policy.NewQuotas("")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct quotas: %v", failed, err)
		}

		gen := genesis.Genesis{
			Date:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			Difficulty:   1,
			GenesisProof: 100,
		}

		var pool []database.Tx

		t.Logf("\tTest 0:\tWhen shutting down with transactions in the pool.")
		{
			s, err := state.New(state.Config{Genesis: gen, Storage: strg, Registry: reg, Quotas: quotas})
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
			}

			if _, err := s.ProposeIssuance("alice", 1000, "verified production"); err != nil {
				t.Fatalf("\t%s\tShould accept the issuance: %v", failed, err)
			}
			if _, err := s.AssembleBlock(); err != nil {
				t.Fatalf("\t%s\tShould assemble a block: %v", failed, err)
			}

			if _, err := s.ProposeTransfer("alice", "bob", 300, "sale"); err != nil {
				t.Fatalf("\t%s\tShould accept the transfer: %v", failed, err)
			}
			if _, err := s.ProposeIssuance("alice", 200, "verified production"); err != nil {
				t.Fatalf("\t%s\tShould accept the second issuance: %v", failed, err)
			}

			pool = s.Mempool()
			if len(pool) != 2 {
				t.Fatalf("\t%s\tShould hold two pending transactions: got %d", failed, len(pool))
			}
			t.Logf("\t%s\tShould hold two pending transactions.", success)

			if err := s.Shutdown(); err != nil {
				t.Fatalf("\t%s\tShould be able to shut down: %v", failed, err)
			}
		}

		t.Logf("\tTest 1:\tWhen restarting with the saved pool.")
		{
			s, err := state.New(state.Config{Genesis: gen, Storage: strg, Registry: reg, Quotas: quotas, Pending: pool})
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
			}

			restored := s.Mempool()
			if len(restored) != len(pool) {
				t.Fatalf("\t%s\tShould restore every pending transaction: got %d, exp %d", failed, len(restored), len(pool))
			}
			for i := range pool {
				if restored[i].ID != pool[i].ID {
					t.Fatalf("\t%s\tShould preserve transaction ids and order: position %d got %s, exp %s", failed, i, restored[i].ID, pool[i].ID)
				}
				if restored[i].TimeStamp != pool[i].TimeStamp {
					t.Fatalf("\t%s\tShould preserve transaction timestamps: position %d", failed, i)
				}
			}
			t.Logf("\t%s\tShould restore every pending transaction unchanged.", success)

			if _, err := s.AssembleBlock(); err != nil {
				t.Fatalf("\t%s\tShould assemble the restored pool: %v", failed, err)
			}

			if balance := s.Balance("alice"); balance != 900 {
				t.Fatalf("\t%s\tShould commit the restored transfer and issuance: alice got %d, exp %d", failed, balance, 900)
			}
			if balance := s.Balance("bob"); balance != 300 {
				t.Fatalf("\t%s\tShould commit the restored transfer: bob got %d, exp %d", failed, balance, 300)
			}
			t.Logf("\t%s\tShould commit the restored pool.", success)
		}

		t.Logf("\tTest 2:\tWhen the saved pool holds a transaction that no longer validates.")
		{
			bad := database.NewTx("bob", "alice", 99999, "stale")

			s, err := state.New(state.Config{Genesis: gen, Storage: strg, Registry: reg, Quotas: quotas, Pending: []database.Tx{bad}})
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
			}

			if count := len(s.Mempool()); count != 0 {
				t.Fatalf("\t%s\tShould drop the transaction that exceeds the balance: got %d pending", failed, count)
			}
			t.Logf("\t%s\tShould drop the transaction that exceeds the balance.", success)
		}
	}
}

func Test_IssuanceOrdering(t *testing.T) {
	t.Log("Given the need for a stable issuance request listing.")
	{
		s := newLedger(t)

		t.Logf("\tTest 0:\tWhen requests are submitted back to back.")
		{
			var ids []string
			for i := 0; i < 5; i++ {
				req, err := s.SubmitIssuance("alice", 100)
				if err != nil {
					t.Fatalf("\t%s\tShould accept the issuance request: %v", failed, err)
				}
				ids = append(ids, req.ID)
			}

			reqs := s.Issuances()
			if len(reqs) != len(ids) {
				t.Fatalf("\t%s\tShould list every unresolved request: got %d, exp %d", failed, len(reqs), len(ids))
			}
			for i, req := range reqs {
				if req.ID != ids[i] {
					t.Fatalf("\t%s\tShould list requests in submission order: position %d got %s, exp %s", failed, i, req.ID, ids[i])
				}
			}
			t.Logf("\t%s\tShould list requests in submission order.", success)
		}
	}
}

func Test_ConstructionFaults(t *testing.T) {
	t.Log("Given the need to surface storage corruption as an internal fault.")
	{
		t.Logf("\tTest 0:\tWhen the stored chain fails validation on replay.")
		{
			strg, err := memory.New()
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
			}

			tampered := database.Block{
				Index:     1,
				TimeStamp: 1,
				Proof:     100,
				PrevHash:  hashing.ZeroHash,
				Hash:      "0xdead",
			}
			if err := strg.Write(tampered); err != nil {
				t.Fatalf("\t%s\tShould be able to seed the tampered block: %v", failed, err)
			}

			reg, err := account.NewRegistry("")
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct a registry: %v", failed, err)
			}
			quotas, err := policy.NewQuotas("")
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct quotas: %v", failed, err)
			}

			gen := genesis.Genesis{
				Date:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
				Difficulty:   1,
				GenesisProof: 100,
			}

			_, err = state.New(state.Config{Genesis: gen, Storage: strg, Registry: reg, Quotas: quotas})
			if err == nil {
				t.Fatalf("\t%s\tShould refuse to construct over a tampered chain.", failed)
			}
			if !state.IsInternal(err) {
				t.Fatalf("\t%s\tShould surface the fault as internal: %v", failed, err)
			}
			t.Logf("\t%s\tShould surface the fault as internal.", success)
		}
	}
}
