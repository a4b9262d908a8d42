package mempool_test

import (
	"testing"

	"github.com/hydrocredit/ledger/foundation/ledger/database"
	"github.com/hydrocredit/ledger/foundation/ledger/mempool"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Mempool(t *testing.T) {
	t.Log("Given the need to manage the pending pool.")
	{
		t.Logf("\tTest 0:\tWhen appending and draining transactions.")
		{
			mp := mempool.New()

			txs := []database.Tx{
				database.NewTx("alice", "bob", 100, "first"),
				database.NewTx("alice", "carol", 50, "second"),
				database.NewTx("bob", "alice", 25, "third"),
			}
			for _, tx := range txs {
				mp.Append(tx)
			}

			if mp.Count() != 3 {
				t.Fatalf("\t%s\tShould hold every appended transaction: got %d exp 3", failed, mp.Count())
			}
			t.Logf("\t%s\tShould hold every appended transaction.", success)

			cpy := mp.Copy()
			for i, tx := range cpy {
				if tx.ID != txs[i].ID {
					t.Fatalf("\t%s\tShould preserve arrival order: position %d got %s", failed, i, tx.ID)
				}
			}
			t.Logf("\t%s\tShould preserve arrival order.", success)

			if debit := mp.PendingDebit("alice"); debit != 150 {
				t.Fatalf("\t%s\tShould total the pending debits per sender: got %d exp 150", failed, debit)
			}
			t.Logf("\t%s\tShould total the pending debits per sender.", success)

			cpy[0].Amount = 999
			if mp.Copy()[0].Amount == 999 {
				t.Fatalf("\t%s\tShould hand out copies, not the live pool.", failed)
			}
			t.Logf("\t%s\tShould hand out copies, not the live pool.", success)

			mp.Truncate()
			if mp.Count() != 0 {
				t.Fatalf("\t%s\tShould be empty after truncate: got %d", failed, mp.Count())
			}
			t.Logf("\t%s\tShould be empty after truncate.", success)
		}
	}
}
