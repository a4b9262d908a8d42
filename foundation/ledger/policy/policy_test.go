package policy_test

import (
	"errors"
	"testing"

	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/policy"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newRegistry(t *testing.T) *account.Registry {
	t.Helper()

	reg, err := account.NewRegistry("")
	if err != nil {
		t.Fatalf("constructing registry: %v", err)
	}

	accounts := []struct {
		name string
		role account.Role
	}{
		{"alice", account.RoleProducer},
		{"bob", account.RoleFactory},
		{"carol", account.RoleCitizen},
		{"frosty", account.RoleCitizen},
	}
	for _, a := range accounts {
		if _, err := reg.Register(a.name, a.role, nil); err != nil {
			t.Fatalf("registering %s: %v", a.name, err)
		}
	}

	if err := reg.SetFrozen("frosty", true); err != nil {
		t.Fatalf("freezing frosty: %v", err)
	}

	return reg
}

func Test_Validate(t *testing.T) {
	type table struct {
		name   string
		intent policy.Intent
		quota  map[string]uint64
		err    error
	}

	tt := []table{
		{
			name:   "valid transfer",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "alice", Recipient: "bob", Amount: 100},
		},
		{
			name:   "valid issuance",
			intent: policy.Intent{Kind: policy.KindIssue, Sender: account.SentinelCertifier, Recipient: "alice", Amount: 100},
		},
		{
			name:   "zero amount",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "alice", Recipient: "bob", Amount: 0},
			err:    policy.ErrInvalidAmount,
		},
		{
			name:   "self transfer",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "alice", Recipient: "alice", Amount: 10},
			err:    policy.ErrSelfTransfer,
		},
		{
			name:   "unknown sender",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "mallory", Recipient: "bob", Amount: 10},
			err:    policy.ErrUnknownSender,
		},
		{
			name:   "unknown recipient",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "alice", Recipient: "mallory", Amount: 10},
			err:    policy.ErrUnknownRecipient,
		},
		{
			name:   "frozen sender",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "frosty", Recipient: "bob", Amount: 10},
			err:    policy.ErrAccountFrozen,
		},
		{
			name:   "frozen recipient",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "alice", Recipient: "frosty", Amount: 10},
			err:    policy.ErrAccountFrozen,
		},
		{
			name:   "transfer over recipient quota",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "alice", Recipient: "bob", Amount: 60},
			quota:  map[string]uint64{"bob": 50},
			err:    policy.ErrQuotaExceeded,
		},
		{
			name:   "transfer at recipient quota",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "alice", Recipient: "bob", Amount: 50},
			quota:  map[string]uint64{"bob": 50},
		},
		{
			name:   "sender quota does not bind the paying side",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: "alice", Recipient: "bob", Amount: 60},
			quota:  map[string]uint64{"alice": 50},
		},
		{
			name:   "issuance over recipient quota",
			intent: policy.Intent{Kind: policy.KindIssue, Sender: account.SentinelCertifier, Recipient: "alice", Amount: 60},
			quota:  map[string]uint64{"alice": 50},
			err:    policy.ErrQuotaExceeded,
		},
		{
			name:   "sentinel cannot transfer",
			intent: policy.Intent{Kind: policy.KindTransfer, Sender: account.SentinelSystem, Recipient: "bob", Amount: 10},
			err:    policy.ErrUnauthorized,
		},
		{
			name:   "issuance requires a sentinel sender",
			intent: policy.Intent{Kind: policy.KindIssue, Sender: "alice", Recipient: "bob", Amount: 10},
			err:    policy.ErrUnauthorized,
		},
	}

	t.Log("Given the need to validate proposed transactions.")
	{
		reg := newRegistry(t)

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking %s.", testID, tst.name)
			{
				quotas, err := policy.NewQuotas("")
				if err != nil {
					t.Fatalf("\t%s\tShould be able to construct quotas: %v", failed, err)
				}
				for name, limit := range tst.quota {
					if err := quotas.Set(name, limit); err != nil {
						t.Fatalf("\t%s\tShould be able to set a quota: %v", failed, err)
					}
				}

				err = policy.Validate(tst.intent, reg, quotas)
				if !errors.Is(err, tst.err) {
					t.Fatalf("\t%s\tShould get the expected outcome: got %v exp %v", failed, err, tst.err)
				}
				t.Logf("\t%s\tShould get the expected outcome.", success)

				// The check is idempotent, a second call must agree.
				if err2 := policy.Validate(tst.intent, reg, quotas); !errors.Is(err2, tst.err) {
					t.Fatalf("\t%s\tShould get the same outcome on a repeat call: got %v exp %v", failed, err2, tst.err)
				}
				t.Logf("\t%s\tShould get the same outcome on a repeat call.", success)
			}
		}
	}
}

func Test_Authorize(t *testing.T) {
	t.Log("Given the need to enforce the role permission table.")
	{
		t.Logf("\tTest 0:\tWhen checking role gated operations.")
		{
			if err := policy.Authorize(account.RoleGovernment, policy.KindFreeze); err != nil {
				t.Fatalf("\t%s\tShould allow Government to freeze accounts: %v", failed, err)
			}
			t.Logf("\t%s\tShould allow Government to freeze accounts.", success)

			if err := policy.Authorize(account.RoleFactory, policy.KindFreeze); !errors.Is(err, policy.ErrUnauthorized) {
				t.Fatalf("\t%s\tShould deny Factory the freeze operation: %v", failed, err)
			}
			t.Logf("\t%s\tShould deny Factory the freeze operation.", success)

			if err := policy.Authorize(account.RoleStatePoll, policy.KindCertifyIssuance); err != nil {
				t.Fatalf("\t%s\tShould allow StatePoll to certify issuances: %v", failed, err)
			}
			t.Logf("\t%s\tShould allow StatePoll to certify issuances.", success)

			if err := policy.Authorize(account.RoleGovernment, policy.KindScrutinizeIssuance); !errors.Is(err, policy.ErrUnauthorized) {
				t.Fatalf("\t%s\tShould deny Government the scrutinize operation: %v", failed, err)
			}
			t.Logf("\t%s\tShould deny Government the scrutinize operation.", success)

			if err := policy.Authorize(account.RoleCitizen, policy.KindTransfer); err != nil {
				t.Fatalf("\t%s\tShould leave transfers open to any role: %v", failed, err)
			}
			t.Logf("\t%s\tShould leave transfers open to any role.", success)
		}
	}
}
