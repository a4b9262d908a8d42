// This program provides an administrative client for the ledger service.
package main

import "github.com/hydrocredit/ledger/app/tooling/ledgeradmin/cmd"

func main() {
	cmd.Execute()
}
