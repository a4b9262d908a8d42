package cmd

import (
	"fmt"
	"log"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the registered accounts with balances.",
	Run:   accountsRun,
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble the pending pool into a new block.",
	Run:   assembleRun,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(assembleCmd)
}

func accountsRun(cmd *cobra.Command, args []string) {
	var ai struct {
		LatestBlock string `json:"latest_block"`
		Uncommitted int    `json:"uncommitted"`
		Accounts    []struct {
			Account  string `json:"account"`
			Role     string `json:"role"`
			Frozen   bool   `json:"frozen"`
			Balance  uint64 `json:"balance"`
			Quota    uint64 `json:"quota"`
			HasQuota bool   `json:"has_quota"`
		} `json:"accounts"`
	}
	if err := get("/v1/accounts", &ai); err != nil {
		log.Fatal(err)
	}

	data := pterm.TableData{{"account", "role", "frozen", "balance", "quota"}}
	for _, act := range ai.Accounts {
		quota := "-"
		if act.HasQuota {
			quota = fmt.Sprintf("%d", act.Quota)
		}
		data = append(data, []string{act.Account, act.Role, fmt.Sprintf("%t", act.Frozen), fmt.Sprintf("%d", act.Balance), quota})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		log.Fatal(err)
	}

	pterm.Info.Printfln("latest block %s, %d uncommitted", ai.LatestBlock, ai.Uncommitted)
}

func assembleRun(cmd *cobra.Command, args []string) {
	var block struct {
		Index uint64 `json:"index"`
		Hash  string `json:"hash"`
		Proof uint64 `json:"proof"`
	}
	if err := post("/v1/blocks/assemble", nil, &block); err != nil {
		log.Fatal(err)
	}

	pterm.Success.Printfln("block %d assembled: proof %d hash %s", block.Index, block.Proof, block.Hash)
}
