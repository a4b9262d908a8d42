package cmd

import (
	"fmt"
	"log"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Print the committed balance for an account.",
	Args:  cobra.ExactArgs(1),
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	var b struct {
		Account string `json:"account"`
		Balance uint64 `json:"balance"`
	}
	if err := get("/v1/balances/"+args[0], &b); err != nil {
		log.Fatal(err)
	}

	pterm.DefaultBasicText.Println(pterm.LightCyan(b.Account), fmt.Sprintf("%d", b.Balance))
}
