package cmd

import (
	"fmt"
	"log"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print chain information.",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) {
	var ci struct {
		Length       uint64 `json:"length"`
		LatestIndex  uint64 `json:"latest_block_index"`
		LatestHash   string `json:"latest_block_hash"`
		PendingCount int    `json:"pending_transactions"`
	}
	if err := get("/v1/chain/info", &ci); err != nil {
		log.Fatal(err)
	}

	data := pterm.TableData{
		{"length", fmt.Sprintf("%d", ci.Length)},
		{"latest block", fmt.Sprintf("%d", ci.LatestIndex)},
		{"latest hash", ci.LatestHash},
		{"pending", fmt.Sprintf("%d", ci.PendingCount)},
	}
	if err := pterm.DefaultTable.WithData(data).Render(); err != nil {
		log.Fatal(err)
	}
}
