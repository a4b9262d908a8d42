package cmd

import (
	"log"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	issueProducer string
	issueAmount   uint64
	issueBy       string
	issueID       string
	issueAction   string
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Submit an issuance request for a producer.",
	Run:   issueRun,
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Certify, scrutinize or reject an issuance request.",
	Run:   processRun,
}

func init() {
	rootCmd.AddCommand(issueCmd)
	issueCmd.Flags().StringVarP(&issueProducer, "producer", "p", "", "Producer account requesting credits.")
	issueCmd.Flags().Uint64VarP(&issueAmount, "amount", "m", 0, "Number of credits requested.")
	issueCmd.MarkFlagRequired("producer")
	issueCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVarP(&issueBy, "by", "b", "", "Account acting on the request.")
	processCmd.Flags().StringVarP(&issueID, "id", "i", "", "Issuance request id.")
	processCmd.Flags().StringVarP(&issueAction, "action", "a", "Certify", "Certify, Scrutinize or Reject.")
	processCmd.MarkFlagRequired("by")
	processCmd.MarkFlagRequired("id")
}

func issueRun(cmd *cobra.Command, args []string) {
	req := struct {
		Producer string `json:"producer"`
		Amount   uint64 `json:"amount"`
	}{
		Producer: issueProducer,
		Amount:   issueAmount,
	}

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := post("/v1/issuance", req, &out); err != nil {
		log.Fatal(err)
	}

	pterm.Success.Printfln("issuance request %s submitted: %s", out.ID, out.Status)
}

func processRun(cmd *cobra.Command, args []string) {
	req := struct {
		By     string `json:"by"`
		ID     string `json:"id"`
		Action string `json:"action"`
	}{
		By:     issueBy,
		ID:     issueID,
		Action: issueAction,
	}

	var out struct {
		ID     string `json:"id"`
		Action string `json:"action"`
		TxID   string `json:"tx_id"`
	}
	if err := post("/v1/issuance/process", req, &out); err != nil {
		log.Fatal(err)
	}

	if out.TxID != "" {
		pterm.Success.Printfln("request %s %sed: tx %s", out.ID, out.Action, out.TxID)
		return
	}
	pterm.Success.Printfln("request %s %sed", out.ID, out.Action)
}
