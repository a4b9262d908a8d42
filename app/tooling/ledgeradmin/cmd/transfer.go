package cmd

import (
	"log"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	transferSender    string
	transferRecipient string
	transferAmount    uint64
	transferDetails   string
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Propose a credit transfer.",
	Run:   transferRun,
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.Flags().StringVarP(&transferSender, "sender", "s", "", "Account sending the credits.")
	transferCmd.Flags().StringVarP(&transferRecipient, "recipient", "r", "", "Account receiving the credits.")
	transferCmd.Flags().Uint64VarP(&transferAmount, "amount", "m", 0, "Number of credits to transfer.")
	transferCmd.Flags().StringVarP(&transferDetails, "details", "d", "", "Free form details for the transaction.")
	transferCmd.MarkFlagRequired("sender")
	transferCmd.MarkFlagRequired("recipient")
	transferCmd.MarkFlagRequired("amount")
}

func transferRun(cmd *cobra.Command, args []string) {
	req := struct {
		Sender    string `json:"sender"`
		Recipient string `json:"recipient"`
		Amount    uint64 `json:"amount"`
		Details   string `json:"details"`
	}{
		Sender:    transferSender,
		Recipient: transferRecipient,
		Amount:    transferAmount,
		Details:   transferDetails,
	}

	var tx struct {
		ID   string `json:"id"`
		Hash string `json:"hash"`
	}
	if err := post("/v1/tx/transfer", req, &tx); err != nil {
		log.Fatal(err)
	}

	pterm.Success.Printfln("transaction %s added to the pending pool", tx.ID)
}
