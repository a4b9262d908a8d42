package cmd

import (
	"log"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	freezeBy      string
	freezeAccount string
	freezeRelease bool
)

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Freeze or release an account.",
	Run:   freezeRun,
}

func init() {
	rootCmd.AddCommand(freezeCmd)
	freezeCmd.Flags().StringVarP(&freezeBy, "by", "b", "", "Government account performing the freeze.")
	freezeCmd.Flags().StringVarP(&freezeAccount, "name", "n", "", "Account to freeze or release.")
	freezeCmd.Flags().BoolVarP(&freezeRelease, "release", "r", false, "Release the account instead of freezing it.")
	freezeCmd.MarkFlagRequired("by")
	freezeCmd.MarkFlagRequired("name")
}

func freezeRun(cmd *cobra.Command, args []string) {
	req := struct {
		By     string `json:"by"`
		Name   string `json:"name"`
		Frozen bool   `json:"frozen"`
	}{
		By:     freezeBy,
		Name:   freezeAccount,
		Frozen: !freezeRelease,
	}

	if err := post("/v1/accounts/freeze", req, nil); err != nil {
		log.Fatal(err)
	}

	if freezeRelease {
		pterm.Success.Printfln("account %s released", freezeAccount)
		return
	}
	pterm.Success.Printfln("account %s frozen", freezeAccount)
}
