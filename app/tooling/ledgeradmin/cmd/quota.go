package cmd

import (
	"log"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	quotaBy      string
	quotaAccount string
	quotaLimit   uint64
	quotaClear   bool
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Set or clear the holding quota for an account.",
	Run:   quotaRun,
}

func init() {
	rootCmd.AddCommand(quotaCmd)
	quotaCmd.Flags().StringVarP(&quotaBy, "by", "b", "", "Government account setting the quota.")
	quotaCmd.Flags().StringVarP(&quotaAccount, "name", "n", "", "Account the quota applies to.")
	quotaCmd.Flags().Uint64VarP(&quotaLimit, "limit", "l", 0, "Maximum credits the account may acquire per transaction.")
	quotaCmd.Flags().BoolVarP(&quotaClear, "clear", "c", false, "Clear the quota instead of setting it.")
	quotaCmd.MarkFlagRequired("by")
	quotaCmd.MarkFlagRequired("name")
}

func quotaRun(cmd *cobra.Command, args []string) {
	req := struct {
		By    string `json:"by"`
		Name  string `json:"name"`
		Limit uint64 `json:"limit"`
		Clear bool   `json:"clear"`
	}{
		By:    quotaBy,
		Name:  quotaAccount,
		Limit: quotaLimit,
		Clear: quotaClear,
	}

	if err := post("/v1/quotas", req, nil); err != nil {
		log.Fatal(err)
	}

	if quotaClear {
		pterm.Success.Printfln("quota cleared for %s", quotaAccount)
		return
	}
	pterm.Success.Printfln("quota for %s set to %d", quotaAccount, quotaLimit)
}
