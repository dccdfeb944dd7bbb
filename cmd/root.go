package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "billing-gateway",
	Short: "BancoEstado to Splynx billing gateway",
	Long:  "A compatibility gateway that lets the BancoEstado payment switch query customers and post payments against Splynx.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
