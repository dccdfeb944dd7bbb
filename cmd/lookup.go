package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/mapper"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <rut>",
	Short: "Resolve a customer and print the REST envelope",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		deps, cleanup := mustCreateGateway()
		defer cleanup()

		out := deps.gateway.Query(context.Background(), &types.ResolveCustomerRequest{FiscalIdentifier: args[0]})
		body, err := json.MarshalIndent(mapper.QueryEnvelope(out), "", "  ")
		if err != nil {
			logrus.WithError(err).Fatal("Failed to encode lookup result")
		}
		fmt.Fprintln(os.Stdout, string(body))
		if !out.Success() {
			cleanup()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
