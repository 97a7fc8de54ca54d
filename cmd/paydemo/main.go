package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:           "paydemo",
		Short:         "Demo storefront for the payment capture widget",
		Long:          `paydemo drives the capture widget headlessly: it creates a payment session, opens the isolated form frame, enters card details, and reports the token outcome.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
