package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/grocerycompare/backend/internal/cli"
)

var (
	apiURL  string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "grocery-compare",
	Short: "Compares the price of a shopping list across grocery stores.",
	Long: "Prompts for a shopping list, sends it to the comparison API and prints " +
		"each store's matched items and total, cheapest store first.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		req, err := prompter.ReadShoppingList()
		if err != nil {
			return err
		}
		if len(req.Items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Shopping list is empty, nothing to compare.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "\nComparing prices...")
		fmt.Fprintln(cmd.OutOrStdout())

		client := cli.NewAPIClient(apiURL, timeout)
		quotes, err := client.Compare(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("error fetching comparison results: %w", err)
		}

		cli.RenderQuotes(cmd.OutOrStdout(), quotes)
		return nil
	},
}

func main() {
	rootCmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "base URL of the comparison API")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "how long to wait for the comparison")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
