package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cashdesk-cli",
		Short: "Cashdesk CLI tool",
		Long:  `A command line interface for interacting with the cashdesk API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the cashdesk API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Drawer commands
	drawerCmd := &cobra.Command{
		Use:   "drawer",
		Short: "Drawer operations",
	}

	verifyCmd := &cobra.Command{
		Use:   "verify [drawer-id]",
		Short: "Replay a drawer's ledger and compare against cached balances",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			verifyDrawer(args[0])
		},
	}

	balancesCmd := &cobra.Command{
		Use:   "balances [drawer-id]",
		Short: "Show a drawer's cached per-currency balances",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showBalances(args[0])
		},
	}

	drawerCmd.AddCommand(verifyCmd, balancesCmd)
	rootCmd.AddCommand(drawerCmd)

	// Shift commands
	shiftCmd := &cobra.Command{
		Use:   "shift",
		Short: "Shift operations",
	}

	expectedCmd := &cobra.Command{
		Use:   "expected [shift-id]",
		Short: "Project the expected per-currency balances of a shift",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showExpected(args[0])
		},
	}

	shiftCmd.AddCommand(expectedCmd)
	rootCmd.AddCommand(shiftCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func verifyDrawer(drawerID string) {
	body, status := get("/api/v1/drawers/" + drawerID + "/verify")
	if status != http.StatusOK {
		fmt.Printf("Verification FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result struct {
		DrawerID   string `json:"drawer_id"`
		Consistent bool   `json:"consistent"`
		Checks     []struct {
			CurrencyID string `json:"currency_id"`
			Ledger     string `json:"ledger"`
			Cached     string `json:"cached"`
			ChainValid bool   `json:"chain_valid"`
			Match      bool   `json:"match"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if result.Consistent {
		fmt.Printf("Drawer %s is CONSISTENT\n", result.DrawerID)
	} else {
		fmt.Printf("Drawer %s has DRIFT\n", result.DrawerID)
	}
	for _, c := range result.Checks {
		fmt.Printf("  %s: ledger=%s cached=%s chain_valid=%v match=%v\n",
			c.CurrencyID, c.Ledger, c.Cached, c.ChainValid, c.Match)
	}
	if !result.Consistent {
		os.Exit(1)
	}
}

func showBalances(drawerID string) {
	body, status := get("/api/v1/drawers/" + drawerID + "/balances")
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var balances []struct {
		CurrencyID string `json:"currency_id"`
		Balance    string `json:"balance"`
	}
	if err := json.Unmarshal(body, &balances); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Balances for drawer %s:\n", drawerID)
	for _, b := range balances {
		fmt.Printf("  %s: %s\n", b.CurrencyID, b.Balance)
	}
}

func showExpected(shiftID string) {
	body, status := get("/api/v1/shifts/" + shiftID + "/expected")
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result struct {
		ShiftID  string            `json:"shift_id"`
		Expected map[string]string `json:"expected"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Expected balances for shift %s:\n", result.ShiftID)
	for currency, amount := range result.Expected {
		fmt.Printf("  %s: %s\n", currency, amount)
	}
}
