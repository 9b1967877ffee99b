package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const autoKey = "auto"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// apiClient talks to the creditledger HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

// apiError is a non-2xx answer from the API.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Body)
}

func (c *apiClient) do(ctx context.Context, method, path string, body any, idempotencyKey string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBody, &apiError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(respBody))}
	}

	return respBody, nil
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "creditledger-cli",
		Short:         "Credit ledger CLI tool",
		Long:          `A command line interface for interacting with the credit ledger API.`,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.baseURL = baseURL
			client.http = &http.Client{Timeout: timeout}
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the credit ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		sellerCmd(client),
		creditCmd(client),
		chargeCmd(client),
		transactionsCmd(client),
		ledgerCmd(client),
	)

	return rootCmd
}

func sellerCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seller",
		Short: "Seller operations",
	}

	var principal string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Onboard a seller for a principal",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"principal_id": principal}
			return printResponse(cmd, client, http.MethodPost, "/api/v1/sellers/", body, "")
		},
	}
	createCmd.Flags().StringVar(&principal, "principal", "", "External principal ID owning the seller")
	_ = createCmd.MarkFlagRequired("principal")

	getCmd := &cobra.Command{
		Use:   "get SELLER_ID",
		Short: "Show a seller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd, client, http.MethodGet, "/api/v1/sellers/"+url.PathEscape(args[0]), nil, "")
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance SELLER_ID",
		Short: "Show a seller balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd, client, http.MethodGet, "/api/v1/sellers/"+url.PathEscape(args[0])+"/balance", nil, "")
		},
	}

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sellers",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))
			return printResponse(cmd, client, http.MethodGet, "/api/v1/sellers/?"+q.Encode(), nil, "")
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of sellers")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Number of sellers to skip")

	cmd.AddCommand(createCmd, getCmd, balanceCmd, listCmd)
	return cmd
}

func creditCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credit",
		Short: "Credit operations",
	}

	var key string
	increaseCmd := &cobra.Command{
		Use:   "increase SELLER_ID AMOUNT",
		Short: "Add credit to a seller",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"amount": args[1]}
			path := "/api/v1/sellers/" + url.PathEscape(args[0]) + "/credit"
			return printResponse(cmd, client, http.MethodPost, path, body, resolveKey(cmd, key))
		},
	}
	addKeyFlag(increaseCmd, &key)

	cmd.AddCommand(increaseCmd)
	return cmd
}

func chargeCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charge",
		Short: "Charge operations",
	}

	var key string
	sellCmd := &cobra.Command{
		Use:   "sell SELLER_ID PHONE_NUMBER AMOUNT",
		Short: "Sell a charge to a phone number",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"phone_number": args[1], "amount": args[2]}
			path := "/api/v1/sellers/" + url.PathEscape(args[0]) + "/charges"
			return printResponse(cmd, client, http.MethodPost, path, body, resolveKey(cmd, key))
		},
	}
	addKeyFlag(sellCmd, &key)

	cmd.AddCommand(sellCmd)
	return cmd
}

func transactionsCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions",
	}

	var (
		creditSeller string
		creditLimit  int
	)
	creditListCmd := &cobra.Command{
		Use:   "credit [SELLER_ID]",
		Short: "List credit transactions of one seller or of all sellers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := "limit=" + strconv.Itoa(creditLimit)
			if len(args) == 1 {
				path := "/api/v1/sellers/" + url.PathEscape(args[0]) + "/credit-transactions?" + limit
				return printResponse(cmd, client, http.MethodGet, path, nil, "")
			}

			q := url.Values{}
			if creditSeller != "" {
				q.Set("seller_id", creditSeller)
			}
			q.Set("limit", strconv.Itoa(creditLimit))
			return printResponse(cmd, client, http.MethodGet, "/api/v1/credit-transactions?"+q.Encode(), nil, "")
		},
	}
	creditListCmd.Flags().StringVar(&creditSeller, "seller", "", "Filter by seller ID")
	creditListCmd.Flags().IntVar(&creditLimit, "limit", 100, "Maximum number of transactions")

	var (
		seller      string
		phone       string
		chargeLimit int
	)
	chargeListCmd := &cobra.Command{
		Use:   "charge",
		Short: "List charge transactions, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if seller != "" {
				q.Set("seller_id", seller)
			}
			if phone != "" {
				q.Set("phone_number", phone)
			}
			q.Set("limit", strconv.Itoa(chargeLimit))
			return printResponse(cmd, client, http.MethodGet, "/api/v1/charge-transactions?"+q.Encode(), nil, "")
		},
	}
	chargeListCmd.Flags().StringVar(&seller, "seller", "", "Filter by seller ID")
	chargeListCmd.Flags().StringVar(&phone, "phone", "", "Filter by phone number")
	chargeListCmd.Flags().IntVar(&chargeLimit, "limit", 100, "Maximum number of transactions")

	cmd.AddCommand(creditListCmd, chargeListCmd)
	return cmd
}

func ledgerCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency(cmd, client)
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile SELLER_ID",
		Short: "Compare a seller balance with its transaction history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/sellers/" + url.PathEscape(args[0]) + "/reconciliation"
			return printResponse(cmd, client, http.MethodGet, path, nil, "")
		},
	}

	cmd.AddCommand(consistencyCmd, reconcileCmd)
	return cmd
}

func checkConsistency(cmd *cobra.Command, client *apiClient) error {
	out := cmd.OutOrStdout()

	body, err := client.do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, "")
	if err != nil {
		var apiErr *apiError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
			return err
		}
		fmt.Fprintf(out, "Consistency check FAILED\n")
		printJSON(out, body)
		return errors.New("ledger is inconsistent")
	}

	var result struct {
		Status       string `json:"status"`
		Consistent   bool   `json:"consistent"`
		TotalSellers int    `json:"total_sellers"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Fprintf(out, "Consistency check PASSED\n")
	fmt.Fprintf(out, "Consistent: %v\n", result.Consistent)
	fmt.Fprintf(out, "Sellers: %d\n", result.TotalSellers)
	fmt.Fprintf(out, "Status: %s\n", result.Status)
	return nil
}

func addKeyFlag(cmd *cobra.Command, key *string) {
	cmd.Flags().StringVar(key, "idempotency-key", "", `Idempotency key; "auto" generates one`)
}

// resolveKey expands "auto" into a fresh UUID and echoes it so the caller can
// retry with the same key.
func resolveKey(cmd *cobra.Command, key string) string {
	if key != autoKey {
		return key
	}
	generated := uuid.NewString()
	fmt.Fprintf(cmd.ErrOrStderr(), "Idempotency-Key: %s\n", generated)
	return generated
}

func printResponse(cmd *cobra.Command, client *apiClient, method, path string, body any, key string) error {
	resp, err := client.do(cmd.Context(), method, path, body, key)
	if err != nil {
		return err
	}
	printJSON(cmd.OutOrStdout(), resp)
	return nil
}

// printJSON re-indents a JSON body, falling back to the raw bytes.
func printJSON(out io.Writer, body []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		fmt.Fprintln(out, string(body))
		return
	}
	fmt.Fprintln(out, buf.String())
}
