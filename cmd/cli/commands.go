package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var bcryptGenerate = bcrypt.GenerateFromPassword

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// runAndPrint executes call and prints the indented JSON result.
func runAndPrint(cmd *cobra.Command, call func() (json.RawMessage, error)) error {
	raw, err := call()
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return printJSON(cmd.OutOrStdout(), raw)
}

func dateRange(from, to string) url.Values {
	q := url.Values{}
	if from != "" {
		q.Set("startDate", from)
	}
	if to != "" {
		q.Set("endDate", to)
	}
	return q
}

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <number>",
		Short: "Show an account by number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(opts.baseURL, opts.timeout)
			return runAndPrint(cmd, func() (json.RawMessage, error) {
				return c.get("/accounts/number/"+url.PathEscape(args[0]), nil)
			})
		},
	}

	var active string
	var clientID int64
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(opts.baseURL, opts.timeout)
			return runAndPrint(cmd, func() (json.RawMessage, error) {
				if clientID > 0 {
					return c.get("/accounts/client/"+strconv.FormatInt(clientID, 10), nil)
				}
				q := url.Values{}
				if active != "" {
					q.Set("active", active)
				}
				return c.get("/accounts", q)
			})
		},
	}
	listCmd.Flags().StringVar(&active, "active", "", "Filter by status (true or false)")
	listCmd.Flags().Int64Var(&clientID, "client", 0, "Only accounts of this client ID")

	cmd.AddCommand(getCmd, listCmd)
	return cmd
}

func movementsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movements",
		Short: "Movement operations",
	}

	var input struct {
		AccountNumber string `json:"accountNumber"`
		Type          string `json:"type"`
		Amount        string `json:"amount"`
		Description   string `json:"description,omitempty"`
	}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Record a credit or debit",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(opts.baseURL, opts.timeout)
			c.idempotencyKey = opts.idempotencyKey
			return runAndPrint(cmd, func() (json.RawMessage, error) {
				return c.do(http.MethodPost, "/movements", nil, input)
			})
		},
	}
	createCmd.Flags().StringVar(&input.AccountNumber, "account", "", "Account number")
	createCmd.Flags().StringVar(&input.Type, "type", "", "CREDIT or DEBIT")
	createCmd.Flags().StringVar(&input.Amount, "amount", "", "Amount")
	createCmd.Flags().StringVar(&input.Description, "description", "", "Description")
	createCmd.Flags().StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency-Key header value")
	_ = createCmd.MarkFlagRequired("account")
	_ = createCmd.MarkFlagRequired("type")
	_ = createCmd.MarkFlagRequired("amount")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Reverse and remove a movement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(opts.baseURL, opts.timeout)
			if _, err := c.do(http.MethodDelete, "/movements/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "movement %s deleted\n", args[0])
			return nil
		},
	}

	var from, to, movementType string
	listCmd := &cobra.Command{
		Use:   "list <account-number>",
		Short: "List the movements of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(opts.baseURL, opts.timeout)
			q := dateRange(from, to)
			if movementType != "" {
				q.Set("type", movementType)
			}
			return runAndPrint(cmd, func() (json.RawMessage, error) {
				return c.get("/movements/account/"+url.PathEscape(args[0]), q)
			})
		},
	}
	listCmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD or RFC3339)")
	listCmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD or RFC3339)")
	listCmd.Flags().StringVar(&movementType, "type", "", "CREDIT or DEBIT")

	cmd.AddCommand(createCmd, deleteCmd, listCmd)
	return cmd
}

func reportsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Account statements",
	}

	var from, to string
	newReportCmd := func(use, short, prefix string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c := newAPIClient(opts.baseURL, opts.timeout)
				return runAndPrint(cmd, func() (json.RawMessage, error) {
					return c.get(prefix+url.PathEscape(args[0]), dateRange(from, to))
				})
			},
		}
	}

	clientCmd := newReportCmd("client <client-id>", "Statement of a client by ID", "/reports/client/")
	personaCmd := newReportCmd("persona <identification>", "Statement of a client by identification", "/reports/persona/")
	cmd.PersistentFlags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD or RFC3339)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "End date (YYYY-MM-DD or RFC3339)")

	cmd.AddCommand(clientCmd, personaCmd)
	return cmd
}

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [account-number]",
		Short: "Check recorded balances against movements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(opts.baseURL, opts.timeout)
			if len(args) == 1 {
				return runAndPrint(cmd, func() (json.RawMessage, error) {
					return c.get("/accounts/number/"+url.PathEscape(args[0])+"/reconciliation", nil)
				})
			}

			raw, err := c.get("/reconciliation", nil)
			if err != nil {
				return err
			}
			return printReconciliationReport(cmd.OutOrStdout(), raw)
		},
	}
}

func printReconciliationReport(w io.Writer, raw json.RawMessage) error {
	var report struct {
		TotalAccounts      int `json:"totalAccounts"`
		ReconciledAccounts int `json:"reconciledAccounts"`
		Discrepancies      []struct {
			AccountNumber     string `json:"accountNumber"`
			RecordedBalance   string `json:"recordedBalance"`
			CalculatedBalance string `json:"calculatedBalance"`
			Difference        string `json:"difference"`
		} `json:"discrepancies"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Fprintf(w, "Accounts: %d, reconciled: %d\n", report.TotalAccounts, report.ReconciledAccounts)
	if len(report.Discrepancies) == 0 {
		fmt.Fprintln(w, "Reconciliation PASSED")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tRECORDED\tCALCULATED\tDIFFERENCE")
	for _, d := range report.Discrepancies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.AccountNumber, d.RecordedBalance, d.CalculatedBalance, d.Difference)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	return fmt.Errorf("reconciliation FAILED for %d account(s)", len(report.Discrepancies))
}

func clientsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Client operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <identification>",
		Short: "Show a client by identification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(opts.clientURL, opts.timeout)
			return runAndPrint(cmd, func() (json.RawMessage, error) {
				return c.get("/clients/identification/"+url.PathEscape(args[0]), nil)
			})
		},
	}

	cmd.AddCommand(getCmd, hashPasswordCmd())
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash stored for a client password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}
