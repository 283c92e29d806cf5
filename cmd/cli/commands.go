package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// bcryptGenerate is swapped in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func printResponse(cmd *cobra.Command, method, path string, body any) error {
	resp, err := call(method, path, body)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

func clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Client operations",
	}

	create := &cobra.Command{
		Use:   "create <prenom> <nom>",
		Short: "Create a client, or return the existing one with the same names",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd, http.MethodPost, "/api/clients", map[string]string{
				"prenom": args[0],
				"nom":    args[1],
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd, http.MethodGet, "/api/clients/"+url.PathEscape(args[0]), nil)
		},
	}

	accounts := &cobra.Command{
		Use:   "accounts <id>",
		Short: "List the accounts of a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd, http.MethodGet, "/api/clients/"+url.PathEscape(args[0])+"/comptes", nil)
		},
	}

	cmd.AddCommand(create, get, accounts)

	return cmd
}

func comptesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comptes",
		Aliases: []string{"accounts"},
		Short:   "Account operations",
	}

	open := &cobra.Command{
		Use:   "open <client-id> <solde>",
		Short: "Open an account for a client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			solde, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return printResponse(cmd, http.MethodPost, "/api/clients/"+url.PathEscape(args[0])+"/comptes", map[string]any{"solde": solde})
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show the position of an account (recorded as an inquiry)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd, http.MethodGet, accountPath(args[0]), nil)
		},
	}

	ops := &cobra.Command{
		Use:   "ops <id>",
		Short: "List the operations of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := call(http.MethodGet, accountPath(args[0])+"/operations", nil)
			if err != nil {
				return err
			}
			return printOperations(cmd, resp)
		},
	}

	cmd.AddCommand(
		open,
		get,
		ops,
		operationCmd("credit", "CREDIT", "Credit an account"),
		operationCmd("debit", "DEBIT", "Debit an account"),
		virementCmd(),
		closeCmd(),
	)

	return cmd
}

func accountPath(id string) string {
	return "/api/comptes/" + url.PathEscape(id)
}

func operationCmd(use, kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> <valeur>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			valeur, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return printResponse(cmd, http.MethodPost, accountPath(args[0])+"/operations", map[string]any{
				"valeur":        valeur,
				"operationType": kind,
			})
		},
	}
}

func virementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "virement <source-id> <destination-id> <valeur>",
		Short: "Transfer money between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			valeur, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return printResponse(cmd, http.MethodPost, accountPath(args[0])+"/operations/virements", map[string]any{
				"valeur":               valeur,
				"idCompteDestinataire": args[1],
			})
		},
	}
}

func closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Close an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := call(http.MethodDelete, accountPath(args[0]), nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s closed\n", args[0])
			return nil
		},
	}
}

type operationRow struct {
	ID            string          `json:"id"`
	OperationType string          `json:"operationType"`
	Valeur        decimal.Decimal `json:"valeur"`
	DateOperation string          `json:"dateOperation"`
}

func printOperations(cmd *cobra.Command, raw []byte) error {
	var ops []operationRow
	if err := json.Unmarshal(raw, &ops); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tVALEUR\tDATE")
	for _, op := range ops {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", truncate(op.ID, 12), op.OperationType, op.Valeur, op.DateOperation)
	}

	return w.Flush()
}

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication",
	}

	login := &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Obtain a token pair; export access_token as GOBANK_TOKEN",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd, http.MethodPost, "/api/v1/auth/authenticate", map[string]string{
				"email":    args[0],
				"password": args[1],
			})
		},
	}

	var firstName, lastName string
	register := &cobra.Command{
		Use:   "register <email> <password>",
		Short: "Register an API user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd, http.MethodPost, "/api/v1/auth/register", map[string]string{
				"firstname": firstName,
				"lastname":  lastName,
				"email":     args[0],
				"password":  args[1],
			})
		},
	}
	register.Flags().StringVar(&firstName, "firstname", "", "First name")
	register.Flags().StringVar(&lastName, "lastname", "", "Last name")
	_ = register.MarkFlagRequired("firstname")
	_ = register.MarkFlagRequired("lastname")

	cmd.AddCommand(login, register)

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(hash)))
			return nil
		},
	}
}
