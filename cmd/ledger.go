/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jerry-enebeli/caixa/model"
)

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func importCommands(app *caixaInstance) *cobra.Command {
	var opts model.ImportOptions

	cmd := &cobra.Command{
		Use:   "import <suppliers|obligations|bank_movements> <file>",
		Short: "import a CSV or JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			summary, err := app.caixa.ImportFile(cmd.Context(), model.ImportKind(args[0]), f, filepath.Base(args[1]), opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&opts.CompanyID, "company", "", "company id for rows without one")
	cmd.Flags().StringVar(&opts.BankAccountID, "bank-account", "", "bank account for statements and paid amounts")
	cmd.Flags().StringVar(&opts.DefaultCategory, "default-category", "", "category for rows without one")
	return cmd
}

func dedupeCommands(app *caixaInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "merge duplicate suppliers and obligations",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.caixa.Deduplicate(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func reconcileCommands(app *caixaInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "bank reconciliation",
	}
	cmd.AddCommand(autoReconcileCommand(app))
	return cmd
}

func autoReconcileCommand(app *caixaInstance) *cobra.Command {
	criteria := model.DefaultMatchingCriteria()
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "auto <bank-account-id>",
		Short: "link statement lines to ledger entries automatically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.caixa.AutoReconcile(cmd.Context(), args[0], criteria, dryRun)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().Float64Var(&criteria.AmountDrift, "amount-drift", criteria.AmountDrift, "allowed amount difference in percent")
	cmd.Flags().IntVar(&criteria.DateDriftDays, "date-drift", criteria.DateDriftDays, "allowed date difference in days")
	cmd.Flags().Float64Var(&criteria.MinDescriptionSimilarity, "min-similarity", criteria.MinDescriptionSimilarity, "minimum description similarity between 0 and 1")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report links without storing them")
	return cmd
}

func refreshStatusesCommands(app *caixaInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-statuses",
		Short: "re-evaluate overdue obligations",
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := app.caixa.RefreshObligationStatuses(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d obligations\n", changed)
			return nil
		},
	}
}
