package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jwrobel/budzetnik/internal/categories"
	"github.com/jwrobel/budzetnik/internal/format"
	"github.com/jwrobel/budzetnik/internal/i18n"
	"github.com/jwrobel/budzetnik/internal/service"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	var verbose bool
	var requester int64

	root := &cobra.Command{
		Use:           "budzetnik",
		Short:         "Asystent wydatków: zapisuje, kategoryzuje i raportuje Twoje wydatki",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), verbose, requester)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().Int64Var(&requester, "requester", 0, "act as this requester id")

	root.AddCommand(
		newMessageCmd(a),
		newActionCmd(a),
		newConfirmCmd(a),
		newCancelCmd(a),
		newEditCmd(a),
		newPendingCmd(a),
		newUndoCmd(a),
		newSummaryCmd(a),
		newBalanceCmd(a),
		newSearchCmd(a),
		newLastCmd(a),
		newExpensesCmd(a),
		newExportCmd(a),
		newBudgetCmd(a),
		newRecurringCmd(a),
		newCategoriesCmd(a),
		newLanguageCmd(a),
		newImportSheetCmd(a),
		newSyncCmd(a),
		newResetCmd(a),
		newServeCmd(a),
	)
	return root
}

func printReply(r service.Reply) {
	fmt.Println(r.Text)
	for _, opt := range r.Options {
		fmt.Printf("  %-40s %s\n", opt.Data, opt.Label)
	}
}

func newMessageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "message <text...>",
		Short: "Prześlij wiadomość z wydatkiem do rozpoznania",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := a.controller.HandleText(cmd.Context(), a.requesterID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printReply(reply)
			return nil
		},
	}
}

func newActionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "action <data>",
		Short: "Wykonaj akcję na oczekującym wydatku (np. edit:<id>:0)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchID, action, err := service.ParseAction(args[0])
			if err != nil {
				return err
			}
			reply, err := a.controller.HandleAction(cmd.Context(), a.requesterID, batchID, action)
			if err != nil {
				return err
			}
			printReply(reply)
			return nil
		},
	}
}

func newConfirmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <batch-id>",
		Short: "Zatwierdź oczekujący wydatek",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := a.controller.HandleAction(cmd.Context(), a.requesterID, args[0],
				service.Action{Kind: service.ActionConfirm})
			if err != nil {
				return err
			}
			printReply(reply)
			return nil
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <batch-id>",
		Short: "Odrzuć oczekujący wydatek",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := a.controller.HandleAction(cmd.Context(), a.requesterID, args[0],
				service.Action{Kind: service.ActionCancel})
			if err != nil {
				return err
			}
			printReply(reply)
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <batch-id> [item]",
		Short: "Zmień kategorię pozycji w oczekującym wydatku",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := 0
			if len(args) == 2 {
				v, err := strconv.Atoi(args[1])
				if err != nil || v < 0 {
					return fmt.Errorf("invalid item index %q", args[1])
				}
				item = v
			}
			reply, err := a.controller.HandleAction(cmd.Context(), a.requesterID, args[0],
				service.Action{Kind: service.ActionEdit, Item: item})
			if err != nil {
				return err
			}
			printReply(reply)
			return nil
		},
	}
}

func newPendingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Pokaż oczekujące wydatki",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			batches, err := a.store.ListPending(cmd.Context(), a.requesterID)
			if err != nil {
				return err
			}
			if len(batches) == 0 {
				fmt.Println("Brak oczekujących wydatków.")
				return nil
			}
			for _, b := range batches {
				fmt.Printf("%s (%s)\n%s\n\n", b.ID, b.CreatedAt.Local().Format("15:04"), format.Preview(b.Records))
			}
			return nil
		},
	}
}

func newUndoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Cofnij ostatni zapisany wydatek",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := a.controller.Undo(cmd.Context(), a.requesterID)
			if err != nil {
				return err
			}
			printReply(reply)
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [month]",
		Short: "Podsumowanie wydatków za miesiąc",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.requireDB() {
				fmt.Println(i18n.T("db_required"))
				return nil
			}
			out, err := a.reporter.Summary(cmd.Context(), a.requesterID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [month]",
		Short: "Bilans przychodów i wydatków za miesiąc",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.requireDB() {
				fmt.Println(i18n.T("db_required"))
				return nil
			}
			out, err := a.reporter.Balance(cmd.Context(), a.requesterID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Szukaj w zapisanych wydatkach",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.requireDB() {
				fmt.Println(i18n.T("db_required"))
				return nil
			}
			out, err := a.reporter.Search(cmd.Context(), a.requesterID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func newLastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "last [n]",
		Short: "Ostatnie n wydatków (domyślnie 10)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.requireDB() {
				fmt.Println(i18n.T("db_required"))
				return nil
			}
			n := 10
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid count %q", args[0])
				}
				n = v
			}
			out, err := a.reporter.Recent(cmd.Context(), a.requesterID, n)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func newExpensesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "expenses <start> <end>",
		Short: "Wydatki w zakresie dat (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.requireDB() {
				fmt.Println(i18n.T("db_required"))
				return nil
			}
			out, err := a.reporter.ByDateRange(cmd.Context(), a.requesterID, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export [month]",
		Short: "Eksportuj miesiąc do CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.requireDB() {
				fmt.Println(i18n.T("db_required"))
				return nil
			}
			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			monthQuery := strings.Join(args, " ")
			n, err := a.reporter.ExportCSV(cmd.Context(), a.requesterID, monthQuery, w)
			if err != nil {
				return err
			}
			if n == 0 {
				monthName, _ := format.ResolveMonth(monthQuery, nowLocal())
				fmt.Fprintln(os.Stderr, i18n.T("export_no_data", monthName))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write CSV to file instead of stdout")
	return cmd
}

func newBudgetCmd(a *app) *cobra.Command {
	budget := &cobra.Command{
		Use:   "budget",
		Short: "Zarządzaj budżetami miesięcznymi",
	}
	budget.AddCommand(
		&cobra.Command{
			Use:   "set <category|total> <amount>",
			Short: "Ustaw limit miesięczny",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !a.requireDB() {
					fmt.Println(i18n.T("db_required"))
					return nil
				}
				limit, err := decimal.NewFromString(strings.Replace(args[1], ",", ".", 1))
				if err != nil {
					return fmt.Errorf("invalid amount %q", args[1])
				}
				out, err := a.manager.SetBudget(cmd.Context(), a.requesterID, args[0], limit)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <category|total>",
			Short: "Usuń limit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !a.requireDB() {
					fmt.Println(i18n.T("db_required"))
					return nil
				}
				out, err := a.manager.RemoveBudget(cmd.Context(), a.requesterID, args[0])
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Pokaż budżety i ich wykorzystanie",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if !a.requireDB() {
					fmt.Println(i18n.T("db_required"))
					return nil
				}
				out, err := a.reporter.BudgetReport(cmd.Context(), a.requesterID)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			},
		},
	)
	return budget
}

func newRecurringCmd(a *app) *cobra.Command {
	recurring := &cobra.Command{
		Use:   "recurring",
		Short: "Zarządzaj wydatkami cyklicznymi",
	}

	var amountStr, category, subcategory, desc, freq string
	var day int
	add := &cobra.Command{
		Use:   "add",
		Short: "Dodaj wydatek cykliczny",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.requireDB() {
				fmt.Println(i18n.T("db_required"))
				return nil
			}
			amount, err := decimal.NewFromString(strings.Replace(amountStr, ",", ".", 1))
			if err != nil {
				return fmt.Errorf("invalid amount %q", amountStr)
			}
			var dayPtr *int
			if cmd.Flags().Changed("day") {
				dayPtr = &day
			}
			out, err := a.manager.AddRecurring(cmd.Context(), a.requesterID,
				amount, category, subcategory, desc, freq, dayPtr)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	add.Flags().StringVar(&amountStr, "amount", "", "kwota")
	add.Flags().StringVar(&category, "category", "", "kategoria")
	add.Flags().StringVar(&subcategory, "subcategory", "", "podkategoria")
	add.Flags().StringVar(&desc, "desc", "", "opis")
	add.Flags().StringVar(&freq, "freq", "monthly", "daily | weekly | monthly")
	add.Flags().IntVar(&day, "day", 0, "dzień miesiąca (dla monthly)")
	_ = add.MarkFlagRequired("amount")
	_ = add.MarkFlagRequired("category")
	_ = add.MarkFlagRequired("subcategory")
	_ = add.MarkFlagRequired("desc")

	recurring.AddCommand(
		add,
		&cobra.Command{
			Use:   "list",
			Short: "Pokaż aktywne wydatki cykliczne",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if !a.requireDB() {
					fmt.Println(i18n.T("db_required"))
					return nil
				}
				out, err := a.manager.ListRecurring(cmd.Context(), a.requesterID)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Wyłącz wydatek cykliczny",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !a.requireDB() {
					fmt.Println(i18n.T("db_required"))
					return nil
				}
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid rule id %q", args[0])
				}
				out, err := a.manager.RemoveRecurring(cmd.Context(), a.requesterID, id)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			},
		},
	)
	return recurring
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Pokaż dostępne kategorie",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(categories.Display())
		},
	}
}

func newLanguageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "language <pl|en>",
		Short: "Ustaw język odpowiedzi",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			i18n.SetLanguage(code)
			if i18n.Language() != code {
				return fmt.Errorf("unsupported language %q", code)
			}
			if a.users != nil {
				if _, err := a.users.GetOrCreate(cmd.Context(), a.requesterID, ""); err != nil {
					return err
				}
				if err := a.users.SetLanguage(cmd.Context(), a.requesterID, code); err != nil {
					return err
				}
			}
			fmt.Println("OK: " + code)
			return nil
		},
	}
}

func newImportSheetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-sheet",
		Short: "Zaimportuj wiersze z arkusza do bazy danych",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.requireDB() {
				fmt.Println(i18n.T("db_required"))
				return nil
			}
			if a.ledger == nil {
				return fmt.Errorf("sheets mirror is not configured")
			}
			im := &service.Importer{Users: a.users, Expenses: a.expenses, Mirror: a.ledger, Log: a.log}
			rep, err := im.ImportAll(cmd.Context(), a.requesterID)
			if err != nil {
				return err
			}
			fmt.Printf("Zaimportowano %d z %d wierszy (%d pominięto).\n", rep.Imported, rep.Rows, rep.Skipped)
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Usuń wszystkie dane z bazy (schemat zostaje)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.requireDB() {
				fmt.Println(i18n.T("db_required"))
				return nil
			}
			if !yes {
				return fmt.Errorf("refusing to wipe data without --yes")
			}
			svc := &service.MaintenanceService{DB: a.db}
			if err := svc.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Baza wyczyszczona.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "potwierdź usunięcie danych")
	return cmd
}

func newSyncCmd(a *app) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Zsynchronizuj niedosłane wydatki z arkuszem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if full {
				rep, err := a.syncer.FullReconciliation(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("status=%s before=%d synced=%d after=%d\n", rep.Status, rep.Before, rep.Synced, rep.After)
				return nil
			}
			n, err := a.syncer.SyncUnsynced(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Zsynchronizowano %d wydatków.\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "pełna rekoncyliacja z raportem")
	return cmd
}
