package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"sales_call_app_go/config"
	"sales_call_app_go/db"
	"sales_call_app_go/models"
	"sales_call_app_go/services"

	"github.com/spf13/cobra"
)

// --- customers ---

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List an RM's customers",
	Long: `List an RM's customers with the same filters as the Customer Directory.

Examples:
  callctl customers --rm 001
  callctl customers --q grocery --status "New Lead" --sort Potential
  callctl customers --potential "H (High)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("q")
		status, _ := cmd.Flags().GetString("status")
		potential, _ := cmd.Flags().GetString("potential")
		sortKey, _ := cmd.Flags().GetString("sort")

		store, err := openStore(cmd.Context(), config.Load())
		if err != nil {
			return err
		}

		customers := services.QueryCustomers(store.CustomersFor(rmFlag(cmd)), services.CustomerFilter{
			Search:    search,
			Status:    status,
			Potential: potential,
		}, sortKey)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBUSINESS\tPHONE\tPOTENTIAL\tSTATUS\tLAST CONTACT\tCALLS")
		for _, c := range customers {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				c.ID, c.Name, c.Business, c.Phone, c.Potential, c.Status, c.LastContact, c.CallCount)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if len(customers) == 0 {
			printWarning("No customers match your search criteria.")
		}
		return nil
	},
}

func init() {
	customersCmd.Flags().String("q", "", "search by name or business")
	customersCmd.Flags().String("status", services.FilterAll, "filter by status")
	customersCmd.Flags().String("potential", services.FilterAll, `filter by potential, e.g. "H (High)"`)
	customersCmd.Flags().String("sort", services.SortByName, "sort key: "+strings.Join(services.SortKeys(), ", "))
}

// --- summary ---

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show an RM's performance metrics and recent calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("recent")
		rm := rmFlag(cmd)

		store, err := openStore(cmd.Context(), config.Load())
		if err != nil {
			return err
		}
		s := services.Summarize(store.CustomersFor(rm))

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, heading("Performance for RM "+rm))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, row := range []struct {
			label string
			value int
		}{
			{"Total Customers", s.Total},
			{"Completed Calls", s.Completed},
			{"Pending Calls", s.Pending},
			{"Missed Calls", s.Missed},
			{"High Potential", s.HighPotential},
			{"Medium Potential", s.MediumPotential},
			{"Low Potential", s.LowPotential},
		} {
			fmt.Fprintf(w, "  %s:\t%d\n", row.label, row.value)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(out, heading("Recent Call Log"))
		recent := services.RecentCalls(store, rm, limit)
		if len(recent) == 0 {
			fmt.Fprintln(out, "  No calls logged yet.")
		}
		for _, e := range recent {
			fmt.Fprintf(out, "  %s  %s (%s): %s\n", e.Date, e.Customer, e.Outcome, e.DisplayNotes())
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().Int("recent", services.DefaultRecentCallLimit, "number of recent calls to show")
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an RM's performance workbook (XLSX)",
	Long: `Write an RM's performance workbook with Summary, Customers and Call Log sheets.

Examples:
  callctl export --rm 001
  callctl export --rm 002 --out report.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		rm := rmFlag(cmd)
		if out == "" {
			out = services.ReportFilename(rm, time.Now())
		}

		store, err := openStore(cmd.Context(), config.Load())
		if err != nil {
			return err
		}

		buf, err := services.PerformanceReport(store, rm)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		printSuccess("Wrote %s", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "", "output file (default performance_<rm>_<timestamp>.xlsx)")
}

// --- activity ---

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show an RM's audit trail",
	Long: `Show logins, added customers, logged calls and exports recorded for an RM, newest first.

Examples:
  callctl activity --rm 001
  callctl activity --action CALL_LOGGED --since 24h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		action, _ := cmd.Flags().GetString("action")
		since, _ := cmd.Flags().GetDuration("since")
		limit, _ := cmd.Flags().GetInt("limit")

		if err := openAuditDB(config.Load()); err != nil {
			return err
		}
		defer db.Close()

		filters := services.AuditLogFilters{Action: models.AuditAction(strings.ToUpper(action))}
		if since > 0 {
			filters.DateFrom = time.Now().Add(-since)
		}

		logs, err := services.GetRMAuditLogs(db.DB, rmFlag(cmd), filters, limit)
		if err != nil {
			return fmt.Errorf("reading audit log: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tUSER\tACTION\tRESOURCE\tDESCRIPTION")
		for _, l := range logs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				l.CreatedAt.Local().Format(models.CallDateLayout), l.Username, l.Action, l.ResourceName, l.Description)
		}
		return w.Flush()
	},
}

func init() {
	activityCmd.Flags().String("action", "", "only show one action, e.g. LOGIN or CALL_LOGGED")
	activityCmd.Flags().Duration("since", 0, "only show events newer than this, e.g. 24h")
	activityCmd.Flags().Int("limit", 50, "maximum number of events")
}
