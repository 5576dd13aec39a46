package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/config"
	"github.com/kaba-chine/kaba-admin/internal/engine"
	"github.com/kaba-chine/kaba-admin/internal/filter"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/report"
	"github.com/kaba-chine/kaba-admin/internal/sheets"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports [period]",
		Short: "Compare deliveries with the previous period",
		Long: `Count deliveries per status over a period (day, week, month, quarter or
year, default month) and compare them with the period before it.`,
		Example: `  kaba reports
  kaba reports week
  kaba reports --timeline
  kaba reports export --spreadsheet-id 1AbC...`,
		Args: cobra.MaximumNArgs(1),
		RunE: withSession(runReports),
	}

	cmd.Flags().Bool("timeline", false, "also show deliveries per month")
	cmd.AddCommand(reportsExportCmd())

	return cmd
}

func runReports(cmd *cobra.Command, args []string, s *session) error {
	var raw string
	if len(args) > 0 {
		raw = args[0]
	}
	period, err := report.ParsePeriod(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	view, err := s.engine.Report(cmd.Context(), period)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := renderPeriodReport(out, view.PeriodComparison); err != nil {
		return err
	}
	if timeline, _ := cmd.Flags().GetBool("timeline"); timeline {
		printLine(out, "")
		return renderTimeline(out, view.Timeline)
	}
	return nil
}

// renderTimeline draws one bar per month, scaled to the busiest month.
func renderTimeline(w io.Writer, points []report.TimelinePoint) error {
	printLine(w, cli.FormatTitle("Livraisons par mois"))
	if len(points) == 0 {
		printLine(w, cli.SubtleStyle.Render("Aucune livraison"))
		return nil
	}

	peak := 0
	for _, p := range points {
		peak = max(peak, p.Count)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range points {
		bar := strings.Repeat("█", max(1, p.Count*timelineWidth/peak))
		fmt.Fprintf(tw, "%s\t%s %d\n", p.Label(), cli.ProgressStyle.Render(bar), p.Count)
	}
	return tw.Flush()
}

const timelineWidth = 30

func renderPeriodReport(w io.Writer, c report.PeriodComparison) error {
	printLine(w, cli.FormatTitle(fmt.Sprintf("%s Rapport %s (%s → %s)", cli.ChartIcon, c.Period.Label(), cli.FormatDate(c.Start), cli.FormatDate(c.End))))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUT\tPÉRIODE\tPRÉCÉDENTE\tÉVOLUTION")
	for _, status := range model.DeliveryStatuses {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", status.Label(), c.Current[status], c.Previous[status], formatGrowth(c.Growth[status]))
	}
	fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", "Total actif", c.Current.Active(), c.Previous.Active(), formatGrowth(c.TotalGrowth))
	return tw.Flush()
}

func formatGrowth(pct int) string {
	switch {
	case pct > 0:
		return cli.StyleSuccess(fmt.Sprintf("+%d %%", pct))
	case pct < 0:
		return cli.StyleError(fmt.Sprintf("%d %%", pct))
	default:
		return "0 %"
	}
}

func reportsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export revenue, commissions, deliveries and clients to Google Sheets",
		Long: `Export the monthly revenue, monthly commissions, deliveries and clients to a
Google Sheets spreadsheet. A new spreadsheet is created unless one is configured.

Credentials come from sheets.service_account_path, or from the OAuth2 client and
refresh token stored by 'kaba auth sheets'.`,
		RunE: withSession(runReportsExport),
	}

	cmd.Flags().String("spreadsheet-id", "", "spreadsheet to update (overrides sheets.spreadsheet_id)")
	cmd.Flags().Bool("dry-run", false, "build the rows without writing them")

	return cmd
}

func runReportsExport(cmd *cobra.Command, _ []string, s *session) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var writer sheets.ReportWriter = discardWriter{}
	if !dryRun {
		sheetsCfg, err := config.LoadSheetsConfig()
		if err != nil {
			return err
		}
		if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
			sheetsCfg.SpreadsheetID = id
		}
		w, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to create sheets writer: %w", err)
		}
		writer = w
	}

	common.LogInfo("Exporting report", common.Fields{"dry_run": dryRun, "commission_rate": s.state.CommissionRate().String()})
	data, err := exportReport(ctx, s.engine, writer, s.state.CommissionRate(), s.report.ProfitRate, time.Now())
	if err != nil {
		return err
	}

	printLine(out, cli.FormatSuccess(fmt.Sprintf("%d mois, %d livraisons et %d clients exportés",
		len(data.MonthlyRevenue), len(data.Deliveries), len(data.Clients))))
	return nil
}

// exportReport loads every delivery and payment and hands the rows to writer.
func exportReport(ctx context.Context, e *engine.Engine, writer sheets.ReportWriter, commissionRate, profitRate decimal.Decimal, now time.Time) (*sheets.TabData, error) {
	deliveries, err := e.AllDeliveries(ctx)
	if err != nil {
		return nil, err
	}
	finances, err := e.Finances(ctx, filter.PaymentCriteria{}, commissionRate)
	if err != nil {
		return nil, err
	}

	data := sheets.BuildTabData(deliveries, finances.Payments, commissionRate, profitRate, now)
	if err := writer.Write(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return data, nil
}

type discardWriter struct{}

func (discardWriter) Write(context.Context, *sheets.TabData) error { return nil }
