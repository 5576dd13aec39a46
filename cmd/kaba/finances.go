package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/kaba-chine/kaba-admin/internal/appstate"
	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/filter"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/report"
	"github.com/spf13/cobra"
)

var paymentFilterFlags = map[string]string{
	"status": "status",
	"type":   "type",
	"range":  "range",
}

func financesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "finances",
		Aliases: []string{"f"},
		Short:   "Payments, commissions and Afalika remittances",
	}

	cmd.AddCommand(financesSummaryCmd())
	cmd.AddCommand(financesPaymentsCmd())
	cmd.AddCommand(financesCommissionsCmd())
	cmd.AddCommand(financesRemittancesCmd())
	cmd.AddCommand(financesRateCmd())

	return cmd
}

func financesSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals, the KABA commission and what is left to remit",
		Long: `Show totals, the KABA commission and what is left to remit. The filters
restrict the payments every figure is computed from.`,
		Example: `  kaba finances summary --range last-month`,
		RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			criteria, err := filter.ParsePaymentCriteria(flagParams(cmd, paymentFilterFlags))
			if err != nil {
				return err
			}
			view, err := s.engine.Finances(cmd.Context(), criteria, s.state.CommissionRate())
			if err != nil {
				return err
			}
			return renderFinanceStats(cmd.OutOrStdout(), view.Stats, s.report.Currency)
		}),
	}

	addPaymentFilterFlags(cmd)

	return cmd
}

func addPaymentFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "", "payment status (pending, paid, refunded, failed, partial)")
	cmd.Flags().String("type", "", "payment type (partial, full)")
	cmd.Flags().String("range", "", "date range (current-month, last-month, last-3-months)")
}

func renderFinanceStats(w io.Writer, stats report.FinanceStats, currency string) error {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%-28s %s\n", label, value)
	}

	row("Total des paiements", cli.FormatMoney(stats.TotalAmount, currency))
	row("  dont acomptes", fmt.Sprintf("%s (%d)", cli.FormatMoney(stats.PartialAmount, currency), stats.PartialCount))
	row("  dont paiements complets", fmt.Sprintf("%s (%d)", cli.FormatMoney(stats.FullAmount, currency), stats.FullCount))
	row("Paiements confirmés", itoa(stats.PaidCount))
	row("Commission KABA ("+cli.FormatPercent(stats.CommissionRate)+")", cli.FormatMoney(stats.Commission, currency))
	row("Part Afalika", cli.FormatMoney(stats.AfalikaAmount, currency))
	row("Déjà reversé", cli.FormatMoney(stats.TotalRemittances, currency))
	row("Reste à reverser", cli.FormatMoney(stats.RemainingToRemit, currency))
	row("Notifications en attente", itoa(stats.PendingNotifications))

	_, err := fmt.Fprint(w, cli.RenderBox(cli.MoneyIcon+" Finances", strings.TrimRight(b.String(), "\n")), "\n")
	return err
}

func financesPaymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "List payments",
		Example: `  kaba finances payments --type partial --range current-month
  kaba finances payments --status paid`,
		RunE: withSession(runFinancesPayments),
	}

	addPaymentFilterFlags(cmd)
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("per-page", cli.DefaultPerPage, "rows per page")

	return cmd
}

func runFinancesPayments(cmd *cobra.Command, _ []string, s *session) error {
	criteria, err := filter.ParsePaymentCriteria(flagParams(cmd, paymentFilterFlags))
	if err != nil {
		return err
	}
	view, err := s.engine.Finances(cmd.Context(), criteria, s.state.CommissionRate())
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	return cli.RenderPage(cmd.OutOrStdout(), paymentColumns(s.report.Currency), cli.Paginate(view.Payments, page, perPage))
}

func paymentColumns(currency string) []cli.Column[model.Payment] {
	return []cli.Column[model.Payment]{
		cli.Field("DATE", "paymentDate", func(p model.Payment) string { return cli.FormatDate(p.PaymentDate) }),
		cli.Field("SUIVI", "trackingNumber", func(p model.Payment) string { return p.TrackingNumber }),
		cli.Computed("MONTANT", func(p model.Payment) string { return cli.FormatMoney(p.Amount, currency) }),
		cli.Computed("TYPE", func(p model.Payment) string {
			if p.PaymentType == model.PaymentTypePartial {
				return "Acompte"
			}
			return "Complet"
		}),
		cli.Field("STATUT", "paymentStatus", func(p model.Payment) string { return p.PaymentStatus }),
		cli.Computed("MÉTHODE", func(p model.Payment) string { return p.MethodLabel() }),
		cli.Computed("AFALIKA", func(p model.Payment) string { return cli.YesNo(p.NotifiedToAfalika) }),
	}
}

func financesCommissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commissions",
		Short: "Show commissions per month, newest first",
		RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			view, err := s.engine.Finances(cmd.Context(), filter.PaymentCriteria{}, s.state.CommissionRate())
			if err != nil {
				return err
			}
			return cli.RenderTable(cmd.OutOrStdout(), commissionColumns(s.report.Currency), view.Monthly)
		}),
	}
}

func commissionColumns(currency string) []cli.Column[report.MonthlyCommission] {
	return []cli.Column[report.MonthlyCommission]{
		cli.Computed("MOIS", func(m report.MonthlyCommission) string { return m.Label() }),
		cli.Field("PAIEMENTS", "paymentCount", func(m report.MonthlyCommission) string { return itoa(m.PaymentCount) }),
		cli.Computed("TOTAL", func(m report.MonthlyCommission) string { return cli.FormatMoney(m.TotalAmount, currency) }),
		cli.Computed("ACOMPTES", func(m report.MonthlyCommission) string { return cli.FormatMoney(m.PartialAmount, currency) }),
		cli.Computed("COMPLETS", func(m report.MonthlyCommission) string { return cli.FormatMoney(m.FullAmount, currency) }),
		cli.Computed("COMMISSION", func(m report.MonthlyCommission) string { return cli.FormatMoney(m.Commission, currency) }),
	}
}

func financesRemittancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remittances",
		Short: "List payouts made to Afalika",
		RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			remittances, err := s.client.ListRemittances(cmd.Context())
			if err != nil {
				return err
			}
			return cli.RenderTable(cmd.OutOrStdout(), remittanceColumns(s.report.Currency), remittances)
		}),
	}
}

func remittanceColumns(currency string) []cli.Column[model.Remittance] {
	return []cli.Column[model.Remittance]{
		cli.Field("RÉFÉRENCE", "reference", func(r model.Remittance) string { return r.Reference }),
		cli.Field("DATE", "remittanceDate", func(r model.Remittance) string { return cli.FormatDate(r.RemittanceDate) }),
		cli.Computed("PÉRIODE", func(r model.Remittance) string {
			return cli.FormatDate(r.StartDate) + " → " + cli.FormatDate(r.EndDate)
		}),
		cli.Computed("MONTANT", func(r model.Remittance) string { return cli.FormatMoney(r.Amount, currency) }),
		cli.Field("PAIEMENTS", "paymentCount", func(r model.Remittance) string { return itoa(r.PaymentCount) }),
		cli.Computed("STATUT", func(r model.Remittance) string {
			if r.Completed() {
				return cli.StyleSuccess("Effectué")
			}
			return cli.StyleWarning("En attente")
		}),
	}
}

func financesRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate [percent]",
		Short: "Show or change the KABA commission rate",
		Long: `Show the KABA commission rate, or change it when a percentage is given.
The rate is kept in the local settings database and applies to every finance view.`,
		Example: `  kaba finances rate
  kaba finances rate 12.5`,
		Args: cobra.MaximumNArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				printf(out, "Commission KABA : %s\n", cli.FormatPercent(s.state.CommissionRate()))
				return nil
			}

			percent, err := appstate.ParsePercent(args[0])
			if err != nil {
				return err
			}
			if err := s.state.SetCommissionPercent(cmd.Context(), percent); err != nil {
				return err
			}
			printLine(out, cli.FormatSuccess("Commission KABA : "+cli.FormatPercent(s.state.CommissionRate())))
			return nil
		}),
	}
}
