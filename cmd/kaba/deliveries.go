package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/filter"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/spf13/cobra"
)

// deliveryFilterFlags maps list flags to filter.ParseCriteria keys.
var deliveryFilterFlags = map[string]string{
	"status":         "status",
	"method":         "method",
	"payment-status": "paymentStatus",
	"from":           "startDate",
	"to":             "endDate",
	"search":         "search",
}

func deliveriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deliveries",
		Aliases: []string{"livraisons", "d"},
		Short:   "Review delivery requests",
	}

	cmd.AddCommand(deliveriesListCmd())
	cmd.AddCommand(deliveriesShowCmd())
	cmd.AddCommand(deliveriesAcceptCmd())
	cmd.AddCommand(deliveriesRejectCmd())
	cmd.AddCommand(deliveriesStatusesCmd())

	return cmd
}

func deliveriesStatusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "Show how backend statuses map to displayed statuses",
		Long: `Show every backend delivery status the console recognizes and the status it is
displayed as. Any other backend status is displayed as pending.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderStatusTable(cmd.OutOrStdout())
		},
	}
}

func renderStatusTable(w io.Writer) error {
	return cli.RenderTable(w, []cli.Column[string]{
		cli.Computed("BACKEND", func(s string) string { return s }),
		cli.Computed("STATUT", func(s string) string { return cli.StatusBadge(normalize.MapDeliveryStatus(s)) }),
	}, normalize.KnownDeliveryStatuses())
}

func deliveriesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deliveries matching filters",
		Long: `List deliveries matching filters, newest first as served by the backend.

Dates use YYYY-MM-DD and the range only applies when both --from and --to are set.`,
		Example: `  kaba deliveries list --status pending
  kaba deliveries list --method boat --payment-status paid --page 2
  kaba deliveries list --from 2025-03-01 --to 2025-03-31 --search ama`,
		RunE: withSession(runDeliveriesList),
	}

	cmd.Flags().String("status", "", "status (pending, accepted, collected, in-transit, delivered, cancelled)")
	cmd.Flags().String("method", "", "delivery method (boat, plane)")
	cmd.Flags().String("payment-status", "", "payment status (pending, paid, refunded, failed, partial)")
	cmd.Flags().String("from", "", "created on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "created on or before this date (YYYY-MM-DD)")
	cmd.Flags().String("search", "", "search in tracking number, recipient, phone and id")
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("per-page", cli.DefaultPerPage, "rows per page")

	return cmd
}

func runDeliveriesList(cmd *cobra.Command, _ []string, s *session) error {
	criteria, err := filter.ParseCriteria(flagParams(cmd, deliveryFilterFlags))
	if err != nil {
		return err
	}

	deliveries, err := s.engine.Deliveries(cmd.Context(), criteria)
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	return cli.RenderPage(cmd.OutOrStdout(), deliveryColumns(s.report.Currency), cli.Paginate(deliveries, page, perPage))
}

func deliveryColumns(currency string) []cli.Column[model.Delivery] {
	return []cli.Column[model.Delivery]{
		cli.Field("ID", "id", func(d model.Delivery) string { return d.ID }),
		cli.Field("SUIVI", "trackingNumber", func(d model.Delivery) string { return d.TrackingNumber }),
		cli.Field("COLIS", "packageName", func(d model.Delivery) string { return cli.Truncate(d.PackageName, 24) }),
		cli.Field("DESTINATAIRE", "recipientName", func(d model.Delivery) string { return cli.Truncate(d.RecipientName, 20) }),
		cli.Computed("STATUT", func(d model.Delivery) string { return cli.StatusBadge(d.Status) }),
		cli.Computed("MODE", func(d model.Delivery) string { return cli.MethodLabel(d.DeliveryMethod) }),
		cli.Computed("PAIEMENT", func(d model.Delivery) string { return paymentLabel(d.PaymentStatus) }),
		cli.Computed("VALEUR", func(d model.Delivery) string { return cli.FormatMoney(d.DeclaredValue, currency) }),
		cli.Field("CRÉÉE", "createdAt", func(d model.Delivery) string { return cli.FormatDate(d.CreatedAt) }),
	}
}

func paymentLabel(status model.PaymentStatus) string {
	switch status {
	case model.PaymentPaid:
		return "Payé"
	case model.PaymentPartial:
		return "Acompte"
	case model.PaymentRefunded:
		return "Remboursé"
	case model.PaymentFailed:
		return "Échoué"
	default:
		return "En attente"
	}
}

func deliveriesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one delivery with its payments",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			d, err := s.engine.Delivery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderDelivery(cmd.OutOrStdout(), d, s.report.Currency)
		}),
	}
}

func renderDelivery(w io.Writer, d model.Delivery, currency string) error {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%-20s %s\n", label, value)
	}

	line("Suivi", d.TrackingNumber)
	line("Colis", d.PackageName)
	line("Statut", cli.StatusBadge(d.Status))
	line("Mode", cli.MethodLabel(d.DeliveryMethod))
	line("Destinataire", d.RecipientName)
	line("Téléphone", d.RecipientPhone)
	line("Livraison", homeLabel(d.HomeDelivery))
	line("Valeur déclarée", cli.FormatMoney(d.DeclaredValue, currency))
	line("Poids estimé", fmt.Sprintf("%g kg", d.Weight))
	if d.ActualWeight != nil {
		line("Poids réel", fmt.Sprintf("%g kg", *d.ActualWeight))
	}
	line("Arrivée estimée", cli.FormatDatePtr(d.EstimatedArrival))
	line("Créée le", cli.FormatDateTime(d.CreatedAt))
	line("Paiement", paymentLabel(d.PaymentStatus))
	line("Lot Afalika", d.AfalikaBatchID)
	line("Photo produit", d.ProductImage)
	line("Preuve d'achat", d.PurchaseProofImage)
	if d.Notes != "" {
		line("Notes", d.Notes)
	}
	if d.Status == model.StatusCancelled && d.CancellationReason != "" {
		line("Motif d'annulation", d.CancellationReason)
	}

	if len(d.Payments) > 0 {
		b.WriteString("\nPaiements\n")
		for _, p := range d.Payments {
			date := "-"
			if p.PaymentDate != nil {
				date = cli.FormatDate(*p.PaymentDate)
			}
			fmt.Fprintf(&b, "  %s  %-12s %s\n", date, paymentLabel(normalize.MapPaymentStatus(p.PaymentStatus)), cli.FormatMoney(p.Amount, currency))
		}
	}

	_, err := fmt.Fprint(w, cli.RenderBox(cli.ParcelIcon+" Livraison "+d.ID, strings.TrimRight(b.String(), "\n")), "\n")
	return err
}

func homeLabel(home bool) string {
	if home {
		return "À domicile"
	}
	return "Au bureau"
}

func deliveriesAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a pending delivery request",
		Long: `Accept a pending delivery request. With --notes, --weight or --eta the
acceptance also records the measured weight, the estimated arrival and a note.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(runDeliveriesAccept),
	}

	cmd.Flags().String("notes", "", "note attached to the acceptance")
	cmd.Flags().Float64("weight", 0, "measured weight in kg")
	cmd.Flags().String("eta", "", "estimated arrival date (YYYY-MM-DD)")

	return cmd
}

func runDeliveriesAccept(cmd *cobra.Command, args []string, s *session) error {
	details, detailed, err := acceptDetails(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	id := args[0]
	if detailed {
		err = s.client.AcceptDeliveryWithDetails(ctx, id, details)
	} else {
		err = s.client.AcceptDelivery(ctx, id)
	}
	if err != nil {
		return deliveryActionError("acceptée", err)
	}

	printLine(cmd.OutOrStdout(), cli.FormatSuccess("Livraison "+id+" acceptée"))
	return nil
}

// acceptDetails reads the optional acceptance flags. detailed is false when none was given.
func acceptDetails(cmd *cobra.Command) (details model.AcceptDetails, detailed bool, err error) {
	details.Notes, _ = cmd.Flags().GetString("notes")
	details.ActualWeight = floatFlag(cmd, "weight")
	if details.ActualWeight != nil && *details.ActualWeight <= 0 {
		return details, false, invalidInput("--weight", fmt.Sprint(*details.ActualWeight), nil)
	}
	if raw, _ := cmd.Flags().GetString("eta"); raw != "" {
		eta, perr := time.Parse(time.DateOnly, raw)
		if perr != nil {
			return details, false, invalidInput("--eta", raw, perr)
		}
		details.EstimatedArrival = &eta
	}
	detailed = details.Notes != "" || details.ActualWeight != nil || details.EstimatedArrival != nil
	return details, detailed, nil
}

func deliveriesRejectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a delivery request with a reason",
		Long: `Reject a delivery request. A reason is required; it is asked for when
--reason is not given and shown to the client.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(runDeliveriesReject),
	}

	cmd.Flags().String("reason", "", "rejection reason shown to the client")

	return cmd
}

func runDeliveriesReject(cmd *cobra.Command, args []string, s *session) error {
	ctx := cmd.Context()
	reason, _ := cmd.Flags().GetString("reason")
	reason = strings.TrimSpace(reason)
	if reason == "" {
		var err error
		reason, err = newPrompter(cmd).AskRequired(ctx, "Motif du rejet")
		if err != nil {
			return err
		}
	}

	if err := s.client.RejectDelivery(ctx, args[0], reason); err != nil {
		return deliveryActionError("rejetée", err)
	}

	printLine(cmd.OutOrStdout(), cli.FormatSuccess("Livraison "+args[0]+" rejetée"))
	return nil
}

func deliveryActionError(verb string, err error) error {
	switch {
	case errors.Is(err, common.ErrReasonRequired):
		return common.NewUserError("Un motif de rejet est requis", err)
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError("Livraison introuvable", err)
	default:
		return common.NewUserError("La livraison n'a pas pu être "+verb, err)
	}
}
