package main

import (
	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/filter"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/spf13/cobra"
)

var clientFilterFlags = map[string]string{
	"search":        "search",
	"count":         "deliveryCount",
	"preference":    "preference",
	"last-delivery": "lastDelivery",
}

func clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"c"},
		Short:   "List clients derived from their deliveries",
		Long: `List clients derived from their deliveries: one row per KABA user with
their delivery count, total spent and preferred delivery mode.`,
		Example: `  kaba clients --count 1-5 --preference home
  kaba clients --pending --last-delivery thisMonth`,
		RunE: withSession(runClients),
	}

	cmd.Flags().String("search", "", "search in name and phone")
	cmd.Flags().String("count", "", "delivery count (none, 1-5, 6-10, more10)")
	cmd.Flags().String("preference", "", "delivery preference (home, office)")
	cmd.Flags().String("last-delivery", "", "last delivery (thisMonth, lastMonth, thisYear)")
	cmd.Flags().Bool("pending", false, "only clients with pending deliveries")
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("per-page", cli.DefaultPerPage, "rows per page")

	return cmd
}

func runClients(cmd *cobra.Command, _ []string, s *session) error {
	params := flagParams(cmd, clientFilterFlags)
	if pending, _ := cmd.Flags().GetBool("pending"); pending {
		params["pendingOnly"] = "true"
	}
	criteria, err := filter.ParseClientCriteria(params)
	if err != nil {
		return err
	}

	clients, err := s.engine.Clients(cmd.Context(), criteria)
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	return cli.RenderPage(cmd.OutOrStdout(), clientColumns(s.report.Currency), cli.Paginate(clients, page, perPage))
}

func clientColumns(currency string) []cli.Column[model.Client] {
	return []cli.Column[model.Client]{
		cli.Field("ID", "id", func(c model.Client) string { return c.ID }),
		cli.Field("NOM", "name", func(c model.Client) string { return cli.Truncate(c.Name, 24) }),
		cli.Field("TÉLÉPHONE", "phone", func(c model.Client) string { return c.Phone }),
		cli.Field("LIVRAISONS", "deliveryCount", func(c model.Client) string { return itoa(c.DeliveryCount) }),
		cli.Field("EN ATTENTE", "pendingDeliveryCount", func(c model.Client) string { return itoa(c.PendingDeliveryCount) }),
		cli.Computed("TOTAL", func(c model.Client) string { return cli.FormatMoney(c.TotalSpent, currency) }),
		cli.Computed("PRÉFÉRENCE", func(c model.Client) string { return homeLabel(c.PreferHomeDelivery) }),
		cli.Field("DERNIÈRE", "lastDeliveryDate", func(c model.Client) string { return cli.FormatDatePtr(c.LastDeliveryDate) }),
	}
}

func addressesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "List client delivery addresses",
		RunE:  withSession(runAddresses),
	}

	cmd.Flags().String("search", "", "search in client name, street, city and region")
	cmd.Flags().String("region", "", "exact region")
	cmd.Flags().String("city", "", "exact city")
	cmd.Flags().String("default", "", "default address only (yes, no)")
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("per-page", cli.DefaultPerPage, "rows per page")

	return cmd
}

func runAddresses(cmd *cobra.Command, _ []string, s *session) error {
	var criteria filter.AddressCriteria
	criteria.Search, _ = cmd.Flags().GetString("search")
	criteria.Region, _ = cmd.Flags().GetString("region")
	criteria.City, _ = cmd.Flags().GetString("city")
	criteria.Default, _ = cmd.Flags().GetString("default")
	switch criteria.Default {
	case "", filter.All, "yes", "no":
	default:
		return invalidInput("--default", criteria.Default, nil)
	}

	addresses, names, err := s.engine.Addresses(cmd.Context(), criteria)
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	return cli.RenderPage(cmd.OutOrStdout(), addressColumns(names), cli.Paginate(addresses, page, perPage))
}

func addressColumns(clientNames map[string]string) []cli.Column[model.Address] {
	return []cli.Column[model.Address]{
		cli.Computed("CLIENT", func(a model.Address) string {
			if name, ok := clientNames[a.KabaUserID]; ok {
				return name
			}
			return a.KabaUserID
		}),
		cli.Field("LIBELLÉ", "label", func(a model.Address) string { return a.Label }),
		cli.Field("RUE", "street", func(a model.Address) string { return cli.Truncate(a.Street, 30) }),
		cli.Field("VILLE", "city", func(a model.Address) string { return a.City }),
		cli.Field("RÉGION", "region", func(a model.Address) string { return a.Region }),
		cli.Computed("PAR DÉFAUT", func(a model.Address) string { return cli.YesNo(a.IsDefault) }),
	}
}
