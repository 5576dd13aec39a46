package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/kaba-chine/kaba-admin/internal/backend"
	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/spf13/cobra"
)

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rates",
		Aliases: []string{"tarifs"},
		Short:   "Manage shipping rates",
		Long: `Manage shipping rates. AVION (plane) rates are priced per kg, BATEAU
(boat) rates per CBM.`,
	}

	cmd.AddCommand(ratesListCmd())
	cmd.AddCommand(ratesShowCmd())
	cmd.AddCommand(ratesCreateCmd())
	cmd.AddCommand(ratesUpdateCmd())
	cmd.AddCommand(ratesDeleteCmd())

	return cmd
}

func ratesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shipping rates",
		RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			activeOnly, _ := cmd.Flags().GetBool("active")
			rates, err := s.client.ListShippingRates(cmd.Context(), activeOnly)
			if err != nil {
				return err
			}
			return cli.RenderTable(cmd.OutOrStdout(), rateColumns(s.report.Currency), rates)
		}),
	}

	cmd.Flags().Bool("active", false, "only active rates")

	return cmd
}

func rateColumns(currency string) []cli.Column[model.ShippingRate] {
	return []cli.Column[model.ShippingRate]{
		cli.Field("ID", "id", func(r model.ShippingRate) string { return r.ID }),
		cli.Computed("MODE", func(r model.ShippingRate) string { return cli.MethodLabel(methodOf(r.ShippingMode)) }),
		cli.Computed("BASE", func(r model.ShippingRate) string { return cli.FormatMoney(r.BasePrice, currency) }),
		cli.Computed("PRIX/UNITÉ", func(r model.ShippingRate) string {
			return cli.FormatMoney(r.PricePerKg, currency) + "/" + r.UnitLabel()
		}),
		cli.Computed("DOMICILE", func(r model.ShippingRate) string { return cli.FormatMoney(r.HomeDeliveryFee, currency) }),
		cli.Computed("POIDS", func(r model.ShippingRate) string { return weightRange(r) }),
		cli.Computed("ACTIF", func(r model.ShippingRate) string { return cli.YesNo(r.IsActive) }),
	}
}

func methodOf(mode model.ShippingMode) model.DeliveryMethod {
	if mode == model.ShippingModeSea {
		return model.MethodBoat
	}
	return model.MethodPlane
}

func weightRange(r model.ShippingRate) string {
	if r.MaxWeight == nil {
		return fmt.Sprintf("≥ %g %s", r.MinWeight, r.UnitLabel())
	}
	return fmt.Sprintf("%g-%g %s", r.MinWeight, *r.MaxWeight, r.UnitLabel())
}

func ratesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one shipping rate",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			rate, err := s.client.GetShippingRate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderRate(cmd.OutOrStdout(), *rate, s.report.Currency)
		}),
	}
}

func renderRate(w io.Writer, r model.ShippingRate, currency string) error {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%-22s %s\n", label, value)
	}
	row("Mode", cli.MethodLabel(methodOf(r.ShippingMode)))
	row("Prix de base", cli.FormatMoney(r.BasePrice, currency))
	row("Prix par "+r.UnitLabel(), cli.FormatMoney(r.PricePerKg, currency))
	row("Livraison à domicile", cli.FormatMoney(r.HomeDeliveryFee, currency))
	if r.InsuranceRate != nil {
		row("Assurance", fmt.Sprintf("%g %%", *r.InsuranceRate))
	}
	row("Poids", weightRange(r))
	row("Actif", cli.YesNo(r.IsActive))
	row("En vigueur depuis", cli.FormatDate(r.EffectiveFrom))
	if r.EffectiveTo != nil {
		row("Jusqu'au", cli.FormatDate(*r.EffectiveTo))
	}
	_, err := fmt.Fprint(w, cli.RenderBox(cli.MoneyIcon+" Tarif "+r.ID, strings.TrimRight(b.String(), "\n")), "\n")
	return err
}

func addRateFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "shipping mode (AVION, BATEAU)")
	cmd.Flags().String("base-price", "", "base price")
	cmd.Flags().String("price-per-unit", "", "price per kg (AVION) or per CBM (BATEAU)")
	cmd.Flags().String("home-fee", "", "home delivery fee")
	cmd.Flags().Float64("insurance", 0, "insurance rate in percent")
	cmd.Flags().Float64("min-weight", 0, "minimum weight")
	cmd.Flags().Float64("max-weight", 0, "maximum weight")
	cmd.Flags().Bool("active", true, "whether the rate is active")
}

// rateInput builds a rate body from the flags that were set.
func rateInput(cmd *cobra.Command) (model.ShippingRateInput, error) {
	var input model.ShippingRateInput
	var err error

	if cmd.Flags().Changed("mode") {
		raw, _ := cmd.Flags().GetString("mode")
		mode := model.ShippingMode(strings.ToUpper(strings.TrimSpace(raw)))
		input.ShippingMode = &mode
	}
	if input.BasePrice, err = decimalFlag(cmd, "base-price"); err != nil {
		return input, err
	}
	if input.PricePerKg, err = decimalFlag(cmd, "price-per-unit"); err != nil {
		return input, err
	}
	if input.HomeDeliveryFee, err = decimalFlag(cmd, "home-fee"); err != nil {
		return input, err
	}
	input.InsuranceRate = floatFlag(cmd, "insurance")
	input.MinWeight = floatFlag(cmd, "min-weight")
	input.MaxWeight = floatFlag(cmd, "max-weight")
	if cmd.Flags().Changed("active") {
		active, _ := cmd.Flags().GetBool("active")
		input.IsActive = &active
	}

	return input, backend.ValidateRateInput(input)
}

func ratesCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a shipping rate",
		Example: `  kaba rates create --mode AVION --base-price 5000 --price-per-unit 8000 --home-fee 2000`,
		RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			input, err := rateInput(cmd)
			if err != nil {
				return err
			}
			if input.ShippingMode == nil || input.BasePrice == nil || input.PricePerKg == nil {
				return fmt.Errorf("%w: --mode, --base-price and --price-per-unit are required", common.ErrInvalidInput)
			}
			if input.IsActive == nil {
				active := true
				input.IsActive = &active
			}

			rate, err := s.client.CreateShippingRate(cmd.Context(), input)
			if err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), cli.FormatSuccess("Tarif "+rate.ID+" créé"))
			return nil
		}),
	}

	addRateFlags(cmd)

	return cmd
}

func ratesUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Change a shipping rate; only the given flags are sent",
		Example: `  kaba rates update r-1 --price-per-unit 8500`,
		Args:    cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			input, err := rateInput(cmd)
			if err != nil {
				return err
			}
			rate, err := s.client.UpdateShippingRate(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return renderRate(cmd.OutOrStdout(), *rate, s.report.Currency)
		}),
	}

	addRateFlags(cmd)

	return cmd
}

func ratesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Deactivate a shipping rate, or remove it with --hard",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			hard, _ := cmd.Flags().GetBool("hard")
			yes, _ := cmd.Flags().GetBool("yes")
			if hard && !yes {
				if err := newPrompter(cmd).Confirm(cmd.Context(), "Supprimer définitivement le tarif "+args[0]+" ?"); err != nil {
					return err
				}
			}
			if err := s.client.DeleteShippingRate(cmd.Context(), args[0], !hard); err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), cli.FormatSuccess("Tarif "+args[0]+" supprimé"))
			return nil
		}),
	}

	cmd.Flags().Bool("hard", false, "delete instead of deactivating")
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	return cmd
}
