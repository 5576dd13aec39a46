package main

import (
	"github.com/kaba-chine/kaba-admin/internal/tui"
	"github.com/kaba-chine/kaba-admin/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open the interactive dashboard: an overview of deliveries per status and
monthly revenue, a filterable delivery table and a detail view.

Keys: tab switches views, s and p cycle the status and payment filters, c clears
them, r reloads, ? shows every key, q quits.`,
		RunE: withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			theme := viper.GetString("tui.theme")
			if flagTheme, _ := cmd.Flags().GetString("theme"); flagTheme != "" {
				theme = flagTheme
			}
			inline, _ := cmd.Flags().GetBool("inline")

			return tui.Run(cmd.Context(), s.engine,
				tui.WithTheme(themes.GetTheme(theme)),
				tui.WithCurrency(s.report.Currency),
				tui.WithAltScreen(!inline),
			)
		}),
	}

	cmd.Flags().String("theme", "", "color theme (default, catppuccin-mocha)")
	cmd.Flags().Bool("inline", false, "render below the prompt instead of full screen")

	return cmd
}
