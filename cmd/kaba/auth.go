package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kaba-chine/kaba-admin/internal/appstate"
	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/config"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/kaba-chine/kaba-admin/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Open or close the administrator session",
		Long: `Open or close the administrator session.

The console is protected by a single shared password, configured either as a
bcrypt hash (auth.password_hash) or in clear (auth.password).`,
	}

	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authStatusCmd())
	cmd.AddCommand(authHashCmd())
	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in as administrator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			if s.state.Authenticated() {
				printLine(out, cli.FormatInfo("Déjà connecté"))
				return nil
			}

			password, err := readPassword(cmd, "Mot de passe administrateur")
			if err != nil {
				return err
			}
			if err := s.state.Login(cmd.Context(), password); err != nil {
				return err
			}
			printLine(out, cli.FormatSuccess("Connecté"))
			return nil
		},
	}
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the administrator session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.state.Logout(cmd.Context()); err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), cli.FormatSuccess("Déconnecté"))
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an administrator is logged in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			if s.state.Authenticated() {
				printLine(out, cli.FormatSuccess("Session ouverte"))
			} else {
				printLine(out, cli.FormatWarning("Aucune session (kaba auth login)"))
			}
			printf(out, "API: %s\n", s.client.BaseURL())
			printf(out, "Images: %s\n", normalize.NewImageResolver(s.client.BaseURL(), nil).Origin())
			printf(out, "Commission: %s\n", cli.FormatPercent(s.state.CommissionRate()))
			return nil
		},
	}
}

func authHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print a bcrypt hash for auth.password_hash",
		Long: `Print a bcrypt hash of a password, to store in auth.password_hash instead
of keeping the password in clear in the config file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd, "Nouveau mot de passe")
			if err != nil {
				return err
			}
			hash, err := appstate.HashPassword(password)
			if err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authorize Google Sheets for report exports",
		Long: `Run the Google OAuth2 flow in the browser and store the refresh token used
by 'kaba reports export'. A token stored by an earlier run is reused (and refreshed
when expired) unless --force is given.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 client ID (overrides sheets.client_id)")
	cmd.Flags().String("client-secret", "", "OAuth2 client secret (overrides sheets.client_secret)")
	cmd.Flags().Bool("force", false, "ignore the stored token and authorize again")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found: set sheets.client_id and sheets.client_secret or use --client-id and --client-secret")
	}

	tokenFile := config.SheetsTokenFile()
	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	oauthCfg := sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
	}
	authenticate := sheets.GetOrCreateToken
	if force, _ := cmd.Flags().GetBool("force"); force {
		authenticate = sheets.AuthenticateOAuth2Interactive
	}
	token, err := authenticate(ctx, oauthCfg)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	out := cmd.OutOrStdout()
	viper.Set("sheets.refresh_token", token.RefreshToken)
	if err := viper.WriteConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		printLine(out, cli.FormatWarning("Ajoutez ceci à config.yaml :"))
		printf(out, "sheets:\n  refresh_token: %q\n", token.RefreshToken)
		return nil
	}

	printLine(out, cli.FormatSuccess("Google Sheets est configuré. Lancez 'kaba reports export'."))
	return nil
}
