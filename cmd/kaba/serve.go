package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kaba-chine/kaba-admin/internal/certs"
	"github.com/kaba-chine/kaba-admin/internal/config"
	"github.com/kaba-chine/kaba-admin/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the normalized views as a JSON API",
		Long: `Serve deliveries, clients, finances, reports and shipping rates as a JSON
API for the web dashboard. Requests under /api must carry the administrator
password as a bearer token.

With --tls the gateway serves HTTPS using a self-signed certificate kept in
the configuration directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			addr := viper.GetString("server.addr")
			if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
				addr = flagAddr
			}

			srv := server.New(s.engine, s.client, s.state, slog.Default())
			slog.Info("Starting KABA gateway", "addr", addr, "backend", s.client.BaseURL())

			if useTLS, _ := cmd.Flags().GetBool("tls"); useTLS {
				hosts, _ := cmd.Flags().GetStringSlice("tls-host")
				cert, err := certs.NewFileManager(filepath.Join(config.ConfigDir(), "certs"), hosts...).GetOrCreateCertificate()
				if err != nil {
					return fmt.Errorf("failed to load gateway certificate: %w", err)
				}
				return srv.ListenAndServeTLS(cmd.Context(), addr, cert)
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	cmd.Flags().StringSlice("tls-host", nil, "extra host names or IPs for the certificate")

	return cmd
}
