package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mailhaven/webserve/core/config"
	"github.com/mailhaven/webserve/core/httpd"
	"github.com/mailhaven/webserve/core/identity"
	"github.com/mailhaven/webserve/core/server"
	"github.com/mailhaven/webserve/core/static"
)

// serveConfig holds the dispatcher-level settings; the HTTP listener's own
// settings live in server.Config.
type serveConfig struct {
	ThemeDir    string   `env:"WEBSERVE_THEME_DIR" envDefault:"./static"`
	ProfileName string   `env:"WEBSERVE_PROFILE_NAME" envDefault:""`
	Title       string   `env:"WEBSERVE_TITLE" envDefault:"webserve"`
	Debug       []string `env:"WEBSERVE_DEBUG" envSeparator:","`
}

func serveCmd() *cobra.Command {
	var addr string
	var debug []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var srvCfg server.Config
			var appCfg serveConfig
			if err := config.Load(&srvCfg); err != nil {
				return err
			}
			if err := config.Load(&appCfg); err != nil {
				return err
			}
			if addr != "" {
				srvCfg.Addr = addr
			}
			if len(debug) > 0 {
				appCfg.Debug = debug
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			ident := identity.New()
			app := &httpd.AppConfig{
				Title:       appCfg.Title,
				ProfileName: appCfg.ProfileName,
			}
			registry := prometheus.NewRegistry()

			dispatcher := httpd.New(ident, app, defaultRouter{}, defaultRenderer{},
				httpd.WithLogger(log),
				httpd.WithStatic(static.New(appCfg.ThemeDir)),
				httpd.WithDebug(appCfg.Debug...),
				httpd.WithMetrics(registry),
			)

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			mux.Handle("/", dispatcher)

			srv, err := server.NewFromConfig(srvCfg,
				server.WithLogger(log),
				server.WithQuiesce(dispatcher.Gate()),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx, mux)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides WEBSERVE_ADDR)")
	cmd.Flags().StringSliceVar(&debug, "debug", nil, "debug facilities to enable (http, httpdata)")
	return cmd
}
