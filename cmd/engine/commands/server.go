package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gridsnake/engine/api"
	"github.com/gridsnake/engine/controller"
)

var (
	listen     = ":3005"
	promEnable = true
	promListen = ":9000"
)

func init() {
	serverCmd.Flags().StringVarP(&listen, "listen", "l", listen, "address to listen on")
	serverCmd.Flags().BoolVar(&promEnable, "prometheus", promEnable, "enable prometheus metrics")
	serverCmd.Flags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")
}

var serverCmd = &cobra.Command{
	Use:    "server",
	Short:  "serve the grid snake game engine",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		registry := controller.NewRegistry(controller.DefaultConfig())
		srv := api.New(listen, registry)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go srv.Run(ctx)

		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			log.Info("shutting down")
			cancel()
			if err := srv.Shutdown(context.Background()); err != nil {
				log.WithError(err).Warn("api shutdown failed")
			}
		}()

		if err := srv.WaitForExit(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).
				WithField("listen", listen).
				Fatal("api server failed")
		}
	},
}

func prometheus() {
	if !promEnable {
		log.Info("prometheus exporter not enabled")
		return
	}

	log.WithField("addr", promListen).Info("starting prometheus exporter")
	go func() {
		r := http.NewServeMux()
		r.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(promListen, r); err != nil {
			log.WithError(err).Warn("prometheus failed to listen")
		}
	}()
}
