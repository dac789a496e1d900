package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	suar "github.com/suarindonesia/website"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the website",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := suar.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := suar.New(cfg)
		defer app.Close()
		app.Log.Infof("suar %s listening on %s", version, cfg.Addr)
		return app.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address, overrides the configured one")
	rootCmd.AddCommand(serveCmd)
}
