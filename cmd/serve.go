package cmd

import (
	"github.com/ali-gai/MCQs-Generator/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web interface and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			a.cfg.Server.Addr = addr
		}

		srv, err := server.New(server.Options{
			Service: a.svc,
			Config:  *a.cfg,
			Model:   a.provider.ModelID(),
			Version: version,
			Logger:  a.logger,
		})
		if err != nil {
			return err
		}
		return srv.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MCQGEN_ADDR, default 127.0.0.1:8501)")
}
