package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tierscope/tierscope/internal/server"
	"github.com/tierscope/tierscope/pkg/dashboard"
)

// sheetLoader fetches the configured spreadsheet on every call.
func sheetLoader(cmd *cobra.Command) (server.Loader, error) {
	client, err := newHTTPClient(cmd)
	if err != nil {
		return nil, err
	}
	url := dashboard.SheetURL(viper.GetString("dashboard.spreadsheet_id"), viper.GetString("dashboard.gid"))
	return func(ctx context.Context) ([]dashboard.Row, error) {
		return dashboard.Fetch(ctx, client, url)
	}, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chart dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		load, err := sheetLoader(cmd)
		if err != nil {
			return err
		}
		listenAddr, _ := cmd.Flags().GetString("listen")
		if listenAddr == "" {
			listenAddr = viper.GetString("dashboard.listen")
		}
		interval := viper.GetDuration("dashboard.refresh_interval")
		if cmd.Flags().Changed("refresh-interval") {
			interval, _ = cmd.Flags().GetDuration("refresh-interval")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(load).Start(ctx, listenAddr, interval)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from dashboard.listen)")
	serveCmd.Flags().Duration("refresh-interval", 0, "Reload the spreadsheet this often, e.g. 30m (0 to disable; default from dashboard.refresh_interval)")
}
