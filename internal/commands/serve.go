package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beesaferoot/seatctl/internal/floorplan"
	"github.com/beesaferoot/seatctl/internal/server"
	"github.com/beesaferoot/seatctl/internal/store"
)

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve composed floor plans and floor data over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, _ := cmd.Flags().GetString("listen")

			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			if listen == "" {
				listen = a.cfg.Listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st := store.New(a.client, a.logger)
			if err := st.LoadFloors(ctx); err != nil {
				a.logger.Warn("starting without floor list", zap.Error(err))
			}

			srv := server.New(a.client, st, a.logger, a.registry, floorplan.DefaultOptions())
			return srv.ListenAndServe(ctx, listen)
		},
	}

	cmd.Flags().String("listen", "", "Listen address (default SEATCTL_LISTEN)")

	return cmd
}
