package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"daylist-cli/internal/store"
	"daylist-cli/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daylist HTTP API over the local store",
		Example: strings.TrimSpace(`
# Serve on the default address
daylist serve

# Serve a specific store on all interfaces
daylist --dir ./data serve --addr :3336
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = strings.TrimSpace(loadConfig().Addr)
			}
			if listenAddr == "" {
				listenAddr = defaultAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st := store.Store{Dir: dir}
			db, err := st.Open(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			logger := log.New(cmd.ErrOrStderr(), "daylist ", log.LstdFlags)
			srv, err := web.NewServer(web.ServerConfig{Store: db, Logger: logger})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       "http://" + actualAddr,
					"dir":       dir,
					"db":        st.Path(),
					"routes":    srv.Routes(),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "daylist serving %s at http://%s\n", st.Path(), actualAddr)

			hs := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() { errCh <- hs.Serve(ln) }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return writeErr(cmd, err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := hs.Shutdown(shutdownCtx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("DAYLIST_ADDR", ""), "Bind address (host:port or :port; default: config addr, then "+defaultAddr+")")
	return cmd
}
