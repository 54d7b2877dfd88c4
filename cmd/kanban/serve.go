package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"kanban/internal/app"
	"kanban/internal/logging"
	"kanban/internal/server"
)

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				svc, err := a.Auth()
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("addr") {
					addr = a.Config.Server.Addr
				}
				if !cmd.Flags().Changed("base-path") {
					basePath = a.Config.Server.BasePath
				}
				handler, err := server.New(server.Config{
					Store:       a.Store,
					Events:      a.Events,
					Auth:        svc,
					BasePath:    basePath,
					CORSOrigins: a.Config.Server.CORSOrigins,
					Logger:      a.Log.WithField("component", "server"),
				})
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
				a.Log.WithField("addr", addr).Info("serving kanban api")
				fmt.Printf("Serving Kanban API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address (default from kanban.yml)")
	cmd.Flags().StringVar(&basePath, "base-path", "/api", "API base path (default from kanban.yml)")
	return cmd
}

func tailLogFile(a *app.App, n int) error {
	path := a.LogFile()
	if path == "" {
		return fmt.Errorf("log.file is not set in kanban.yml; logs go to stderr")
	}
	lines, err := logging.Tail(path, n)
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}
