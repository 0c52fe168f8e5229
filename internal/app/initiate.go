package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goorder/internal/pkg/pkglog"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goorder/internal/pkg/pkguid"
)

var configDefaults = map[string]any{
	"tz":                                      "UTC",
	"log.level":                               "info",
	"server.address.http":                     ":8080",
	"server.max_upload_bytes":                 64 << 20,
	"server.shutdown_timeout":                 "30s",
	"store.driver":                            "memory",
	"modules.orderimport.enabled":             true,
	"modules.orderimport.batch_size":          1000,
	"modules.orderimport.outer_multiplier":    2,
	"modules.orderimport.completion_timeout":  "10m",
	"modules.orderimport.header_rows":         1,
	"modules.orderimport.max_running_imports": 4,
	"modules.orderimport.snowflake_node":      -1,
}

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path, configDefaults)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	pkglog.InitLogging(pkglog.Options{Service: "goorder", Level: cfg.GetString("log.level")})

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("modules.orderimport.max_running_imports")))
	a.uuid = pkguid.NewUUID()

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid, pkgrouter.WithMaxBodyBytes(a.config.GetInt("server.max_upload_bytes")))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
