package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/goorder/internal/orderimport"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.orderimport.enabled") {
		closer, err := orderimport.New(orderimport.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			Registry:  a.registry,
		})
		if err != nil {
			slog.Error("failed to init module orderimport", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Order Import"] = closer
		}
	}
}
