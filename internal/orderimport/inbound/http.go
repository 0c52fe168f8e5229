package inbound

import (
	"context"
	"io"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shandysiswandi/goorder/internal/orderimport/usecase"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgrouter"
)

type uc interface {
	Import(ctx context.Context, in usecase.ImportInput) (entity.ImportResult, error)
	Submit(ctx context.Context, fileName string, r io.Reader) (usecase.SubmitResult, error)
	Status(ctx context.Context, importID string) (usecase.StatusResult, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/orders/import", end.Import)  // multipart "file" or raw body with ?filename=
	r.POST("/orders/imports", end.Submit) // same input, processed in the background
	r.GET("/orders/imports/:id", end.Status)
}
