package usecase

import (
	"io"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

type ImportInput struct {
	FileName string
	Body     io.Reader
}

type SubmitResult struct {
	ImportID string
}

type StatusResult struct {
	Job entity.ImportJob
}
