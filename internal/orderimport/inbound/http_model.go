package inbound

import (
	"net/http"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

type ImportResponse struct {
	TotalCount   int64  `json:"total_count"`
	SuccessCount int64  `json:"success_count"`
	FailCount    int64  `json:"fail_count"`
	TotalBatches int64  `json:"total_batches"`
	TotalTimeMs  int64  `json:"total_time_ms"`
	Error        string `json:"error,omitempty"`
	Description  string `json:"description"`
}

func (ImportResponse) Message() string {
	return "import completed"
}

type SubmitResponse struct {
	ImportID string `json:"import_id"`
}

func (SubmitResponse) StatusCode() int {
	return http.StatusAccepted
}

func (SubmitResponse) Message() string {
	return "import accepted"
}

type StatusResponse struct {
	ImportID  string              `json:"import_id"`
	FileName  string              `json:"file_name"`
	Status    entity.ImportStatus `json:"status"`
	Error     string              `json:"error,omitempty"`
	StartedAt int64               `json:"started_at"`
	EndedAt   int64               `json:"ended_at"`
	Result    *ImportResponse     `json:"result,omitempty"`
}
