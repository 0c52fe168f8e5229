package inbound

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shandysiswandi/goorder/internal/orderimport/usecase"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Import(ctx context.Context, r *http.Request) (any, error) {
	upload, err := extractUpload(r)
	if err != nil {
		return nil, err
	}
	defer upload.cleanup()

	result, err := h.uc.Import(ctx, usecase.ImportInput{FileName: upload.name, Body: upload.body})
	if err != nil {
		return nil, err
	}

	return toImportResponse(result), nil
}

func (h *HTTPEndpoint) Submit(ctx context.Context, r *http.Request) (any, error) {
	upload, err := extractUpload(r)
	if err != nil {
		return nil, err
	}
	defer upload.cleanup()

	pr, pw := io.Pipe()
	result, err := h.uc.Submit(ctx, upload.name, pr)
	if err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, err
	}

	// a job that gave up early closes the reader and records why
	if err := streamToPipe(upload.body, pw); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return nil, pkgerror.NewServer(err)
	}

	return SubmitResponse{ImportID: result.ImportID}, nil
}

func (h *HTTPEndpoint) Status(ctx context.Context, r *http.Request) (any, error) {
	importID := pkgrouter.GetParam(ctx, "id")
	if importID == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("import id is required"))
	}

	result, err := h.uc.Status(ctx, importID)
	if err != nil {
		return nil, err
	}

	return toStatusResponse(result.Job), nil
}

func toImportResponse(res entity.ImportResult) ImportResponse {
	return ImportResponse{
		TotalCount:   res.TotalCount,
		SuccessCount: res.SuccessCount,
		FailCount:    res.FailCount,
		TotalBatches: res.TotalBatches,
		TotalTimeMs:  res.TotalTimeMs,
		Error:        res.Error,
		Description:  res.Description(),
	}
}

func toStatusResponse(job entity.ImportJob) StatusResponse {
	resp := StatusResponse{
		ImportID:  job.ID,
		FileName:  job.FileName,
		Status:    job.Status,
		Error:     job.Err,
		StartedAt: job.StartedAt,
		EndedAt:   job.EndedAt,
	}
	if job.Status == entity.ImportStatusDone || job.Status == entity.ImportStatusFailed {
		result := toImportResponse(job.Result)
		resp.Result = &result
	}
	return resp
}

type upload struct {
	name    string
	body    io.Reader
	cleanup func()
}

func extractUpload(r *http.Request) (upload, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && strings.EqualFold(mediaType, "multipart/form-data") {
			return extractMultipartFile(r)
		}
	}

	name := pkgrouter.GetQuery(r, "filename")
	if name == "" {
		return upload{}, pkgerror.NewBusiness("filename query parameter is required", pkgerror.CodeInvalidInput)
	}

	if r.Body == nil || r.Body == http.NoBody {
		return upload{}, pkgerror.NewBusiness("uploaded file is empty", pkgerror.CodeInvalidInput)
	}

	return upload{name: name, body: r.Body, cleanup: func() {}}, nil
}

func extractMultipartFile(r *http.Request) (upload, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return upload{}, pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return upload{}, pkgerror.NewBusiness("file part is required", pkgerror.CodeInvalidInput)
			}
			return upload{}, pkgerror.NewInvalidFormat()
		}

		if part.FormName() == "file" {
			return upload{
				name:    part.FileName(),
				body:    part,
				cleanup: func() { _ = part.Close() },
			}, nil
		}
		_ = part.Close()
	}
}

func streamToPipe(src io.Reader, dst *io.PipeWriter) error {
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.CloseWithError(err)
		return err
	}

	return nil
}
