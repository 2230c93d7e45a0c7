package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/football-dashboard/internal/domain/report"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

const maxExportBody = 64 << 10

func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportReport")
	defer span.End()

	kind, err := report.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxExportBody))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read body: %w", usecase.ErrInvalidInput, err))
		return
	}
	var req exportReportRequest
	if len(bytes.TrimSpace(body)) > 0 {
		decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(body))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
			return
		}
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.reportService.Export(ctx, kind, req.CompetitionID, req.Team, req.League)
	if err != nil {
		h.logger.WarnContext(ctx, "export report failed", "kind", kind, "competition_id", req.CompetitionID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !result.OK {
		writeSuccess(ctx, w, http.StatusUnprocessableEntity, exportFailureDTO{
			OK:      false,
			Kind:    string(result.Kind),
			Notices: noticesOrEmpty(result.Notices),
		})
		return
	}

	if err := ServeReport(w, r, result); err != nil {
		h.logger.ErrorContext(ctx, "serve report failed", "kind", kind, "path", result.Path, "error", err)
		writeInternalError(ctx, w)
	}
}

// ServeReport streams a successful export as a PDF attachment. Nothing is
// written when the file cannot be opened.
func ServeReport(w http.ResponseWriter, r *http.Request, result usecase.ExportResult) error {
	_, span := startSpan(r.Context(), "httpapi.ServeReport",
		attribute.String("report.kind", string(result.Kind)),
		attribute.String("report.file", result.DownloadName),
	)
	defer span.End()

	f, err := os.Open(result.Path)
	if err != nil {
		return crerr.Wrapf(err, "open report %s", result.Path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return crerr.Wrapf(err, "stat report %s", result.Path)
	}
	span.SetAttributes(attribute.Int64("report.bytes", info.Size()))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": result.DownloadName,
	}))
	http.ServeContent(w, r, result.DownloadName, info.ModTime(), f)
	return nil
}
