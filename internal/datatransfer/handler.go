package datatransfer

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/transport"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

// maxImportBytes bounds uploaded import files.
const maxImportBytes = 16 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ServiceAPI interface {
	Export(ctx context.Context, names []string) ([]byte, error)
	ExportWorkbook(ctx context.Context, names []string) ([]byte, error)
	Import(ctx context.Context, payload []byte) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

// Export handles GET /data/export?collections=a,b&format=json|xlsx
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	names := splitList(r.URL.Query().Get("collections"))

	if r.URL.Query().Get("format") == "xlsx" {
		book, err := h.Service.ExportWorkbook(r.Context(), names)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.attachment(w, xlsxContentType, "mvd-portal-export.xlsx", book)
		return
	}

	doc, err := h.Service.Export(r.Context(), names)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.attachment(w, "application/json", "mvd-portal-export.json", doc)
}

// Import handles POST /data/import with the export document as the body.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		h.HandleServiceError(w, internal.NewMalformedImportError("could not read import file", err))
		return
	}

	imported, err := h.Service.Import(r.Context(), payload)
	if err != nil {
		h.Logger.Warn("Import: rejected", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"imported": imported})
}

func (h *Handler) attachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.Logger.Error("failed to write export", "error", err)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
