package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/middleware"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/services"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/validation"
)

// FileField is the multipart field carrying the spreadsheet
const FileField = "file"

const (
	// Uploads above this size spill to temporary files
	multipartMemory = 8 << 20
	// Room for boundaries and the other form fields
	multipartOverhead = 1 << 20
)

// analysisParams are the form fields of POST /api/analysis
type analysisParams struct {
	HeaderRow int `form:"header_row" validate:"min=0,max=10000"`
}

// previewParams are the form fields of POST /api/analysis/preview
type previewParams struct {
	Rows int `form:"rows" validate:"min=0,max=500"`
}

// exportParams are the form fields of POST /api/analysis/export
type exportParams struct {
	HeaderRow int    `form:"header_row" validate:"min=0,max=10000"`
	Format    string `form:"format" validate:"required,oneof=xlsx csv"`
	View      string `form:"view" validate:"required_if=Format csv,omitempty,oneof=summary weekday_average monthly_seasonality trend promotion_effect"`
}

// upload is an accepted spreadsheet part of a multipart request
type upload struct {
	file     multipart.File
	filename string
	size     int64
	form     *multipart.Form
}

// Close releases the part and any temporary files of the form
func (u *upload) Close() {
	_ = u.file.Close()
	if u.form != nil {
		_ = u.form.RemoveAll()
	}
}

// AnalysisHandler serves the spreadsheet upload endpoints
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	files        *validation.FileValidator
	params       *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, files *validation.FileValidator, params *middleware.RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		files:        files,
		params:       params,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"))

	r.Post("/", h.Analyze)
	r.Post("/preview", h.Preview)
	r.Post("/export", h.Export)

	return r
}

// Analyze handles POST /api/analysis
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer up.Close()

	params := analysisParams{HeaderRow: h.service.DefaultHeaderRow()}
	if !h.formInt(w, r, "header_row", &params.HeaderRow) || !h.validate(w, r, params) {
		return
	}

	report, err := h.service.Analyze(r.Context(), up.file, up.filename, params.HeaderRow)
	if err != nil {
		h.errorHandler.HandleError(w, r, services.AsAPIError(err))
		return
	}

	render.JSON(w, r, report)
}

// Preview handles POST /api/analysis/preview
func (h *AnalysisHandler) Preview(w http.ResponseWriter, r *http.Request) {
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer up.Close()

	var params previewParams
	if !h.formInt(w, r, "rows", &params.Rows) || !h.validate(w, r, params) {
		return
	}

	preview, err := h.service.Preview(r.Context(), up.file, up.filename, params.Rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, services.AsAPIError(err))
		return
	}

	render.JSON(w, r, preview)
}

// Export handles POST /api/analysis/export. The body is the rendered file
// sent as an attachment.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer up.Close()

	params := exportParams{
		HeaderRow: h.service.DefaultHeaderRow(),
		Format:    strings.ToLower(strings.TrimSpace(r.FormValue("format"))),
		View:      strings.TrimSpace(r.FormValue("view")),
	}
	if !h.formInt(w, r, "header_row", &params.HeaderRow) || !h.validate(w, r, params) {
		return
	}

	result, err := h.service.Export(r.Context(), up.file, up.filename, params.HeaderRow, params.Format, params.View)
	if err != nil {
		h.errorHandler.HandleError(w, r, services.AsAPIError(err))
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	if result.Report != nil {
		w.Header().Set("X-Run-ID", result.Report.RunID)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write export",
			slog.String("filename", result.Filename),
			slog.String("error", err.Error()))
	}
}

// readUpload parses the multipart body and checks the spreadsheet part.
// It writes the error response itself and reports whether to continue.
// The caller closes the returned upload.
func (h *AnalysisHandler) readUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.files.MaxBytes()+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.HandleError(w, r, apierrors.PayloadTooLarge(h.files.MaxBytes()))
			return nil, false
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(FileField, "request must be a multipart form carrying a spreadsheet"))
		return nil, false
	}

	file, header, err := r.FormFile(FileField)
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(FileField, "a spreadsheet file is required"))
		return nil, false
	}

	up := &upload{file: file, filename: header.Filename, size: header.Size, form: r.MultipartForm}
	if err := h.files.ValidateUpload(header.Filename, header.Size); err != nil {
		up.Close()
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	h.logger.DebugContext(r.Context(), "Upload accepted",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	return up, true
}

// formInt reads an optional integer form field into dst
func (h *AnalysisHandler) formInt(w http.ResponseWriter, r *http.Request, field string, dst *int) bool {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(field, fmt.Sprintf("%s must be an integer", field)))
		return false
	}
	*dst = v
	return true
}

func (h *AnalysisHandler) validate(w http.ResponseWriter, r *http.Request, params interface{}) bool {
	if err := h.params.ValidateStruct(params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}
