package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"studentlens/internal/charts"
	apierrors "studentlens/internal/errors"
	"studentlens/internal/middleware"
	"studentlens/internal/services"
	"studentlens/internal/session"
	"studentlens/internal/validation"
	api "studentlens/pkg/contracts/api/v1"
)

// SessionHeader carries the session id for clients that do not keep cookies.
const SessionHeader = "X-Session-ID"

const (
	uploadField      = "file"
	multipartMemory  = 8 << 20
	multipartOverrun = 1 << 20
	maxPreviewRows   = 10000
)

type sessionIDKey struct{}

// ExplorerHandlerConfig holds the HTTP-level settings of the explorer API
type ExplorerHandlerConfig struct {
	CookieName     string
	SecureCookies  bool
	SessionTTL     time.Duration
	MaxUploadBytes int64
}

// ExplorerHandler serves the explorer session API
type ExplorerHandler struct {
	service      ExplorerServiceInterface
	validator    *validation.RequestValidator
	query        *middleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	cfg          ExplorerHandlerConfig
	logger       *slog.Logger
}

// NewExplorerHandler creates a new explorer handler
func NewExplorerHandler(service ExplorerServiceInterface, cfg ExplorerHandlerConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExplorerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExplorerHandler{
		service:      service,
		validator:    validation.NewRequestValidator(logger),
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "explorer_handler")),
	}
}

// Routes returns the explorer routes, mounted under the API base path
func (h *ExplorerHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/sessions", h.CreateSession)

	r.Route("/session", func(r chi.Router) {
		r.Use(h.SessionCtx)

		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Put("/name", h.SetName)
		r.Post("/upload", h.Upload)
		r.Get("/table", h.GetTable)
		r.Post("/clean", h.Clean)
		r.Get("/cleaned", h.GetCleaned)
		r.Get("/columns", h.GetColumns)
		r.Get("/statistics", h.GetStatistics)
		r.Get("/age-bands", h.GetAgeBands)
		r.Get("/summary", h.GetSummary)
		r.Put("/charts/mode", h.SetChartMode)
		r.Get("/charts", h.GetCharts)
		r.Get("/charts/{kind}", h.GetChart)
		r.Get("/export/{format}", h.Export)
	})

	return r
}

// SessionCtx resolves the session id from the header or the session cookie
func (h *ExplorerHandler) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			if c, err := r.Cookie(h.cfg.CookieName); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			h.errorHandler.HandleError(w, r, apierrors.SessionNotFound(""))
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionIDKey{}).(string)
	return id
}

// CreateSession handles POST /api/sessions
func (h *ExplorerHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.CreateSession(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(sess.ID, int(h.cfg.SessionTTL/time.Second)))
	w.Header().Set(SessionHeader, sess.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toSessionResponse(sess))
}

// GetSession handles GET /api/session
func (h *ExplorerHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Session(r.Context(), sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, toSessionResponse(sess))
}

// DeleteSession handles DELETE /api/session
func (h *ExplorerHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSession(r.Context(), sessionID(r)); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

// SetName handles PUT /api/session/name
func (h *ExplorerHandler) SetName(w http.ResponseWriter, r *http.Request) {
	var req api.NameRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	status, err := h.service.SetName(r.Context(), sessionID(r), req.Name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.NameResponse{Name: req.Name, Status: status.String()})
}

// Upload handles POST /api/session/upload. A request without a file part is
// answered with accepted=false.
func (h *ExplorerHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+multipartOverrun)
	}

	err := r.ParseMultipartForm(multipartMemory)
	switch {
	case err == nil:
		defer r.MultipartForm.RemoveAll()
	case errors.Is(err, http.ErrNotMultipart):
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	result, err := h.uploadFile(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.UploadResponse{
		Accepted:          result.Accepted,
		Filename:          result.Filename,
		Rows:              result.Rows,
		Columns:           result.Columns,
		NormalizedMissing: result.Normalized,
	})
}

// uploadFile hands the multipart file part to the service; no part means
// nothing was selected.
func (h *ExplorerHandler) uploadFile(r *http.Request) (*services.UploadResult, error) {
	if r.MultipartForm == nil {
		return h.service.Upload(r.Context(), sessionID(r), nil, nil)
	}

	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return h.service.Upload(r.Context(), sessionID(r), nil, nil)
	}
	if err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}
	defer file.Close()

	if err := h.validator.ValidateStruct(api.UploadRequest{Filename: header.Filename, Size: header.Size}); err != nil {
		return nil, err
	}

	h.logger.DebugContext(r.Context(), "upload received",
		slog.String("file", header.Filename),
		slog.Int64("size", header.Size))
	return h.service.Upload(r.Context(), sessionID(r), &validation.Upload{Filename: header.Filename, Size: header.Size}, file)
}

// GetTable handles GET /api/session/table
func (h *ExplorerHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.query.ValidateInt(w, r, "limit", 0, maxPreviewRows, 0)
	if !ok {
		return
	}
	preview, err := h.service.Table(r.Context(), sessionID(r), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, preview)
}

// Clean handles POST /api/session/clean
func (h *ExplorerHandler) Clean(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Clean(r.Context(), sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.CleanResponse{CleanResult: *result})
}

// GetCleaned handles GET /api/session/cleaned
func (h *ExplorerHandler) GetCleaned(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.query.ValidateInt(w, r, "limit", 0, maxPreviewRows, 0)
	if !ok {
		return
	}
	preview, err := h.service.CleanedTable(r.Context(), sessionID(r), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, preview)
}

// GetColumns handles GET /api/session/columns
func (h *ExplorerHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
	columns, err := h.service.Columns(r.Context(), sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.ColumnsResponse{Columns: columns})
}

// GetStatistics handles GET /api/session/statistics?column=
func (h *ExplorerHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	q := api.StatisticsQuery{Column: r.URL.Query().Get("column")}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Statistics(r.Context(), sessionID(r), q.Column)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetAgeBands handles GET /api/session/age-bands
func (h *ExplorerHandler) GetAgeBands(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.AgeBands(r.Context(), sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetSummary handles GET /api/session/summary
func (h *ExplorerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// SetChartMode handles PUT /api/session/charts/mode
func (h *ExplorerHandler) SetChartMode(w http.ResponseWriter, r *http.Request) {
	var req api.ChartModeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	mode, err := h.service.SetChartMode(r.Context(), sessionID(r), *req.Detailed)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, toChartModeResponse(mode.Detailed, mode.Kinds))
}

// GetCharts handles GET /api/session/charts
func (h *ExplorerHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	mode, err := h.service.Charts(r.Context(), sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, toChartModeResponse(mode.Detailed, mode.Kinds))
}

// GetChart handles GET /api/session/charts/{kind}
func (h *ExplorerHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	params := api.ChartParams{
		Kind:   chi.URLParam(r, "kind"),
		Column: r.URL.Query().Get("column"),
	}
	if err := h.validator.ValidateStruct(params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	png, err := h.service.RenderChart(r.Context(), sessionID(r), charts.Kind(params.Kind), params.Column)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", charts.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write chart",
			slog.String("chart", params.Kind),
			slog.String("error", err.Error()))
	}
}

// Export handles GET /api/session/export/{format}
func (h *ExplorerHandler) Export(w http.ResponseWriter, r *http.Request) {
	params := api.ExportParams{Format: chi.URLParam(r, "format")}
	if err := h.validator.ValidateStruct(params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	file, err := h.service.Export(r.Context(), sessionID(r), params.Format, r.URL.Query().Get("column"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("file", file.Filename),
			slog.String("error", err.Error()))
	}
}

func (h *ExplorerHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func toSessionResponse(s *session.Session) api.SessionResponse {
	resp := api.SessionResponse{
		ID:             s.ID,
		Name:           s.Name,
		NameStatus:     s.NameStatus.String(),
		Filename:       s.Filename,
		Cleaned:        s.Cleaned,
		DetailedCharts: s.DetailedCharts,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.Table != nil {
		resp.Rows = s.Table.Len()
	}
	if t := s.CleanedTable(); t != nil {
		resp.CleanedRows = t.Len()
	}
	return resp
}

func toChartModeResponse(detailed bool, kinds []charts.Kind) api.ChartModeResponse {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return api.ChartModeResponse{Detailed: detailed, Charts: names}
}
