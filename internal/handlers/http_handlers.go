// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/logging"
	"github.com/roomscout/attendance-service/internal/middleware"
	"github.com/roomscout/attendance-service/internal/service"
	"github.com/roomscout/attendance-service/pkg/constants"
)

// HTTPHandler exposes the webhook intake, the calibration driver API, manual
// collection triggers, reports, and health endpoints.
type HTTPHandler struct {
	zoomWebhookService *service.ZoomWebhookService
	calibrationService *service.CalibrationService
	stateService       *service.MeetingStateService
	qosService         *service.QoSCollectionService
	reportService      *service.ReportService
	readiness          domain.WarehouseReadiness
	serviceVersion     string
}

// NewHTTPHandler creates a new HTTPHandler
func NewHTTPHandler(
	zoomWebhookService *service.ZoomWebhookService,
	calibrationService *service.CalibrationService,
	stateService *service.MeetingStateService,
	qosService *service.QoSCollectionService,
	reportService *service.ReportService,
	readiness domain.WarehouseReadiness,
	serviceVersion string,
) *HTTPHandler {
	return &HTTPHandler{
		zoomWebhookService: zoomWebhookService,
		calibrationService: calibrationService,
		stateService:       stateService,
		qosService:         qosService,
		reportService:      reportService,
		readiness:          readiness,
		serviceVersion:     serviceVersion,
	}
}

// Routes mounts all HTTP routes.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/", h.Health)
	r.Get("/health", h.Health)
	r.Get("/livez", h.Livez)
	r.Get("/readyz", h.Readyz)

	r.Get("/webhook", h.WebhookReady)
	r.With(middleware.WebhookBodyCaptureMiddleware).Post("/webhook", h.Webhook)

	r.Post("/calibration/start", h.CalibrationStart)
	r.Post("/calibration/mapping", h.CalibrationMapping)
	r.Post("/calibration/complete", h.CalibrationComplete)
	r.Get("/calibration/status", h.CalibrationStatus)
	r.Get("/mappings", h.Mappings)

	r.Post("/report/generate", h.ReportGenerate)
	r.Get("/report/preview/{date}", h.ReportPreview)

	r.Post("/qos/collect", h.QoSCollect)
	r.Post("/qos/scheduled", h.QoSScheduled)

	r.Get("/debug/state", h.DebugState)
	r.Post("/debug/reset", h.DebugReset)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps domain error types to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		status = http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		status = http.StatusNotFound
	case domain.ErrorTypeConflict:
		status = http.StatusConflict
	case domain.ErrorTypeUnavailable:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("invalid JSON body", err)
	}
	return nil
}

// Health reports the service summary with the tracked meeting state.
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":    "healthy",
		"service":   "roomscout-attendance-service",
		"version":   h.serviceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if snap, ok := h.stateService.Snapshot(false); ok {
		body["current_meeting"] = map[string]any{
			"meeting_id":   snap.MeetingID,
			"date":         snap.Date,
			"calibration":  snap.Calibration,
			"rooms_mapped": snap.MappingCount,
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// Livez is the liveness probe.
func (h *HTTPHandler) Livez(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readyz is the readiness probe; it checks the warehouse connection.
func (h *HTTPHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.readiness != nil {
		if err := h.readiness.IsReady(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "readiness check failed", logging.ErrKey, err)
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "warehouse not ready"})
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// WebhookReady answers webhook endpoint probes.
func (h *HTTPHandler) WebhookReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Webhook ready"})
}

type webhookBody struct {
	Event   string         `json:"event"`
	EventTS int64          `json:"event_ts"`
	Payload map[string]any `json:"payload"`
}

// Webhook is the Zoom webhook intake endpoint. Invalid signatures and
// malformed requests are rejected; everything past validation is always
// acknowledged so Zoom does not retry.
func (h *HTTPHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawBody, ok := middleware.WebhookBodyFromContext(ctx)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing request body"})
		return
	}

	var body webhookBody
	if err := json.Unmarshal(rawBody, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	resp, err := h.zoomWebhookService.ProcessWebhookEvent(ctx, service.WebhookRequest{
		Event:     body.Event,
		EventTS:   body.EventTS,
		Payload:   body.Payload,
		Signature: r.Header.Get(constants.ZoomSignatureHeader),
		Timestamp: r.Header.Get(constants.ZoomTimestampHeader),
		RawBody:   rawBody,
	})
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeValidation {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
			return
		}
		// Processing failures are logged but acknowledged; Zoom retrying
		// will not make them succeed.
		slog.ErrorContext(ctx, "webhook processing failed", logging.ErrKey, err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "error logged", "event": body.Event})
		return
	}

	if resp.PlainToken != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"plainToken":     *resp.PlainToken,
			"encryptedToken": *resp.EncryptedToken,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// CalibrationStart starts a calibration run.
func (h *HTTPHandler) CalibrationStart(w http.ResponseWriter, r *http.Request) {
	var req service.StartCalibrationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.calibrationService.Start(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CalibrationMapping absorbs the declared room walk from the driving client.
func (h *HTTPHandler) CalibrationMapping(w http.ResponseWriter, r *http.Request) {
	var req service.DeclareMappingsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.calibrationService.DeclareMappings(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CalibrationComplete finishes a calibration run.
func (h *HTTPHandler) CalibrationComplete(w http.ResponseWriter, r *http.Request) {
	req := service.CompleteCalibrationRequest{Success: true}
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	result, err := h.calibrationService.Complete(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CalibrationStatus reports the live calibration state.
func (h *HTTPHandler) CalibrationStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.calibrationService.Status(r.Context()))
}

// Mappings lists the current room-name bindings.
func (h *HTTPHandler) Mappings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.calibrationService.Mappings(r.Context()))
}

type reportGenerateBody struct {
	Date string `json:"date"`
}

// ReportGenerate compiles and emails the daily report.
func (h *HTTPHandler) ReportGenerate(w http.ResponseWriter, r *http.Request) {
	var body reportGenerateBody
	if r.ContentLength != 0 {
		if err := decodeBody(r, &body); err != nil {
			writeError(w, err)
			return
		}
	}

	result, report, err := h.reportService.Generate(r.Context(), body.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{"success": true, "date": result.Date, "rows": result.Rows, "emailed": result.Emailed}
	if !result.Emailed {
		resp["report"] = report
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReportPreview compiles the report for a date without emailing it.
func (h *HTTPHandler) ReportPreview(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	report, err := h.reportService.Compile(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type qosCollectBody struct {
	MeetingUUID string `json:"meeting_uuid"`
	MeetingID   string `json:"meeting_id"`
}

// QoSCollect manually collects trailing metrics for a meeting.
func (h *HTTPHandler) QoSCollect(w http.ResponseWriter, r *http.Request) {
	var body qosCollectBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.qosService.Collect(r.Context(), body.MeetingUUID, body.MeetingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type qosScheduledBody struct {
	Date string `json:"date"`
}

// QoSScheduled runs the scheduled collection sweep.
func (h *HTTPHandler) QoSScheduled(w http.ResponseWriter, r *http.Request) {
	var body qosScheduledBody
	if r.ContentLength != 0 {
		if err := decodeBody(r, &body); err != nil {
			writeError(w, err)
			return
		}
	}

	result, err := h.qosService.CollectScheduled(r.Context(), body.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DebugState dumps the full tracked state including the identifier map.
func (h *HTTPHandler) DebugState(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.stateService.Snapshot(true)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "no meeting tracked"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DebugReset drops the in-memory tracked state. Warehouse rows are untouched.
func (h *HTTPHandler) DebugReset(w http.ResponseWriter, r *http.Request) {
	h.stateService.Reset()
	slog.InfoContext(r.Context(), "tracked state reset via debug endpoint")
	writeJSON(w, http.StatusOK, map[string]string{"status": "state reset"})
}
