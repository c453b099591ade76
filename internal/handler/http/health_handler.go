package http

import (
	"net/http"

	"gold-catalog/internal/logger"
	"gold-catalog/internal/service"

	"go.opentelemetry.io/otel"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string           `json:"status"`
	Data   HealthComponents `json:"data"`
}

type HealthComponents struct {
	Catalog string `json:"catalog"`
	MongoDB string `json:"mongodb"`
}

type HealthHandler struct {
	service *service.HealthService
}

var HttpHealthHandlerTracer = otel.Tracer("HttpHealthHandler")

func NewHealthHandler(service *service.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Check answers 200 when every component is up or disabled, 500 otherwise.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpHealthHandlerTracer.Start(r.Context(), "HttpHealthHandler.Check")
	defer span.End()

	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	status := h.service.Check(ctx)
	resp := HealthResponse{
		Status: service.StatusUp,
		Data:   HealthComponents{Catalog: status.Catalog, MongoDB: status.Mongo},
	}
	code := http.StatusOK
	if !status.Healthy() {
		resp.Status, code = service.StatusDown, http.StatusInternalServerError
		logger.Warn(ctx, "Health check failed")
	}
	writeJSON(w, code, resp)
}
