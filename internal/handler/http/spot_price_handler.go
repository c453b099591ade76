package http

import (
	"log/slog"
	"net/http"

	"gold-catalog/internal/logger"
	"gold-catalog/internal/pricing"
	"gold-catalog/internal/service"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

type SpotPriceResponse struct {
	PricePerGram string `json:"pricePerGram"`
	Unit         string `json:"unit"`
}

// SpotPriceHandler reports the per-gram gold price used for pricing.
type SpotPriceHandler struct {
	service *service.ProductService
}

var SpotPriceHandlerTracer = otel.Tracer("SpotPriceHandler")

func NewSpotPriceHandler(service *service.ProductService) *SpotPriceHandler {
	return &SpotPriceHandler{service: service}
}

func (h *SpotPriceHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	ctx, span := SpotPriceHandlerTracer.Start(r.Context(), "SpotPriceHandler.Fetch")
	defer span.End()

	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	perGram, err := h.service.SpotPrice(ctx)
	if err != nil {
		logger.Error(ctx, "Error fetching gold price", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to fetch gold price.")
		return
	}

	writeJSON(w, http.StatusOK, SpotPriceResponse{
		PricePerGram: decimal.NewFromFloat(perGram).StringFixed(4),
		Unit:         string(pricing.Gram),
	})
}
