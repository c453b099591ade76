package http

import (
	"errors"
	"log/slog"
	"net/http"

	"gold-catalog/internal/filter"
	"gold-catalog/internal/logger"
	"gold-catalog/internal/model"
	"gold-catalog/internal/service"

	"go.opentelemetry.io/otel"
)

// LoadFailedMessage is returned for every upstream or catalog failure.
const LoadFailedMessage = "Failed to load products."

type ProductHandler struct {
	service *service.ProductService
}

var HttpProductHandlerTracer = otel.Tracer("HttpProductHandler")

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// List serves GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.List")
	defer span.End()

	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	bounds, err := filter.Parse(r.URL.Query())
	if err != nil {
		var invalid *filter.InvalidBoundError
		if errors.As(err, &invalid) {
			logger.Warn(ctx, "Rejected bound parameter", slog.String("param", invalid.Param), slog.String("value", invalid.Value))
			writeError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid filter")
		return
	}

	products, err := h.service.List(ctx, bounds)
	if err != nil {
		logger.Error(ctx, "Error fetching products", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, LoadFailedMessage)
		return
	}
	if products == nil {
		products = []model.PricedProduct{}
	}

	writeJSON(w, http.StatusOK, products)
}
