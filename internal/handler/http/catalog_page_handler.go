package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"gold-catalog/internal/filter"
	"gold-catalog/internal/logger"
	"gold-catalog/internal/model"
	"gold-catalog/internal/service"
	"gold-catalog/internal/ui"

	"go.opentelemetry.io/otel"
)

// defaultPriceCeiling is the top of the price sliders when nothing is listed.
const defaultPriceCeiling = 1000

// CatalogPageHandler renders the product cards server side.
type CatalogPageHandler struct {
	service    *service.ProductService
	page       *ui.Page
	debounceMs int64
}

var CatalogPageHandlerTracer = otel.Tracer("CatalogPageHandler")

func NewCatalogPageHandler(service *service.ProductService, page *ui.Page, debounceMs int64) *CatalogPageHandler {
	return &CatalogPageHandler{service: service, page: page, debounceMs: debounceMs}
}

func (h *CatalogPageHandler) Render(w http.ResponseWriter, r *http.Request) {
	ctx, span := CatalogPageHandlerTracer.Start(r.Context(), "CatalogPageHandler.Render")
	defer span.End()

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET, OPTIONS")
		return
	}

	bounds, err := filter.Parse(r.URL.Query())
	if err != nil {
		var invalid *filter.InvalidBoundError
		if errors.As(err, &invalid) {
			http.Error(w, invalid.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "invalid filter", http.StatusBadRequest)
		return
	}

	// A failed load still renders the page, with no cards.
	products, err := h.service.List(ctx, bounds)
	if err != nil {
		logger.Error(ctx, "Error fetching products for page", slog.String("error", err.Error()))
		products = nil
	}

	var buf bytes.Buffer
	if err := h.page.Render(&buf, ui.PageData{
		Cards:      ui.Cards(products),
		Sliders:    ui.Sliders(bounds, priceCeiling(products)),
		DebounceMs: h.debounceMs,
	}); err != nil {
		logger.Error(ctx, "Failed to render catalog page", slog.String("error", err.Error()))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func priceCeiling(products []model.PricedProduct) float64 {
	ceiling := float64(defaultPriceCeiling)
	for _, p := range products {
		if v := p.Price.InexactFloat64(); v > ceiling {
			ceiling = v
		}
	}
	return ceiling
}
