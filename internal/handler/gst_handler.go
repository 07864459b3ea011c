package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gstrate/internal/csvexport"
	"gstrate/internal/domain"
	"gstrate/internal/service"
)

// GSTHandler handles GST rate and order tax endpoints.
type GSTHandler struct {
	resolver   service.RateResolver
	aggregator service.TaxAggregator
}

// NewGSTHandler creates a new GSTHandler.
func NewGSTHandler(resolver service.RateResolver, aggregator service.TaxAggregator) *GSTHandler {
	return &GSTHandler{resolver: resolver, aggregator: aggregator}
}

// BreakdownRequest is the body of POST /api/v1/gst/breakdown.
type BreakdownRequest struct {
	Lines []domain.OrderLine `json:"lines"`

	// Reference names the exported CSV file. Ignored by the JSON endpoint.
	Reference string `json:"reference"`
}

// PriceRequest is the body of POST /api/v1/gst/price.
type PriceRequest struct {
	Lines      []domain.OrderLine `json:"lines"`
	SupplyType domain.SupplyType  `json:"supply_type"`
}

// CategoryValidationResponse lists category mappings whose HSN code is
// missing from the rate table.
type CategoryValidationResponse struct {
	Valid      bool                     `json:"valid"`
	Mismatches []CategoryMismatchResult `json:"mismatches"`
}

// CategoryMismatchResult is one unmatched category mapping.
type CategoryMismatchResult struct {
	Category string `json:"category"`
	HSNCode  string `json:"hsn_code"`
}

// GetRate handles GET /api/v1/gst/rates/:code
// @Summary Resolve a GST rate
// @Description Resolve the GST rate for an HSN code (4-8 digits) or a product category name
// @Tags gst
// @Produce json
// @Param code path string true "HSN code or category"
// @Success 200 {object} APIResponse{data=domain.HSNRateEntry}
// @Failure 400 {object} APIResponse "Malformed HSN code or category"
// @Router /gst/rates/{code} [get]
func (h *GSTHandler) GetRate(c *gin.Context) {
	entry, err := h.resolver.ResolveCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, entry)
}

// Breakdown handles POST /api/v1/gst/breakdown
// @Summary Compute a GST breakdown
// @Description Group order lines by GST rate; amounts are rounded to paise
// @Tags gst
// @Accept json
// @Produce json
// @Param request body BreakdownRequest true "Order lines"
// @Success 200 {object} APIResponse{data=domain.TaxBreakdownView}
// @Failure 400 {object} APIResponse "Invalid order line"
// @Router /gst/breakdown [post]
func (h *GSTHandler) Breakdown(c *gin.Context) {
	var req BreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object with a lines array")
		return
	}

	view, err := h.aggregator.GetGSTBreakdown(c.Request.Context(), req.Lines)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// ExportBreakdownCSV handles POST /api/v1/gst/breakdown/csv
// @Summary Export a GST breakdown as CSV
// @Description Same grouping as /gst/breakdown, written as a CSV attachment with a UTF-8 BOM
// @Tags gst
// @Accept json
// @Produce text/csv
// @Param request body BreakdownRequest true "Order lines and optional file reference"
// @Success 200 {file} file
// @Failure 400 {object} APIResponse "Invalid order line"
// @Router /gst/breakdown/csv [post]
func (h *GSTHandler) ExportBreakdownCSV(c *gin.Context) {
	var req BreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object with a lines array")
		return
	}

	view, err := h.aggregator.GetGSTBreakdown(c.Request.Context(), req.Lines)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(req.Reference, time.Now())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		log.Printf("handler.GSTHandler: writing csv bom: %v", err)
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		log.Printf("handler.GSTHandler: writing csv header: %v", err)
		return
	}
	if err := w.WriteBreakdown(*view); err != nil {
		log.Printf("handler.GSTHandler: writing csv rows: %v", err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("handler.GSTHandler: flushing csv: %v", err)
	}
}

// Price handles POST /api/v1/gst/price
// @Summary Price an order
// @Description Compute subtotal, GST and total for order lines, split into CGST/SGST or IGST
// @Tags gst
// @Accept json
// @Produce json
// @Param request body PriceRequest true "Order lines and supply type"
// @Success 200 {object} APIResponse{data=domain.OrderPricingView}
// @Failure 400 {object} APIResponse "Invalid order line or supply type"
// @Router /gst/price [post]
func (h *GSTHandler) Price(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object with a lines array")
		return
	}

	pricing, err := h.aggregator.PriceOrder(c.Request.Context(), req.Lines, req.SupplyType)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, pricing.Display())
}

// ValidateCategories handles GET /api/v1/gst/categories/validation
func (h *GSTHandler) ValidateCategories(c *gin.Context) {
	mismatches := h.resolver.CategoryMismatches()
	resp := CategoryValidationResponse{
		Valid:      len(mismatches) == 0,
		Mismatches: make([]CategoryMismatchResult, 0, len(mismatches)),
	}
	for _, m := range mismatches {
		resp.Mismatches = append(resp.Mismatches, CategoryMismatchResult{Category: m.Category, HSNCode: m.HSNCode})
	}
	RespondOK(c, resp)
}

// CacheStats handles GET /api/v1/admin/gst/cache
func (h *GSTHandler) CacheStats(c *gin.Context) {
	stats, err := h.resolver.CacheStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}

// ClearCache handles DELETE /api/v1/admin/gst/cache
func (h *GSTHandler) ClearCache(c *gin.Context) {
	if err := h.resolver.ClearCache(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "rate cache cleared"})
}
