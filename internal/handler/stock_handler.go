package handler

import (
	"net/http"

	"floraops/internal/middleware"
	"floraops/internal/service"
	"floraops/pkg/response"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockService service.StockService
}

func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	stock := router.Group("/api/stock")
	{
		stock.GET("", middleware.RequireRole("admin", "manager", "staff"), h.GetStock)
		stock.GET("/entries", middleware.RequireRole("admin", "manager", "staff"), h.ListEntries)
		stock.POST("/sell", middleware.RequireRole("admin", "manager"), h.SellStock)
	}
}

// GetStock returns available stock totals
// @Summary      Get available stock
// @Description  Returns the summed ledger quantity for one product, or per-product totals for all
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        product  query     string  false  "Product name"
// @Success      200      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/stock [get]
func (h *StockHandler) GetStock(c *gin.Context) {
	product := c.Query("product")

	if product != "" {
		availability, err := h.stockService.GetAvailability(c.Request.Context(), product)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, availability))
		return
	}

	totals, err := h.stockService.GetAllAvailability(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, totals))
}

// ListEntries returns raw ledger entries in FIFO order
// @Summary      List stock entries
// @Description  Returns ledger entries oldest first, optionally filtered by product
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        product  query     string  false  "Product name"
// @Success      200      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/stock/entries [get]
func (h *StockHandler) ListEntries(c *gin.Context) {
	entries, err := h.stockService.ListEntries(c.Request.Context(), c.Query("product"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// SellStock sells ledger stock directly to a buyer
// @Summary      Sell stock
// @Description  Depletes the ledger FIFO for the referenced product; fails hard on insufficient total stock
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SellStockRequest  true  "Sell Stock Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/stock/sell [post]
func (h *StockHandler) SellStock(c *gin.Context) {
	var req service.SellStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sale, err := h.stockService.SellStock(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}
