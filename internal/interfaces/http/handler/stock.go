package handler

import (
	"github.com/gin-gonic/gin"

	appwarehouse "github.com/jaworekmichal/ddd-wro-warehouse/internal/application/warehouse"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
)

// StockHandler exposes the product stock commands over HTTP
type StockHandler struct {
	BaseHandler
	stocks *appwarehouse.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stocks *appwarehouse.StockService) *StockHandler {
	return &StockHandler{stocks: stocks}
}

// RegisterPaletteRequest is the body for palette registration
type RegisterPaletteRequest struct {
	ID           string `json:"id" binding:"required,refno"`
	ScannedBoxes int    `json:"scanned_boxes" binding:"min=0"`
}

// PickPaletteRequest is the body for picking a palette
type PickPaletteRequest struct {
	Operator string `json:"operator" binding:"required"`
}

// StorePaletteRequest is the body for storing a palette
type StorePaletteRequest struct {
	Area string `json:"area" binding:"required"`
	Slot string `json:"slot"`
}

// LockPaletteRequest is the body for locking a palette
type LockPaletteRequest struct {
	Reason string `json:"reason"`
}

// DestroyPaletteRequest is the body for destroying a palette
type DestroyPaletteRequest struct {
	Reason string `json:"reason"`
}

// LocationResponse describes a palette location
type LocationResponse struct {
	Location warehouse.Location `json:"location"`
}

// RegisterRoutes registers the stock endpoints
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products/:refNo/palettes")
	products.POST("", h.RegisterPalette)
	products.POST("/:id/pick", h.PickPalette)
	products.POST("/:id/store", h.StorePalette)
	products.POST("/:id/lock", h.LockPalette)
	products.POST("/:id/unlock", h.UnlockPalette)
	products.POST("/:id/delivered", h.PaletteDelivered)
	products.POST("/:id/destroyed", h.PaletteDestroyed)
	products.GET("/:id/location", h.PaletteLocation)
}

// RegisterPalette handles POST /products/:refNo/palettes
func (h *StockHandler) RegisterPalette(c *gin.Context) {
	var req RegisterPaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := warehouse.RegisterNew{
		Label:        warehouse.NewPaletteLabel(c.Param("refNo"), req.ID),
		ScannedBoxes: req.ScannedBoxes,
	}
	if err := h.stocks.RegisterNew(c.Request.Context(), cmd); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, gin.H{"label": cmd.Label})
}

// PickPalette handles POST /products/:refNo/palettes/:id/pick
func (h *StockHandler) PickPalette(c *gin.Context) {
	var req PickPaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := warehouse.Pick{
		Label:    h.label(c),
		Operator: req.Operator,
	}
	if err := h.stocks.Pick(c.Request.Context(), cmd); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"label": cmd.Label})
}

// StorePalette handles POST /products/:refNo/palettes/:id/store
func (h *StockHandler) StorePalette(c *gin.Context) {
	var req StorePaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := warehouse.Store{
		Label:    h.label(c),
		Location: warehouse.Storage(req.Area, req.Slot),
	}
	if err := h.stocks.Store(c.Request.Context(), cmd); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"label": cmd.Label, "location": cmd.Location})
}

// LockPalette handles POST /products/:refNo/palettes/:id/lock
func (h *StockHandler) LockPalette(c *gin.Context) {
	var req LockPaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.stocks.Lock(c.Request.Context(), h.label(c), req.Reason); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"label": h.label(c)})
}

// UnlockPalette handles POST /products/:refNo/palettes/:id/unlock
func (h *StockHandler) UnlockPalette(c *gin.Context) {
	if err := h.stocks.Unlock(c.Request.Context(), h.label(c)); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"label": h.label(c)})
}

// PaletteDelivered handles POST /products/:refNo/palettes/:id/delivered
func (h *StockHandler) PaletteDelivered(c *gin.Context) {
	if err := h.stocks.Delivered(c.Request.Context(), h.label(c)); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"label": h.label(c)})
}

// PaletteDestroyed handles POST /products/:refNo/palettes/:id/destroyed
func (h *StockHandler) PaletteDestroyed(c *gin.Context) {
	var req DestroyPaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.stocks.Destroyed(c.Request.Context(), h.label(c), req.Reason); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"label": h.label(c)})
}

// PaletteLocation handles GET /products/:refNo/palettes/:id/location
func (h *StockHandler) PaletteLocation(c *gin.Context) {
	location, err := h.stocks.GetLocation(c.Request.Context(), h.label(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, LocationResponse{Location: location})
}

func (h *StockHandler) label(c *gin.Context) warehouse.PaletteLabel {
	return warehouse.NewPaletteLabel(c.Param("refNo"), c.Param("id"))
}
