package handler

import (
	"github.com/gin-gonic/gin"

	apppicklist "github.com/jaworekmichal/ddd-wro-warehouse/internal/application/picklist"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/picklist"
)

// PickListHandler exposes pick-list building over HTTP
type PickListHandler struct {
	BaseHandler
	fifo *apppicklist.FifoService
}

// NewPickListHandler creates a new PickListHandler
func NewPickListHandler(fifo *apppicklist.FifoService) *PickListHandler {
	return &PickListHandler{fifo: fifo}
}

// BuildPickListRequest is the body for building a pick list
type BuildPickListRequest struct {
	Items []PickListItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PickListItemRequest requests an amount of one product
type PickListItemRequest struct {
	RefNo  string `json:"ref_no" binding:"required,refno"`
	Amount int    `json:"amount" binding:"required,gt=0"`
}

// RegisterRoutes registers the pick-list endpoints
func (h *PickListHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/picklists", h.BuildPickList)
}

// BuildPickList handles POST /picklists. Under-fulfillment is not an
// error; callers compare the returned items against what they asked
// for.
func (h *PickListHandler) BuildPickList(c *gin.Context) {
	var req BuildPickListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order := picklist.Order{Items: make([]picklist.OrderItem, 0, len(req.Items))}
	for _, item := range req.Items {
		order.Items = append(order.Items, picklist.OrderItem{RefNo: item.RefNo, Amount: item.Amount})
	}

	h.Success(c, h.fifo.PickList(order))
}
