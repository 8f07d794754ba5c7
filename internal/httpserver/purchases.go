package httpserver

import (
	"log"
	"net/http"

	"game-market/internal/domain"
	purchasesvc "game-market/internal/service/purchase"
	"github.com/gin-gonic/gin"
)

type createPurchaseRequest struct {
	GameKey string `json:"gameKey" binding:"required"`
}

type applyActionsRequest struct {
	Actions []purchasesvc.Action `json:"actions" binding:"required"`
}

type purchaseListResponse struct {
	Count   int               `json:"count"`
	Results []domain.Purchase `json:"results"`
}

type purchaseHandlers struct {
	svc    PurchaseService
	logger *log.Logger
}

func (h *purchaseHandlers) list(c *gin.Context) {
	purchases, err := h.svc.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, "list purchases", err)
		return
	}
	if purchases == nil {
		purchases = []domain.Purchase{}
	}
	c.JSON(http.StatusOK, purchaseListResponse{Count: len(purchases), Results: purchases})
}

func (h *purchaseHandlers) create(c *gin.Context) {
	var req createPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "InvalidJsonInput", "gameKey is required")
		return
	}
	view, err := h.svc.Create(c.Request.Context(), currentUser(c).ID, req.GameKey)
	if err != nil {
		h.fail(c, "create purchase", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *purchaseHandlers) view(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		h.fail(c, "view purchase", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *purchaseHandlers) apply(c *gin.Context) {
	var req applyActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "InvalidJsonInput", "actions are required")
		return
	}
	view, err := h.svc.Apply(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Actions)
	if err != nil {
		h.fail(c, "apply actions", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *purchaseHandlers) submit(c *gin.Context) {
	p, err := h.svc.Submit(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		h.fail(c, "submit purchase", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *purchaseHandlers) fail(c *gin.Context, op string, err error) {
	respondError(c, h.logger, op, err)
}
