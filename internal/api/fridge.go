package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

type FridgeHandler struct {
	fridge service.IFridgeService
}

func NewFridgeHandler(fridge service.IFridgeService) *FridgeHandler {
	return &FridgeHandler{fridge: fridge}
}

func (h *FridgeHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	fridge := rg.Group("/fridge", authMW)
	{
		fridge.GET("", h.List)
		fridge.PUT("", h.Put)
		fridge.DELETE("/:ingredientId", h.Remove)
	}
}

func (h *FridgeHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	items, err := h.fridge.List(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Put sets the stored amount of one ingredient.
func (h *FridgeHandler) Put(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.PutFridgeItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.fridge.Put(c.Request.Context(), userID, req.Ingredient, *req.Amount, req.Unit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *FridgeHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.fridge.Remove(c.Request.Context(), userID, c.Param("ingredientId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
