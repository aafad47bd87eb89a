package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

// Quota limits how often a user may ask for a generated recipe.
type Quota interface {
	RateLimitMiddleware() gin.HandlerFunc
	GetRemainingRequests(ctx context.Context, userID string) (int, time.Time, error)
	Limit() int
}

type AIHandler struct {
	ai      service.IAIService
	recipes service.IRecipeService
	auth    service.IAuthService
	quota   Quota
}

func NewAIHandler(ai service.IAIService, recipes service.IRecipeService, auth service.IAuthService, quota Quota) *AIHandler {
	return &AIHandler{
		ai:      ai,
		recipes: recipes,
		auth:    auth,
		quota:   quota,
	}
}

func (h *AIHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	ai := rg.Group("/ai", authMW)
	{
		ai.POST("/recipes", h.quota.RateLimitMiddleware(), h.Generate)
		ai.GET("/quota", h.GetQuota)
		ai.GET("/drafts/:id", h.GetDraft)
		ai.DELETE("/drafts/:id", h.DiscardDraft)
		ai.POST("/drafts/:id/finalize", h.FinalizeDraft)
	}
}

// Generate asks the model for a recipe avoiding the caller's allergens and
// stores the result as a draft.
func (h *AIHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.GenerateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.GetUser(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	draft, err := h.ai.Generate(ctx, user, req.Query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

func (h *AIHandler) GetQuota(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	remaining, reset, err := h.quota.GetRemainingRequests(c.Request.Context(), userID.String())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"limit":     h.quota.Limit(),
		"remaining": remaining,
		"reset_at":  reset.UTC(),
	})
}

func (h *AIHandler) GetDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	draft, err := h.ai.GetDraft(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *AIHandler) DiscardDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.ai.DiscardDraft(c.Request.Context(), userID, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FinalizeDraft saves a draft as a recipe and removes the draft.
func (h *AIHandler) FinalizeDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.FinalizeDraft(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}
